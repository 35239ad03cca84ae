package validate

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/agentspec-labs/agentspec/internal/catalog"
	"github.com/agentspec-labs/agentspec/internal/manifest"
)

// rule is one independent semantic predicate. Rules never suppress each
// other: every rule runs on every manifest and reports all its violations.
type rule func(*manifest.Manifest) []catalog.Entry

var rules = []rule{
	ruleIdentity,
	ruleCapabilities,
	ruleProtocols,
	rulePerformance,
	ruleBudget,
	ruleFeatures,
	ruleAccessControl,
	ruleExtensions,
}

// checkSemantic applies every cross-field business rule and collects the
// resulting catalog entries in rule order.
func checkSemantic(m *manifest.Manifest) []catalog.Entry {
	var out []catalog.Entry
	for _, r := range rules {
		out = append(out, r(m)...)
	}
	return out
}

func ruleIdentity(m *manifest.Manifest) []catalog.Entry {
	var out []catalog.Entry
	if m.Metadata.Version != "" {
		if _, err := parseSemver(m.Metadata.Version); err != nil {
			out = append(out, catalog.At("AGM1101", "/metadata/version", m.Metadata.Version))
		}
	}
	if m.Metadata.Description == "" {
		out = append(out, catalog.At("AGM1103", "/metadata/description", ""))
	}
	return out
}

func ruleCapabilities(m *manifest.Manifest) []catalog.Entry {
	var out []catalog.Entry
	seen := make(map[string]bool)
	for i, c := range m.Spec.Capabilities {
		path := fmt.Sprintf("/spec/capabilities/%d", i)
		if c.Name != "" && seen[c.Name] {
			out = append(out, catalog.At("AGM1201", path, c.Name))
		}
		seen[c.Name] = true

		if c.Version != "" {
			if _, err := parseSemver(c.Version); err != nil {
				out = append(out, catalog.At("AGM1202", path, c.Version))
			}
		}
		if c.Deprecated {
			out = append(out, catalog.At("AGM1203", path, c.Name))
		}
	}
	return out
}

// supportedProtocols maps each transport kind to the endpoint scheme
// required when TLS is declared. Stdio carries no endpoint and no TLS.
var supportedProtocols = map[string]string{
	manifest.ProtocolHTTP:      "https://",
	manifest.ProtocolGRPC:      "grpcs://",
	manifest.ProtocolWebSocket: "wss://",
	manifest.ProtocolStdio:     "",
}

func ruleProtocols(m *manifest.Manifest) []catalog.Entry {
	var out []catalog.Entry
	for i, p := range m.Spec.Protocols {
		path := fmt.Sprintf("/spec/protocols/%d", i)

		secureScheme, supported := supportedProtocols[p.Kind]
		if !supported {
			out = append(out, catalog.At("AGM1210", path, p.Kind))
			continue
		}

		if p.Kind == manifest.ProtocolStdio {
			if p.TLS {
				out = append(out, catalog.At("AGM1211", path, "stdio transport cannot carry TLS"))
			}
			continue
		}

		if p.Endpoint == "" {
			out = append(out, catalog.At("AGM1212", path, p.Kind))
			continue
		}
		if p.TLS && !strings.HasPrefix(p.Endpoint, secureScheme) {
			out = append(out, catalog.At("AGM1211", path, p.Endpoint))
		}
	}
	return out
}

func rulePerformance(m *manifest.Manifest) []catalog.Entry {
	p := m.Spec.Performance
	if p == nil {
		return nil
	}

	var out []catalog.Entry
	targets := []struct {
		name  string
		value *float64
	}{
		{"p50Millis", p.P50Millis},
		{"p95Millis", p.P95Millis},
		{"p99Millis", p.P99Millis},
		{"throughputRps", p.ThroughputRPS},
	}
	for _, t := range targets {
		if t.value != nil && *t.value <= 0 {
			out = append(out, catalog.At("AGM1301", "/spec/performance/"+t.name, fmt.Sprintf("%v", *t.value)))
		}
	}

	if p.P50Millis != nil && p.P95Millis != nil && p.P99Millis != nil {
		if *p.P50Millis > *p.P95Millis || *p.P95Millis > *p.P99Millis {
			out = append(out, catalog.At("AGM1302", "/spec/performance", ""))
		}
	}

	if !hasFeature(m, manifest.FeatureAuditLogging) {
		out = append(out, catalog.At("AGM1303", "/spec/performance", ""))
	}
	return out
}

func ruleBudget(m *manifest.Manifest) []catalog.Entry {
	b := m.Spec.Budget
	if b == nil {
		return nil
	}

	var out []catalog.Entry
	if b.CeilingUSD == nil {
		if b.FloorUSD != nil || b.DefaultUSD != nil {
			out = append(out, catalog.At("AGM1403", "/spec/budget", ""))
		}
		return out
	}
	if b.FloorUSD != nil && *b.FloorUSD > *b.CeilingUSD {
		out = append(out, catalog.At("AGM1401", "/spec/budget/floorUsd", fmt.Sprintf("%v > %v", *b.FloorUSD, *b.CeilingUSD)))
	}
	if b.DefaultUSD != nil && *b.DefaultUSD > *b.CeilingUSD {
		out = append(out, catalog.At("AGM1402", "/spec/budget/defaultUsd", fmt.Sprintf("%v > %v", *b.DefaultUSD, *b.CeilingUSD)))
	}
	return out
}

// knownFeatures is the published optional feature set.
var knownFeatures = map[string]bool{
	manifest.FeatureAuditLogging:   true,
	manifest.FeatureBudgetTracking: true,
	manifest.FeatureFeedbackLoop:   true,
	manifest.FeatureDelegation:     true,
}

func ruleFeatures(m *manifest.Manifest) []catalog.Entry {
	var out []catalog.Entry
	seen := make(map[string]bool)
	for i, f := range m.Spec.Features {
		path := fmt.Sprintf("/spec/features/%d", i)
		if !knownFeatures[f] {
			out = append(out, catalog.At("AGM1501", path, f))
		}
		if seen[f] {
			out = append(out, catalog.At("AGM1503", path, f))
		}
		seen[f] = true
	}
	return out
}

// supportedAuthKinds is the closed set of access-control auth kinds.
var supportedAuthKinds = map[string]bool{
	"none":   true,
	"apiKey": true,
	"oauth2": true,
}

func ruleAccessControl(m *manifest.Manifest) []catalog.Entry {
	ac := m.Spec.AccessControl
	if ac == nil {
		return nil
	}

	var out []catalog.Entry
	if !supportedAuthKinds[ac.AuthKind] {
		out = append(out, catalog.At("AGM1602", "/spec/accessControl/authKind", ac.AuthKind))
	}
	if ac.AuthKind != "none" && len(ac.Roles) == 0 {
		out = append(out, catalog.At("AGM1601", "/spec/accessControl/roles", ""))
	}
	return out
}

func ruleExtensions(m *manifest.Manifest) []catalog.Entry {
	ext := m.Extensions
	if ext == nil {
		return nil
	}

	var out []catalog.Entry
	if len(ext.Experimental) > 0 {
		out = append(out, catalog.At("AGM1701", "/extensions/experimental", ""))
	}

	core := make(map[string]bool, len(m.Spec.Capabilities))
	for _, c := range m.Spec.Capabilities {
		core[c.Name] = true
	}
	for i, c := range ext.Capabilities {
		path := fmt.Sprintf("/extensions/capabilities/%d", i)
		if core[c.Name] {
			out = append(out, catalog.At("AGM1702", path, c.Name))
		}
		if c.Version != "" {
			if _, err := parseSemver(c.Version); err != nil {
				out = append(out, catalog.At("AGM1202", path, c.Version))
			}
		}
	}
	return out
}

func hasFeature(m *manifest.Manifest, feature string) bool {
	for _, f := range m.Spec.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}
