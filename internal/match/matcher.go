package match

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/agentspec-labs/agentspec/internal/manifest"
)

// DefaultWarningPenalty is subtracted from the score once per scoring
// warning, e.g. a requirement satisfied only through a fallback
// declaration.
const DefaultWarningPenalty = 0.05

// Requirement names a capability a task needs, optionally with a minimum
// semantic version.
type Requirement struct {
	Name       string `yaml:"name" json:"name"`
	MinVersion string `yaml:"minVersion,omitempty" json:"minVersion,omitempty"`
}

// Result is the outcome of matching one manifest against one requirement
// list. Missing and Warnings follow the order of the requirement list.
type Result struct {
	Compatible bool     `json:"compatible"`
	Score      float64  `json:"score"`
	Missing    []string `json:"missing"`
	Warnings   []string `json:"warnings"`
}

// Options configures scoring.
type Options struct {
	// WarningPenalty is subtracted from the score per scoring warning.
	// Zero means DefaultWarningPenalty; use a negative value to disable.
	WarningPenalty float64
}

func (o Options) penalty() float64 {
	switch {
	case o.WarningPenalty < 0:
		return 0
	case o.WarningPenalty == 0:
		return DefaultWarningPenalty
	default:
		return o.WarningPenalty
	}
}

// Match scores the manifest against the requirements with default options.
func Match(required []Requirement, m *manifest.Manifest) Result {
	return MatchWith(required, m, Options{})
}

// MatchWith scores the manifest against the requirements. It never fails:
// an empty requirement list is fully compatible with any manifest, and a
// nil or malformed manifest simply matches nothing.
func MatchWith(required []Requirement, m *manifest.Manifest, opts Options) Result {
	res := Result{
		Missing:  []string{},
		Warnings: []string{},
	}
	if len(required) == 0 {
		res.Compatible = true
		res.Score = 1.0
		return res
	}

	satisfied := 0
	for _, req := range required {
		decl, fallback := findDeclaration(m, req.Name)
		if decl == nil {
			res.Missing = append(res.Missing, req.Name)
			continue
		}
		if !meetsMinVersion(decl, req, &res) {
			res.Missing = append(res.Missing, req.Name)
			continue
		}

		satisfied++
		if fallback {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("capability %q satisfied only by an extensions declaration", req.Name))
		}
		if decl.Deprecated {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("capability %q satisfied by a deprecated declaration", req.Name))
		}
	}

	score := float64(satisfied) / float64(len(required))
	score -= opts.penalty() * float64(len(res.Warnings))
	if score < 0 {
		score = 0
	}
	res.Score = score
	res.Compatible = len(res.Missing) == 0
	return res
}

// findDeclaration searches the manifest's capability declarations by name.
// Core declarations under spec win; extensions declarations are fallback
// matches. The first declaration with a matching name is used, so repeated
// calls are deterministic.
func findDeclaration(m *manifest.Manifest, name string) (decl *manifest.CapabilityDeclaration, fallback bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Spec.Capabilities {
		if m.Spec.Capabilities[i].Name == name {
			return &m.Spec.Capabilities[i], false
		}
	}
	if m.Extensions != nil {
		for i := range m.Extensions.Capabilities {
			if m.Extensions.Capabilities[i].Name == name {
				return &m.Extensions.Capabilities[i], true
			}
		}
	}
	return nil, false
}

// meetsMinVersion compares the declaration's version against the
// requirement's minimum. A malformed minimum or declared version is a
// non-match, never a failure.
func meetsMinVersion(decl *manifest.CapabilityDeclaration, req Requirement, res *Result) bool {
	if req.MinVersion == "" {
		return true
	}

	minVer, err := parseSemver(req.MinVersion)
	if err != nil {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("requirement %q has invalid minVersion %q", req.Name, req.MinVersion))
		return false
	}
	have, err := parseSemver(decl.Version)
	if err != nil {
		return false
	}
	return !have.LessThan(minVer)
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}
