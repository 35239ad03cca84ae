package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/agentspec-labs/agentspec/internal/branding"
)

// Severity classifies how an entry affects validity. Only "error" blocks;
// warnings signal risk and info entries are advisory.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Example pairs an invalid fragment with its corrected form.
type Example struct {
	Invalid string `json:"invalid"`
	Valid   string `json:"valid"`
}

// Entry is one row of the error catalog.
type Entry struct {
	Code        string    `json:"code"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	Remediation string    `json:"remediation"`
	DocsURL     string    `json:"docsUrl"`
	Tags        []string  `json:"tags"`
	Examples    []Example `json:"examples,omitempty"`
}

// CodePattern is the shape every catalog code must match.
var CodePattern = regexp.MustCompile(`^AGM\d{4}$`)

// band is a reserved numeric range for one concern. Every code's numeric
// part must fall inside the band it is declared under.
type band struct {
	name string
	lo   int
	hi   int
}

// Bands partition the code space by concern. Append-only.
var bands = []band{
	{"structural", 1000, 1099},
	{"identity", 1100, 1199},
	{"capability", 1200, 1299},
	{"lifecycle", 1300, 1399},
	{"budget", 1400, 1499},
	{"taxonomy", 1500, 1599},
	{"access-control", 1600, 1699},
	{"experimental", 1700, 1799},
	{"naming", 1800, 1899},
	{"registry", 1900, 1999},
}

// docsURL builds the documentation reference for a code.
func docsURL(code string) string {
	return branding.DocsURL() + "/errors/" + code
}

// entry is a declaration-site helper that fills in the DocsURL.
func entry(code string, sev Severity, msg, remedy string, tags ...string) Entry {
	return Entry{
		Code:        code,
		Severity:    sev,
		Message:     msg,
		Remediation: remedy,
		DocsURL:     docsURL(code),
		Tags:        tags,
	}
}

// byBand declares every catalog entry grouped under its concern band.
// Append-only: codes are never renumbered or removed.
var byBand = map[string][]Entry{
	"structural": {
		entry("AGM1001", SeverityError,
			"required field is missing",
			"Add the missing field; required fields are listed in the schema for your apiVersion.",
			"structural", "schema"),
		entry("AGM1002", SeverityError,
			"unsupported schema version",
			"Set apiVersion to a published spec version or a documented alias such as \"latest\".",
			"structural", "version"),
		entry("AGM1003", SeverityError,
			"field has the wrong type",
			"Change the field value to the type the schema declares.",
			"structural", "schema"),
		entry("AGM1004", SeverityError,
			"value is not one of the allowed values",
			"Use one of the enumerated values listed in the schema.",
			"structural", "schema"),
		entry("AGM1005", SeverityError,
			"value fails a format or pattern constraint",
			"Rewrite the value to match the declared format or pattern.",
			"structural", "schema"),
		entry("AGM1006", SeverityError,
			"document matches no permitted shape",
			"Restructure the block so it satisfies exactly one of the schema's composition branches.",
			"structural", "composition"),
		entry("AGM1007", SeverityError,
			"schema reference could not be resolved",
			"Check inputSchemaRef/outputSchemaRef values against the schema's internal definitions.",
			"structural", "reference"),
		entry("AGM1008", SeverityWarning,
			"unknown field is ignored",
			"Remove the field or move it under extensions.",
			"structural", "schema"),
		entry("AGM1009", SeverityError,
			"numeric value is out of range",
			"Bring the value inside the bounds the schema declares.",
			"structural", "schema"),
	},
	"identity": {
		entry("AGM1101", SeverityError,
			"metadata.version is not a semantic version",
			"Use a MAJOR.MINOR.PATCH version such as 1.4.0.",
			"identity", "semver"),
		entry("AGM1103", SeverityWarning,
			"metadata.description is empty",
			"Add a short human-readable description of the agent.",
			"identity"),
	},
	"capability": {
		{
			Code:        "AGM1201",
			Severity:    SeverityError,
			Message:     "capability name is declared more than once",
			Remediation: "Keep a single declaration per capability name; bump its version instead of duplicating it.",
			DocsURL:     docsURL("AGM1201"),
			Tags:        []string{"capability"},
			Examples: []Example{{
				Invalid: "capabilities: [{name: summarize, version: 1.0.0}, {name: summarize, version: 1.1.0}]",
				Valid:   "capabilities: [{name: summarize, version: 1.1.0}]",
			}},
		},
		entry("AGM1202", SeverityError,
			"capability version is not a semantic version",
			"Give every capability a MAJOR.MINOR.PATCH version.",
			"capability", "semver"),
		entry("AGM1203", SeverityWarning,
			"capability is marked deprecated",
			"Plan a replacement capability and remove the deprecated declaration in a future release.",
			"capability", "deprecation"),
		entry("AGM1210", SeverityError,
			"protocol kind is not a supported transport",
			"Use one of: http, grpc, websocket, stdio.",
			"capability", "protocol"),
		{
			Code:        "AGM1211",
			Severity:    SeverityError,
			Message:     "TLS is declared but the endpoint scheme is not secure",
			Remediation: "Use an https://, wss://, or grpcs:// endpoint when tls is true.",
			DocsURL:     docsURL("AGM1211"),
			Tags:        []string{"capability", "protocol", "tls"},
			Examples: []Example{{
				Invalid: "{kind: http, endpoint: \"http://agent.example.com\", tls: true}",
				Valid:   "{kind: http, endpoint: \"https://agent.example.com\", tls: true}",
			}},
		},
		entry("AGM1212", SeverityError,
			"network protocol is missing an endpoint",
			"Declare an endpoint URL for every http, grpc, and websocket binding.",
			"capability", "protocol"),
	},
	"lifecycle": {
		entry("AGM1301", SeverityError,
			"performance figure must be positive",
			"Declare latency and throughput targets as positive numbers, or omit them.",
			"lifecycle", "performance"),
		entry("AGM1302", SeverityError,
			"latency percentiles are out of order",
			"Order the targets so that p50 <= p95 <= p99.",
			"lifecycle", "performance"),
		entry("AGM1303", SeverityWarning,
			"performance claim is unverified",
			"Enable the audit-logging feature so performance claims can be verified.",
			"lifecycle", "performance"),
	},
	"budget": {
		entry("AGM1401", SeverityError,
			"budget floor exceeds the ceiling",
			"Lower floorUsd to at most ceilingUsd.",
			"budget"),
		entry("AGM1402", SeverityError,
			"budget default exceeds the ceiling",
			"Lower defaultUsd to at most ceilingUsd.",
			"budget"),
		entry("AGM1403", SeverityWarning,
			"budget declared without a ceiling",
			"Declare ceilingUsd so floor and default values have a bound.",
			"budget"),
	},
	"taxonomy": {
		entry("AGM1501", SeverityError,
			"feature name is not recognized",
			"Use one of the published optional feature names: audit-logging, budget-tracking, feedback-loop, delegation.",
			"taxonomy", "features"),
		entry("AGM1502", SeverityWarning,
			"conformance tier could not be decided",
			"Declare spec.features explicitly so a conformance tier can be derived.",
			"taxonomy", "conformance"),
		entry("AGM1503", SeverityWarning,
			"feature is listed more than once",
			"List each optional feature at most once.",
			"taxonomy", "features"),
	},
	"access-control": {
		entry("AGM1601", SeverityError,
			"access control declares no roles",
			"List at least one role, or remove the accessControl block.",
			"access-control"),
		entry("AGM1602", SeverityError,
			"auth kind is not supported",
			"Use one of: none, apiKey, oauth2.",
			"access-control"),
	},
	"experimental": {
		entry("AGM1701", SeverityInfo,
			"experimental extensions are in use",
			"Expect experimental extension fields to change without notice.",
			"experimental", "extensions"),
		entry("AGM1702", SeverityWarning,
			"extension capability shadows a core capability",
			"Remove the extensions declaration or rename it; the core declaration always wins.",
			"experimental", "capability"),
	},
	"naming": {
		entry("AGM1801", SeverityError,
			"metadata.name violates the naming pattern",
			"Use lowercase alphanumerics and hyphens, starting with a letter (e.g., billing-agent).",
			"naming"),
		entry("AGM1802", SeverityError,
			"metadata.namespace violates the naming pattern",
			"Use lowercase alphanumerics and hyphens, starting with a letter.",
			"naming"),
	},
	"registry": {
		entry("AGM1901", SeverityInfo,
			"a newer schema version is available",
			"Consider migrating the manifest to the newest published spec version.",
			"registry", "version"),
		entry("AGM1902", SeverityInfo,
			"manifest version accepted as a legacy version",
			"The manifest validated under a newer schema that accepts its version; no action required.",
			"registry", "version"),
	},
}

// table is the flattened catalog, keyed by code.
var table = buildTable()

func buildTable() map[string]Entry {
	t := make(map[string]Entry)
	for bandName, entries := range byBand {
		b, ok := lookupBand(bandName)
		if !ok {
			panic(fmt.Sprintf("catalog: entries declared under unknown band %q", bandName))
		}
		for _, e := range entries {
			if !CodePattern.MatchString(e.Code) {
				panic(fmt.Sprintf("catalog: code %q does not match %s", e.Code, CodePattern))
			}
			n, _ := strconv.Atoi(e.Code[3:])
			if n < b.lo || n > b.hi {
				panic(fmt.Sprintf("catalog: code %s outside band %s [%d-%d]", e.Code, b.name, b.lo, b.hi))
			}
			if _, dup := t[e.Code]; dup {
				panic(fmt.Sprintf("catalog: duplicate code %s", e.Code))
			}
			if e.Severity == SeverityError && e.Remediation == "" {
				panic(fmt.Sprintf("catalog: blocking code %s has no remediation", e.Code))
			}
			t[e.Code] = e
		}
	}
	return t
}

func lookupBand(name string) (band, bool) {
	for _, b := range bands {
		if b.name == name {
			return b, true
		}
	}
	return band{}, false
}

// ByCode returns the entry for a code. The second return is false for
// unknown codes.
func ByCode(code string) (Entry, bool) {
	e, ok := table[code]
	return e, ok
}

// ByTag returns all entries carrying the given tag, ordered by code.
func ByTag(tag string) []Entry {
	var out []Entry
	for _, e := range table {
		for _, t := range e.Tags {
			if t == tag {
				out = append(out, e)
				break
			}
		}
	}
	sortEntries(out)
	return out
}

// BySeverity returns all entries of the given severity, ordered by code.
func BySeverity(sev Severity) []Entry {
	var out []Entry
	for _, e := range table {
		if e.Severity == sev {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out
}

// CountsBySeverity returns the number of entries per severity.
func CountsBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, e := range table {
		counts[e.Severity]++
	}
	return counts
}

// Size returns the total number of catalog entries.
func Size() int { return len(table) }

// Codes returns every catalog code in ascending order.
func Codes() []string {
	out := make([]string, 0, len(table))
	for code := range table {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// At returns a copy of the entry for code with instance context appended to
// its message. Validators use this to report where in the document a rule
// fired without disturbing the stable catalog message.
func At(code, path, detail string) Entry {
	e, ok := table[code]
	if !ok {
		// Reaching here is an engine bug: every rule must use a declared code.
		panic(fmt.Sprintf("catalog: unknown code %s", code))
	}
	switch {
	case path != "" && detail != "":
		e.Message = fmt.Sprintf("%s (at %s: %s)", e.Message, path, detail)
	case path != "":
		e.Message = fmt.Sprintf("%s (at %s)", e.Message, path)
	case detail != "":
		e.Message = fmt.Sprintf("%s (%s)", e.Message, detail)
	}
	return e
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
}
