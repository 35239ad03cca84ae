package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agentspec-labs/agentspec/internal/catalog"
	"github.com/agentspec-labs/agentspec/internal/manifest"
	"github.com/agentspec-labs/agentspec/internal/schema"
)

var printer = message.NewPrinter(language.English)

// issue is one raw structural violation before it becomes a catalog entry.
type issue struct {
	path   string
	code   string
	detail string
}

// checkStructural validates the manifest's shape against the resolved
// schema and maps every violation to a stable catalog code. It never
// short-circuits: all violations from one pass are returned. The error
// return is reserved for documents that cannot be encoded at all.
func checkStructural(m *manifest.Manifest, desc *schema.Descriptor) ([]catalog.Entry, error) {
	v, err := m.JSONValue()
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON so the validator sees json.Number values,
	// as it expects.
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest for validation: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("preparing manifest for validation: %w", err)
	}

	err = desc.Schema.Validate(inst)
	if err == nil {
		return nil, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	var issues []issue
	collectIssues(ve, &issues)

	// Composition failures with no informative leaves still need a code.
	if len(issues) == 0 {
		issues = append(issues, issue{
			path:   instancePath(ve.InstanceLocation),
			code:   "AGM1006",
			detail: ve.Error(),
		})
	}

	issues = dedupeIssues(issues)
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].path != issues[j].path {
			return issues[i].path < issues[j].path
		}
		return issues[i].code < issues[j].code
	})

	entries := make([]catalog.Entry, 0, len(issues))
	for _, is := range issues {
		entries = append(entries, catalog.At(is.code, is.path, is.detail))
	}
	return entries, nil
}

// collectIssues recursively walks the error tree to find leaf errors with
// specific property information. Generic container errors (oneOf, allOf,
// $ref) are skipped; their causes carry the useful detail.
func collectIssues(ve *jsonschema.ValidationError, issues *[]issue) {
	if len(ve.Causes) == 0 {
		keyword := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
		}
		if keyword == "oneOf" || keyword == "allOf" || keyword == "anyOf" || keyword == "$ref" || keyword == "" {
			return
		}

		detail := ""
		if ve.ErrorKind != nil {
			detail = ve.ErrorKind.LocalizedString(printer)
		}

		path := instancePath(ve.InstanceLocation)
		*issues = append(*issues, issue{
			path:   path,
			code:   codeForKeyword(keyword, path),
			detail: detail,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectIssues(cause, issues)
	}
}

// codeForKeyword maps a schema keyword (plus, for naming constraints, the
// instance path) to its stable catalog code. A missing required field maps
// to the same code regardless of which field is missing.
func codeForKeyword(keyword, path string) string {
	switch keyword {
	case "required":
		return "AGM1001"
	case "type":
		return "AGM1003"
	case "enum", "const":
		return "AGM1004"
	case "pattern", "format":
		switch path {
		case "/metadata/name":
			return "AGM1801"
		case "/metadata/namespace":
			return "AGM1802"
		}
		return "AGM1005"
	case "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf":
		return "AGM1009"
	case "additionalProperties":
		return "AGM1008"
	case "$dynamicRef", "$recursiveRef":
		return "AGM1007"
	default:
		return "AGM1005"
	}
}

// dedupeIssues removes duplicates by path and code. Composition branches
// produce many overlapping errors for the same location.
func dedupeIssues(issues []issue) []issue {
	seen := make(map[string]bool)
	var out []issue
	for _, is := range issues {
		key := is.path + "|" + is.code
		if !seen[key] {
			seen[key] = true
			out = append(out, is)
		}
	}
	return out
}

func instancePath(loc []string) string {
	if len(loc) == 0 {
		return ""
	}
	return "/" + strings.Join(loc, "/")
}
