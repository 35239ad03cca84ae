package validate

import (
	"errors"

	"github.com/agentspec-labs/agentspec/internal/catalog"
	"github.com/agentspec-labs/agentspec/internal/manifest"
	"github.com/agentspec-labs/agentspec/internal/schema"
)

// Options controls a single validation call.
type Options struct {
	// SkipStructural runs only the semantic rules. The resolved schema
	// version is still reported.
	SkipStructural bool
}

// Result is the outcome of validating one manifest. Errors block validity;
// Warnings carries warning- and info-severity entries and never blocks.
type Result struct {
	Valid                 bool            `json:"valid"`
	Errors                []catalog.Entry `json:"errors"`
	Warnings              []catalog.Entry `json:"warnings"`
	ConformanceLevel      string          `json:"conformanceLevel"`
	ResolvedSchemaVersion string          `json:"resolvedSchemaVersion"`
}

// Validator composes the schema repository, the structural validator, and
// the semantic rule engine. It holds no state beyond the repository
// reference and is safe for concurrent use.
type Validator struct {
	repo *schema.Repository
}

// New returns a Validator backed by the given schema repository.
func New(repo *schema.Repository) *Validator {
	return &Validator{repo: repo}
}

// Validate runs the full two-layer validation with default options.
func (v *Validator) Validate(m *manifest.Manifest) (*Result, error) {
	return v.ValidateWith(m, Options{})
}

// ValidateWith validates one manifest. Data-quality problems are reported
// inside the Result; the error return is reserved for engine
// misconfiguration (unreadable schema assets, unencodable documents).
// Repeated calls with the same input produce structurally equal results.
func (v *Validator) ValidateWith(m *manifest.Manifest, opts Options) (*Result, error) {
	res := &Result{
		Errors:           []catalog.Entry{},
		Warnings:         []catalog.Entry{},
		ConformanceLevel: ConformanceUnspecified,
	}
	if m == nil {
		res.Errors = append(res.Errors, catalog.At("AGM1001", "", "manifest is empty"))
		return res, nil
	}

	resolution, err := v.repo.Resolve(m.APIVersion)
	if errors.Is(err, schema.ErrUnsupportedVersion) {
		res.Errors = append(res.Errors, catalog.At("AGM1002", "/apiVersion", m.APIVersion))
		v.deriveTier(res, m)
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	res.ResolvedSchemaVersion = resolution.Version

	if resolution.Legacy {
		res.Warnings = append(res.Warnings, catalog.At("AGM1902", "/apiVersion", resolution.Requested))
	}
	if resolution.Version != v.repo.Newest() {
		res.Warnings = append(res.Warnings, catalog.At("AGM1901", "/apiVersion", v.repo.Newest()))
	}

	if !opts.SkipStructural {
		structural, err := checkStructural(m, resolution.Descriptor)
		if err != nil {
			return nil, err
		}
		v.append(res, structural)
	}

	// Semantic rules run even when structural checking failed or was
	// skipped; rules are independent and never suppress each other.
	v.append(res, checkSemantic(m))

	v.deriveTier(res, m)

	res.Valid = len(res.Errors) == 0
	return res, nil
}

// deriveTier records the conformance tier, flagging documents that give no
// basis for a tier decision. Every result path reports the same way.
func (v *Validator) deriveTier(res *Result, m *manifest.Manifest) {
	res.ConformanceLevel = conformanceFor(m)
	if res.ConformanceLevel == ConformanceUnspecified {
		res.Warnings = append(res.Warnings, catalog.At("AGM1502", "/kind", m.Kind))
	}
}

// append partitions entries into errors and warnings by catalog severity.
// Info entries ride with warnings; they never block validity either.
func (v *Validator) append(res *Result, entries []catalog.Entry) {
	for _, e := range entries {
		if e.Severity == catalog.SeverityError {
			res.Errors = append(res.Errors, e)
		} else {
			res.Warnings = append(res.Warnings, e)
		}
	}
}

// conformanceFor derives the conformance tier best-effort. A document that
// is not an Agent manifest gives no basis for a tier decision.
func conformanceFor(m *manifest.Manifest) string {
	if m.Kind != manifest.KindAgent {
		return ConformanceUnspecified
	}
	return deriveConformance(m.Spec.Features)
}
