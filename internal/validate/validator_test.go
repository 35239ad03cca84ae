package validate

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/agentspec-labs/agentspec/internal/catalog"
	"github.com/agentspec-labs/agentspec/internal/manifest"
	"github.com/agentspec-labs/agentspec/internal/schema"
)

func testPath(file string) string {
	return filepath.Join("testdata", file)
}

func loadManifest(t *testing.T, file string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.ParseFile(testPath(file))
	if err != nil {
		t.Fatalf("parsing %s: %v", file, err)
	}
	return m
}

func newValidator() *Validator {
	return New(schema.NewRepository())
}

func TestValidate_ValidManifests(t *testing.T) {
	tests := []struct {
		file        string
		wantVersion string
	}{
		{"valid-v1.2.yaml", "1.2"},
		{"valid-v1.0.yaml", "1.0"},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			res, err := v.Validate(loadManifest(t, tt.file))
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if !res.Valid {
				t.Errorf("expected valid, got %d error(s):", len(res.Errors))
				for _, e := range res.Errors {
					t.Errorf("  %s %s", e.Code, e.Message)
				}
			}
			if res.ResolvedSchemaVersion != tt.wantVersion {
				t.Errorf("resolved schema %q, want %q", res.ResolvedSchemaVersion, tt.wantVersion)
			}
		})
	}
}

func TestValidate_MissingRequiredField(t *testing.T) {
	v := newValidator()
	res, err := v.Validate(loadManifest(t, "invalid-missing-name.yaml"))
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if !hasCode(res.Errors, "AGM1001") {
		t.Errorf("expected AGM1001 for the missing name, got %v", codes(res.Errors))
	}
}

func TestValidate_SemanticRules(t *testing.T) {
	v := newValidator()
	res, err := v.Validate(loadManifest(t, "invalid-semantics.yaml"))
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if res.Valid {
		t.Fatal("expected invalid result")
	}

	// One violation per independent rule; none suppresses another.
	for _, want := range []string{"AGM1201", "AGM1211", "AGM1302", "AGM1401", "AGM1501"} {
		if !hasCode(res.Errors, want) {
			t.Errorf("expected %s in errors, got %v", want, codes(res.Errors))
		}
	}

	// audit-logging is declared, so the unverified-claim warning must not fire.
	if hasCode(res.Warnings, "AGM1303") {
		t.Error("AGM1303 fired despite audit-logging being declared")
	}
}

func TestValidate_NewerVersionAdvisory(t *testing.T) {
	v := newValidator()
	res, err := v.Validate(loadManifest(t, "valid-v1.0.yaml"))
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !hasCode(res.Warnings, "AGM1901") {
		t.Errorf("expected AGM1901 advisory for an old but supported version, got %v", codes(res.Warnings))
	}
}

func TestValidate_LegacyVersionAcceptance(t *testing.T) {
	repo := schema.NewRepository()
	v := New(repo)
	res, err := v.Validate(loadManifest(t, "legacy-v0.9.yaml"))
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !res.Valid {
		t.Errorf("expected legacy manifest to validate, got %v", codes(res.Errors))
	}
	if res.ResolvedSchemaVersion != repo.Newest() {
		t.Errorf("resolved schema %q, want newest %q", res.ResolvedSchemaVersion, repo.Newest())
	}
	if !hasCode(res.Warnings, "AGM1902") {
		t.Errorf("expected AGM1902 legacy advisory, got %v", codes(res.Warnings))
	}
}

func TestValidate_BackwardCompatibilityLaw(t *testing.T) {
	// A manifest using only v1.0 fields must validate under v1.0 and under
	// any newer schema, with only ResolvedSchemaVersion differing.
	data, err := os.ReadFile(testPath("valid-v1.0.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	v := newValidator()
	for _, version := range []string{"v1.0", "v1.1", "v1.2"} {
		t.Run(version, func(t *testing.T) {
			body := strings.Replace(string(data), "agentspec.dev/v1.0", "agentspec.dev/"+version, 1)
			m, err := manifest.Parse([]byte(body))
			if err != nil {
				t.Fatal(err)
			}
			res, err := v.Validate(m)
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if !res.Valid {
				t.Errorf("expected valid under %s, got %v", version, codes(res.Errors))
			}
			if res.ResolvedSchemaVersion != strings.TrimPrefix(version, "v") {
				t.Errorf("resolved %q, want %q", res.ResolvedSchemaVersion, strings.TrimPrefix(version, "v"))
			}
		})
	}
}

func TestValidate_UnsupportedVersion(t *testing.T) {
	v := newValidator()
	m := &manifest.Manifest{
		APIVersion: "agentspec.dev/v9.9",
		Kind:       manifest.KindAgent,
		Metadata:   manifest.Metadata{Name: "ghost", Version: "1.0.0"},
	}
	res, err := v.Validate(m)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if !hasCode(res.Errors, "AGM1002") {
		t.Errorf("expected AGM1002, got %v", codes(res.Errors))
	}
	if res.ResolvedSchemaVersion != "" {
		t.Errorf("expected empty resolved version, got %q", res.ResolvedSchemaVersion)
	}
}

func TestValidate_UnsupportedVersionForeignKind(t *testing.T) {
	// The undecidable-conformance advisory fires on the unsupported-version
	// path the same way it does on the main path.
	v := newValidator()
	m := &manifest.Manifest{
		APIVersion: "agentspec.dev/v9.9",
		Kind:       "Workflow",
		Metadata:   manifest.Metadata{Name: "ghost", Version: "1.0.0"},
	}
	res, err := v.Validate(m)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if res.ConformanceLevel != ConformanceUnspecified {
		t.Errorf("conformance = %q, want %q", res.ConformanceLevel, ConformanceUnspecified)
	}
	if !hasCode(res.Warnings, "AGM1502") {
		t.Errorf("expected AGM1502 when conformance is undecidable, got %v", codes(res.Warnings))
	}
}

func TestValidate_Idempotent(t *testing.T) {
	v := newValidator()
	m := loadManifest(t, "invalid-semantics.yaml")

	first, err := v.Validate(m)
	if err != nil {
		t.Fatal(err)
	}
	second, err := v.Validate(m)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated validation of the same manifest produced different results")
	}
}

func TestValidate_SkipStructural(t *testing.T) {
	v := newValidator()
	res, err := v.ValidateWith(loadManifest(t, "invalid-missing-name.yaml"), Options{SkipStructural: true})
	if err != nil {
		t.Fatal(err)
	}
	if hasCode(res.Errors, "AGM1001") {
		t.Error("structural error reported despite SkipStructural")
	}
	if res.ResolvedSchemaVersion != "1.2" {
		t.Errorf("resolved schema %q, want 1.2", res.ResolvedSchemaVersion)
	}
}

func TestValidate_WarningsNeverBlock(t *testing.T) {
	v := newValidator()
	res, err := v.Validate(loadManifest(t, "valid-v1.0.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected advisory warnings on an old-version manifest")
	}
	if !res.Valid {
		t.Error("warnings blocked validity")
	}
}

func hasCode(entries []catalog.Entry, code string) bool {
	for _, e := range entries {
		if e.Code == code {
			return true
		}
	}
	return false
}

func codes(entries []catalog.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Code
	}
	return out
}
