package match

import (
	"reflect"
	"testing"

	"github.com/agentspec-labs/agentspec/internal/manifest"
)

func candidate() *manifest.Manifest {
	return &manifest.Manifest{
		APIVersion: "agentspec.dev/v1.2",
		Kind:       manifest.KindAgent,
		Metadata:   manifest.Metadata{Name: "billing-agent", Version: "2.1.0"},
		Spec: manifest.Spec{
			Capabilities: []manifest.CapabilityDeclaration{
				{Name: "invoice-reconciliation", Version: "1.4.0"},
				{Name: "billing-qa", Version: "0.9.2"},
				{Name: "legacy-export", Version: "3.0.0", Deprecated: true},
			},
		},
		Extensions: &manifest.Extensions{
			Capabilities: []manifest.CapabilityDeclaration{
				{Name: "invoice-forecasting", Version: "0.3.0"},
			},
		},
	}
}

func TestMatch_EmptyRequirements(t *testing.T) {
	want := Result{Compatible: true, Score: 1.0, Missing: []string{}, Warnings: []string{}}

	for _, m := range []*manifest.Manifest{candidate(), nil, {}} {
		got := Match(nil, m)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Match(nil, %v) = %+v, want %+v", m, got, want)
		}
	}
}

func TestMatch_MissingCapability(t *testing.T) {
	got := Match([]Requirement{{Name: "clairvoyance"}}, candidate())
	want := Result{Compatible: false, Score: 0.0, Missing: []string{"clairvoyance"}, Warnings: []string{}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestMatch_AllSatisfied(t *testing.T) {
	got := Match([]Requirement{
		{Name: "invoice-reconciliation", MinVersion: "1.2.0"},
		{Name: "billing-qa"},
	}, candidate())
	if !got.Compatible || got.Score != 1.0 {
		t.Errorf("expected full score, got %+v", got)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", got.Warnings)
	}
}

func TestMatch_MinVersionNotMet(t *testing.T) {
	got := Match([]Requirement{{Name: "billing-qa", MinVersion: "1.0.0"}}, candidate())
	if got.Compatible {
		t.Error("expected incompatible result")
	}
	if !reflect.DeepEqual(got.Missing, []string{"billing-qa"}) {
		t.Errorf("missing = %v, want [billing-qa]", got.Missing)
	}
	if got.Score != 0.0 {
		t.Errorf("score = %v, want 0", got.Score)
	}
}

func TestMatch_MinVersionPrefixTolerance(t *testing.T) {
	got := Match([]Requirement{{Name: "invoice-reconciliation", MinVersion: "v1.4.0"}}, candidate())
	if !got.Compatible {
		t.Errorf("expected v-prefixed minVersion to parse, got %+v", got)
	}
}

func TestMatch_FallbackDeclarationPenalized(t *testing.T) {
	got := Match([]Requirement{{Name: "invoice-forecasting"}}, candidate())
	if !got.Compatible {
		t.Fatalf("expected fallback match, got %+v", got)
	}
	if len(got.Warnings) != 1 {
		t.Fatalf("expected one scoring warning, got %v", got.Warnings)
	}
	want := 1.0 - DefaultWarningPenalty
	if got.Score != want {
		t.Errorf("score = %v, want %v", got.Score, want)
	}
}

func TestMatch_DeprecatedDeclarationPenalized(t *testing.T) {
	got := Match([]Requirement{{Name: "legacy-export"}}, candidate())
	if !got.Compatible {
		t.Fatalf("expected deprecated declaration to satisfy, got %+v", got)
	}
	if len(got.Warnings) != 1 {
		t.Fatalf("expected one scoring warning, got %v", got.Warnings)
	}
	if got.Score != 1.0-DefaultWarningPenalty {
		t.Errorf("score = %v, want %v", got.Score, 1.0-DefaultWarningPenalty)
	}
}

func TestMatch_CustomPenalty(t *testing.T) {
	got := MatchWith([]Requirement{{Name: "invoice-forecasting"}}, candidate(), Options{WarningPenalty: 0.25})
	if got.Score != 0.75 {
		t.Errorf("score = %v, want 0.75", got.Score)
	}
}

func TestMatch_ScoreMonotonicity(t *testing.T) {
	// Appending an unmet requirement never increases the score.
	required := []Requirement{{Name: "invoice-reconciliation"}}
	prev := Match(required, candidate()).Score
	for _, extra := range []string{"a", "b", "c"} {
		required = append(required, Requirement{Name: extra})
		score := Match(required, candidate()).Score
		if score > prev {
			t.Fatalf("score increased from %v to %v after adding unmet requirement", prev, score)
		}
		prev = score
	}
}

func TestMatch_ScoreFloor(t *testing.T) {
	// Penalties never push the score below zero.
	reqs := []Requirement{
		{Name: "invoice-forecasting"},
		{Name: "missing-one"},
		{Name: "missing-two"},
	}
	got := MatchWith(reqs, candidate(), Options{WarningPenalty: 0.9})
	if got.Score != 0.0 {
		t.Errorf("score = %v, want floor 0", got.Score)
	}
}

func TestMatch_MalformedDeclarationsAreNonMatches(t *testing.T) {
	m := &manifest.Manifest{
		Spec: manifest.Spec{
			Capabilities: []manifest.CapabilityDeclaration{
				{Name: "summarize", Version: "not-a-version"},
			},
		},
	}
	got := Match([]Requirement{{Name: "summarize", MinVersion: "1.0.0"}}, m)
	if got.Compatible {
		t.Error("expected malformed declared version to be a non-match")
	}

	// Without a minimum, the declaration's version is never parsed.
	got = Match([]Requirement{{Name: "summarize"}}, m)
	if !got.Compatible {
		t.Error("expected name-only requirement to match")
	}
}

func TestMatch_InvalidMinVersionIsUnmet(t *testing.T) {
	got := Match([]Requirement{{Name: "billing-qa", MinVersion: "one.two"}}, candidate())
	if got.Compatible {
		t.Error("expected invalid minVersion to leave the requirement unmet")
	}
	if len(got.Warnings) != 1 {
		t.Errorf("expected a warning about the invalid minVersion, got %v", got.Warnings)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	reqs := []Requirement{
		{Name: "billing-qa"},
		{Name: "invoice-forecasting"},
		{Name: "nope"},
		{Name: "legacy-export"},
	}
	first := Match(reqs, candidate())
	second := Match(reqs, candidate())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different results:\n%+v\n%+v", first, second)
	}

	// Missing and warnings follow requirement order.
	if !reflect.DeepEqual(first.Missing, []string{"nope"}) {
		t.Errorf("missing = %v", first.Missing)
	}
	if len(first.Warnings) != 2 {
		t.Fatalf("warnings = %v", first.Warnings)
	}
}
