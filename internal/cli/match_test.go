package cli

import (
	"testing"

	"github.com/agentspec-labs/agentspec/internal/config"
	"github.com/agentspec-labs/agentspec/internal/manifest"
	"github.com/agentspec-labs/agentspec/internal/match"
)

func TestResolvePenalty(t *testing.T) {
	config.Load()

	tests := []struct {
		name      string
		flagSet   bool
		flagValue float64
		want      float64
	}{
		{"flag unset uses config", false, 0, match.DefaultWarningPenalty},
		{"explicit value wins over config", true, 0.25, 0.25},
		{"explicit zero disables the penalty", true, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolvePenalty(tt.flagSet, tt.flagValue); got != tt.want {
				t.Errorf("resolvePenalty(%v, %v) = %v, want %v", tt.flagSet, tt.flagValue, got, tt.want)
			}
		})
	}
}

func TestResolvePenalty_ZeroScoresWithoutDeduction(t *testing.T) {
	// A requirement satisfied only through extensions normally costs one
	// penalty; an explicit zero from the flag must suppress it.
	m := &manifest.Manifest{
		Extensions: &manifest.Extensions{
			Capabilities: []manifest.CapabilityDeclaration{
				{Name: "forecasting", Version: "0.3.0"},
			},
		},
	}
	required := []match.Requirement{{Name: "forecasting"}}

	got := match.MatchWith(required, m, match.Options{WarningPenalty: resolvePenalty(true, 0)})
	if got.Score != 1.0 {
		t.Errorf("score = %v, want 1.0 with the penalty disabled", got.Score)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("the scoring warning itself must still be reported, got %v", got.Warnings)
	}
}
