package validate

import "github.com/agentspec-labs/agentspec/internal/manifest"

// Conformance levels, lowest to highest. Each tier's requirement set is
// cumulative: a tier requires everything the tier below it requires plus
// its own incremental features.
const (
	ConformanceBase        = "base"
	ConformanceStandard    = "standard"
	ConformanceAdvanced    = "advanced"
	ConformanceUnspecified = "unspecified"
)

type tier struct {
	name     string
	features []string // full cumulative requirement set
}

// tiers lists conformance tiers lowest-first with their cumulative feature
// requirements. base requires nothing.
var tiers = []tier{
	{ConformanceBase, nil},
	{ConformanceStandard, []string{
		manifest.FeatureAuditLogging,
		manifest.FeatureBudgetTracking,
	}},
	{ConformanceAdvanced, []string{
		manifest.FeatureAuditLogging,
		manifest.FeatureBudgetTracking,
		manifest.FeatureFeedbackLoop,
		manifest.FeatureDelegation,
	}},
}

// deriveConformance returns the highest tier whose full cumulative
// requirement set is satisfied by the declared features. It never rounds
// up: a strict subset of a tier's requirements derives the tier below.
func deriveConformance(features []string) string {
	declared := make(map[string]bool, len(features))
	for _, f := range features {
		declared[f] = true
	}

	level := ConformanceBase
	for _, t := range tiers {
		satisfied := true
		for _, f := range t.features {
			if !declared[f] {
				satisfied = false
				break
			}
		}
		if satisfied {
			level = t.name
		}
	}
	return level
}
