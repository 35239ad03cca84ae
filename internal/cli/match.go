package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/agentspec-labs/agentspec/internal/config"
	"github.com/agentspec-labs/agentspec/internal/manifest"
	"github.com/agentspec-labs/agentspec/internal/match"
)

var (
	matchRequire []string
	matchReqFile string
	matchPenalty float64
	matchJSON    bool
)

func init() {
	matchCmd.Flags().StringArrayVar(&matchRequire, "require", nil, "Required capability as name or name@minVersion (repeatable)")
	matchCmd.Flags().StringVar(&matchReqFile, "requirements", "", "YAML file with a list of {name, minVersion} requirements")
	matchCmd.Flags().Float64Var(&matchPenalty, "penalty", 0, "Score penalty per scoring warning (default from config)")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Output the match result as JSON")
	rootCmd.AddCommand(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match <manifest-file>",
	Short: "Score a manifest against capability requirements",
	Long: `Score an agent manifest against a list of required capabilities.
The command fails when any requirement is unmet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.ParseFile(args[0])
		if err != nil {
			return err
		}

		required, err := collectRequirements()
		if err != nil {
			return err
		}

		penalty := resolvePenalty(cmd.Flags().Changed("penalty"), matchPenalty)
		result := match.MatchWith(required, m, match.Options{WarningPenalty: penalty})

		if matchJSON {
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		} else {
			printMatch(cmd, result)
		}

		if !result.Compatible {
			return fmt.Errorf("manifest %s is missing %d required capability(ies)", args[0], len(result.Missing))
		}
		return nil
	},
}

// resolvePenalty picks the per-warning penalty for one invocation: the
// flag when given, the configured value otherwise. Zero means "no penalty"
// here, so it is translated to the negative value the scorer's options use
// for that; the scorer treats a literal zero as "use the default".
func resolvePenalty(flagSet bool, flagValue float64) float64 {
	penalty := config.MatchPenalty()
	if flagSet {
		penalty = flagValue
	}
	if penalty == 0 {
		return -1
	}
	return penalty
}

// collectRequirements merges --require flags and the --requirements file,
// preserving order: file entries first, then flags.
func collectRequirements() ([]match.Requirement, error) {
	var required []match.Requirement

	if matchReqFile != "" {
		data, err := os.ReadFile(matchReqFile)
		if err != nil {
			return nil, fmt.Errorf("reading requirements file %s: %w", matchReqFile, err)
		}
		if err := yaml.Unmarshal(data, &required); err != nil {
			return nil, fmt.Errorf("parsing requirements file %s: %w", matchReqFile, err)
		}
	}

	for _, spec := range matchRequire {
		name, minVersion, _ := strings.Cut(spec, "@")
		if name == "" {
			return nil, fmt.Errorf("invalid requirement %q", spec)
		}
		required = append(required, match.Requirement{Name: name, MinVersion: minVersion})
	}

	return required, nil
}

func printMatch(cmd *cobra.Command, result match.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Capability match: score %.2f\n", result.Score)
	if result.Compatible {
		fmt.Fprintf(out, "  [ OK ] All requirements satisfied\n")
	} else {
		fmt.Fprintf(out, "  [FAIL] Missing capabilities:\n")
		for _, name := range result.Missing {
			fmt.Fprintf(out, "    - %s\n", name)
		}
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "  [WARN] %s\n", w)
	}
}
