package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentspec-labs/agentspec/internal/catalog"
	"github.com/agentspec-labs/agentspec/internal/manifest"
	"github.com/agentspec-labs/agentspec/internal/validate"
)

var (
	validateSkipStructural bool
	validateJSON           bool
)

func init() {
	validateCmd.Flags().BoolVar(&validateSkipStructural, "skip-structural", false, "Run only the semantic rules")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output the validation result as JSON")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <manifest-file>",
	Short: "Validate an agent manifest",
	Long: `Validate an agent manifest against the schema version named by its
apiVersion, then apply the cross-field semantic rules. Warnings never block
validity; the command fails only when blocking errors are present.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.ParseFile(args[0])
		if err != nil {
			return err
		}

		v := validate.New(repo)
		result, err := v.ValidateWith(m, validate.Options{SkipStructural: validateSkipStructural})
		if err != nil {
			return fmt.Errorf("validating %s: %w", args[0], err)
		}

		if validateJSON {
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		} else {
			printResult(cmd, args[0], result)
		}

		if !result.Valid {
			return fmt.Errorf("manifest %s has %d blocking error(s)", args[0], len(result.Errors))
		}
		return nil
	},
}

func printResult(cmd *cobra.Command, path string, result *validate.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Manifest validation: %s\n", path)
	if result.ResolvedSchemaVersion != "" {
		fmt.Fprintf(out, "  schema version: %s\n", result.ResolvedSchemaVersion)
	}
	fmt.Fprintf(out, "  conformance: %s\n", result.ConformanceLevel)

	if result.Valid {
		fmt.Fprintf(out, "  [ OK ] Valid manifest\n")
	} else {
		fmt.Fprintf(out, "  [FAIL] %d blocking error(s):\n", len(result.Errors))
		for _, e := range result.Errors {
			printEntry(cmd, e)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(out, "  [WARN] %d warning(s):\n", len(result.Warnings))
		for _, e := range result.Warnings {
			printEntry(cmd, e)
		}
	}
}

// printEntry surfaces the code, message, remediation, and docs link of one
// catalog entry verbatim.
func printEntry(cmd *cobra.Command, e catalog.Entry) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "    - %s [%s] %s\n", e.Code, e.Severity, e.Message)
	if e.Remediation != "" {
		fmt.Fprintf(out, "      fix: %s\n", e.Remediation)
	}
	if e.DocsURL != "" {
		fmt.Fprintf(out, "      see: %s\n", e.DocsURL)
	}
}
