package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentspec-labs/agentspec/internal/catalog"
)

var (
	catalogSeverity string
	catalogTag      string
	catalogJSON     bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the error catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List error catalog entries",
	RunE:  runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show one catalog entry in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func init() {
	catalogListCmd.Flags().StringVar(&catalogSeverity, "severity", "", "Filter by severity (error, warning, info)")
	catalogListCmd.Flags().StringVar(&catalogTag, "tag", "", "Filter by tag")
	catalogListCmd.Flags().BoolVar(&catalogJSON, "json", false, "Output in JSON format")
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	var entries []catalog.Entry
	switch {
	case catalogSeverity != "":
		entries = catalog.BySeverity(catalog.Severity(catalogSeverity))
	case catalogTag != "":
		entries = catalog.ByTag(catalogTag)
	default:
		for _, code := range catalog.Codes() {
			e, _ := catalog.ByCode(code)
			entries = append(entries, e)
		}
	}

	if catalogJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling catalog entries: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tSEVERITY\tMESSAGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Code, e.Severity, e.Message)
	}
	return w.Flush()
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	e, ok := catalog.ByCode(args[0])
	if !ok {
		return fmt.Errorf("unknown catalog code %q", args[0])
	}

	if catalogJSON {
		out, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling catalog entry: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s [%s]\n", e.Code, e.Severity)
	fmt.Fprintf(out, "  message:     %s\n", e.Message)
	fmt.Fprintf(out, "  remediation: %s\n", e.Remediation)
	fmt.Fprintf(out, "  docs:        %s\n", e.DocsURL)
	fmt.Fprintf(out, "  tags:        %v\n", e.Tags)
	for _, ex := range e.Examples {
		fmt.Fprintf(out, "  invalid:     %s\n", ex.Invalid)
		fmt.Fprintf(out, "  valid:       %s\n", ex.Valid)
	}
	return nil
}
