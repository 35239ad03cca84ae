package cli

import (
	"github.com/spf13/cobra"

	"github.com/agentspec-labs/agentspec/internal/branding"
	"github.com/agentspec-labs/agentspec/internal/config"
	"github.com/agentspec-labs/agentspec/internal/schema"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// repo is the process-wide schema repository, constructed once and passed
// by reference to the validator and matcher.
var repo = schema.NewRepository()

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` validates agent manifests against the published schema
versions and scores them against task capability requirements.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
