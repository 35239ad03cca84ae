// Package cli defines the cobra command tree for the agentspec binary:
// validate, match, catalog, config, and version. Commands translate engine
// results into human-readable or JSON output and process exit codes; every
// blocking error's remediation and documentation link is surfaced
// verbatim.
package cli
