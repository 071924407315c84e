package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Ponnammaah123/test-agent/internal/contract"
)

// analyzeCmd performs a codebase analysis against the remote host.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [branch]",
	Short: "Analyze changed files on a branch and cache their content.",
	Long: `Fetch the latest commit and changed files for a branch, enrich each file
with content and diff metadata, and store the result in the content cache.

Repeated runs against the same branch are served from cache until the
entry expires or the cache is invalidated.

Examples:
  # Analyze the default branch
  testagent analyze --repo-url https://github.com/acme/app

  # Analyze a feature branch with JSON output
  testagent analyze feature/login --output json

  # Force more concurrent content fetches
  testagent analyze --workers 20`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		branch := branchArg(args)
		start := time.Now()

		result, err := analyzer.Analyze(rootCtx, branch)
		if err != nil {
			contract.LogFatal("Cannot run codebase analysis", err)
		}
		if !result.FromCache {
			persistSnapshot()
		}

		if err := writer.WriteAnalysis(result, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write analysis output", err)
		}
	},
}
