package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Ponnammaah123/test-agent/internal/contract"
)

// searchCmd searches cached file content for a term.
var searchCmd = &cobra.Command{
	Use:   "search <term> [branch]",
	Short: "Search cached file content for a term.",
	Long: `Scan the cached content of every file on a branch for a term and print
matching lines with their line numbers.

Runs an analysis first if the branch is not cached yet, so the search
always sees the latest cached snapshot of the branch.

Examples:
  # Find usages of a function across changed files
  testagent search parseToken --repo-url https://github.com/acme/app

  # Case-sensitive search on a feature branch
  testagent search TODO feature/login --case-sensitive

  # Machine-readable matches
  testagent search parseToken --output json`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		term := args[0]
		branch := branchArg(args[1:])

		result, err := analyzer.Analyze(rootCtx, branch)
		if err != nil {
			contract.LogFatal("Cannot run codebase analysis", err)
		}
		if !result.FromCache {
			persistSnapshot()
		}

		matches := analyzer.Cache().SearchContent(analyzer.Repository(), branch, term, viper.GetBool("case-sensitive"))
		if err := writer.WriteSearch(matches, term, cfg); err != nil {
			contract.LogFatal("Cannot write search results", err)
		}
	},
}
