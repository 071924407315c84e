package cmd

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// filesCmd lists cached file summaries for a branch.
var filesCmd = &cobra.Command{
	Use:   "files [branch]",
	Short: "List cached files for a branch, with optional filters.",
	Long: `List the files recorded for a branch in the content cache.

Runs an analysis first if the branch is not cached yet. By default only
the files changed on the branch are shown; use --all to walk the full
repository tree instead.

Examples:
  # List changed files on the default branch
  testagent files --repo-url https://github.com/acme/app

  # Only modified TypeScript files
  testagent files --status modified --language TypeScript

  # Walk the entire tree of a feature branch
  testagent files feature/login --all

  # Export the listing to CSV
  testagent files --output csv --output-file files.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		branch := branchArg(args)

		result, err := analyzer.Analyze(rootCtx, branch)
		if err != nil {
			contract.LogFatal("Cannot run codebase analysis", err)
		}
		if !result.FromCache {
			persistSnapshot()
		}

		var files map[string]*schema.CachedFile
		switch {
		case viper.GetBool("all"):
			files, err = analyzer.AllFiles(rootCtx, branch)
			if err != nil {
				contract.LogFatal("Cannot list repository tree", err)
			}
		case viper.GetString("status") != "":
			status := schema.FileStatus(viper.GetString("status"))
			files = analyzer.Cache().GetFilesByStatus(analyzer.Repository(), branch, status)
		case viper.GetString("language") != "":
			files = analyzer.Cache().GetFilesByLanguage(analyzer.Repository(), branch, viper.GetString("language"))
		default:
			files = analyzer.Cache().GetAllFiles(analyzer.Repository(), branch)
		}

		// Language filter composes with --all and --status
		if lang := viper.GetString("language"); lang != "" {
			for path, f := range files {
				if !strings.EqualFold(f.Language, lang) {
					delete(files, path)
				}
			}
		}

		if err := writer.WriteFiles(sortedSummaries(files), cfg); err != nil {
			contract.LogFatal("Cannot write file listing", err)
		}
	},
}

// sortedSummaries flattens cached files into summaries ordered by path.
func sortedSummaries(files map[string]*schema.CachedFile) []schema.FileSummary {
	summaries := make([]schema.FileSummary, 0, len(files))
	for _, f := range files {
		summaries = append(summaries, f.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Path < summaries[j].Path })
	return summaries
}
