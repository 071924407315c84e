// Package cmd defines the command-line interface for testagent.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)
	cacheCmd.AddCommand(cacheExportCmd)
	cacheCmd.AddCommand(cacheImportCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("repo-url", "r", "", "Repository URL on GitHub or GitLab (e.g., https://github.com/owner/repo)")
	rootCmd.PersistentFlags().String("token", "", "API token for the Git hosting provider (prefer TESTAGENT_TOKEN env var)")
	rootCmd.PersistentFlags().String("base-branch", contract.DefaultBaseBranch, "Default branch used when no branch argument is given")
	rootCmd.PersistentFlags().Int("cache-max-entries", contract.DefaultCacheMaxEntries, "Maximum number of cached analyses")
	rootCmd.PersistentFlags().String("cache-max-size-mb", "", "Maximum total cache size in MB (default 500)")
	rootCmd.PersistentFlags().String("cache-ttl", "", "Time-to-live for cached analyses, as a Go duration (default 1h)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers for content fetching")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("snapshot-backend", string(schema.SQLiteBackend), "Snapshot backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("jira-url", "", "Jira base URL (e.g., https://company.atlassian.net)")
	rootCmd.PersistentFlags().String("jira-user", "", "Jira account email for basic auth")
	rootCmd.PersistentFlags().String("jira-token", "", "Jira API token (prefer TESTAGENT_JIRA_TOKEN env var)")
	rootCmd.PersistentFlags().String("llm-base-url", "", "OpenAI-compatible API base URL override")
	rootCmd.PersistentFlags().String("llm-api-key", "", "API key for the LLM endpoint (prefer TESTAGENT_LLM_API_KEY env var)")
	rootCmd.PersistentFlags().String("llm-model", "gpt-4o-mini", "Model used for drafting test plans")
	rootCmd.PersistentFlags().Float64("llm-temperature", 0.2, "Sampling temperature for test plan drafting")
	rootCmd.PersistentFlags().String("env-name", "", "Name of the environment under test (e.g., staging)")
	rootCmd.PersistentFlags().String("env-app-url", "", "Base URL of the application under test")
	rootCmd.PersistentFlags().String("env-api-url", "", "Base URL of the API under test")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of filesCmd to Viper
	filesCmd.Flags().Bool("all", false, "List the full repository tree instead of changed files")
	filesCmd.Flags().String("status", "", "Filter files by status: added, modified, deleted, existing")
	filesCmd.Flags().String("language", "", "Filter files by detected language")
	if err := viper.BindPFlags(filesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding files flags", err)
	}

	// Bind all flags of searchCmd to Viper
	searchCmd.Flags().Bool("case-sensitive", false, "Match the search term case-sensitively")
	if err := viper.BindPFlags(searchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding search flags", err)
	}

	// Bind all flags of generateCmd to Viper
	generateCmd.Flags().String("branch", "", "Branch to analyze for test generation (defaults to base branch)")
	generateCmd.Flags().Bool("skip-comment", false, "Do not post the pull request link back to the Jira ticket")
	if err := viper.BindPFlags(generateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding generate flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
