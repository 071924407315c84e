package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Ponnammaah123/test-agent/core"
	"github.com/Ponnammaah123/test-agent/internal/contentcache"
	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/internal/githost"
	"github.com/Ponnammaah123/test-agent/internal/outwriter"
	"github.com/Ponnammaah123/test-agent/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// logger is the shared structured logger. Writes to stderr so stdout stays
// clean for command output and the MCP protocol.
var logger zerolog.Logger

// cache is the in-memory analysis cache shared by all commands.
var cache *contentcache.Cache

// host is the Git hosting provider adapter resolved from the repo URL.
var host contract.GitHost

// analyzer drives codebase analysis against the host and cache.
var analyzer *core.Analyzer

// snapshotStore persists cache entries between runs.
var snapshotStore contract.SnapshotStore

// writer handles all CLI output formatting.
var writer = outwriter.NewOutWriter()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "testagent",
	Short:              "Analyze remote codebases and draft automated test plans.",
	Long:               `Testagent fetches changed files from GitHub or GitLab, caches their content, and turns Jira tickets into reviewed Playwright test suites.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".testagent") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("TESTAGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("base-branch", contract.DefaultBaseBranch)
	viper.SetDefault("cache-max-entries", contract.DefaultCacheMaxEntries)
	viper.SetDefault("cache-max-size-mb", "")
	viper.SetDefault("cache-ttl", "")
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("color", "yes")
	viper.SetDefault("snapshot-backend", schema.SQLiteBackend)
	viper.SetDefault("snapshot-db-connect", "")
	viper.SetDefault("llm-model", "gpt-4o-mini")
	viper.SetDefault("llm-temperature", 0.2)
}

// newLogger builds the console logger. Verbosity is read straight from
// Viper since it is a CLI concern, not part of the validated config.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// sharedSetup unmarshals config, runs validation, and wires up the
// analyzer stack.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Build the shared analyzer stack from the validated config.
	logger = newLogger()
	cache = contentcache.New(contentcache.Options{
		MaxEntries: cfg.CacheMaxEntries,
		MaxSizeMB:  cfg.CacheMaxSizeMB,
		DefaultTTL: cfg.CacheTTL,
		Logger:     logger,
	})

	var err error
	host, err = githost.NewHost(cfg, logger)
	if err != nil {
		return err
	}
	analyzer = core.NewAnalyzer(cfg, cache, host, logger)

	// 5. Open the snapshot store and warm the cache from prior runs.
	snapshotStore, err = contentcache.NewSnapshotStore(cfg.SnapshotBackend, cfg.SnapshotDBConnect)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	if cfg.SnapshotBackend != schema.NoneBackend {
		if restored, err := cache.LoadFrom(snapshotStore); err != nil {
			logger.Warn().Err(err).Msg("Snapshot restore failed; starting with an empty cache")
		} else if restored > 0 {
			logger.Debug().Int("entries", restored).Msg("Restored cache entries from snapshot store")
		}
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".testagent")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// branchArg resolves the optional branch positional argument, falling back
// to the configured base branch.
func branchArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return cfg.BaseBranch
}

// persistSnapshot saves the in-memory cache to the snapshot store.
// Persistence failures never abort a command that already produced results.
func persistSnapshot() {
	if cfg.SnapshotBackend == schema.NoneBackend || snapshotStore == nil {
		return
	}
	if saved, err := cache.SaveTo(snapshotStore); err != nil {
		contract.LogWarn("Failed to persist cache snapshot", err)
	} else {
		logger.Debug().Int("entries", saved).Msg("Persisted cache entries to snapshot store")
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
