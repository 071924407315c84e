package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Ponnammaah123/test-agent/internal/contentcache"
	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// snapshotSetup loads minimal configuration needed for snapshot operations.
// This is used by commands that need store access without full shared setup.
func snapshotSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get snapshot-related config values
	backend := schema.SnapshotBackend(viper.GetString("snapshot-backend"))
	connStr := viper.GetString("snapshot-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateSnapshotConnectionString(backend, connStr); err != nil {
		return err
	}

	// Open the store with the loaded config (no host or analyzer needed)
	store, err := contentcache.NewSnapshotStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	snapshotStore = store

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	if cfg.Precision == 0 {
		cfg.Precision = contract.DefaultPrecision
	}

	logger = newLogger()
	cache = contentcache.New(contentcache.Options{Logger: logger})

	return nil
}

// snapshotSetupWrapper wraps snapshotSetup to provide PreRunE for cache commands.
func snapshotSetupWrapper(_ *cobra.Command, _ []string) error {
	return snapshotSetup()
}

// snapshotMigrateSetup loads minimal configuration needed for migrate
// operations. This is a specialized setup that does NOT open the store or
// create tables, allowing migrations to run on a fresh database.
func snapshotMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.SnapshotBackend(viper.GetString("snapshot-backend"))
	connStr := viper.GetString("snapshot-db-connect")

	if err := contract.ValidateSnapshotConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetSnapshotDBFilePath()
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr

	return nil
}

// snapshotMigrateSetupWrapper wraps snapshotMigrateSetup to provide PreRunE for migrate command.
func snapshotMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return snapshotMigrateSetup()
}

// cacheCmd focused on cache snapshot management.
//
// Note: Most cache subcommands use minimal initialization (snapshotSetup)
// instead of the full sharedSetup used by analysis commands. This avoids
// repo URL validation and host construction for simple store operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage persisted analysis snapshots",
	Long: `Manage the snapshot store that carries cached analyses across runs.

Testagent persists the in-memory content cache to a database so repeated
invocations can skip remote fetching entirely until entries expire.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status     - Show snapshot store statistics and connection info
  stats      - Show per-entry statistics for persisted analyses
  clear      - Remove all persisted snapshots
  invalidate - Drop the snapshot for one branch
  export     - Write all snapshots to a JSON or Parquet file
  import     - Load snapshots from a JSON export
  migrate    - Run schema migrations on the snapshot store

Examples:
  # Check snapshot store status
  testagent cache status

  # Drop everything after a force push
  testagent cache clear`,
}

// cacheStatusCmd shows snapshot store status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot store statistics and connection details",
	Long: `Show detailed information about the snapshot store.

Displays:
- Backend type and connection status
- Total number of persisted entries
- Oldest and newest snapshot timestamps
- Snapshot table size

Examples:
  # Check snapshot store status
  testagent cache status`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := snapshotStore.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get snapshot status", err)
		}
		if err := writer.WriteSnapshot(status, cfg); err != nil {
			contract.LogFatal("Cannot write snapshot status", err)
		}
	},
}

// cacheStatsCmd reports cache statistics over the persisted entries.
var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display per-entry statistics for persisted analyses",
	Long: `Restore persisted snapshots into memory and report cache statistics.

Displays one row per cached analysis with its file count, size, age, and
expiry state, plus entry and size totals.

Examples:
  # Inspect what the next run will start with
  testagent cache stats

  # Machine-readable statistics
  testagent cache stats --output json`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if _, err := cache.LoadFrom(snapshotStore); err != nil {
			contract.LogFatal("Failed to load snapshots", err)
		}
		if err := writer.WriteStats(cache.Stats(), cfg); err != nil {
			contract.LogFatal("Cannot write cache statistics", err)
		}
	},
}

// cacheClearCmd clears the snapshot store.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all persisted analysis snapshots",
	Long: `Delete every persisted snapshot from the configured backend.

Use this when:
- Branch history was rewritten (rebase, force push)
- Snapshots may be stale or corrupted
- Testing performance without warm-start data

Examples:
  # Clear SQLite snapshots (default)
  testagent cache clear

  # Clear MySQL snapshots (set connection string via env variable)
  TESTAGENT_SNAPSHOT_BACKEND=mysql TESTAGENT_SNAPSHOT_DB_CONNECT="..." testagent cache clear`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		keys, err := snapshotStore.Keys()
		if err != nil {
			contract.LogFatal("Failed to list snapshots", err)
		}
		for _, key := range keys {
			if err := snapshotStore.Delete(key); err != nil {
				contract.LogFatal(fmt.Sprintf("Failed to delete snapshot %q", key), err)
			}
		}
		fmt.Printf("Removed %d snapshots.\n", len(keys))
	},
}

// cacheInvalidateCmd drops the snapshot for one branch.
// Uses full shared setup since the cache key includes the repository path.
var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate [branch]",
	Short: "Drop the cached analysis for one branch",
	Long: `Remove the cached analysis for a branch from memory and from the
snapshot store, forcing the next analysis to hit the remote host.

Examples:
  # Invalidate the default branch
  testagent cache invalidate --repo-url https://github.com/acme/app

  # Invalidate a feature branch
  testagent cache invalidate feature/login --repo-url https://github.com/acme/app`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		branch := branchArg(args)
		key := schema.CacheKey(analyzer.Repository(), branch)

		removed := cache.Invalidate(analyzer.Repository(), branch)
		if err := snapshotStore.Delete(key); err != nil {
			contract.LogFatal(fmt.Sprintf("Failed to delete snapshot %q", key), err)
		}

		if removed {
			fmt.Printf("Invalidated cached analysis for branch %q.\n", branch)
		} else {
			fmt.Printf("No cached analysis for branch %q.\n", branch)
		}
	},
}

// cacheExportCmd exports persisted snapshots to a file.
var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export persisted snapshots to JSON or Parquet",
	Long: `Export all persisted snapshots to a file for inspection or analytics.

The format follows the --output-file extension: .parquet produces a
columnar file for DuckDB, Spark, or pandas; anything else produces JSON.

Requires: --output-file parameter

Examples:
  # Export all snapshots as JSON
  testagent cache export --output-file snapshots.json

  # Export for analytics tooling
  testagent cache export --output-file snapshots.parquet
  duckdb -c "SELECT * FROM read_parquet('snapshots.parquet') LIMIT 10"`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.OutputFile == "" {
			contract.LogFatal("Cannot export snapshots", fmt.Errorf("--output-file is required"))
		}

		loaded, err := cache.LoadFrom(snapshotStore)
		if err != nil {
			contract.LogFatal("Failed to load snapshots", err)
		}

		if strings.EqualFold(filepath.Ext(cfg.OutputFile), ".parquet") {
			rows, err := cache.ExportParquetFile(cfg.OutputFile)
			if err != nil {
				contract.LogFatal("Failed to export snapshots", err)
			}
			fmt.Printf("Exported %d entries (%d file rows) to %s.\n", loaded, rows, cfg.OutputFile)
			return
		}

		if err := cache.ExportJSONFile(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export snapshots", err)
		}
		fmt.Printf("Exported %d entries to %s.\n", loaded, cfg.OutputFile)
	},
}

// cacheImportCmd loads snapshots from a JSON export.
var cacheImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import snapshots from a JSON export",
	Long: `Load analysis entries from a JSON export and persist them to the
configured snapshot store.

Use this to seed a fresh environment or move snapshots between backends.

Examples:
  # Import a previous export
  testagent cache import snapshots.json

  # Import into PostgreSQL
  TESTAGENT_SNAPSHOT_BACKEND=postgresql TESTAGENT_SNAPSHOT_DB_CONNECT="..." testagent cache import snapshots.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		imported, err := cache.ImportJSONFile(args[0])
		if err != nil {
			contract.LogFatal("Failed to import snapshots", err)
		}
		if _, err := cache.SaveTo(snapshotStore); err != nil {
			contract.LogFatal("Failed to persist imported snapshots", err)
		}
		fmt.Printf("Imported %d entries from %s.\n", imported, args[0])
	},
}

// cacheMigrateCmd runs database migrations for the snapshot store.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the snapshot store.

Migrations allow:
- Upgrading to new schema versions when testagent is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  testagent cache migrate

  # Migrate to specific version
  testagent cache migrate --target-version 1

  # Rollback to previous version
  testagent cache migrate --target-version 0`,
	PreRunE: snapshotMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := contentcache.MigrateSnapshots(cfg.SnapshotBackend, cfg.SnapshotDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
