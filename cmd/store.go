package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/internal/snapstore"
	"github.com/huangsam/mri/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfigSetup loads the minimal configuration needed for store administration.
// It does NOT open the store or create tables.
func storeConfigSetup() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetup loads the store configuration and opens the store.
func storeSetup() error {
	if err := storeConfigSetup(); err != nil {
		return err
	}
	if err := snapstore.InitStore(rootCtx, cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeConfigSetupWrapper wraps storeConfigSetup for commands that manage the database directly.
func storeConfigSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeConfigSetup()
}

// sqliteFilePath returns the SQLite database file the store uses.
func sqliteFilePath() string {
	if cfg.StoreDBConnect != "" {
		return cfg.StoreDBConnect
	}
	return snapstore.GetSnapshotDBFilePath()
}

// storeCmd focused on snapshot store management.
//
// Note: Store subcommands use minimal initialization instead of the full
// sharedSetup, so no assessment parsing or threshold validation happens.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the assessment snapshot store",
	Long: `Manage the snapshot store that holds every assessed snapshot and its delta.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all snapshots
  migrate - Run database schema migrations

Examples:
  # Check store status
  mri store status

  # Export for analysis in pandas/DuckDB
  mri store export --output-file mri-data`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot store statistics and connection details",
	Long: `Show the backend, the number of assessments and sites, the covered date
range and the table sizes of the snapshot store.

Examples:
  # Check store status
  mri store status`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetSnapshotStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		snapstore.PrintStoreStatus(os.Stdout, status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all saved assessment snapshots",
	Long: `Delete every saved snapshot, role score and driver score.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the snapshot tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  mri store export --output-file backup
  mri store clear`,
	Args:    cobra.NoArgs,
	PreRunE: storeConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := snapstore.ClearStore(rootCtx, cfg.StoreBackend, sqliteFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear snapshot store", err)
		}
		fmt.Println("Snapshot store cleared successfully.")
	},
}

// storeExportCmd exports the store to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved snapshots to Parquet for BI tools and analytics",
	Long: `Export all saved snapshots to Parquet files for use with analytics tools.

Writes three files next to the given prefix:
- <prefix>.mri_assessments.parquet
- <prefix>.mri_role_scores.parquet
- <prefix>.mri_driver_scores.parquet

Requires: --output-file parameter

Examples:
  # Export all data
  mri store export --output-file mri-data

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('mri-data.mri_assessments.parquet') LIMIT 10"`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := snapstore.ExecuteSnapshotExport(rootCtx, os.Stdout, storeManager.GetSnapshotStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export snapshots", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the snapshot store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the snapshot store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  mri store migrate

  # Rollback to initial state
  mri store migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: storeConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.StoreDBConnect
		if cfg.StoreBackend == schema.SQLiteBackend {
			connStr = sqliteFilePath()
		}
		summary, err := snapstore.MigrateSnapshots(rootCtx, cfg.StoreBackend, connStr, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(summary)
	},
}
