package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/deeptime/core"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/internal/eventstore"
	"github.com/huangsam/deeptime/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// eventsBackendConfig reads and validates the event store settings from viper.
func eventsBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("events-backend")))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidEventBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid events backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("events-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// eventsSetup loads minimal configuration needed for event store operations.
// This is used by commands that need store access without full shared setup.
func eventsSetup() error {
	backend, connStr, err := eventsBackendConfig()
	if err != nil {
		return err
	}

	if err := eventstore.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize event store: %w", err)
	}

	cfg.EventsBackend = backend
	cfg.EventsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file") // used by export
	return nil
}

// eventsSetupWrapper wraps eventsSetup to provide PreRunE for events commands.
func eventsSetupWrapper(_ *cobra.Command, _ []string) error {
	return eventsSetup()
}

// eventsSchemaSetup loads the store settings without opening the store,
// so migrate and reset can work on a fresh or broken database.
func eventsSchemaSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := eventsBackendConfig()
	if err != nil {
		return err
	}
	cfg.EventsBackend = backend
	cfg.EventsDBConnect = connStr
	return nil
}

// sqliteFilePath returns the SQLite file the store uses for connStr.
func sqliteFilePath(connStr string) string {
	if connStr != "" {
		return connStr
	}
	return contract.GetDBFilePath()
}

// eventsCmd focused on event store management.
//
// Note: Most events subcommands use minimal initialization (eventsSetup) instead of
// the full sharedSetup used by render commands. Import uses the full setup because
// it reads the events file.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage the persisted event store",
	Long: `Manage the database of timeline events.

Imported events are used by render and the MCP tools whenever no --events file is
given. Only the events inside the viewport are read back.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  import  - Replace the stored events with an events file
  status  - Show store statistics and connection info
  clear   - Remove all stored events
  migrate - Run database schema migrations
  export  - Export stored events to Parquet
  reset   - Remove the store entirely

Examples:
  # Import your events into SQLite
  deeptime events import --events-backend sqlite --events my-events.yaml

  # Check what is stored
  deeptime events status --events-backend sqlite`,
}

// eventsImportCmd loads an events file into the store.
var eventsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the stored events with the --events file (or the built-in set)",
	Long: `Load --events strictly (any invalid record aborts the import) and replace the
stored events with it in one transaction. Without --events the built-in events are imported.

Examples:
  deeptime events import --events-backend sqlite --events my-events.csv
  DEEPTIME_EVENTS_BACKEND=postgresql DEEPTIME_EVENTS_DB_CONNECT="host=... dbname=..." deeptime events import --events my-events.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteEventsImport(rootCtx, cfg, eventstore.Manager.GetEventStore()); err != nil {
			contract.LogFatal("Failed to import events", err)
		}
	},
}

// eventsStatusCmd shows event store status.
var eventsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display event store statistics and connection details",
	Long: `Show the backend, connection state, number of stored events, the oldest and
newest event dates, the stored categories and the applied schema version.

Examples:
  deeptime events status --events-backend sqlite`,
	PreRunE: eventsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := eventstore.Manager.GetEventStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get event store status", err)
		}
		eventstore.PrintEventStoreStatus(status)
		if cfg.EventsBackend == schema.NoneBackend {
			return
		}
		version, dirty, err := eventstore.MigrationVersion(cfg.EventsBackend, cfg.EventsDBConnect)
		if err != nil {
			contract.LogWarn("Failed to read schema version", err)
			return
		}
		fmt.Printf("Schema Version: %d (dirty: %t)\n", version, dirty)
	},
}

// eventsClearCmd removes the stored events.
var eventsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored events",
	Long: `Delete every stored event but keep the schema.

WARNING: This action cannot be undone. Consider exporting first.

Examples:
  deeptime events export --events-backend sqlite --output-file backup
  deeptime events clear --events-backend sqlite`,
	PreRunE: eventsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := eventstore.Manager.GetEventStore().Clear(rootCtx); err != nil {
			contract.LogFatal("Failed to clear events", err)
		}
		fmt.Println("Events cleared successfully.")
	},
}

// eventsMigrateCmd runs database migrations for the event store.
var eventsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage the schema version of the event store.

By default, migrates to the latest version. Use --target-version for specific versions.
Opening the store for any other command migrates to the latest version automatically.

Examples:
  # Migrate to latest version (default)
  deeptime events migrate --events-backend sqlite

  # Rollback to the initial state
  deeptime events migrate --events-backend sqlite --target-version 0`,
	PreRunE: eventsSchemaSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := eventstore.MigrateEvents(cfg.EventsBackend, cfg.EventsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// eventsExportCmd exports the stored events to Parquet.
var eventsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored events to Parquet for analytics tools",
	Long: `Write every stored event to <output-file>.events.parquet.

Requires: --output-file parameter

Examples:
  deeptime events export --events-backend sqlite --output-file events
  duckdb -c "SELECT name, date_text FROM read_parquet('events.events.parquet') ORDER BY minutes_since_epoch"`,
	PreRunE: eventsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := eventstore.ExecuteEventsExport(rootCtx, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export events", err)
		}
	},
}

// eventsResetCmd removes the event store entirely.
var eventsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the event store (SQLite file or database tables)",
	Long: `Delete the SQLite database file, or drop the events and migration tables
for MySQL and PostgreSQL. The next command that opens the store recreates it.

Examples:
  deeptime events reset --events-backend sqlite`,
	PreRunE: eventsSchemaSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := eventstore.ResetStore(cfg.EventsBackend, sqliteFilePath(cfg.EventsDBConnect), cfg.EventsDBConnect); err != nil {
			contract.LogFatal("Failed to reset event store", err)
		}
		fmt.Println("Event store reset successfully.")
	},
}
