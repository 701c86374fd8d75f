// Package eventstore persists timeline events in SQL databases.
package eventstore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
)

// eventsTable is the name of the table holding timeline events.
const eventsTable = "timeline_events"

// migrationsTable records the applied schema version.
const migrationsTable = "deeptime_schema_migrations"

// StoreManager owns the process-wide EventStore.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	events       contract.EventStore
}

// GetEventStore returns the event store, or nil before InitStore.
func (mgr *StoreManager) GetEventStore() contract.EventStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.events
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStore initializes the global manager with an event store for backend.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		store, err := NewEventStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize event store: %w", err)
			return
		}
		Manager.Lock()
		defer Manager.Unlock()
		Manager.events = store
	})

	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.events != nil {
			_ = Manager.events.Close()
		}
	})
}

// ResetStore removes the event store entirely.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the events and migration tables.
// For NoneBackend, it does nothing.
func ResetStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropSQLTables("mysql", connStr, eventsTable, migrationsTable)

	case schema.PostgreSQLBackend:
		return dropSQLTables("pgx", connStr, eventsTable, migrationsTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported events backend for reset: %s", backend)
	}
}

// dropSQLTables connects to the SQL database and drops the tables if they exist.
func dropSQLTables(driverName, connStr string, tables ...string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
