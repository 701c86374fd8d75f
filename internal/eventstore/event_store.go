package eventstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// EventStoreImpl stores events in a SQL database.
type EventStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.EventStore = &EventStoreImpl{} // Compile-time check

// NewEventStore opens the backend and migrates its schema to the latest version.
func NewEventStore(backend schema.DatabaseBackend, connStr string) (contract.EventStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled persistence
		return &EventStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if _, err := runMigrations(db, backend, -1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", eventsTable, err)
	}
	return &EventStoreImpl{db: db, backend: backend}, nil
}

// openDB opens and pings the database for backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported events backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// placeholder returns the n-th (1-based) parameter placeholder for the backend.
func (s *EventStoreImpl) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?" // SQLite and MySQL
}

func (s *EventStoreImpl) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// ReplaceEvents swaps the stored events for events in one transaction.
func (s *EventStoreImpl) ReplaceEvents(ctx context.Context, events []schema.Event) (err error) {
	if s.disabled() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+eventsTable); err != nil {
		return fmt.Errorf("failed to clear %s: %w", eventsTable, err)
	}

	ph := make([]string, 7)
	for i := range ph {
		ph[i] = s.placeholder(i + 1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (seq, name, date_text, minutes_since_epoch, significance, categories, description)
		VALUES (%s)`, eventsTable, strings.Join(ph, ", "))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range events {
		r := ToRecord(i, e)
		if _, err = stmt.ExecContext(ctx, r.Seq, r.Name, r.DateText, r.Minutes, r.Significance, r.Categories, r.Description); err != nil {
			return fmt.Errorf("failed to insert event %d (%q): %w", i, e.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}
	return nil
}

// QueryEvents returns stored events inside window, ordered by date then insertion order.
func (s *EventStoreImpl) QueryEvents(ctx context.Context, window schema.TimeWindow) ([]schema.Event, error) {
	if s.disabled() {
		return nil, nil
	}

	var conds []string
	var args []any
	if window.FromMinutes != nil {
		args = append(args, *window.FromMinutes)
		conds = append(conds, "minutes_since_epoch >= "+s.placeholder(len(args)))
	}
	if window.ToMinutes != nil {
		args = append(args, *window.ToMinutes)
		conds = append(conds, "minutes_since_epoch <= "+s.placeholder(len(args)))
	}
	query := fmt.Sprintf(`SELECT seq, name, date_text, minutes_since_epoch, significance, categories, description FROM %s`, eventsTable)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY minutes_since_epoch, seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", eventsTable, err)
	}
	defer func() { _ = rows.Close() }()

	var events []schema.Event
	for rows.Next() {
		var r schema.EventRecord
		if err := rows.Scan(&r.Seq, &r.Name, &r.DateText, &r.Minutes, &r.Significance, &r.Categories, &r.Description); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, FromRecord(r))
	}
	return events, rows.Err()
}

// Clear removes every stored event and keeps the schema.
func (s *EventStoreImpl) Clear(ctx context.Context) error {
	if s.disabled() {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+eventsTable); err != nil {
		return fmt.Errorf("failed to clear %s: %w", eventsTable, err)
	}
	return nil
}

// GetStatus returns status information about the event store.
func (s *EventStoreImpl) GetStatus() (schema.EventStoreStatus, error) {
	status := schema.EventStoreStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.disabled() {
		return status, nil
	}

	row := s.db.QueryRow("SELECT COUNT(*) FROM " + eventsTable)
	if err := row.Scan(&status.TotalEvents); err != nil {
		return status, fmt.Errorf("failed to get total events: %w", err)
	}
	if status.TotalEvents == 0 {
		return status, nil
	}

	for _, q := range []struct {
		order string
		dest  *string
	}{{"ASC", &status.Oldest}, {"DESC", &status.Newest}} {
		query := fmt.Sprintf("SELECT date_text FROM %s ORDER BY minutes_since_epoch %s LIMIT 1", eventsTable, q.order)
		if err := s.db.QueryRow(query).Scan(q.dest); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return status, fmt.Errorf("failed to get %s event: %w", strings.ToLower(q.order), err)
		}
	}

	rows, err := s.db.Query("SELECT DISTINCT categories FROM " + eventsTable)
	if err != nil {
		return status, fmt.Errorf("failed to get categories: %w", err)
	}
	defer func() { _ = rows.Close() }()
	seen := make(map[string]struct{})
	for rows.Next() {
		var joined string
		if err := rows.Scan(&joined); err != nil {
			return status, fmt.Errorf("failed to scan categories: %w", err)
		}
		for _, c := range splitCategories(joined) {
			seen[strings.ToLower(c)] = struct{}{}
		}
	}
	for c := range seen {
		status.Categories = append(status.Categories, c)
	}
	sort.Strings(status.Categories)
	return status, rows.Err()
}

// Close closes the underlying DB connection.
func (s *EventStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
