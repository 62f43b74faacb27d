// Package audit records every write operation sent to the remote ledger in
// a local SQLite log, so destructive calls can be reconstructed later.
package audit

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Event is one recorded ledger write.
type Event struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Operation string    `json:"operation"`
	EntityID  string    `json:"entity_id"`
	Payload   string    `json:"payload"`
}

// Store is the SQLite-backed audit log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the audit database at dbPath and runs
// pending migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping audit database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record appends one audit event. The payload is stored as JSON.
func (s *Store) Record(ctx context.Context, operation, entityID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, created_at, operation, entity_id, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(),
		time.Now().UTC().Format(time.RFC3339Nano),
		operation,
		entityID,
		string(body),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit < 1 {
		limit = 50
	}
	// rowid is insertion order; the textual timestamp is not safely
	// sortable once RFC 3339 trims trailing fractional zeros.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, operation, entity_id, payload
		 FROM audit_events ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var created string
		if err := rows.Scan(&e.ID, &created, &e.Operation, &e.EntityID, &e.Payload); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// runMigrations uses a separate connection so it cannot interfere with the
// store's own handle.
func runMigrations(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
