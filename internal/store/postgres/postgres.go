// Package postgres implements the store.Store interface backed by PostgreSQL.
// Boards are stored as JSONB documents keyed by board id, so the schema never
// needs to chase the card model.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/tacks/internal/model"
	"github.com/alfredjeanlab/tacks/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a PostgreSQL-backed board store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// New opens a connection pool to the given database URL and runs any pending
// migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing database handle. Migrations are not run; the
// caller owns the schema. Used by tests.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

// GetBoard loads a board document by id.
func (s *Store) GetBoard(ctx context.Context, id string) (*model.Board, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM boards WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying board %s: %w", id, err)
	}

	var b model.Board
	if err := json.Unmarshal(doc, &b); err != nil {
		return nil, fmt.Errorf("decoding board %s: %w", id, err)
	}
	b.Normalize()
	return &b, nil
}

// ListBoards returns summaries of all boards, most recently updated first.
func (s *Store) ListBoards(ctx context.Context) ([]store.BoardSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM boards ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	defer rows.Close()

	var summaries []store.BoardSummary
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning board row: %w", err)
		}
		var b model.Board
		if err := json.Unmarshal(doc, &b); err != nil {
			return nil, fmt.Errorf("decoding board row: %w", err)
		}
		b.Normalize()
		summaries = append(summaries, store.Summarize(&b))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating board rows: %w", err)
	}
	return summaries, nil
}

// PutBoard inserts or replaces a board document.
func (s *Store) PutBoard(ctx context.Context, b *model.Board) error {
	doc, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encoding board %s: %w", b.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO boards (id, doc, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		b.ID, doc, b.LastUpdated.UTC())
	if err != nil {
		return fmt.Errorf("storing board %s: %w", b.ID, err)
	}
	return nil
}

// DeleteBoard removes a board document.
func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting board %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting board %s: %w", id, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
