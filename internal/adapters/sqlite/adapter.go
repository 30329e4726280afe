// Package sqlite provides a SQLite-backed implementation of the snapshot repository port.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
	"github.com/ewilliams-labs/musicdna/internal/core/ports"
)

// timeLayout is how created_at is stored; it sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Adapter implements the snapshot repository port for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.SnapshotRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	if err := adapter.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Ping verifies the database is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// GetByID loads one snapshot, returning domain.ErrNotFound when absent.
func (a *Adapter) GetByID(ctx context.Context, id string) (domain.Snapshot, error) {
	row := a.db.QueryRowContext(ctx,
		"SELECT id, created_at, source, payload FROM snapshots WHERE id = ?", id)

	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Snapshot{}, domain.ErrNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return s, nil
}

// ListRecent returns up to limit snapshots, newest first.
func (a *Adapter) ListRecent(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	if limit <= 0 {
		return []domain.Snapshot{}, nil
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, created_at, source, payload
		FROM snapshots
		ORDER BY created_at DESC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []domain.Snapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

// Save upserts a snapshot and replaces its genre rows.
func (a *Adapter) Save(ctx context.Context, s domain.Snapshot) error {
	payload, err := json.Marshal(s.DNA)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", s.ID, err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safety net: auto-rollback if we error/panic before commit

	query := `
		INSERT INTO snapshots (id, created_at, source, personality_label, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at=excluded.created_at,
			source=excluded.source,
			personality_label=excluded.personality_label,
			payload=excluded.payload;
	`
	if _, err := tx.ExecContext(ctx, query,
		s.ID,
		s.CreatedAt.UTC().Format(timeLayout),
		string(s.Source),
		s.DNA.PersonalityLabel,
		string(payload),
	); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", s.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshot_genres WHERE snapshot_id = ?", s.ID); err != nil {
		return fmt.Errorf("failed to clear old genres: %w", err)
	}

	stmtGenre, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_genres (snapshot_id, rank, genre)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmtGenre.Close()

	for rank, genre := range s.DNA.TopGenres {
		if _, err := stmtGenre.ExecContext(ctx, s.ID, rank, genre); err != nil {
			return fmt.Errorf("failed to link genre %q: %w", genre, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	return nil
}

// GenreCounts tallies how often each genre made a snapshot's top list, most frequent first.
func (a *Adapter) GenreCounts(ctx context.Context, limit int) ([]GenreCount, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT genre, COUNT(*) AS n
		FROM snapshot_genres
		GROUP BY genre
		ORDER BY n DESC, genre ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to count genres: %w", err)
	}
	defer rows.Close()

	counts := []GenreCount{}
	for rows.Next() {
		var gc GenreCount
		if err := rows.Scan(&gc.Genre, &gc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan genre count: %w", err)
		}
		counts = append(counts, gc)
	}
	return counts, rows.Err()
}

// GenreCount is one row of GenreCounts.
type GenreCount struct {
	Genre string
	Count int
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (domain.Snapshot, error) {
	var (
		s         domain.Snapshot
		createdAt string
		source    string
		payload   string
	)
	if err := row.Scan(&s.ID, &createdAt, &source, &payload); err != nil {
		return domain.Snapshot{}, err
	}

	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	s.CreatedAt = ts

	s.Source = domain.FeatureSource(source)

	if err := json.Unmarshal([]byte(payload), &s.DNA); err != nil {
		return domain.Snapshot{}, fmt.Errorf("bad payload for %s: %w", s.ID, err)
	}
	return s, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		source TEXT NOT NULL,
		personality_label TEXT NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots (created_at);

	CREATE TABLE IF NOT EXISTS snapshot_genres (
		snapshot_id TEXT NOT NULL,
		rank INTEGER NOT NULL,
		genre TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, rank),
		FOREIGN KEY(snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}

// IsTransient reports whether err is a lock contention error worth retrying.
func IsTransient(err error) bool {
	var sqErr sqlite3.Error
	if !errors.As(err, &sqErr) {
		return false
	}
	return sqErr.Code == sqlite3.ErrBusy || sqErr.Code == sqlite3.ErrLocked
}
