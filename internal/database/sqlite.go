package database

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leca/cdn-slide-dataset/internal/model"
	"github.com/leca/cdn-slide-dataset/internal/version"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements Database backed by SQLite.
type SQLiteDB struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteDB opens (or creates) an SQLite database at dsn and runs migrations.
// For in-memory use pass "file::memory:?cache=shared".
func NewSQLiteDB(dsn string) (*SQLiteDB, error) {
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	} else if !strings.Contains(dsn, "_journal_mode") {
		dsn += "&_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteDB{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) CreateSnapshot(snap *model.Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = s.now()
	}
	snap.CreatedAt = snap.CreatedAt.UTC()

	_, err := s.db.Exec(`
		INSERT INTO snapshots (id, name, version, schema_version, image_count, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Name, snap.Version, snap.SchemaVersion, snap.ImageCount,
		snap.CreatedAt.Format(time.RFC3339Nano), snap.Payload,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s@%s", ErrSnapshotExists, snap.Name, snap.Version)
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetSnapshot(name, version string) (*model.Snapshot, error) {
	row := s.db.QueryRow(`
		SELECT id, name, version, schema_version, image_count, created_at, payload
		FROM snapshots WHERE name = ? AND version = ?`,
		name, version,
	)
	snap, err := scanSnapshot(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s@%s", ErrSnapshotNotFound, name, version)
	}
	return snap, err
}

func (s *SQLiteDB) ListSnapshots(name string) ([]*model.Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, name, version, schema_version, image_count, created_at
		FROM snapshots WHERE name = ?`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []*model.Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows, false)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Version strings are not guaranteed to sort as text, so order in Go.
	slices.SortStableFunc(snaps, func(a, b *model.Snapshot) int {
		return version.CompareVersions(b.Version, a.Version)
	})
	return snaps, nil
}

func (s *SQLiteDB) LatestSnapshot(name string) (*model.Snapshot, error) {
	snaps, err := s.ListSnapshots(name)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}
	return s.GetSnapshot(name, snaps[0].Version)
}

func (s *SQLiteDB) DeleteSnapshot(name, version string) error {
	res, err := s.db.Exec(`DELETE FROM snapshots WHERE name = ? AND version = ?`, name, version)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s@%s", ErrSnapshotNotFound, name, version)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scannable, withPayload bool) (*model.Snapshot, error) {
	snap := &model.Snapshot{}
	var createdStr string

	dest := []any{&snap.ID, &snap.Name, &snap.Version, &snap.SchemaVersion, &snap.ImageCount, &createdStr}
	if withPayload {
		dest = append(dest, &snap.Payload)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return snap, nil
}
