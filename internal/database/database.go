package database

import (
	"errors"

	"github.com/leca/cdn-slide-dataset/internal/model"
)

var (
	// ErrSnapshotNotFound is returned when no snapshot matches.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSnapshotExists is returned when a name already has a snapshot
	// with the same version.
	ErrSnapshotExists = errors.New("snapshot already exists")
)

// Database defines the persistence interface for dataset snapshots.
type Database interface {
	// CreateSnapshot stores snap, filling in its ID and CreatedAt when empty.
	CreateSnapshot(snap *model.Snapshot) error
	// GetSnapshot returns one snapshot including its payload.
	GetSnapshot(name, version string) (*model.Snapshot, error)
	// ListSnapshots returns the snapshots of name, newest version first,
	// without payloads.
	ListSnapshots(name string) ([]*model.Snapshot, error)
	// LatestSnapshot returns the newest snapshot of name including its payload.
	LatestSnapshot(name string) (*model.Snapshot, error)
	DeleteSnapshot(name, version string) error

	Close() error
}
