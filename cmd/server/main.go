package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/leca/cdn-slide-dataset/internal/config"
	"github.com/leca/cdn-slide-dataset/internal/database"
	"github.com/leca/cdn-slide-dataset/internal/dataset"
	"github.com/leca/cdn-slide-dataset/internal/router"
	"github.com/leca/cdn-slide-dataset/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := storage.NewFileSystem(cfg.StoragePath)

	ds, err := loadDataset(store, db, cfg.DatasetName, logger)
	if err != nil {
		slog.Error("failed to load dataset", "name", cfg.DatasetName, "error", err)
		os.Exit(1)
	}

	srv := router.New(ds, db, store, cfg)

	slog.Info("starting server", "addr", cfg.ListenAddr, "dataset", cfg.DatasetName, "images", ds.Len(), "read_only", cfg.ReadOnly)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// loadDataset reads the named dataset from storage, falling back to its
// latest snapshot and then to an empty dataset.
func loadDataset(store storage.Storage, db database.Database, name string, logger *slog.Logger) (*dataset.Manager, error) {
	m, err := storage.LoadDataset(store, name, dataset.WithLogger(logger))
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	snap, err := db.LatestSnapshot(name)
	switch {
	case err == nil:
		slog.Info("dataset file missing, restoring latest snapshot", "name", name, "version", snap.Version)
		return dataset.Parse(snap.Payload, dataset.WithLogger(logger))
	case errors.Is(err, database.ErrSnapshotNotFound):
		slog.Warn("dataset not found, starting empty", "name", name)
		return dataset.New(map[string]any{}, dataset.WithLogger(logger))
	default:
		return nil, err
	}
}
