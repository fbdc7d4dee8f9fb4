package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leca/cdn-slide-dataset/internal/api"
	"github.com/leca/cdn-slide-dataset/internal/database"
	"github.com/leca/cdn-slide-dataset/internal/dataset"
	"github.com/leca/cdn-slide-dataset/internal/model"
	"github.com/leca/cdn-slide-dataset/internal/version"
)

type snapshotDetail struct {
	*model.Snapshot
	Dataset json.RawMessage `json:"dataset"`
}

// CreateSnapshot handles POST /v1/snapshots. The export is stored under a
// fresh version, and the live dataset takes that version only once the
// snapshot is written.
func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	name := h.Config.DatasetName

	h.mu.Lock()
	defer h.mu.Unlock()

	v := version.GenerateVersion()
	ds := h.Dataset.Export()
	ds.Metadata.Version = v

	snap, err := database.NewSnapshot(name, ds)
	if err != nil {
		api.InternalError(w, "failed to encode snapshot", err)
		return
	}
	if err := h.DB.CreateSnapshot(snap); err != nil {
		if errors.Is(err, database.ErrSnapshotExists) {
			api.Conflict(w, "snapshot already exists for version "+snap.Version)
			return
		}
		api.InternalError(w, "failed to create snapshot", err)
		return
	}
	h.Dataset.UpdateDataset(dataset.Update{Metadata: &dataset.MetadataPatch{Version: &v}})
	slog.Info("snapshot created", "name", name, "version", snap.Version, "images", snap.ImageCount)
	api.WriteJSON(w, http.StatusCreated, api.SuccessResponse(snap))
}

// ListSnapshots handles GET /v1/snapshots.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.DB.ListSnapshots(h.Config.DatasetName)
	if err != nil {
		api.InternalError(w, "failed to list snapshots", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.ListResponse(snaps, len(snaps), len(snaps)))
}

// GetSnapshot handles GET /v1/snapshots/{version}.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.lookupSnapshot(w, chi.URLParam(r, "version"))
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(snapshotDetail{Snapshot: snap, Dataset: snap.Payload}))
}

// RestoreSnapshot handles POST /v1/snapshots/{version}/restore. The live
// dataset is replaced by the snapshot's contents.
func (h *Handler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.lookupSnapshot(w, chi.URLParam(r, "version"))
	if !ok {
		return
	}
	m, err := dataset.Parse(snap.Payload)
	if err != nil {
		api.InternalError(w, "failed to decode snapshot", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.Dataset = m
	slog.Info("snapshot restored", "name", snap.Name, "version", snap.Version)
	resp := api.SuccessResponse(m.Metadata()).
		WithMessage(api.CodeSnapshotRestored, "restored snapshot "+snap.Version+"; save the dataset to persist it")
	api.WriteJSON(w, http.StatusOK, resp)
}

// DeleteSnapshot handles DELETE /v1/snapshots/{version}.
func (h *Handler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	v := chi.URLParam(r, "version")
	if err := h.DB.DeleteSnapshot(h.Config.DatasetName, v); err != nil {
		if errors.Is(err, database.ErrSnapshotNotFound) {
			api.NotFound(w, "snapshot not found")
			return
		}
		api.InternalError(w, "failed to delete snapshot", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(map[string]string{"version": v}))
}

func (h *Handler) lookupSnapshot(w http.ResponseWriter, v string) (*model.Snapshot, bool) {
	var (
		snap *model.Snapshot
		err  error
	)
	if v == "latest" {
		snap, err = h.DB.LatestSnapshot(h.Config.DatasetName)
	} else {
		snap, err = h.DB.GetSnapshot(h.Config.DatasetName, v)
	}
	if err != nil {
		if errors.Is(err, database.ErrSnapshotNotFound) {
			api.NotFound(w, "snapshot not found")
			return nil, false
		}
		api.InternalError(w, "failed to load snapshot", err)
		return nil, false
	}
	return snap, true
}
