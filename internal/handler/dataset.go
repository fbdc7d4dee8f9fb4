package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leca/cdn-slide-dataset/internal/api"
	"github.com/leca/cdn-slide-dataset/internal/dataset"
	"github.com/leca/cdn-slide-dataset/internal/storage"
)

// ExportDataset handles GET /v1/dataset. With ?format=yaml the dataset
// document itself is returned as YAML instead of the JSON envelope.
func (h *Handler) ExportDataset(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "yaml" {
		api.InvalidField(w, "format", "format must be json or yaml")
		return
	}

	h.mu.Lock()
	ds := h.Dataset.Export()
	h.mu.Unlock()

	if format == "yaml" {
		api.WriteYAML(w, http.StatusOK, ds)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(ds))
}

// UpdateDataset handles PATCH /v1/dataset.
func (h *Handler) UpdateDataset(w http.ResponseWriter, r *http.Request) {
	var u dataset.Update
	if !decodeJSON(w, r, &u) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.Dataset.UpdateDataset(u)
	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(h.Dataset.Metadata()))
}

// SaveDataset handles POST /v1/dataset/save. The dataset is written to
// storage under the configured name.
func (h *Handler) SaveDataset(w http.ResponseWriter, r *http.Request) {
	name := h.Config.DatasetName

	h.mu.Lock()
	defer h.mu.Unlock()

	n, err := storage.SaveDataset(h.Store, name, h.Dataset)
	if err != nil {
		api.InternalError(w, "failed to save dataset", err)
		return
	}
	slog.Info("dataset saved", "name", name, "bytes", n)
	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(map[string]any{
		"name":    name,
		"bytes":   n,
		"version": h.Dataset.Metadata().Version,
	}))
}

// ListDatasets handles GET /v1/datasets.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	names, err := h.Store.List()
	if err != nil {
		api.InternalError(w, "failed to list datasets", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.ListResponse(names, len(names), len(names)))
}

// DeleteDataset handles DELETE /v1/datasets/{name}. Only the stored file
// is removed; the dataset being served stays in memory.
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.Store.Delete(name); err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidName):
			api.InvalidField(w, "name", err.Error())
		case errors.Is(err, storage.ErrNotFound):
			api.NotFound(w, "dataset not found")
		default:
			api.InternalError(w, "failed to delete dataset", err)
		}
		return
	}
	slog.Info("dataset deleted", "name", name)

	resp := api.SuccessResponse(map[string]string{"name": name})
	if name == h.Config.DatasetName {
		resp = resp.WithMessage(api.CodeServedDatasetKept, "the served dataset is kept in memory until the next save")
	}
	api.WriteJSON(w, http.StatusOK, resp)
}
