package handler

import (
	"maps"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leca/cdn-slide-dataset/internal/api"
	"github.com/leca/cdn-slide-dataset/internal/dataset"
	"github.com/leca/cdn-slide-dataset/internal/model"
	"github.com/leca/cdn-slide-dataset/internal/transform"
)

// ListImages handles GET /v1/images, optionally filtered by ?tag=.
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var entries []dataset.Entry
	if tag := r.URL.Query().Get("tag"); tag != "" {
		entries = h.Dataset.ImagesByTag(tag)
	} else {
		entries = h.Dataset.AllImages()
	}
	api.WriteJSON(w, http.StatusOK, api.ListResponse(entries, len(entries), h.Dataset.Len()))
}

// AddImages handles POST /v1/images. The body is an object of id to
// image record; existing ids are replaced.
func (h *Handler) AddImages(w http.ResponseWriter, r *http.Request) {
	images := model.NewCatalog()
	if !decodeJSON(w, r, images) {
		return
	}
	if images.Len() == 0 {
		api.BadRequest(w, "no images in request body")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.Dataset.AddCatalog(images)
	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(map[string]any{
		"ids":   images.IDs(),
		"total": h.Dataset.Len(),
	}))
}

// SearchImages handles GET /v1/images/search.
func (h *Handler) SearchImages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := dataset.SearchOptions{
		Tags:       q["tag"],
		Artist:     q.Get("artist"),
		Year:       q.Get("year"),
		Collection: q.Get("collection"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			api.InvalidField(w, "limit", "limit must be a non-negative integer")
			return
		}
		opts.Limit = n
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.Dataset.SearchImages(q.Get("q"), opts)
	api.WriteJSON(w, http.StatusOK, api.ListResponse(entries, len(entries), h.Dataset.Len()))
}

// GetImage handles GET /v1/images/{image_id}.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "image_id")

	h.mu.Lock()
	defer h.mu.Unlock()

	rec, ok := h.Dataset.Image(id)
	if !ok {
		api.NotFound(w, "image not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(dataset.Entry{ID: id, ImageRecord: rec}))
}

// DeleteImage handles DELETE /v1/images/{image_id}.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "image_id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Dataset.RemoveImage(id) {
		api.NotFound(w, "image not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(map[string]string{"id": id}))
}

// SlideURL handles GET /v1/images/{image_id}/slide.
func (h *Handler) SlideURL(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "image_id")
	d, err := displayFromQuery(r.URL.Query())
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.Dataset.ImageWithCaption(id, d)
	if !ok {
		api.NotFound(w, "image not found")
		return
	}
	// assetId is empty for sources outside the CDN.
	assetID, _ := transform.ExtractAssetID(c.Src)
	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(map[string]string{
		"id":      id,
		"url":     c.Src,
		"assetId": assetID,
	}))
}

// SrcSet handles GET /v1/images/{image_id}/srcset.
func (h *Handler) SrcSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "image_id")
	breakpoints, err := parseIntList(r.URL.Query().Get("breakpoints"))
	if err != nil {
		api.InvalidField(w, "breakpoints", "breakpoints "+err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.Dataset.Image(id); !ok {
		api.NotFound(w, "image not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(map[string]string{
		"id":     id,
		"srcset": h.Dataset.SrcSet(id, breakpoints...),
	}))
}

// GetCaption handles GET /v1/images/{image_id}/caption.
func (h *Handler) GetCaption(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "image_id")
	d, err := displayFromQuery(r.URL.Query())
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.Dataset.ImageWithCaption(id, d)
	if !ok {
		api.NotFound(w, "image not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(c))
}

type captionsRequest struct {
	IDs     []string           `json:"ids"`
	Preset  string             `json:"preset,omitempty"`
	Options *transform.Options `json:"options,omitempty"`
}

// ListCaptions handles POST /v1/images/captions. Unknown ids are skipped.
func (h *Handler) ListCaptions(w http.ResponseWriter, r *http.Request) {
	var req captionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var d dataset.Display
	switch {
	case req.Options != nil:
		if err := req.Options.Validate(); err != nil {
			api.InvalidField(w, "options", err.Error())
			return
		}
		d = dataset.ByOptions{Preset: req.Preset, Options: *req.Options}
	case req.Preset != "":
		d = dataset.ByPreset(req.Preset)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	captions := h.Dataset.ImagesWithCaptions(req.IDs, d)
	api.WriteJSON(w, http.StatusOK, api.ListResponse(captions, len(captions), len(req.IDs)))
}

// ListTags handles GET /v1/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tags := h.Dataset.AllTags()
	api.WriteJSON(w, http.StatusOK, api.ListResponse(tags, len(tags), len(tags)))
}

// ListArtists handles GET /v1/artists.
func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	artists := h.Dataset.AllArtists()
	api.WriteJSON(w, http.StatusOK, api.ListResponse(artists, len(artists), len(artists)))
}

type presetView struct {
	Name      string            `json:"name"`
	Options   transform.Options `json:"options"`
	Transform string            `json:"transform"`
}

// ListPresets handles GET /v1/presets.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	table := transform.Presets()
	out := make([]presetView, 0, len(table))
	for _, name := range slices.Sorted(maps.Keys(table)) {
		o := table[name]
		out = append(out, presetView{Name: name, Options: o, Transform: transform.BuildTransformString(o)})
	}
	api.WriteJSON(w, http.StatusOK, api.ListResponse(out, len(out), len(out)))
}

// GetMetadata handles GET /v1/metadata.
func (h *Handler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	api.WriteJSON(w, http.StatusOK, api.SuccessResponse(h.Dataset.Metadata()))
}
