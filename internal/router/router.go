package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leca/cdn-slide-dataset/internal/api"
	"github.com/leca/cdn-slide-dataset/internal/config"
	"github.com/leca/cdn-slide-dataset/internal/database"
	"github.com/leca/cdn-slide-dataset/internal/dataset"
	"github.com/leca/cdn-slide-dataset/internal/handler"
	"github.com/leca/cdn-slide-dataset/internal/storage"
)

// Server holds the application dependencies and HTTP router.
type Server struct {
	Handler *handler.Handler
	Config  *config.Config
	Router  chi.Router
}

// New creates a new Server with a fully configured chi router.
func New(ds *dataset.Manager, db database.Database, store storage.Storage, cfg *config.Config) *Server {
	h := &handler.Handler{
		Dataset: ds,
		DB:      db,
		Store:   store,
		Config:  cfg,
	}
	s := &Server{Handler: h, Config: cfg}

	r := chi.NewRouter()

	// CORS must run before other middleware to answer preflight OPTIONS.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MaxBodyMiddleware(cfg.MaxBodyBytes))

	r.Get("/health", s.Health)

	// Mutating routes are wrapped so a read-only server rejects them.
	// POST /images/captions only reads and stays available.
	ro := api.ReadOnlyMiddleware(cfg.ReadOnly)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/images", func(r chi.Router) {
			r.Get("/", h.ListImages)
			r.With(ro).Post("/", h.AddImages)

			// Fixed paths must be registered before the {image_id}
			// wildcard so that /search is not read as an id.
			r.Get("/search", h.SearchImages)
			r.Post("/captions", h.ListCaptions)

			r.Get("/{image_id}", h.GetImage)
			r.With(ro).Delete("/{image_id}", h.DeleteImage)
			r.Get("/{image_id}/slide", h.SlideURL)
			r.Get("/{image_id}/srcset", h.SrcSet)
			r.Get("/{image_id}/caption", h.GetCaption)
		})

		r.Get("/tags", h.ListTags)
		r.Get("/artists", h.ListArtists)
		r.Get("/presets", h.ListPresets)
		r.Get("/metadata", h.GetMetadata)

		r.Get("/dataset", h.ExportDataset)
		r.With(ro).Patch("/dataset", h.UpdateDataset)
		r.With(ro).Post("/dataset/save", h.SaveDataset)
		r.Get("/datasets", h.ListDatasets)
		r.With(ro).Delete("/datasets/{name}", h.DeleteDataset)

		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", h.ListSnapshots)
			r.With(ro).Post("/", h.CreateSnapshot)
			r.Get("/{version}", h.GetSnapshot)
			r.With(ro).Post("/{version}/restore", h.RestoreSnapshot)
			r.With(ro).Delete("/{version}", h.DeleteSnapshot)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.NotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.MethodNotAllowed(w, "method not allowed")
	})

	s.Router = r
	slog.Debug("router configured", "read_only", cfg.ReadOnly, "dataset", cfg.DatasetName)
	return s
}

// Health returns a simple health-check response.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
