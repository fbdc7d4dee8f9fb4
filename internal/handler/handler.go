package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/leca/cdn-slide-dataset/internal/api"
	"github.com/leca/cdn-slide-dataset/internal/config"
	"github.com/leca/cdn-slide-dataset/internal/database"
	"github.com/leca/cdn-slide-dataset/internal/dataset"
	"github.com/leca/cdn-slide-dataset/internal/storage"
	"github.com/leca/cdn-slide-dataset/internal/transform"
)

// Handler holds dependencies for HTTP handlers.
//
// The dataset Manager is not safe for concurrent use, so every handler
// that touches it holds mu for the whole request.
type Handler struct {
	mu      sync.Mutex
	Dataset *dataset.Manager
	DB      database.Database
	Store   storage.Storage
	Config  *config.Config
}

// decodeJSON decodes the request body into v and writes the error
// response itself when that fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.TooLarge(w, "request body too large")
			return false
		}
		api.BadRequest(w, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// displayFromQuery reads the display selection of a request. No
// parameters means the raw source; a preset alone selects the preset;
// any explicit option selects slide options.
func displayFromQuery(q url.Values) (dataset.Display, error) {
	so, err := transform.ParseOptions(q)
	if err != nil {
		return nil, err
	}
	return dataset.DisplayFor(so), nil
}

// parseIntList parses a comma-separated list of positive integers.
func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, errors.New("must be a comma-separated list of positive integers")
		}
		out = append(out, n)
	}
	return out, nil
}
