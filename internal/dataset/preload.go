package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

var errNoSource = errors.New("image has no source URL")

// FetchFunc retrieves one URL.
type FetchFunc func(ctx context.Context, url string) error

// PreloadResult is the outcome for one image.
type PreloadResult struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`

	err error
}

// Err returns the fetch error, or nil on success.
func (r PreloadResult) Err() error {
	return r.err
}

// PreloadReport collects the results of PreloadImages in input order.
type PreloadReport struct {
	Results []PreloadResult `json:"results"`
	Failed  int             `json:"failed"`
}

// PreloadImages fetches the display URL of every id concurrently and waits
// for all of them. Failures, including unknown ids, are logged as warnings
// and recorded in the report; they never abort the other fetches.
func (m *Manager) PreloadImages(ctx context.Context, ids []string, d Display, fetch FetchFunc) PreloadReport {
	results := make([]PreloadResult, len(ids))

	// URLs are resolved up front; only fetch runs on other goroutines.
	var wg sync.WaitGroup
	for i, id := range ids {
		r := &results[i]
		r.ID = id
		rec, ok := m.record(id)
		if !ok {
			r.err = ErrImageNotFound
			continue
		}
		r.URL = rec.Src
		if d != nil {
			r.URL = d.displayURL(m, id)
		}
		if r.URL == "" {
			r.err = errNoSource
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.err = fetch(ctx, r.URL)
		}()
	}
	wg.Wait()

	report := PreloadReport{Results: results}
	for i := range results {
		r := &results[i]
		if r.err == nil {
			continue
		}
		r.Error = r.err.Error()
		report.Failed++
		m.logger.Warn("preload failed", "id", r.ID, "url", r.URL, "error", r.err)
	}
	if report.Failed > 0 {
		m.logger.Warn("some images failed to preload", "failed", report.Failed, "total", len(ids))
	}
	return report
}

// HTTPFetch returns a FetchFunc that issues a HEAD request and treats any
// status of 400 or above as a failure.
func HTTPFetch(client *http.Client) FetchFunc {
	return func(ctx context.Context, url string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", url, err)
		}
		resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}
		return nil
	}
}
