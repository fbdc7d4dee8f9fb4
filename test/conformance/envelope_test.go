//go:build conformance

package conformance

import (
	"net/http"
	"testing"
)

func TestEnvelope_SuccessShape(t *testing.T) {
	addAndCleanup(t, "conformance-envelope")

	status, raw := doJSON(t, http.MethodGet, apiURL("/images/conformance-envelope"), nil)
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got %d", status)
	}

	assertEnvelopeShape(t, raw)

	if raw["result"] == nil {
		t.Error("result should not be nil on success")
	}
	if success, _ := raw["success"].(bool); !success {
		t.Error("success should be true")
	}
}

func TestEnvelope_ErrorShape(t *testing.T) {
	status, raw := doJSON(t, http.MethodGet, apiURL("/images/conformance-missing"), nil)
	if status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", status)
	}

	assertEnvelopeShape(t, raw)

	if success, _ := raw["success"].(bool); success {
		t.Error("success should be false for error responses")
	}
	if raw["result"] != nil {
		t.Error("result should be nil for error responses")
	}
	assertErrorCode(t, raw, 9404)
}

func TestEnvelope_ListShape(t *testing.T) {
	for _, path := range []string{"/images", "/tags", "/artists", "/presets", "/snapshots", "/datasets"} {
		t.Run(path, func(t *testing.T) {
			status, raw := doJSON(t, http.MethodGet, apiURL(path), nil)
			if status != http.StatusOK {
				t.Fatalf("expected status 200, got %d", status)
			}

			assertEnvelopeShape(t, raw)

			if _, ok := raw["result"].([]any); !ok {
				t.Errorf("result should be an array, got %T", raw["result"])
			}
			resultInfo, ok := raw["result_info"].(map[string]any)
			if !ok {
				t.Fatalf("result_info should be an object, got %T", raw["result_info"])
			}
			assertField[float64](t, resultInfo, "count")
			assertField[float64](t, resultInfo, "total_count")
		})
	}
}
