//go:build conformance

package conformance

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

// apiURL builds a full URL for the given API path suffix.
// path should start with "/" e.g. "/images" or "/snapshots/latest"
func apiURL(path string) string {
	return strings.TrimRight(baseURL, "/") + "/v1" + path
}

// doRequest performs an HTTP request and returns the response.
func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// doJSON performs an HTTP request and returns the decoded JSON as map[string]any.
func doJSON(t *testing.T, method, url string, body io.Reader) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := doRequest(t, req)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal JSON: %v\nbody: %s", err, string(data))
	}
	return resp.StatusCode, raw
}

// assertEnvelopeShape validates the response envelope shared by every route.
func assertEnvelopeShape(t *testing.T, raw map[string]any) {
	t.Helper()

	success, ok := raw["success"]
	if !ok {
		t.Error("envelope missing 'success' field")
	} else if _, ok := success.(bool); !ok {
		t.Errorf("'success' should be bool, got %T", success)
	}

	// errors and messages are arrays of {code, message}
	for _, key := range []string{"errors", "messages"} {
		field, ok := raw[key]
		if !ok {
			t.Errorf("envelope missing %q field", key)
			continue
		}
		arr, ok := field.([]any)
		if !ok {
			t.Errorf("%q should be array, got %T", key, field)
			continue
		}
		for i, e := range arr {
			obj, ok := e.(map[string]any)
			if !ok {
				t.Errorf("%s[%d] should be object, got %T", key, i, e)
				continue
			}
			if _, ok := obj["code"]; !ok {
				t.Errorf("%s[%d] missing 'code'", key, i)
			}
			if _, ok := obj["message"]; !ok {
				t.Errorf("%s[%d] missing 'message'", key, i)
			}
		}
	}
}

// assertErrorCode checks that the first error carries code.
func assertErrorCode(t *testing.T, raw map[string]any, code int) {
	t.Helper()
	errs, ok := raw["errors"].([]any)
	if !ok || len(errs) == 0 {
		t.Fatalf("errors should be a non-empty array, got %v", raw["errors"])
	}
	obj, ok := errs[0].(map[string]any)
	if !ok {
		t.Fatalf("errors[0] is not an object")
	}
	if got, _ := obj["code"].(float64); int(got) != code {
		t.Errorf("errors[0].code = %v, want %d", obj["code"], code)
	}
}

// assertField validates a field exists in an object and has the expected Go type.
// Returns the typed value.
func assertField[T any](t *testing.T, obj map[string]any, field string) T {
	t.Helper()
	val, ok := obj[field]
	if !ok {
		var zero T
		t.Errorf("missing field %q", field)
		return zero
	}
	typed, ok := val.(T)
	if !ok {
		var zero T
		t.Errorf("field %q: expected %T, got %T (%v)", field, zero, val, val)
		return zero
	}
	return typed
}

// addAndCleanup adds one image under id and registers a cleanup to
// delete it. Returns the decoded image from a follow-up GET.
func addAndCleanup(t *testing.T, id string) map[string]any {
	t.Helper()
	body := `{"` + id + `":{
		"src":"https://res.cloudinary.com/demo/image/upload/` + id + `.jpg",
		"caption":"Conformance ` + id + `",
		"metadata":{"artist":"Conformance Artist","year":2000},
		"tags":["conformance"]
	}}`
	status, raw := doJSON(t, http.MethodPost, apiURL("/images"), strings.NewReader(body))
	if status != http.StatusOK {
		t.Fatalf("add failed with status %d: %v", status, raw)
	}

	t.Cleanup(func() {
		req, _ := http.NewRequest(http.MethodDelete, apiURL("/images/"+id), nil)
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			resp.Body.Close()
		}
	})

	status, raw = doJSON(t, http.MethodGet, apiURL("/images/"+id), nil)
	if status != http.StatusOK {
		t.Fatalf("get failed with status %d: %v", status, raw)
	}
	result, ok := raw["result"].(map[string]any)
	if !ok {
		t.Fatalf("image result is not object: %T", raw["result"])
	}
	return result
}
