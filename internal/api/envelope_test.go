package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSuccessResponse(t *testing.T) {
	result := map[string]string{"id": "mona-lisa"}
	resp := SuccessResponse(result)

	assert.True(t, resp.Success)
	assert.Equal(t, result, resp.Result)
	assert.Empty(t, resp.Errors)
	assert.Empty(t, resp.Messages)
	assert.Nil(t, resp.ResultInfo)
}

func TestSuccessResponseNilResult(t *testing.T) {
	resp := SuccessResponse(nil)

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Result)
	assert.Empty(t, resp.Errors)
	assert.Empty(t, resp.Messages)
}

func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse(9400, "bad request")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Result)
	assert.Len(t, resp.Errors, 1)
	assert.Equal(t, 9400, resp.Errors[0].Code)
	assert.Equal(t, "bad request", resp.Errors[0].Message)
	assert.Nil(t, resp.Errors[0].Source)
	assert.Empty(t, resp.Messages)
}

func TestFieldErrorResponse(t *testing.T) {
	resp := FieldErrorResponse(9400, "must be a number", "limit")

	require.Len(t, resp.Errors, 1)
	require.NotNil(t, resp.Errors[0].Source)
	assert.Equal(t, "limit", resp.Errors[0].Source.Pointer)
}

func TestListResponse(t *testing.T) {
	items := []string{"a", "b"}
	resp := ListResponse(items, 2, 50)

	assert.True(t, resp.Success)
	assert.Equal(t, items, resp.Result)
	require.NotNil(t, resp.ResultInfo)
	assert.Equal(t, ResultInfo{Count: 2, TotalCount: 50}, *resp.ResultInfo)
}

func TestWithMessage(t *testing.T) {
	base := SuccessResponse(nil)
	resp := base.WithMessage(1001, "saved")

	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "saved", resp.Messages[0].Message)
	assert.Empty(t, base.Messages)
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	body := SuccessResponse(map[string]string{"hello": "world"})

	WriteJSON(w, http.StatusOK, body)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var decoded Response
	err := json.NewDecoder(res.Body).Decode(&decoded)
	require.NoError(t, err)
	assert.True(t, decoded.Success)
}

func TestWriteJSONCustomStatus(t *testing.T) {
	w := httptest.NewRecorder()
	body := ErrorResponse(9404, "not found")

	WriteJSON(w, http.StatusNotFound, body)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	var decoded Response
	err := json.NewDecoder(res.Body).Decode(&decoded)
	require.NoError(t, err)
	assert.False(t, decoded.Success)
	assert.Len(t, decoded.Errors, 1)
	assert.Equal(t, "not found", decoded.Errors[0].Message)
}

func TestWriteYAML(t *testing.T) {
	w := httptest.NewRecorder()

	WriteYAML(w, http.StatusOK, map[string]any{"name": "gallery", "count": 2})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Equal(t, "gallery", decoded["name"])
	assert.Equal(t, 2, decoded["count"])
}

func TestErrorResponseJSONStructure(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusMethodNotAllowed, ErrorResponse(9405, "server is read-only"))

	var raw map[string]any
	err := json.NewDecoder(w.Result().Body).Decode(&raw)
	require.NoError(t, err)

	assert.Nil(t, raw["result"])
	assert.Equal(t, false, raw["success"])
	assert.NotContains(t, raw, "result_info")

	errors, ok := raw["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errors, 1)

	errObj, ok := errors[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(9405), errObj["code"])
	assert.Equal(t, "server is read-only", errObj["message"])
	assert.NotContains(t, errObj, "source")
}
