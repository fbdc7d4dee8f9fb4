package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"
)

// Response is the standard API response envelope.
type Response struct {
	Result     any          `json:"result" yaml:"result"`
	Success    bool         `json:"success" yaml:"success"`
	Errors     []APIError   `json:"errors" yaml:"errors"`
	Messages   []APIMessage `json:"messages" yaml:"messages"`
	ResultInfo *ResultInfo  `json:"result_info,omitempty" yaml:"result_info,omitempty"`
}

// APIMessage represents a single message in the response.
type APIMessage struct {
	Code    int    `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// APIError represents a single error in the response.
type APIError struct {
	Code    int             `json:"code" yaml:"code"`
	Message string          `json:"message" yaml:"message"`
	Source  *APIErrorSource `json:"source,omitempty" yaml:"source,omitempty"`
}

// APIErrorSource identifies the field that caused the error.
type APIErrorSource struct {
	Pointer string `json:"pointer" yaml:"pointer"`
}

// ResultInfo carries counts for list endpoints.
type ResultInfo struct {
	Count      int `json:"count" yaml:"count"`
	TotalCount int `json:"total_count" yaml:"total_count"`
}

// SuccessResponse builds a successful response.
func SuccessResponse(result any) Response {
	return Response{
		Result:   result,
		Success:  true,
		Errors:   []APIError{},
		Messages: []APIMessage{},
	}
}

// ErrorResponse builds an error response.
func ErrorResponse(code int, message string) Response {
	return Response{
		Result:  nil,
		Success: false,
		Errors: []APIError{
			{Code: code, Message: message},
		},
		Messages: []APIMessage{},
	}
}

// FieldErrorResponse builds an error response pointing at the offending
// request field.
func FieldErrorResponse(code int, message, field string) Response {
	resp := ErrorResponse(code, message)
	resp.Errors[0].Source = &APIErrorSource{Pointer: field}
	return resp
}

// ListResponse builds a successful response that includes result_info.
func ListResponse(result any, count, total int) Response {
	resp := SuccessResponse(result)
	resp.ResultInfo = &ResultInfo{Count: count, TotalCount: total}
	return resp
}

// Informational message codes.
const (
	CodeSnapshotRestored  = 10001
	CodeServedDatasetKept = 10002
)

// WithMessage appends an informational message to resp.
func (r Response) WithMessage(code int, message string) Response {
	r.Messages = append(r.Messages, APIMessage{Code: code, Message: message})
	return r
}

// WriteJSON serialises resp as JSON and writes it to w with the given HTTP status code.
func WriteJSON(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteYAML serialises v as YAML and writes it to w with the given HTTP status code.
func WriteYAML(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(status)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		slog.Error("failed to encode yaml response", "error", err)
		return
	}
	if err := enc.Close(); err != nil {
		slog.Error("failed to flush yaml response", "error", err)
	}
}
