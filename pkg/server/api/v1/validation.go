package v1

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sentra-ai/sentra/pkg/normalize"
)

var validate = validator.New()

// maxBodyBytes caps request bodies to guard against oversized payloads.
const maxBodyBytes = 16 << 20 // 16 MiB

// IngestRequest is the body for POST /api/v1/ingest.
type IngestRequest struct {
	// Source optionally declares the log format for the whole batch.
	// When empty, each item is classified individually.
	Source string `json:"source"`

	// Items are raw log records: JSON objects or JSON-encoded strings.
	Items []any `json:"items" validate:"required,min=1"`
}

// AnalyzeRequest is the body for POST /api/v1/analyze.
type AnalyzeRequest struct {
	LogText string `json:"log_text" validate:"required"`

	// TopK bounds retrieved evidence documents. Zero means the default.
	TopK int `json:"top_k" validate:"min=0,max=50"`
}

// ValidationError is a lightweight error used for 400 responses.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return "validation failed"
	}
	if e.Reason == "" {
		return e.Field + ": invalid"
	}
	return e.Field + ": " + e.Reason
}

// decodeBody decodes a JSON request body into v with a size cap.
func decodeBody(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() { _, _ = io.Copy(io.Discard, body) }()
	return json.NewDecoder(body).Decode(v)
}

// ParseIngestRequest decodes and validates an ingest request.
func ParseIngestRequest(r *http.Request) (*IngestRequest, error) {
	var req IngestRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, &ValidationError{Reason: "invalid JSON body"}
	}
	if err := validate.Struct(&req); err != nil {
		return nil, &ValidationError{Field: "items", Reason: "must be a non-empty array"}
	}
	if s := strings.TrimSpace(req.Source); s != "" {
		if _, ok := normalize.ParseSource(s); !ok {
			return nil, &ValidationError{Field: "source", Reason: "must be one of: zeek,windows,cloudtrail"}
		}
		req.Source = s
	}
	return &req, nil
}

// ParseAnalyzeRequest decodes and validates an analyze request.
func ParseAnalyzeRequest(r *http.Request) (*AnalyzeRequest, error) {
	var req AnalyzeRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, &ValidationError{Reason: "invalid JSON body"}
	}
	req.LogText = strings.TrimSpace(req.LogText)
	if err := validate.Struct(&req); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "LogText":
				return nil, &ValidationError{Field: "log_text", Reason: "required"}
			case "TopK":
				return nil, &ValidationError{Field: "top_k", Reason: "must be between 0 and 50"}
			}
		}
		return nil, &ValidationError{}
	}
	return &req, nil
}
