package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentra-ai/sentra/pkg/analysis"
	"github.com/sentra-ai/sentra/pkg/ingest"
	"github.com/sentra-ai/sentra/pkg/rules"
	"github.com/sentra-ai/sentra/pkg/server/api"
)

// Mock ingest pipeline for testing
type mockIngester struct {
	report    ingest.Report
	err       error
	gotItems  []any
	gotSource string
	callCount int
}

func (m *mockIngester) Run(ctx context.Context, items []any, declaredSource string) (ingest.Report, error) {
	m.callCount++
	m.gotItems = items
	m.gotSource = declaredSource
	if m.err != nil {
		return ingest.Report{}, m.err
	}
	return m.report, nil
}

// Mock analyzer for testing
type mockAnalyzer struct {
	result  *analysis.Result
	err     error
	gotText string
	gotTopK int
}

func (m *mockAnalyzer) Analyze(ctx context.Context, incident string, topK int) (*analysis.Result, error) {
	m.gotText = incident
	m.gotTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestIngestHandler_Success(t *testing.T) {
	mock := &mockIngester{
		report: ingest.Report{Stored: 2, Malformed: 1, Duplicates: 1},
	}
	deps := &api.Deps{Ingester: mock}
	handler := IngestHandler(deps)

	body := `{"source": "zeek", "items": [{"ts": "1"}, {"ts": "2"}, "not json", {"ts": "1"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, "zeek", mock.gotSource)
	require.Len(t, mock.gotItems, 4)

	var report ingest.Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	require.Equal(t, 2, report.Stored)
	require.Equal(t, 1, report.Malformed)
	require.Equal(t, 1, report.Duplicates)
}

func TestIngestHandler_EmptyItems(t *testing.T) {
	mock := &mockIngester{}
	deps := &api.Deps{Ingester: mock}
	handler := IngestHandler(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", strings.NewReader(`{"items": []}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 0, mock.callCount)
}

func TestIngestHandler_InvalidSource(t *testing.T) {
	deps := &api.Deps{Ingester: &mockIngester{}}
	handler := IngestHandler(deps)

	body := `{"source": "syslog", "items": [{"ts": "1"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "source")
}

func TestIngestHandler_MalformedJSON(t *testing.T) {
	deps := &api.Deps{Ingester: &mockIngester{}}
	handler := IngestHandler(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", strings.NewReader(`{"items": [`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestHandler_BackendError(t *testing.T) {
	mock := &mockIngester{err: fmt.Errorf("chroma unavailable")}
	deps := &api.Deps{Ingester: mock}
	handler := IngestHandler(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", strings.NewReader(`{"items": [{"ts": "1"}]}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "Bad Gateway", resp.Error)
}

func TestAnalyzeHandler_Success(t *testing.T) {
	dist := 0.12
	mock := &mockAnalyzer{
		result: &analysis.Result{
			Summary: "Credential dumping on host 10.0.0.5.",
			Matches: []rules.Match{
				{TechniqueID: "T1003", Name: "OS Credential Dumping", Evidence: "mimikatz"},
			},
			Evidence: []analysis.Hit{
				{ID: "doc-1", Text: "zeek conn log", Distance: &dist},
			},
		},
	}
	deps := &api.Deps{Analyzer: mock}
	handler := AnalyzeHandler(deps)

	body := `{"log_text": "mimikatz sekurlsa::logonpasswords", "top_k": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "mimikatz sekurlsa::logonpasswords", mock.gotText)
	require.Equal(t, 3, mock.gotTopK)

	var resp struct {
		Summary string         `json:"summary"`
		Matches []rules.Match  `json:"technique_matches"`
		Hits    []analysis.Hit `json:"evidence"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "Credential dumping on host 10.0.0.5.", resp.Summary)
	require.Len(t, resp.Matches, 1)
	require.Equal(t, "T1003", resp.Matches[0].TechniqueID)
	require.Len(t, resp.Hits, 1)
}

func TestAnalyzeHandler_MissingLogText(t *testing.T) {
	deps := &api.Deps{Analyzer: &mockAnalyzer{}}
	handler := AnalyzeHandler(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"log_text": "   "}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "log_text")
}

func TestAnalyzeHandler_TopKOutOfRange(t *testing.T) {
	deps := &api.Deps{Analyzer: &mockAnalyzer{}}
	handler := AnalyzeHandler(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"log_text": "x", "top_k": 500}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "top_k")
}

func TestAnalyzeHandler_GeneratorError(t *testing.T) {
	mock := &mockAnalyzer{err: fmt.Errorf("ollama generate failed")}
	deps := &api.Deps{Analyzer: mock}
	handler := AnalyzeHandler(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"log_text": "something"}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestReadyzHandler(t *testing.T) {
	var ready atomic.Bool
	handler := ReadyzHandler(&ready)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	ready.Store(true)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Ready", w.Body.String())
}
