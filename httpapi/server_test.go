package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

type fakeEnricher struct {
	lastFast bool
	lastFull bool
	err      error
}

func (f *fakeEnricher) Search(ctx context.Context, neighborhood, query string, fast bool) (*core.Enrichment, error) {
	f.lastFast = fast
	if f.err != nil {
		return nil, f.err
	}
	return &core.Enrichment{
		Neighborhood:  neighborhood,
		Query:         query,
		Priority:      "crime_rate",
		CategoryOrder: []string{"crime_rate"},
		Status:        "completed",
	}, nil
}

func (f *fakeEnricher) Enrich(ctx context.Context, neighborhood, query string) (*core.Enrichment, error) {
	f.lastFull = true
	if f.err != nil {
		return nil, f.err
	}
	return &core.Enrichment{
		Neighborhood:  neighborhood,
		Query:         query,
		Priority:      "crime_rate",
		CategoryOrder: []string{"crime_rate", "cleanliness", "public_perception", "investment_potential", "general_info"},
		Status:        "completed",
	}, nil
}

type fakeDocuments struct {
	ingested map[string]string
	err      error
}

func (f *fakeDocuments) Ingest(ctx context.Context, document, text string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.ingested == nil {
		f.ingested = make(map[string]string)
	}
	f.ingested[document] = text
	return 3, nil
}

func (f *fakeDocuments) Search(ctx context.Context, query string, k int, threshold float32) ([]*core.ChunkResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*core.ChunkResult{
		{
			Chunk: &core.DocumentChunk{Document: "guide.txt", Seq: 0, Text: "Salamanca is upscale."},
			Score: 0.92,
		},
	}, nil
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *fakeEnricher, *fakeDocuments) {
	t.Helper()
	enricher := &fakeEnricher{}
	documents := &fakeDocuments{}
	opts = append([]Option{WithDocumentStore(documents)}, opts...)
	server, err := NewServer(enricher, opts...)
	require.NoError(t, err)
	return server, enricher, documents
}

func doJSON(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func TestNewServer_NilEnricher(t *testing.T) {
	_, err := NewServer(nil)
	assert.ErrorIs(t, err, ErrCoordinatorRequired)
}

func TestSearchEndpoint(t *testing.T) {
	server, enricher, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/search",
		`{"neighborhood": "Salamanca, Madrid", "query": "Is it safe?", "fast": true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, enricher.lastFast)
	assert.False(t, enricher.lastFull)

	var enrichment core.Enrichment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enrichment))
	assert.Equal(t, "Salamanca, Madrid", enrichment.Neighborhood)
	assert.Equal(t, "crime_rate", enrichment.Priority)
}

func TestSearchEndpoint_FullEnrichment(t *testing.T) {
	server, enricher, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/search",
		`{"neighborhood": "Salamanca, Madrid", "query": "Is it safe?", "full": true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, enricher.lastFull)

	var enrichment core.Enrichment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enrichment))
	assert.Len(t, enrichment.CategoryOrder, 5)
}

func TestSearchEndpoint_Validation(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/search", `{"query": "Is it safe?"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "neighborhood is required")

	rec = doJSON(t, server, http.MethodPost, "/api/search", `{"neighborhood": "Salamanca"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "query is required")

	rec = doJSON(t, server, http.MethodPost, "/api/search", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint_EnricherError(t *testing.T) {
	server, enricher, _ := newTestServer(t)
	enricher.err = errors.New("backend down")

	rec := doJSON(t, server, http.MethodPost, "/api/search",
		`{"neighborhood": "Salamanca", "query": "safe?"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "backend down")
}

func TestStatusEndpoint(t *testing.T) {
	status := func() any {
		return map[string]any{"primary_instance": "https://searx.be", "total_instances": 15}
	}
	server, _, _ := newTestServer(t, WithStatus(status))

	rec := doJSON(t, server, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "searx.be")
}

func TestStatusEndpoint_Default(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestAddDocumentEndpoint(t *testing.T) {
	server, _, documents := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/documents",
		`{"name": "guide.txt", "content": "Salamanca is an upscale district."}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp addDocumentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.ChunkCount)
	assert.Contains(t, resp.Message, "guide.txt")
	assert.Contains(t, documents.ingested, "guide.txt")
}

func TestAddDocumentEndpoint_Validation(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/documents", `{"content": "text"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/documents", `{"name": "guide.txt"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentSearchEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/documents/search?query=upscale&k=2&threshold=0.5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp documentSearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "upscale", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "guide.txt", resp.Results[0].Document)
	assert.InDelta(t, 0.92, float64(resp.Results[0].Score), 0.001)
}

func TestDocumentSearchEndpoint_Validation(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/documents/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/documents/search?query=x&k=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/documents/search?query=x&threshold=2", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentEndpoints_WithoutStore(t *testing.T) {
	server, err := NewServer(&fakeEnricher{})
	require.NoError(t, err)

	rec := doJSON(t, server, http.MethodPost, "/api/documents", `{"name": "a", "content": "b"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/documents/search?query=x", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
