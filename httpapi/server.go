package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

// Enricher runs neighborhood research. *enrich.Coordinator satisfies it.
type Enricher interface {
	Search(ctx context.Context, neighborhood, query string, fast bool) (*core.Enrichment, error)
	Enrich(ctx context.Context, neighborhood, query string) (*core.Enrichment, error)
}

// DocumentStore ingests documents and answers semantic queries.
// *docstore.Store satisfies it.
type DocumentStore interface {
	Ingest(ctx context.Context, document, text string) (int, error)
	Search(ctx context.Context, query string, k int, threshold float32) ([]*core.ChunkResult, error)
}

// StatusFunc reports search backend health for the status endpoint.
type StatusFunc func() any

// Server is the HTTP API over the enrichment pipeline and docstore.
type Server struct {
	enricher  Enricher
	documents DocumentStore
	status    StatusFunc
	logger    *slog.Logger
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithDocumentStore attaches a document store. Without one, the
// document endpoints answer 503.
func WithDocumentStore(store DocumentStore) Option {
	return func(s *Server) error {
		s.documents = store
		return nil
	}
}

// WithStatus attaches a backend status reporter.
func WithStatus(status StatusFunc) Option {
	return func(s *Server) error {
		s.status = status
		return nil
	}
}

// NewServer creates the API server around an enrichment coordinator.
func NewServer(enricher Enricher, opts ...Option) (*Server, error) {
	if enricher == nil {
		return nil, ErrCoordinatorRequired
	}

	s := &Server{
		enricher: enricher,
		logger:   slog.Default().With("component", "httpapi"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/status", s.handleStatus)
		r.Post("/documents", s.handleAddDocument)
		r.Get("/documents/search", s.handleDocumentSearch)
	})

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type searchRequest struct {
	Neighborhood string `json:"neighborhood"`
	Query        string `json:"query"`
	Fast         bool   `json:"fast"`
	Full         bool   `json:"full"`
}

type addDocumentRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type addDocumentResponse struct {
	Message    string `json:"message"`
	ChunkCount int    `json:"chunk_count"`
}

type documentResult struct {
	Document string  `json:"document"`
	Seq      int     `json:"seq"`
	Text     string  `json:"text"`
	Score    float32 `json:"score"`
}

type documentSearchResponse struct {
	Query   string           `json:"query"`
	Results []documentResult `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Neighborhood == "" {
		s.writeError(w, http.StatusBadRequest, "neighborhood is required")
		return
	}
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	var (
		enrichment *core.Enrichment
		err        error
	)
	if req.Full {
		enrichment, err = s.enricher.Enrich(r.Context(), req.Neighborhood, req.Query)
	} else {
		enrichment, err = s.enricher.Search(r.Context(), req.Neighborhood, req.Query, req.Fast)
	}
	if err != nil {
		s.logger.Error("enrichment failed", "neighborhood", req.Neighborhood, "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, enrichment)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.status == nil {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	if s.documents == nil {
		s.writeError(w, http.StatusServiceUnavailable, "document store not configured")
		return
	}

	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Content == "" {
		s.writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	count, err := s.documents.Ingest(r.Context(), req.Name, req.Content)
	if err != nil {
		s.logger.Error("document ingestion failed", "document", req.Name, "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, addDocumentResponse{
		Message:    "Added " + strconv.Itoa(count) + " chunks from " + req.Name,
		ChunkCount: count,
	})
}

func (s *Server) handleDocumentSearch(w http.ResponseWriter, r *http.Request) {
	if s.documents == nil {
		s.writeError(w, http.StatusServiceUnavailable, "document store not configured")
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	k := 4
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		k = parsed
	}

	var threshold float32
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 32)
		if err != nil || parsed < 0 || parsed > 1 {
			s.writeError(w, http.StatusBadRequest, "threshold must be between 0 and 1")
			return
		}
		threshold = float32(parsed)
	}

	results, err := s.documents.Search(r.Context(), query, k, threshold)
	if err != nil {
		s.logger.Error("document search failed", "query", query, "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := documentSearchResponse{Query: query, Results: []documentResult{}}
	for _, result := range results {
		response.Results = append(response.Results, documentResult{
			Document: result.Chunk.Document,
			Seq:      result.Chunk.Seq,
			Text:     result.Chunk.Text,
			Score:    result.Score,
		})
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
