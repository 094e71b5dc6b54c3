package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Source is a single search hit. Pipeline stages enrich it through the
// With* builders, which return modified copies so every stage works on a
// value it owns. Snippet is the only field a later stage replaces: content
// extraction swaps in scraped page text and flips ContentEnhanced.
type Source struct {
	Title           string               `json:"title"`
	URL             string               `json:"url"`
	Snippet         string               `json:"snippet"`
	Engine          string               `json:"engine,omitempty"`
	RelevanceScore  int                  `json:"relevance_score,omitempty"`
	ContentEnhanced bool                 `json:"content_enhanced"`
	Confidence      *ConfidenceBreakdown `json:"confidence,omitempty"`
	Structured      *StructuredFacts     `json:"structured_data,omitempty"`
}

// WithSnippet returns a copy carrying extracted page content instead of the
// backend snippet.
func (s Source) WithSnippet(snippet string) Source {
	s.Snippet = snippet
	s.ContentEnhanced = true
	return s
}

// WithConfidence returns a copy with a confidence breakdown attached.
func (s Source) WithConfidence(c *ConfidenceBreakdown) Source {
	s.Confidence = c
	return s
}

// WithStructured returns a copy with structured facts attached.
func (s Source) WithStructured(f *StructuredFacts) Source {
	s.Structured = f
	return s
}

// Envelope is the structured outcome of one category search. A failed
// search is still an Envelope: Err holds the last backend error, Sources is
// empty and TotalResults is zero. Backend reachability problems are values
// here, never Go errors.
type Envelope struct {
	Sources           []Source           `json:"sources"`
	SearchTerm        string             `json:"search_term"`
	Engine            string             `json:"search_engine,omitempty"`
	Instance          string             `json:"instance_used,omitempty"`
	ResponseTime      string             `json:"response_time,omitempty"`
	TotalResults      int                `json:"total_results"`
	Timestamp         time.Time          `json:"timestamp"`
	Err               string             `json:"error,omitempty"`
	ContentExtraction *ExtractionSummary `json:"content_extraction,omitempty"`
	Confidence        *ConfidenceSummary `json:"confidence_analysis,omitempty"`
	Structured        *StructuredSummary `json:"structured_summary,omitempty"`
}

// Failed reports whether the search exhausted its backends without results.
func (e *Envelope) Failed() bool {
	return e.Err != ""
}

// ExtractionSummary counts how many sources had their snippets replaced
// with scraped page content.
type ExtractionSummary struct {
	EnhancedCount int `json:"enhanced_count"`
	TotalSources  int `json:"total_sources"`
}

// ConfidenceLevel buckets a confidence score for downstream weighting.
type ConfidenceLevel string

const (
	ConfidenceVeryLow  ConfidenceLevel = "very_low"
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceVeryHigh ConfidenceLevel = "very_high"
)

// ConfidenceBreakdown is a 0-100 composite reliability estimate for one
// source. Domain authority and content quality contribute up to 40 points
// each, technical quality and recency up to 10 each.
type ConfidenceBreakdown struct {
	DomainAuthority  int             `json:"domain_authority"`
	ContentQuality   int             `json:"content_quality"`
	TechnicalQuality int             `json:"technical_quality"`
	Recency          int             `json:"recency_estimate"`
	Total            int             `json:"confidence_score"`
	Level            ConfidenceLevel `json:"confidence_level"`
	Quality          QualityMetrics  `json:"quality_metrics"`
	RAGWeight        float64         `json:"rag_weight"`
}

// QualityMetrics are the four independently capped 0-10 sub-scores behind
// the content quality component.
type QualityMetrics struct {
	NeighborhoodSpecificity int `json:"neighborhood_specificity"`
	QueryRelevance          int `json:"query_relevance"`
	ContentDepth            int `json:"content_depth"`
	DataRichness            int `json:"data_richness"`
}

// ConfidenceSummary aggregates per-source confidence over one envelope.
type ConfidenceSummary struct {
	Average      float64                 `json:"average_confidence"`
	Max          int                     `json:"max_confidence"`
	HighQuality  int                     `json:"high_quality_sources"`
	TotalSources int                     `json:"total_sources"`
	Distribution map[ConfidenceLevel]int `json:"confidence_distribution"`
	Reliability  string                  `json:"overall_reliability"`
}

// DataQuality tiers structured extraction output.
type DataQuality string

const (
	DataQualityLow    DataQuality = "low"
	DataQualityMedium DataQuality = "medium"
	DataQualityHigh   DataQuality = "high"
	DataQualityError  DataQuality = "error"
)

// StructuredFacts holds metrics and short factual sentences parsed from a
// snippet. Metric values are float64 for numeric metrics and string for
// categorical ones. A metric only appears here after it passed
// neighborhood-context validation.
type StructuredFacts struct {
	OriginalSnippet string         `json:"original_snippet"`
	CleanedSnippet  string         `json:"cleaned_snippet,omitempty"`
	Metrics         map[string]any `json:"extracted_metrics"`
	KeyFacts        []string       `json:"key_facts"`
	Quality         DataQuality    `json:"data_quality"`
	ExtractedAt     time.Time      `json:"extraction_timestamp"`
	Err             string         `json:"extraction_error,omitempty"`
}

// StructuredSummary combines structured facts across all sources in an
// envelope.
type StructuredSummary struct {
	CombinedMetrics map[string]any `json:"combined_metrics"`
	KeyFacts        []string       `json:"key_facts"`
	Quality         DataQuality    `json:"data_quality"`
	ExtractionCount int            `json:"extraction_success"`
}

// QueryAnalysis is the outcome of classifying a free-text query.
type QueryAnalysis struct {
	Query        string   `json:"query"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Priority     string   `json:"priority_category"`
	Detected     []string `json:"detected_categories"`
	Background   []string `json:"background_categories"`
}

// Enrichment is the final per-neighborhood envelope handed to persistence
// and API consumers. Results is keyed by category name; CategoryOrder
// records the order categories were searched, priority first.
type Enrichment struct {
	Neighborhood  string               `json:"neighborhood"`
	Query         string               `json:"query"`
	Priority      string               `json:"priority_category"`
	Background    []string             `json:"background_categories"`
	CategoryOrder []string             `json:"category_order"`
	Results       map[string]*Envelope `json:"category_results"`
	Status        string               `json:"status"`
	ResponseTime  string               `json:"response_time"`
	Timestamp     time.Time            `json:"timestamp"`
}

// DocumentChunk is one embedded fragment of an ingested document.
// Vector may be empty until the embedding processor runs.
type DocumentChunk struct {
	Id         ID
	Document   string // identifier of the source document (path or upload name)
	Seq        int    // position of the chunk within the document
	Text       string
	Vector     []float32
	InsertedAt time.Time
}

// ChunkMatch is a document chunk match from vector similarity search.
type ChunkMatch struct {
	ChunkId ID
	Score   float32
}

// ChunkResult pairs a full chunk with its relevance score.
type ChunkResult struct {
	Chunk *DocumentChunk
	Score float32
}
