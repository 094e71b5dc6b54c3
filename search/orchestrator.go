package search

import (
	"context"
	"log/slog"

	"github.com/kyliekoshet/ZyoniaRAG/confidence"
	"github.com/kyliekoshet/ZyoniaRAG/content"
	"github.com/kyliekoshet/ZyoniaRAG/core"
	"github.com/kyliekoshet/ZyoniaRAG/structured"
)

// Orchestrator runs the full result pipeline over a Provider: raw
// search, scraped-content enhancement, confidence scoring and
// structured extraction. Each stage annotates the envelope in place.
// Failed and empty envelopes pass through untouched.
type Orchestrator struct {
	provider   Provider
	content    *content.Extractor
	confidence *confidence.Scorer
	structured *structured.Extractor
	logger     *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithContentExtractor replaces the default content extractor. Useful
// for injecting one with a custom HTTP client or shorter delays.
func WithContentExtractor(extractor *content.Extractor) Option {
	return func(o *Orchestrator) error {
		if extractor != nil {
			o.content = extractor
		}
		return nil
	}
}

// NewOrchestrator creates an orchestrator around provider.
func NewOrchestrator(provider Provider, opts ...Option) (*Orchestrator, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	contentExtractor, err := content.NewExtractor()
	if err != nil {
		return nil, err
	}
	scorer, err := confidence.NewScorer()
	if err != nil {
		return nil, err
	}
	structuredExtractor, err := structured.NewExtractor()
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		provider:   provider,
		content:    contentExtractor,
		confidence: scorer,
		structured: structuredExtractor,
		logger:     slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Search runs one category search and enriches the outcome.
func (o *Orchestrator) Search(ctx context.Context, req Request) *core.Envelope {
	envelope := o.provider.Search(ctx, req)
	if envelope == nil {
		return &core.Envelope{SearchTerm: req.Query, Err: "provider returned no envelope"}
	}
	if envelope.Failed() || len(envelope.Sources) == 0 {
		return envelope
	}

	if req.EnhanceContent {
		o.logger.Info("enhancing results with scraped content", "query", req.Query)
		o.content.Enhance(ctx, envelope, req.Query)
	}
	if req.AddConfidence {
		o.logger.Info("scoring result confidence", "query", req.Query)
		o.confidence.ScoreEnvelope(envelope, req.Query)
	}
	if req.Category != "" && req.Neighborhood != "" {
		o.logger.Info("extracting structured data",
			"category", req.Category, "neighborhood", req.Neighborhood)
		o.structured.ExtractEnvelope(envelope, req.Category, req.Neighborhood)
	}

	return envelope
}
