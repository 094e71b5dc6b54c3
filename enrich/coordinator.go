package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kyliekoshet/ZyoniaRAG/category"
	"github.com/kyliekoshet/ZyoniaRAG/core"
	"github.com/kyliekoshet/ZyoniaRAG/results"
	"github.com/kyliekoshet/ZyoniaRAG/search"
	"github.com/kyliekoshet/ZyoniaRAG/storage"
)

// Enrichment statuses.
const (
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
)

// Searcher runs one category search. *search.Orchestrator satisfies it.
type Searcher interface {
	Search(ctx context.Context, req search.Request) *core.Envelope
}

// Coordinator turns a free-text neighborhood query into an enrichment:
// it detects the relevant categories, searches them in order and
// assembles the per-category envelopes.
type Coordinator struct {
	searcher Searcher
	detector *category.Detector
	cache    storage.EnvelopeCache
	saver    *results.Saver
	settings search.Settings
	logger   *slog.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithSettings replaces the search settings.
func WithSettings(settings search.Settings) Option {
	return func(c *Coordinator) error {
		c.settings = settings
		return nil
	}
}

// WithCache attaches an envelope cache. Successful category envelopes
// are cached for the configured TTL and reused on later queries.
func WithCache(cache storage.EnvelopeCache) Option {
	return func(c *Coordinator) error {
		c.cache = cache
		return nil
	}
}

// WithSaver attaches a results saver. Assembled enrichments are
// persisted as JSON files.
func WithSaver(saver *results.Saver) Option {
	return func(c *Coordinator) error {
		c.saver = saver
		return nil
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) error {
		if now != nil {
			c.now = now
		}
		return nil
	}
}

// WithSleep replaces the inter-category delay function.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Coordinator) error {
		if sleep != nil {
			c.sleep = sleep
		}
		return nil
	}
}

// NewCoordinator creates a coordinator around searcher.
func NewCoordinator(searcher Searcher, opts ...Option) (*Coordinator, error) {
	if searcher == nil {
		return nil, ErrOrchestratorRequired
	}

	detector, err := category.NewDetector()
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		searcher: searcher,
		detector: detector,
		settings: search.DefaultSettings(),
		logger:   slog.Default().With("component", "enrich"),
		now:      time.Now,
		sleep:    sleepCtx,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// categoryQuery builds the search query for one category from the
// profile's first search-term template.
func categoryQuery(neighborhood, categoryName string) string {
	if profile, ok := category.ProfileByName(categoryName); ok {
		if terms := profile.RenderTerms(neighborhood); len(terms) > 0 {
			return terms[0]
		}
	}
	return neighborhood + " " + categoryName
}

// cacheKey identifies one neighborhood and category combination.
func cacheKey(neighborhood, categoryName string) string {
	return results.NormalizeIdentifier(neighborhood) + ":" + categoryName
}

// Search researches only the priority category for the query. Fast mode
// skips content enhancement and confidence scoring and fetches fewer
// results.
func (c *Coordinator) Search(ctx context.Context, neighborhood, query string, fast bool) (*core.Enrichment, error) {
	if neighborhood == "" {
		return nil, ErrNeighborhoodRequired
	}

	start := c.now()
	analysis := c.detector.Analyze(query)

	c.logger.Info("priority category search",
		"neighborhood", neighborhood,
		"category", analysis.Priority,
		"fast", fast)

	envelope := c.searchCategory(ctx, neighborhood, analysis.Priority, fast, c.settings.PriorityTimeout)

	enrichment := &core.Enrichment{
		Neighborhood:  neighborhood,
		Query:         query,
		Priority:      analysis.Priority,
		Background:    analysis.Background,
		CategoryOrder: []string{analysis.Priority},
		Results:       map[string]*core.Envelope{analysis.Priority: envelope},
		Status:        envelopeStatus([]*core.Envelope{envelope}),
		ResponseTime:  fmt.Sprintf("%.2fs", c.now().Sub(start).Seconds()),
		Timestamp:     c.now().UTC(),
	}

	c.save(enrichment, "neighborhood_search")
	return enrichment, nil
}

// Enrich researches every category: priority first, then the remaining
// categories in declaration order, sequentially with a delay between
// searches.
func (c *Coordinator) Enrich(ctx context.Context, neighborhood, query string) (*core.Enrichment, error) {
	if neighborhood == "" {
		return nil, ErrNeighborhoodRequired
	}

	start := c.now()
	analysis := c.detector.Analyze(query)

	order := append([]string{analysis.Priority}, analysis.Background...)
	envelopes := make(map[string]*core.Envelope, len(order))
	var collected []*core.Envelope

	for i, categoryName := range order {
		if i > 0 {
			if err := c.sleep(ctx, c.settings.SearchDelay); err != nil {
				return nil, err
			}
		}

		timeout := c.settings.BackgroundTimeout
		if i == 0 {
			timeout = c.settings.PriorityTimeout
		}

		c.logger.Info("category search",
			"neighborhood", neighborhood,
			"category", categoryName,
			"position", i+1,
			"total", len(order))

		envelope := c.searchCategory(ctx, neighborhood, categoryName, false, timeout)
		envelopes[categoryName] = envelope
		collected = append(collected, envelope)
	}

	enrichment := &core.Enrichment{
		Neighborhood:  neighborhood,
		Query:         query,
		Priority:      analysis.Priority,
		Background:    analysis.Background,
		CategoryOrder: order,
		Results:       envelopes,
		Status:        envelopeStatus(collected),
		ResponseTime:  fmt.Sprintf("%.2fs", c.now().Sub(start).Seconds()),
		Timestamp:     c.now().UTC(),
	}

	c.save(enrichment, "full_enrichment")
	return enrichment, nil
}

// searchCategory runs one category search inside a bounded window,
// consulting and populating the envelope cache when one is configured.
func (c *Coordinator) searchCategory(ctx context.Context, neighborhood, categoryName string, fast bool, timeout time.Duration) *core.Envelope {
	query := categoryQuery(neighborhood, categoryName)

	if c.cache != nil {
		cached, err := c.cache.GetEnvelope(ctx, cacheKey(neighborhood, categoryName))
		if err != nil {
			c.logger.Warn("envelope cache read failed", "error", err)
		} else if cached != nil {
			c.logger.Info("envelope cache hit",
				"neighborhood", neighborhood, "category", categoryName)
			return cached
		}
	}

	req := search.Request{
		Query:          query,
		Category:       categoryName,
		Neighborhood:   neighborhood,
		MaxResults:     c.settings.MaxResultsPerCategory,
		EnhanceContent: !fast,
		AddConfidence:  !fast,
	}
	if !fast {
		req.MaxResults = 2 * c.settings.MaxResultsPerCategory
	}

	searchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan *core.Envelope, 1)
	go func() {
		done <- c.searcher.Search(searchCtx, req)
	}()

	var envelope *core.Envelope
	select {
	case envelope = <-done:
		if envelope == nil {
			envelope = &core.Envelope{SearchTerm: query, Err: "no envelope returned"}
		}
	case <-searchCtx.Done():
		c.logger.Warn("category search timed out",
			"category", categoryName, "timeout", timeout)
		envelope = &core.Envelope{
			SearchTerm: query,
			Err:        fmt.Sprintf("search timed out after %s", timeout),
			Timestamp:  c.now().UTC(),
		}
	}

	if c.cache != nil && !envelope.Failed() && len(envelope.Sources) > 0 {
		err := c.cache.PutEnvelope(ctx, cacheKey(neighborhood, categoryName), envelope, c.settings.CacheTTL)
		if err != nil {
			c.logger.Warn("envelope cache write failed", "error", err)
		}
	}

	return envelope
}

// envelopeStatus summarizes how many category searches succeeded.
func envelopeStatus(envelopes []*core.Envelope) string {
	succeeded := 0
	for _, e := range envelopes {
		if !e.Failed() {
			succeeded++
		}
	}
	switch succeeded {
	case len(envelopes):
		return StatusCompleted
	case 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

func (c *Coordinator) save(enrichment *core.Enrichment, kind string) {
	if c.saver == nil {
		return
	}
	if _, err := c.saver.Save(enrichment, enrichment.Neighborhood, kind); err != nil {
		c.logger.Warn("failed to save enrichment", "error", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
