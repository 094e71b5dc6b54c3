package enrich

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyliekoshet/ZyoniaRAG/core"
	"github.com/kyliekoshet/ZyoniaRAG/results"
	"github.com/kyliekoshet/ZyoniaRAG/search"
)

// fakeSearcher returns canned envelopes and records every request.
type fakeSearcher struct {
	mu       sync.Mutex
	requests []search.Request
	fail     map[string]bool // categories that fail
	unblock  chan struct{}   // when set, block until closed
}

func (f *fakeSearcher) Search(ctx context.Context, req search.Request) *core.Envelope {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.unblock != nil {
		<-f.unblock
		return &core.Envelope{SearchTerm: req.Query, Err: "unblocked"}
	}
	if f.fail[req.Category] {
		return &core.Envelope{SearchTerm: req.Query, Err: "all instances failed"}
	}
	return &core.Envelope{
		SearchTerm: req.Query,
		Sources: []core.Source{
			{Title: req.Category + " result", URL: "https://example.com/" + req.Category, Snippet: "snippet"},
		},
		TotalResults: 1,
	}
}

func (f *fakeSearcher) recorded() []search.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]search.Request(nil), f.requests...)
}

// memoryCache is an in-process storage.EnvelopeCache.
type memoryCache struct {
	mu        sync.Mutex
	envelopes map[string]*core.Envelope
}

func newMemoryCache() *memoryCache {
	return &memoryCache{envelopes: make(map[string]*core.Envelope)}
}

func (m *memoryCache) GetEnvelope(ctx context.Context, key string) (*core.Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.envelopes[key], nil
}

func (m *memoryCache) PutEnvelope(ctx context.Context, key string, envelope *core.Envelope, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.envelopes[key] = envelope
	return nil
}

func (m *memoryCache) Close() error { return nil }

func fastSettings() search.Settings {
	settings := search.DefaultSettings()
	settings.SearchDelay = 0
	return settings
}

func newTestCoordinator(t *testing.T, searcher Searcher, opts ...Option) *Coordinator {
	t.Helper()
	opts = append([]Option{WithSettings(fastSettings())}, opts...)
	c, err := NewCoordinator(searcher, opts...)
	require.NoError(t, err)
	return c
}

func TestNewCoordinator_NilSearcher(t *testing.T) {
	_, err := NewCoordinator(nil)
	assert.ErrorIs(t, err, ErrOrchestratorRequired)
}

func TestSearch_PriorityCategoryOnly(t *testing.T) {
	searcher := &fakeSearcher{}
	c := newTestCoordinator(t, searcher)

	enrichment, err := c.Search(context.Background(), "Salamanca, Madrid", "Is it safe?", false)
	require.NoError(t, err)

	assert.Equal(t, "crime_rate", enrichment.Priority)
	assert.Equal(t, []string{"crime_rate"}, enrichment.CategoryOrder)
	assert.Equal(t, StatusCompleted, enrichment.Status)
	assert.Len(t, enrichment.Results, 1)

	reqs := searcher.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "crime_rate", reqs[0].Category)
	assert.Equal(t, "Salamanca, Madrid", reqs[0].Neighborhood)
	assert.Contains(t, reqs[0].Query, "Salamanca, Madrid")
	assert.True(t, reqs[0].EnhanceContent)
	assert.True(t, reqs[0].AddConfidence)
	assert.Equal(t, 10, reqs[0].MaxResults)
}

func TestSearch_FastMode(t *testing.T) {
	searcher := &fakeSearcher{}
	c := newTestCoordinator(t, searcher)

	_, err := c.Search(context.Background(), "Salamanca, Madrid", "Is it safe?", true)
	require.NoError(t, err)

	reqs := searcher.recorded()
	require.Len(t, reqs, 1)
	assert.False(t, reqs[0].EnhanceContent)
	assert.False(t, reqs[0].AddConfidence)
	assert.Equal(t, 5, reqs[0].MaxResults)
}

func TestSearch_EmptyNeighborhood(t *testing.T) {
	c := newTestCoordinator(t, &fakeSearcher{})

	_, err := c.Search(context.Background(), "", "anything", false)
	assert.ErrorIs(t, err, ErrNeighborhoodRequired)
}

func TestEnrich_CategoryOrdering(t *testing.T) {
	searcher := &fakeSearcher{}

	var delays []time.Duration
	sleep := func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	settings := search.DefaultSettings()
	settings.SearchDelay = 3 * time.Second

	c, err := NewCoordinator(searcher, WithSettings(settings), WithSleep(sleep))
	require.NoError(t, err)

	enrichment, err := c.Enrich(context.Background(), "Salamanca, Madrid", "Is it safe?")
	require.NoError(t, err)

	want := []string{"crime_rate", "cleanliness", "public_perception", "investment_potential", "general_info"}
	assert.Equal(t, want, enrichment.CategoryOrder)
	assert.Equal(t, StatusCompleted, enrichment.Status)
	assert.Len(t, enrichment.Results, 5)

	var searched []string
	for _, req := range searcher.recorded() {
		searched = append(searched, req.Category)
	}
	assert.Equal(t, want, searched)

	// One delay between each consecutive pair of categories.
	require.Len(t, delays, 4)
	for _, d := range delays {
		assert.Equal(t, 3*time.Second, d)
	}
}

func TestEnrich_PartialStatus(t *testing.T) {
	searcher := &fakeSearcher{fail: map[string]bool{"cleanliness": true}}
	c := newTestCoordinator(t, searcher)

	enrichment, err := c.Enrich(context.Background(), "Salamanca, Madrid", "Is it safe?")
	require.NoError(t, err)

	assert.Equal(t, StatusPartial, enrichment.Status)
	assert.True(t, enrichment.Results["cleanliness"].Failed())
	assert.False(t, enrichment.Results["crime_rate"].Failed())
}

func TestSearch_TimeoutYieldsErrorEnvelope(t *testing.T) {
	searcher := &fakeSearcher{unblock: make(chan struct{})}
	t.Cleanup(func() { close(searcher.unblock) })

	settings := fastSettings()
	settings.PriorityTimeout = 10 * time.Millisecond

	c := newTestCoordinator(t, searcher, WithSettings(settings))

	enrichment, err := c.Search(context.Background(), "Salamanca, Madrid", "Is it safe?", false)
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, enrichment.Status)
	envelope := enrichment.Results["crime_rate"]
	require.NotNil(t, envelope)
	assert.True(t, envelope.Failed())
	assert.Contains(t, envelope.Err, "timed out")
}

func TestSearch_CacheHitSkipsSearcher(t *testing.T) {
	searcher := &fakeSearcher{}
	cache := newMemoryCache()
	c := newTestCoordinator(t, searcher, WithCache(cache))

	ctx := context.Background()

	first, err := c.Search(ctx, "Salamanca, Madrid", "Is it safe?", false)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, first.Status)
	require.Len(t, searcher.recorded(), 1)

	second, err := c.Search(ctx, "Salamanca, Madrid", "Is it safe?", false)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, second.Status)

	// Second run was served from the cache.
	assert.Len(t, searcher.recorded(), 1)
	assert.Equal(t, first.Results["crime_rate"].SearchTerm, second.Results["crime_rate"].SearchTerm)
}

func TestSearch_FailedEnvelopeNotCached(t *testing.T) {
	searcher := &fakeSearcher{fail: map[string]bool{"crime_rate": true}}
	cache := newMemoryCache()
	c := newTestCoordinator(t, searcher, WithCache(cache))

	_, err := c.Search(context.Background(), "Salamanca, Madrid", "Is it safe?", false)
	require.NoError(t, err)

	assert.Empty(t, cache.envelopes)
}

func TestSearch_SavesResultFile(t *testing.T) {
	dir := t.TempDir()
	saver, err := results.NewSaver(results.WithDir(dir))
	require.NoError(t, err)

	c := newTestCoordinator(t, &fakeSearcher{}, WithSaver(saver))

	_, err = c.Search(context.Background(), "Chamartin, Madrid", "Is it safe?", false)
	require.NoError(t, err)

	files, err := saver.List("Chamartin")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.Contains(filepath.Base(files[0]), "neighborhood_search"),
		fmt.Sprintf("unexpected filename %s", files[0]))
}
