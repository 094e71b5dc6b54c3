package searx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kyliekoshet/ZyoniaRAG/core"
	"github.com/kyliekoshet/ZyoniaRAG/search"
)

// DefaultInstances lists public SearxNG instances in preference order.
// The first five are probed at startup to pick the primary.
var DefaultInstances = []string{
	"https://searx.projectlounge.pw",
	"https://darmarit.org/searx",
	"https://searx.be",
	"https://search.sapti.me",
	"https://searx.work",

	"https://searx.tiekoetter.com",
	"https://searx.prvcy.eu",
	"https://search.bus-hit.me",
	"https://searx.fi",
	"https://searx.fmac.xyz",

	"https://searx.lunar.icu",
	"https://searx.gnu.style",
	"https://search.mdosch.de",
	"https://searx.sev.monster",
	"https://searx.thegpm.org",
}

const (
	engineName        = "searxng"
	probeTimeout      = 10 * time.Second
	searchTimeout     = 15 * time.Second
	probeCount        = 5
	defaultMaxResults = 10
	// Instances past this failure count no longer count as available.
	availabilityLimit = 5

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Client is a failover search.Provider over a pool of SearxNG
// instances. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	monitor    search.Monitor

	attemptDelay   time.Duration
	rateLimitDelay time.Duration

	mu        sync.Mutex
	instances []string
	stats     map[string]search.InstanceStats
	primary   string
	probed    bool
}

// Option configures a Client.
type Option func(*Client) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithInstances replaces the default instance pool.
func WithInstances(instances []string) Option {
	return func(c *Client) error {
		if len(instances) == 0 {
			return ErrNoInstances
		}
		c.instances = append([]string(nil), instances...)
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient != nil {
			c.httpClient = httpClient
		}
		return nil
	}
}

// WithMonitor attaches a monitor observing instance attempts.
func WithMonitor(monitor search.Monitor) Option {
	return func(c *Client) error {
		if monitor != nil {
			c.monitor = monitor
		}
		return nil
	}
}

// WithAttemptDelay sets the pause between instance attempts.
// Default is one second.
func WithAttemptDelay(d time.Duration) Option {
	return func(c *Client) error {
		c.attemptDelay = d
		return nil
	}
}

// WithRateLimitDelay sets the pause after an instance answers 429.
// Default is two seconds.
func WithRateLimitDelay(d time.Duration) Option {
	return func(c *Client) error {
		c.rateLimitDelay = d
		return nil
	}
}

// NewClient creates a client over the default instance pool. No
// network traffic happens until the first search or an explicit Probe.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		httpClient:     &http.Client{},
		logger:         slog.Default().With("component", "searx"),
		monitor:        search.NoopMonitor{},
		attemptDelay:   time.Second,
		rateLimitDelay: 2 * time.Second,
		instances:      append([]string(nil), DefaultInstances...),
		stats:          make(map[string]search.InstanceStats),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Probe measures the first few instances and selects the fastest
// responder as primary. When none responds the first configured
// instance becomes primary anyway so searches can proceed. Search
// probes lazily; call Probe directly to front-load the cost.
func (c *Client) Probe(ctx context.Context) {
	c.mu.Lock()
	candidates := append([]string(nil), c.instances...)
	c.mu.Unlock()
	if len(candidates) > probeCount {
		candidates = candidates[:probeCount]
	}

	best := ""
	var bestLatency time.Duration

	for _, instance := range candidates {
		latency, err := c.probeInstance(ctx, instance)
		if err != nil {
			c.logger.Warn("instance probe failed", "instance", instance, "err", err)
			c.markFailure(instance)
			continue
		}
		c.logger.Info("instance probe", "instance", instance, "latency", latency)

		c.mu.Lock()
		st := c.stats[instance]
		st.ResponseTime = latency
		st.LastSuccess = time.Now()
		c.stats[instance] = st
		c.mu.Unlock()

		if best == "" || latency < bestLatency {
			best, bestLatency = instance, latency
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if best != "" {
		c.primary = best
		c.logger.Info("primary instance selected", "instance", best, "latency", bestLatency)
	} else {
		c.primary = c.instances[0]
		c.logger.Warn("no instance responded to probe, using first configured",
			"instance", c.primary)
	}
	c.probed = true
}

func (c *Client) probeInstance(ctx context.Context, instance string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, instance+"/stats", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("status %d", resp.StatusCode)
	}
	return time.Since(start), nil
}

// Search implements search.Provider. Instances are tried in
// reliability order until one returns relevant results; the envelope
// records which instance answered. Once every instance has been tried
// without success the envelope carries the last error instead.
func (c *Client) Search(ctx context.Context, req search.Request) *core.Envelope {
	c.mu.Lock()
	probed := c.probed
	c.mu.Unlock()
	if !probed {
		c.Probe(ctx)
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	c.monitor.Start(req.Query)
	ranked := c.ranked()
	start := time.Now()
	lastErr := ""

	for i, instance := range ranked {
		c.monitor.Attempt(instance, i+1, len(ranked))
		c.logger.Info("searching", "instance", instance, "attempt", i+1, "instances", len(ranked))

		sources, elapsed, err := c.searchInstance(ctx, instance, req, maxResults)
		switch {
		case err == nil && len(sources) > 0:
			c.markSuccess(instance, elapsed)
			c.monitor.Success(instance, len(sources), elapsed)
			c.logger.Info("search succeeded",
				"instance", instance, "results", len(sources), "elapsed", elapsed)

			envelope := &core.Envelope{
				Sources:      sources,
				SearchTerm:   req.Query,
				Engine:       engineName,
				Instance:     instance,
				ResponseTime: fmt.Sprintf("%.2fs", time.Since(start).Seconds()),
				TotalResults: len(sources),
				Timestamp:    time.Now(),
			}
			c.monitor.Finish(envelope)
			return envelope

		case err == nil:
			// A reachable instance with no relevant hits is not a failure.
			c.logger.Warn("no relevant results", "instance", instance)

		case errors.Is(err, errRateLimited):
			c.markFailure(instance)
			c.monitor.Failure(instance, err.Error())
			lastErr = err.Error()
			c.logger.Warn("instance rate limited", "instance", instance)
			sleepCtx(ctx, c.rateLimitDelay)

		default:
			c.markFailure(instance)
			c.monitor.Failure(instance, err.Error())
			lastErr = err.Error()
			c.logger.Warn("instance failed", "instance", instance, "err", err)
		}

		if ctx.Err() != nil {
			lastErr = ctx.Err().Error()
			break
		}
		if i < len(ranked)-1 {
			sleepCtx(ctx, c.attemptDelay)
		}
	}

	if lastErr == "" {
		lastErr = "all instances failed"
	}
	c.logger.Error("all instances exhausted", "instances", len(ranked), "lastErr", lastErr)
	c.monitor.Exhausted(lastErr)

	envelope := &core.Envelope{
		Sources:      []core.Source{},
		SearchTerm:   req.Query,
		Engine:       engineName,
		Err:          lastErr,
		ResponseTime: fmt.Sprintf("%.2fs", time.Since(start).Seconds()),
		TotalResults: 0,
		Timestamp:    time.Now(),
	}
	c.monitor.Finish(envelope)
	return envelope
}

func (c *Client) searchInstance(ctx context.Context, instance string, req search.Request, maxResults int) ([]core.Source, time.Duration, error) {
	params := url.Values{}
	params.Set("q", search.RewriteLocationQuery(req.Query, req.Neighborhood))
	params.Set("format", "json")
	params.Set("categories", "general")
	params.Set("engines", "google,bing,duckduckgo,brave,startpage")
	params.Set("language", "en")
	params.Set("pageno", "1")

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		instance+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	httpReq.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, elapsed, errRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, elapsed, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, elapsed, fmt.Errorf("decoding response: %w", err)
	}

	// Fetch twice the requested count so the relevance filter has
	// something to discard.
	raw := parseResults(payload, maxResults*2)
	sources := search.FilterRelevant(raw, req.Neighborhood, maxResults)
	return sources, elapsed, nil
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
		Engine  string `json:"engine"`
	} `json:"results"`
}

func parseResults(payload searchResponse, max int) []core.Source {
	items := payload.Results
	if len(items) > max {
		items = items[:max]
	}

	sources := make([]core.Source, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		pageURL := strings.TrimSpace(item.URL)
		if title == "" || pageURL == "" {
			continue
		}
		engine := item.Engine
		if engine == "" {
			engine = engineName
		}
		sources = append(sources, core.Source{
			Title:   title,
			URL:     pageURL,
			Snippet: strings.TrimSpace(item.Content),
			Engine:  engine,
		})
	}
	return sources
}

// ranked returns the instance order for the next search attempt.
func (c *Client) ranked() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return search.RankInstances(c.primary, c.instances, c.stats)
}

func (c *Client) markFailure(instance string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stats[instance]
	st.Failures++
	c.stats[instance] = st
}

// markSuccess rewards a working instance by walking its failure count
// back toward zero, so instances recover their ranking over time.
func (c *Client) markSuccess(instance string, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stats[instance]
	if st.Failures > 0 {
		st.Failures--
	}
	st.LastSuccess = time.Now()
	st.ResponseTime = elapsed
	c.stats[instance] = st
}

// Stats is a snapshot of the instance pool for status reporting.
type Stats struct {
	Primary   string                          `json:"primary_instance"`
	Total     int                             `json:"total_instances"`
	Available int                             `json:"available_instances"`
	Instances map[string]search.InstanceStats `json:"instance_stats"`
}

// Stats reports the current instance bookkeeping.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := Stats{
		Primary:   c.primary,
		Total:     len(c.instances),
		Instances: make(map[string]search.InstanceStats, len(c.stats)),
	}
	for instance, st := range c.stats {
		out.Instances[instance] = st
	}
	for _, instance := range c.instances {
		if c.stats[instance].Failures < availabilityLimit {
			out.Available++
		}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
