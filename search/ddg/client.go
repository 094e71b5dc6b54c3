package ddg

import (
	"context"
	"encoding/json"
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

const (
	defaultBaseURL = "https://api.duckduckgo.com"
	engineName     = "duckduckgo"
	instanceName   = "duckduckgo.com"
	requestTimeout = 15 * time.Second
)

// Client is a rate-limited search.Provider backed by the DuckDuckGo
// instant answer API. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	settings   search.Settings
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration)

	mu         sync.Mutex
	lastSearch time.Time
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

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		if baseURL == "" {
			return ErrBaseURLRequired
		}
		c.baseURL = strings.TrimRight(baseURL, "/")
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

// WithSettings replaces the default search settings. The client reads
// SearchDelay for call spacing and MaxResultsPerCategory as the
// default result cap.
func WithSettings(settings search.Settings) Option {
	return func(c *Client) error {
		c.settings = settings
		return nil
	}
}

// WithClock sets the time source used for call spacing.
func WithClock(now func() time.Time) Option {
	return func(c *Client) error {
		if now != nil {
			c.now = now
		}
		return nil
	}
}

// WithSleep replaces the function used to wait out the call spacing.
func WithSleep(sleep func(ctx context.Context, d time.Duration)) Option {
	return func(c *Client) error {
		if sleep != nil {
			c.sleep = sleep
		}
		return nil
	}
}

// NewClient creates a DuckDuckGo client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		logger:     slog.Default().With("component", "ddg"),
		settings:   search.DefaultSettings(),
		now:        time.Now,
		sleep:      sleepCtx,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// throttle spaces calls at least SearchDelay apart on the wall clock.
func (c *Client) throttle(ctx context.Context) {
	c.mu.Lock()
	wait := c.settings.SearchDelay - c.now().Sub(c.lastSearch)
	c.mu.Unlock()

	if wait > 0 {
		c.logger.Info("rate limiting", "wait", wait)
		c.sleep(ctx, wait)
	}

	c.mu.Lock()
	c.lastSearch = c.now()
	c.mu.Unlock()
}

// Search implements search.Provider.
func (c *Client) Search(ctx context.Context, req search.Request) *core.Envelope {
	c.throttle(ctx)

	c.logger.Info("searching", "query", req.Query)
	start := time.Now()

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = c.settings.MaxResultsPerCategory
	}

	sources, err := c.fetch(ctx, req.Query, maxResults)
	if err != nil {
		c.logger.Error("search failed", "query", req.Query, "err", err)
		return &core.Envelope{
			Sources:      []core.Source{},
			SearchTerm:   req.Query,
			Engine:       engineName,
			Err:          err.Error(),
			ResponseTime: fmt.Sprintf("%.2fs", time.Since(start).Seconds()),
			TotalResults: 0,
			Timestamp:    time.Now(),
		}
	}

	return &core.Envelope{
		Sources:      sources,
		SearchTerm:   req.Query,
		Engine:       engineName,
		Instance:     instanceName,
		ResponseTime: fmt.Sprintf("%.2fs", time.Since(start).Seconds()),
		TotalResults: len(sources),
		Timestamp:    time.Now(),
	}
}

func (c *Client) fetch(ctx context.Context, query string, maxResults int) ([]core.Source, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("kl", "es-es") // Spanish region
	params.Set("df", "y")     // results from the last year
	params.Set("kp", "-1")    // moderate safe search

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	sources := collectTopics(payload, maxResults)
	if len(sources) == 0 {
		if abstract := strings.TrimSpace(payload.AbstractText); abstract != "" {
			sources = []core.Source{{
				Title:   "Search Result",
				URL:     "No URL",
				Snippet: abstract,
				Engine:  engineName,
			}}
		}
	}
	return sources, nil
}

type apiTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []apiTopic `json:"Topics"`
}

type apiResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	Results       []apiTopic `json:"Results"`
	RelatedTopics []apiTopic `json:"RelatedTopics"`
}

// collectTopics flattens direct results and related topics into
// sources, capped at max. Topic groups nest one level deep.
func collectTopics(payload apiResponse, max int) []core.Source {
	var sources []core.Source

	var walk func(topics []apiTopic)
	walk = func(topics []apiTopic) {
		for _, topic := range topics {
			if len(sources) >= max {
				return
			}
			if len(topic.Topics) > 0 {
				walk(topic.Topics)
				continue
			}
			if topic.FirstURL == "" || topic.Text == "" {
				continue
			}
			sources = append(sources, core.Source{
				Title:   topicTitle(topic.Text),
				URL:     topic.FirstURL,
				Snippet: topic.Text,
				Engine:  engineName,
			})
		}
	}

	walk(payload.Results)
	walk(payload.RelatedTopics)
	return sources
}

// topicTitle takes the leading "Title - description" part of a topic text.
func topicTitle(text string) string {
	if title, _, found := strings.Cut(text, " - "); found {
		return title
	}
	return text
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
