package content

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	minParagraphLen = 50
	maxSnippetLen   = 400
)

// Domains that routinely block scrapers. Fetching them wastes the
// politeness delay, so they are skipped outright.
var blockedDomains = []string{
	"tripadvisor.com", "tripadvisor.co.uk", "tripadvisor.com.ph",
	"booking.com", "expedia.com", "hotels.com",
}

// Navigation and footer boilerplate removed from extracted text.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)cookie policy`),
	regexp.MustCompile(`(?i)privacy policy`),
	regexp.MustCompile(`(?i)terms of service`),
	regexp.MustCompile(`(?i)skip to main content`),
	regexp.MustCompile(`(?i)sign in|log in|register`),
	regexp.MustCompile(`(?i)follow us on`),
	regexp.MustCompile(`(?i)share this`),
	regexp.MustCompile(`(?i)related articles`),
	regexp.MustCompile(`(?i)advertisement`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

var neighborhoodWords = []string{"neighborhood", "district", "area", "locals", "residents"}
var experienceWords = []string{"experience", "opinion", "feel", "atmosphere", "vibe"}

// Extractor scrapes result pages for better snippets.
type Extractor struct {
	client    *http.Client
	timeout   time.Duration
	delay     time.Duration
	userAgent string
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for page fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) error {
		if client != nil {
			e.client = client
		}
		return nil
	}
}

// WithTimeout sets the per-fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Extractor) error {
		if timeout > 0 {
			e.timeout = timeout
		}
		return nil
	}
}

// WithDelay sets the politeness delay before each fetch.
// Pass 0 to disable (tests).
func WithDelay(delay time.Duration) Option {
	return func(e *Extractor) error {
		if delay >= 0 {
			e.delay = delay
		}
		return nil
	}
}

// NewExtractor creates a new content extractor.
func NewExtractor(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		client:    &http.Client{},
		timeout:   defaultTimeout,
		delay:     defaultDelay,
		userAgent: defaultUserAgent,
		logger:    slog.Default().With("component", "content_extractor"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Extract fetches a page and returns its most relevant paragraphs as a
// single snippet. Returns "" when the URL is unusable, the domain is
// blocked, or nothing relevant was found. Fetch and parse failures are
// reported as errors so callers can log them, but they carry the same
// meaning as an empty result.
func (e *Extractor) Extract(ctx context.Context, pageURL, searchContext string) (string, error) {
	if pageURL == "" || pageURL == "No URL" {
		return "", nil
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	host := strings.ToLower(parsed.Host)
	for _, blocked := range blockedDomains {
		if strings.Contains(host, blocked) {
			e.logger.Info("skipping blocked domain", "domain", host)
			return "", nil
		}
	}

	if e.delay > 0 {
		timer := time.NewTimer(e.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	paragraphs := relevantParagraphs(doc, searchContext)
	if len(paragraphs) > 0 {
		combined := strings.Join(paragraphs[:min(2, len(paragraphs))], " | ")
		if runes := []rune(combined); len(runes) > maxSnippetLen {
			combined = string(runes[:maxSnippetLen]) + "..."
		}
		return combined, nil
	}

	if desc := metaDescription(doc); desc != "" {
		return cleanText(desc), nil
	}

	return "", nil
}

// Enhance replaces source snippets with extracted page content where
// possible and records the extraction summary on the envelope. Sources
// whose pages yield nothing keep their original snippet with
// ContentEnhanced false. Enhance never fails.
func (e *Extractor) Enhance(ctx context.Context, envelope *core.Envelope, searchContext string) {
	if envelope == nil || len(envelope.Sources) == 0 {
		return
	}

	enhanced := 0
	for i, src := range envelope.Sources {
		extracted, err := e.Extract(ctx, src.URL, searchContext)
		if err != nil {
			e.logger.Warn("content extraction failed", "url", src.URL, "error", err)
		}
		if extracted != "" {
			envelope.Sources[i] = src.WithSnippet(extracted)
			enhanced++
		} else {
			envelope.Sources[i].ContentEnhanced = false
		}
	}

	envelope.ContentExtraction = &core.ExtractionSummary{
		EnhancedCount: enhanced,
		TotalSources:  len(envelope.Sources),
	}
}

// cleanText collapses whitespace and strips boilerplate phrases.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
	for _, pat := range noisePatterns {
		text = pat.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// Content containers tried in order of preference. The first selector
// matching any paragraph wins; plain <p> is the catch-all.
var contentSelectors = []struct {
	tag   string
	class string
}{
	{tag: "article"},
	{class: "content"},
	{class: "post-content"},
	{tag: "main"},
	{class: "entry-content"},
	{},
}

type paragraph struct {
	text  string
	score int
}

// relevantParagraphs collects paragraph text, scores it against the search
// context and returns the top three paragraphs, best first. Ties keep
// document order.
func relevantParagraphs(doc *html.Node, searchContext string) []string {
	var texts []string
	for _, sel := range contentSelectors {
		texts = collectParagraphs(doc, sel.tag, sel.class)
		if len(texts) > 0 {
			break
		}
	}

	keywords := strings.Fields(strings.ToLower(searchContext))

	var scored []paragraph
	for _, text := range texts {
		lower := strings.ToLower(text)

		score := 0
		for _, kw := range keywords {
			score += strings.Count(lower, kw)
		}
		if containsAny(lower, neighborhoodWords) {
			score += 2
		}
		if containsAny(lower, experienceWords) {
			score++
		}

		if score > 0 {
			scored = append(scored, paragraph{text: text, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > 3 {
		scored = scored[:3]
	}

	result := make([]string, len(scored))
	for i, p := range scored {
		result[i] = p.text
	}
	return result
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Elements whose subtrees are boilerplate rather than content.
var skippedElements = map[string]bool{
	"script": true, "style": true, "nav": true, "footer": true, "header": true,
}

// collectParagraphs returns cleaned text of <p> elements inside the given
// container (by tag or class); with neither set it takes every paragraph.
// Short paragraphs are dropped.
func collectParagraphs(doc *html.Node, containerTag, containerClass string) []string {
	var texts []string

	var walk func(n *html.Node, inContainer bool)
	walk = func(n *html.Node, inContainer bool) {
		if n.Type == html.ElementNode {
			if skippedElements[n.Data] {
				return
			}
			if containerTag != "" && n.Data == containerTag {
				inContainer = true
			}
			if containerClass != "" && hasClass(n, containerClass) {
				inContainer = true
			}
			if n.Data == "p" && (inContainer || (containerTag == "" && containerClass == "")) {
				text := cleanText(nodeText(n))
				if len([]rune(text)) > minParagraphLen {
					texts = append(texts, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inContainer)
		}
	}
	walk(doc, false)

	return texts
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// nodeText concatenates all text nodes under n, skipping boilerplate
// subtrees.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// metaDescription returns the content of <meta name="description">, or "".
func metaDescription(doc *html.Node) string {
	var desc string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if desc != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			name, content := "", ""
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					name = attr.Val
				case "content":
					content = attr.Val
				}
			}
			if name == "description" && content != "" {
				desc = content
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return desc
}
