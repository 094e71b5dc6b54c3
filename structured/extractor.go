package structured

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

// Extractor parses metrics and key facts out of snippets. It is stateless
// and safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
	now    func() time.Time
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

// WithClock sets the time source for extraction timestamps (tests).
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) error {
		if now != nil {
			e.now = now
		}
		return nil
	}
}

// NewExtractor creates a new structured data extractor.
func NewExtractor(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		logger: slog.Default().With("component", "structured_extractor"),
		now:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// parseFigure strips thousands separators before parsing, so "5.044" and
// "1,500" both read as plain integers (Spanish sources use dots).
func parseFigure(s string) (float64, bool) {
	cleaned := strings.NewReplacer(",", "", ".", "").Replace(s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func firstMatch(patterns []metricPattern, text string) (metricKind, []string) {
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			return p.kind, m
		}
	}
	return kindNone, nil
}

// extractPrices pulls square-meter and total-investment prices.
func (e *Extractor) extractPrices(text string) map[string]any {
	prices := make(map[string]any)

	for _, p := range pricePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := parseFigure(m[1]); ok && v >= 1000 && v <= 50000 {
			prices["price_per_sqm"] = v
			prices["currency"] = "EUR"
			break
		}
	}

	for _, p := range totalPricePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := parseFigure(m[1]); ok && v >= 100000 {
			prices["total_investment"] = v
			prices["currency"] = "EUR"
			break
		}
	}

	return prices
}

// extractPercentages pulls growth figures. The annual-growth form is
// keyed separately; other forms are quarterly when the text says so,
// generic growth otherwise.
func (e *Extractor) extractPercentages(text string) map[string]any {
	percentages := make(map[string]any)

	kind, m := firstMatch(percentagePatterns, text)
	if m == nil {
		return percentages
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v < 0 || v > 100 {
		return percentages
	}

	switch {
	case kind == kindAnnualGrowth:
		percentages["annual_growth"] = v
	case strings.Contains(strings.ToLower(text), "trimestral"):
		percentages["quarterly_growth"] = v
	default:
		percentages["growth_rate"] = v
	}

	return percentages
}

// extractCrimeStats pulls incident figures and the safety descriptor.
func (e *Extractor) extractCrimeStats(text string) map[string]any {
	stats := make(map[string]any)

	kind, m := firstMatch(crimePatterns, text)
	if m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			switch kind {
			case kindIncidentsPerThousand:
				stats["incidents_per_1000"] = v
			case kindTotalIncidents:
				stats["total_incidents"] = v
			case kindSafetyRating:
				stats["safety_rating"] = v
			}
		}
	}

	lower := strings.ToLower(text)
	for _, d := range safetyDescriptors {
		if strings.Contains(lower, d.term) {
			stats["safety_descriptor"] = d.term
			stats["safety_score"] = d.score
			break
		}
	}

	return stats
}

// extractRatings pulls ratings, normalizing scaled ones ("4 of 5") to 0-10.
func (e *Extractor) extractRatings(text string) map[string]any {
	ratings := make(map[string]any)

	kind, m := firstMatch(ratingPatterns, text)
	if m == nil {
		return ratings
	}

	switch kind {
	case kindRatingWithScale:
		rating, err1 := strconv.ParseFloat(m[1], 64)
		scale, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil && scale != 0 {
			ratings["rating"] = rating
			ratings["scale"] = scale
			ratings["normalized_rating"] = rating / scale * 10
		}
	case kindRating:
		if rating, err := strconv.ParseFloat(m[1], 64); err == nil {
			ratings["rating"] = rating
		}
	}

	return ratings
}

// extractCleanliness pulls air quality, service and upkeep signals.
func (e *Extractor) extractCleanliness(text string) map[string]any {
	stats := make(map[string]any)

	kind, m := firstMatch(cleanlinessPatterns, text)
	if m != nil {
		switch kind {
		case kindAQI:
			if aqi, err := strconv.ParseFloat(m[1], 64); err == nil {
				stats["air_quality_index"] = aqi
				switch {
				case aqi <= 50:
					stats["air_quality_rating"] = "Good"
				case aqi <= 100:
					stats["air_quality_rating"] = "Moderate"
				case aqi <= 150:
					stats["air_quality_rating"] = "Poor"
				default:
					stats["air_quality_rating"] = "Very Poor"
				}
			}
		case kindPM25:
			if pm, err := strconv.ParseFloat(m[1], 64); err == nil {
				stats["pm25_level"] = pm
			}
		case kindAirQualityWord:
			stats["air_quality_rating"] = m[1]
		case kindCleanlinessScore:
			if score, err := strconv.ParseFloat(m[1], 64); err == nil {
				stats["cleanliness_score"] = score
			}
		case kindServiceWord:
			word := strings.ToLower(m[1])
			switch word {
			case "daily", "weekly", "regular":
				stats["service_frequency"] = word
			case "excellent", "good", "poor", "adequate":
				stats["service_quality"] = word
			}
		}
	}

	lower := strings.ToLower(text)
	for _, d := range cleanlinessDescriptors {
		if strings.Contains(lower, d.term) {
			stats["cleanliness_descriptor"] = d.term
			stats["cleanliness_score"] = d.score
			break
		}
	}

	return stats
}

// ExtractKeyFacts returns up to five factual sentences matching the
// category's fact shapes, cleaned and bounded to a sensible length.
func (e *Extractor) ExtractKeyFacts(text, category string) []string {
	patterns, ok := factPatterns[category]
	if !ok {
		patterns = factPatterns["general_info"]
	}

	var facts []string
	for _, pat := range patterns {
		for _, match := range pat.FindAllString(text, -1) {
			fact := strings.TrimSpace(match)
			if len(fact) <= 20 || len(fact) >= 200 {
				continue
			}
			fact = CleanText(fact)
			if fact == "" || containsNoise(fact) {
				continue
			}
			facts = append(facts, fact)
		}
	}

	if len(facts) > 5 {
		facts = facts[:5]
	}
	return facts
}

func containsNoise(fact string) bool {
	lower := strings.ToLower(fact)
	for _, noise := range noisePhrases {
		if strings.Contains(lower, noise) {
			return true
		}
	}
	return false
}

// CleanText strips marketing boilerplate, collapses whitespace and drops
// sentence fragments that do not start with a capital letter.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	for _, noise := range noisePhrases {
		if strings.Contains(lower, noise) {
			text = removeCaseInsensitive(text, noise)
			lower = strings.ToLower(text)
		}
	}

	text = strings.Join(strings.Fields(text), " ")

	var kept []string
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) > 10 {
			if r := []rune(sentence)[0]; unicode.IsUpper(r) {
				kept = append(kept, sentence)
			}
		}
	}

	if len(kept) == 0 {
		return text
	}
	return strings.Join(kept, ". ") + "."
}

func removeCaseInsensitive(text, phrase string) string {
	lower := strings.ToLower(text)
	phrase = strings.ToLower(phrase)
	var sb strings.Builder
	for {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		sb.WriteString(text[:idx])
		text = text[idx+len(phrase):]
		lower = lower[idx+len(phrase):]
	}
}

// metricVariations lists the textual forms a metric value may take in a
// sentence: plain, integer-truncated and comma-grouped.
func metricVariations(value any) []string {
	switch v := value.(type) {
	case float64:
		plain := strconv.FormatFloat(v, 'f', -1, 64)
		truncated := strconv.Itoa(int(v))
		grouped := groupThousands(int64(math.Round(v)))
		return []string{plain, truncated, grouped}
	default:
		return []string{fmt.Sprintf("%v", value)}
	}
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}

// ValidateMetricContext checks that an extracted metric actually refers to
// the target neighborhood. Exclusionary phrases anywhere in the snippet
// reject the metric outright. Otherwise the sentence carrying the value
// must mention the neighborhood, with a looser rule for real-estate
// figures when the wider snippet clearly covers the neighborhood.
func (e *Extractor) ValidateMetricContext(snippet, neighborhood, metricName string, value any) bool {
	if neighborhood == "" || snippet == "" {
		return false
	}

	snippetLower := strings.ToLower(snippet)

	var parts []string
	for _, part := range strings.Split(neighborhood, ",") {
		parts = append(parts, strings.ToLower(strings.TrimSpace(part)))
	}

	for _, phrase := range exclusionaryPhrases {
		if strings.Contains(snippetLower, phrase) {
			e.logger.Warn("metric rejected by exclusionary context",
				"metric", metricName, "phrase", phrase)
			return false
		}
	}

	variations := metricVariations(value)
	snippetMentions := mentionsNeighborhood(snippetLower, parts)

	for _, sentence := range strings.Split(snippet, ".") {
		sentenceLower := strings.ToLower(strings.TrimSpace(sentence))

		hasMetric := false
		for _, v := range variations {
			if strings.Contains(sentence, v) {
				hasMetric = true
				break
			}
		}
		if !hasMetric {
			continue
		}

		if mentionsNeighborhood(sentenceLower, parts) {
			return true
		}

		if (metricName == "price_per_sqm" || metricName == "annual_growth") &&
			containsAnyKeyword(sentenceLower, realEstateKeywords) && snippetMentions {
			return true
		}
	}

	e.logger.Warn("no neighborhood context for metric", "metric", metricName)
	return false
}

func mentionsNeighborhood(text string, parts []string) bool {
	for _, part := range parts {
		if len(part) > 2 && strings.Contains(text, part) {
			return true
		}
	}
	return false
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Extract parses all structured data from a snippet. Returns nil for an
// empty snippet. Metrics that fail context validation are dropped; the
// currency tag survives only while a validated price metric remains.
func (e *Extractor) Extract(snippet, category, neighborhood string) *core.StructuredFacts {
	if snippet == "" {
		return nil
	}

	raw := make(map[string]any)
	switch category {
	case "investment_potential":
		for k, v := range e.extractPrices(snippet) {
			raw[k] = v
		}
		for k, v := range e.extractPercentages(snippet) {
			raw[k] = v
		}
	case "crime_rate":
		raw = e.extractCrimeStats(snippet)
	case "cleanliness":
		raw = e.extractCleanliness(snippet)
	case "public_perception":
		raw = e.extractRatings(snippet)
	}

	validated := make(map[string]any)
	hasPrice := false
	for name, value := range raw {
		if name == "currency" {
			continue
		}
		if e.ValidateMetricContext(snippet, neighborhood, name, value) {
			validated[name] = value
			if name == "price_per_sqm" || name == "total_investment" {
				hasPrice = true
			}
		}
	}
	if hasPrice {
		validated["currency"] = "EUR"
	}

	facts := e.ExtractKeyFacts(snippet, category)

	quality := core.DataQualityLow
	switch {
	case len(validated) >= 2 && len(facts) >= 3:
		quality = core.DataQualityHigh
	case len(validated) >= 1 && len(facts) >= 2:
		quality = core.DataQualityMedium
	}

	e.logger.Debug("structured extraction done",
		"neighborhood", neighborhood, "category", category,
		"metrics", len(validated), "facts", len(facts))

	return &core.StructuredFacts{
		OriginalSnippet: snippet,
		CleanedSnippet:  CleanText(snippet),
		Metrics:         validated,
		KeyFacts:        facts,
		Quality:         quality,
		ExtractedAt:     e.now(),
	}
}

// ExtractEnvelope attaches structured facts to every source with a snippet
// and an aggregate summary to the envelope. Requires a category and a
// neighborhood; without them the envelope is left untouched.
func (e *Extractor) ExtractEnvelope(envelope *core.Envelope, category, neighborhood string) {
	if envelope == nil || len(envelope.Sources) == 0 || category == "" || neighborhood == "" {
		return
	}

	for i := range envelope.Sources {
		src := envelope.Sources[i]
		if src.Snippet == "" {
			continue
		}
		if facts := e.Extract(src.Snippet, category, neighborhood); facts != nil {
			envelope.Sources[i] = src.WithStructured(facts)
		}
	}

	envelope.Structured = Summarize(envelope.Sources)
}

// Summarize combines per-source structured facts: merged metrics, deduped
// key facts capped at ten, an average quality tier and the count of
// sources that produced structured data.
func Summarize(sources []core.Source) *core.StructuredSummary {
	combined := make(map[string]any)
	var allFacts []string
	var qualityScores []int
	extracted := 0

	for _, src := range sources {
		sd := src.Structured
		if sd == nil {
			continue
		}
		extracted++
		for k, v := range sd.Metrics {
			combined[k] = v
		}
		allFacts = append(allFacts, sd.KeyFacts...)
		if sd.Quality != core.DataQualityError {
			switch sd.Quality {
			case core.DataQualityHigh:
				qualityScores = append(qualityScores, 3)
			case core.DataQualityMedium:
				qualityScores = append(qualityScores, 2)
			default:
				qualityScores = append(qualityScores, 1)
			}
		}
	}

	seen := make(map[string]bool)
	var facts []string
	for _, f := range allFacts {
		if !seen[f] {
			seen[f] = true
			facts = append(facts, f)
		}
	}
	if len(facts) > 10 {
		facts = facts[:10]
	}

	quality := core.DataQualityLow
	if len(qualityScores) > 0 {
		sum := 0
		for _, s := range qualityScores {
			sum += s
		}
		avg := float64(sum) / float64(len(qualityScores))
		if avg >= 2.5 {
			quality = core.DataQualityHigh
		} else if avg >= 1.5 {
			quality = core.DataQualityMedium
		}
	}

	return &core.StructuredSummary{
		CombinedMetrics: combined,
		KeyFacts:        facts,
		Quality:         quality,
		ExtractionCount: extracted,
	}
}
