package confidence

import (
	"log/slog"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

// domainScore pairs a domain pattern with its authority score. Patterns
// match by substring against the host, first match wins, so the table
// order matters: official sources sit above aggregators and blogs.
type domainScore struct {
	pattern string
	score   int
}

var authorityTable = []domainScore{
	// Government and official statistics
	{"gov.es", 40}, {"madrid.es", 40}, {"bcn.cat", 40}, {"barcelona.cat", 40},
	{"juntadeandalucia.es", 38}, {"valencia.es", 38}, {"sevilla.org", 38},
	{"ine.es", 40}, {"policia.es", 38}, {"guardiacivil.es", 38},
	{"gov.uk", 38}, {"police.uk", 38}, {"statistics.gov.uk", 38},
	{"insee.fr", 38}, {"gov.fr", 38}, {"data.gov", 40},

	// Academic and research institutions
	{"edu", 35}, {"ac.uk", 35}, {"univ-", 33}, {"csic.es", 35},
	{"mit.edu", 35}, {"ox.ac.uk", 35}, {"cam.ac.uk", 35},

	// Established media
	{"bbc.com", 30}, {"theguardian.com", 30}, {"elpais.com", 30},
	{"lavanguardia.com", 28}, {"elmundo.es", 28}, {"abc.es", 28},
	{"reuters.com", 30}, {"lemonde.fr", 28}, {"corriere.it", 28},

	// Official tourism and city guides
	{"bcn.travel", 28}, {"timeout.com", 27}, {"lonelyplanet.com", 28},
	{"turismomadrid.es", 28}, {"andalucia.org", 27},

	// Real estate platforms
	{"idealista.com", 28}, {"fotocasa.es", 27}, {"pisos.com", 26},
	{"numbeo.com", 25}, {"expatistan.com", 24}, {"livingcost.org", 23},
	{"rightmove.co.uk", 27}, {"zoopla.co.uk", 26},

	// Travel and review aggregators
	{"tripadvisor.com", 20}, {"booking.com", 18}, {"airbnb.com", 19},
	{"hostelworld.com", 17}, {"hotels.com", 18},

	// Expat and local community sites
	{"expatexchange.com", 22}, {"internations.org", 21},
	{"thelocal.es", 20}, {"madrid-metropolitan.com", 19},

	// Travel blogs and guides
	{"travelpander.com", 16}, {"nomadicfanatic.com", 14},
	{"backpackerguide.com", 15}, {"budgettravel.com", 16},

	// Personal blog platforms
	{"wordpress.com", 10}, {"blogspot.com", 8}, {"medium.com", 12},
	{"wix.com", 8}, {"weebly.com", 7},
}

const (
	defaultAuthority      = 15
	parseFailureAuthority = 10
)

var qualityIndicators = map[string][]string{
	"high": {
		"statistics", "data", "research", "study", "survey", "report",
		"analysis", "oficial", "government", "police", "crime rate",
		"estadísticas", "datos", "investigación", "estudio",
	},
	"medium": {
		"guide", "review", "experience", "local", "resident",
		"neighborhood", "area", "district", "guía", "experiencia",
	},
	"low": {
		"blog", "opinion", "personal", "think", "feel", "maybe",
	},
}

var neighborhoodTerms = []string{
	"neighborhood", "district", "area", "barrio", "distrito",
	"zone", "quarter", "sector",
}

var dataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+%`),
	regexp.MustCompile(`\d+\.\d+`),
	regexp.MustCompile(`statistics`),
	regexp.MustCompile(`data`),
	regexp.MustCompile(`rate`),
	regexp.MustCompile(`index`),
}

var recentIndicators = []string{"updated", "recent", "latest", "current"}

// Scorer assigns confidence breakdowns to search results. It is stateless
// and safe for concurrent use.
type Scorer struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithClock sets the time source used for recency estimation (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// NewScorer creates a new confidence scorer.
func NewScorer(opts ...Option) (*Scorer, error) {
	s := &Scorer{
		logger: slog.Default().With("component", "confidence_scorer"),
		now:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// DomainAuthority returns the authority score for a URL's host.
// Unknown hosts score 15, unparseable URLs 10.
func (s *Scorer) DomainAuthority(rawURL string) int {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		s.logger.Warn("cannot parse source url", "url", rawURL, "error", err)
		return parseFailureAuthority
	}
	host := strings.ToLower(parsed.Host)

	for _, entry := range authorityTable {
		if strings.Contains(host, entry.pattern) {
			return entry.score
		}
	}

	switch {
	case strings.Contains(host, ".edu") || strings.Contains(host, ".ac."):
		return 35
	case strings.Contains(host, ".gov"):
		return 38
	case strings.Contains(host, "university") || strings.Contains(host, "univ"):
		return 33
	case strings.Contains(host, "police") || strings.Contains(host, "government"):
		return 36
	}

	return defaultAuthority
}

// analyzeQuality computes the four 0-10 content quality sub-scores.
func (s *Scorer) analyzeQuality(title, snippet, searchContext string) core.QualityMetrics {
	content := strings.ToLower(title + " " + snippet)

	neighborhood := 0
	for _, term := range neighborhoodTerms {
		if strings.Contains(content, term) {
			neighborhood += 2
		}
	}
	neighborhood = min(neighborhood, 10)

	relevance := 0
	for _, word := range strings.Fields(strings.ToLower(searchContext)) {
		if len(word) > 3 && strings.Contains(content, word) {
			relevance++
		}
	}
	relevance = min(int(float64(relevance)*1.5), 10)

	high := countIndicators(content, qualityIndicators["high"])
	medium := countIndicators(content, qualityIndicators["medium"])
	low := countIndicators(content, qualityIndicators["low"])
	depth := min(high*3+medium*2-low, 10)
	depth = max(depth, 0)

	richness := 0
	for _, pat := range dataPatterns {
		if pat.MatchString(content) {
			richness += 2
		}
	}
	richness = min(richness, 10)

	return core.QualityMetrics{
		NeighborhoodSpecificity: neighborhood,
		QueryRelevance:          relevance,
		ContentDepth:            depth,
		DataRichness:            richness,
	}
}

func countIndicators(content string, indicators []string) int {
	n := 0
	for _, ind := range indicators {
		if strings.Contains(content, ind) {
			n++
		}
	}
	return n
}

// estimateRecency scores how fresh the content looks (0-10). The current
// year in the text scores 10, the previous year 8, generic freshness
// wording 6. Content with no signal gets a moderate 5.
func (s *Scorer) estimateRecency(title, snippet string) int {
	content := strings.ToLower(title + " " + snippet)
	currentYear := s.now().Year()

	score := 0
	if strings.Contains(content, strconv.Itoa(currentYear)) {
		score = 10
	} else if strings.Contains(content, strconv.Itoa(currentYear-1)) {
		score = 8
	}

	for _, ind := range recentIndicators {
		if strings.Contains(content, ind) {
			score = max(score, 6)
			break
		}
	}

	if score == 0 {
		score = 5
	}
	return score
}

// Score computes the full confidence breakdown for one source.
func (s *Scorer) Score(src *core.Source, searchContext string) *core.ConfidenceBreakdown {
	authority := s.DomainAuthority(src.URL)

	quality := s.analyzeQuality(src.Title, src.Snippet, searchContext)
	contentQuality := quality.NeighborhoodSpecificity + quality.QueryRelevance +
		quality.ContentDepth + quality.DataRichness

	technical := 0
	if src.ContentEnhanced {
		technical += 5
	}
	if len(src.Snippet) > 100 {
		technical += 3
	}
	if src.URL != "No URL" {
		technical += 2
	}

	recency := s.estimateRecency(src.Title, src.Snippet)

	total := min(authority+contentQuality+technical+recency, 100)

	var level core.ConfidenceLevel
	switch {
	case total >= 80:
		level = core.ConfidenceVeryHigh
	case total >= 65:
		level = core.ConfidenceHigh
	case total >= 50:
		level = core.ConfidenceMedium
	case total >= 35:
		level = core.ConfidenceLow
	default:
		level = core.ConfidenceVeryLow
	}

	return &core.ConfidenceBreakdown{
		DomainAuthority:  authority,
		ContentQuality:   contentQuality,
		TechnicalQuality: technical,
		Recency:          recency,
		Total:            total,
		Level:            level,
		Quality:          quality,
		RAGWeight:        float64(total) / 100.0,
	}
}

// ScoreEnvelope attaches a confidence breakdown to every source and an
// aggregate summary to the envelope. Empty envelopes are left untouched.
func (s *Scorer) ScoreEnvelope(envelope *core.Envelope, searchContext string) {
	if envelope == nil || len(envelope.Sources) == 0 {
		return
	}

	distribution := map[core.ConfidenceLevel]int{
		core.ConfidenceVeryHigh: 0,
		core.ConfidenceHigh:     0,
		core.ConfidenceMedium:   0,
		core.ConfidenceLow:      0,
		core.ConfidenceVeryLow:  0,
	}

	sum := 0
	maxScore := 0
	for i := range envelope.Sources {
		breakdown := s.Score(&envelope.Sources[i], searchContext)
		envelope.Sources[i] = envelope.Sources[i].WithConfidence(breakdown)

		distribution[breakdown.Level]++
		sum += breakdown.Total
		maxScore = max(maxScore, breakdown.Total)
	}

	avg := float64(sum) / float64(len(envelope.Sources))

	reliability := "low"
	if avg >= 70 {
		reliability = "high"
	} else if avg >= 50 {
		reliability = "medium"
	}

	envelope.Confidence = &core.ConfidenceSummary{
		Average:      math.Round(avg*10) / 10,
		Max:          maxScore,
		HighQuality:  distribution[core.ConfidenceVeryHigh] + distribution[core.ConfidenceHigh],
		TotalSources: len(envelope.Sources),
		Distribution: distribution,
		Reliability:  reliability,
	}
}
