package category

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

// Detector classifies queries into categories and extracts the
// neighborhood they are about. It is stateless and safe for concurrent use.
type Detector struct {
	profiles []Profile
	logger   *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// NewDetector creates a new detector over the standard category table.
func NewDetector(opts ...Option) (*Detector, error) {
	d := &Detector{
		profiles: Profiles,
		logger:   slog.Default().With("component", "category_detector"),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Detect scores the query against every category profile and returns the
// priority category plus all detected categories in declaration order.
//
// Keyword hits score 1, pattern hits score 3. A query matching nothing
// falls back to general_info. The priority is the highest-scoring
// category; on ties the earliest declared category wins.
func (d *Detector) Detect(query string) (string, []string) {
	lower := strings.ToLower(query)

	var detected []string
	scores := make(map[string]int)

	for _, p := range d.profiles {
		score := 0
		for _, kw := range p.Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		for _, pat := range p.Patterns {
			if pat.MatchString(lower) {
				score += 3
			}
		}
		if score > 0 {
			scores[p.Name] = score
			detected = append(detected, p.Name)
		}
	}

	if len(detected) == 0 {
		detected = []string{GeneralInfo}
		scores[GeneralInfo] = 1
	}

	priority := GeneralInfo
	best := -1
	for _, p := range d.profiles {
		if s, ok := scores[p.Name]; ok && s > best {
			best = s
			priority = p.Name
		}
	}

	return priority, detected
}

// Remaining returns the categories not in detected, in declaration order.
// These are searched in the background after the priority category.
func (d *Detector) Remaining(detected []string) []string {
	seen := make(map[string]bool, len(detected))
	for _, name := range detected {
		seen[name] = true
	}

	var remaining []string
	for _, p := range d.profiles {
		if !seen[p.Name] {
			remaining = append(remaining, p.Name)
		}
	}
	return remaining
}

// Neighborhood extraction patterns, most specific first. Spanish city
// patterns come before international ones, then generic "in/about X"
// forms, then older Madrid-only forms kept for queries that predate the
// multi-city tables.
var neighborhoodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)in\s+([A-Za-z\sñáéíóúü,'-]+?)\s+(Madrid|Barcelona|Valencia|Sevilla|Seville|Bilbao|Granada|Zaragoza)`),
	regexp.MustCompile(`(?i)([A-Za-z\sñáéíóúü,'-]+?)\s+(Madrid|Barcelona|Valencia|Sevilla|Seville|Bilbao|Granada|Zaragoza)\s+(?:crime|safety|clean|investment|area|neighborhood|barrio|distrito)`),
	regexp.MustCompile(`(?i)([A-Za-z\sñáéíóúü,'-]+?)\s+(Madrid|Barcelona|Valencia|Sevilla|Seville|Bilbao|Granada|Zaragoza)(?:\s|$|[.!?])`),

	regexp.MustCompile(`(?i)in\s+([A-Za-z\s,'-]+?)\s+(London|Paris|Berlin|Rome|Amsterdam|Vienna|Prague|Lisbon|Athens|Dublin)`),
	regexp.MustCompile(`(?i)([A-Za-z\s,'-]+?)\s+(London|Paris|Berlin|Rome|Amsterdam|Vienna|Prague|Lisbon|Athens|Dublin)\s+(?:crime|safety|clean|investment|area|neighborhood|district)`),
	regexp.MustCompile(`(?i)([A-Za-z\s,'-]+?)\s+(London|Paris|Berlin|Rome|Amsterdam|Vienna|Prague|Lisbon|Athens|Dublin)(?:\s|$|[.!?])`),

	regexp.MustCompile(`(?i)in\s+([A-Za-z\sñáéíóúü,'-]+?)(?:\s+(?:spain|españa|lebanon|france|uk|italy|germany|portugal))?(?:\s|$|[.!?])`),
	regexp.MustCompile(`(?i)about\s+([A-Za-z\sñáéíóúü,'-]+?)(?:\s+(?:spain|españa|lebanon|france|uk|italy|germany|portugal))?(?:\s|$|[.!?])`),
	regexp.MustCompile(`(?i)(?:^|\s)([A-Za-z\sñáéíóúü,'-]{4,})(?:\s+(?:crime|safety|clean|investment|area|neighborhood|barrio|distrito))`),

	regexp.MustCompile(`(?i)in\s+([A-Za-z\sñáéíóú,]+?)\s+Madrid`),
	regexp.MustCompile(`(?i)([A-Za-z\sñáéíóú,]+?)\s+Madrid\s+(?:crime|safety|clean|investment|area|neighborhood)`),
	regexp.MustCompile(`(?i)([A-Za-z\sñáéíóú,]+?)\s+Madrid(?:\s|$|[.!?])`),
}

// Filler words stripped from a captured neighborhood. Kept deliberately
// short so descriptors like "La" or "El" survive.
var cleanupWords = map[string]bool{
	"the": true, "a": true, "an": true, "area": true, "neighborhood": true,
	"district": true, "barrio": true, "distrito": true, "what": true,
	"how": true, "is": true, "rate": true, "investment": true,
	"potential": true, "crime": true, "safety": true, "like": true,
	"do": true, "people": true, "think": true, "about": true,
	"tell": true, "me": true, "this": true,
}

var madridNeighborhoods = []string{
	"salamanca", "latina", "moncloa", "almagro", "chamartin", "malasaña",
	"malasana", "chueca", "chamberi", "retiro", "lavapies", "sol",
	"centro", "arguelles", "tetuan",
}

var barcelonaNeighborhoods = []string{
	"eixample", "gracia", "born", "raval", "barceloneta", "sarria",
	"pedralbes", "sant gervasi", "poble sec",
}

var valenciaNeighborhoods = []string{
	"ciutat vella", "eixample", "extramurs", "campanar",
	"poblats maritims", "algiros",
}

// ExtractNeighborhood pulls the neighborhood name out of a query.
// Patterns run in specificity order against the original-case query; the
// first match wins. When a pattern also captured the city it is appended
// as ", City"; otherwise the city is inferred from known neighborhood
// tables. Returns "" when nothing usable remains after cleanup.
func (d *Detector) ExtractNeighborhood(query string) string {
	for _, pat := range neighborhoodPatterns {
		m := pat.FindStringSubmatch(query)
		if m == nil {
			continue
		}

		neighborhood := strings.TrimSpace(m[1])
		city := ""
		if len(m) == 3 {
			city = strings.TrimSpace(m[2])
		}

		var cleaned []string
		for _, w := range strings.Fields(neighborhood) {
			if !cleanupWords[strings.ToLower(w)] && len([]rune(w)) > 1 {
				cleaned = append(cleaned, w)
			}
		}
		if len(cleaned) == 0 {
			continue
		}

		result := strings.Join(cleaned, " ")
		lower := strings.ToLower(result)

		switch {
		case city != "":
			result = result + ", " + city
		case !strings.Contains(lower, "madrid"):
			if matchesAny(lower, madridNeighborhoods) {
				result = result + ", Madrid"
			} else if matchesAny(lower, barcelonaNeighborhoods) {
				result = result + ", Barcelona"
			} else if matchesAny(lower, valenciaNeighborhoods) {
				result = result + ", Valencia"
			}
		}

		return result
	}

	return ""
}

func matchesAny(s string, names []string) bool {
	for _, name := range names {
		if strings.Contains(s, name) {
			return true
		}
	}
	return false
}

// Analyze runs the full classification: neighborhood extraction, category
// detection and background category selection.
func (d *Detector) Analyze(query string) core.QueryAnalysis {
	neighborhood := d.ExtractNeighborhood(query)
	priority, detected := d.Detect(query)

	analysis := core.QueryAnalysis{
		Query:        query,
		Neighborhood: neighborhood,
		Priority:     priority,
		Detected:     detected,
		Background:   d.Remaining(detected),
	}

	d.logger.Debug("analyzed query",
		"neighborhood", neighborhood,
		"priority", priority,
		"detected", len(detected))

	return analysis
}
