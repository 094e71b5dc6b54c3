package category

import (
	"regexp"
	"strings"
)

// Category names. Declaration order is significant: it fixes tie-breaking
// in Detect and the ordering of background categories.
const (
	CrimeRate           = "crime_rate"
	Cleanliness         = "cleanliness"
	PublicPerception    = "public_perception"
	InvestmentPotential = "investment_potential"
	GeneralInfo         = "general_info"
)

// Profile describes one research category: the vocabulary that signals it
// in a query and the search-term templates used to research it.
type Profile struct {
	Name        string
	Keywords    []string
	Patterns    []*regexp.Regexp
	SearchTerms []string
}

// RenderTerms substitutes the neighborhood into the profile's search-term
// templates.
func (p Profile) RenderTerms(neighborhood string) []string {
	terms := make([]string, len(p.SearchTerms))
	for i, tmpl := range p.SearchTerms {
		terms[i] = strings.ReplaceAll(tmpl, "{neighborhood}", neighborhood)
	}
	return terms
}

func patterns(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		compiled[i] = regexp.MustCompile("(?i)" + expr)
	}
	return compiled
}

// Profiles is the ordered category table. Keywords cover English and
// Spanish vocabulary since the target cities are mostly Spanish.
var Profiles = []Profile{
	{
		Name: CrimeRate,
		Keywords: []string{
			"crime", "safety", "security", "dangerous", "theft", "robbery",
			"safe", "unsafe", "violence", "police",
			"seguridad", "crimen", "delincuencia",
		},
		Patterns: patterns(
			`crime\s*rate`,
			`how\s+safe`,
			`is\s+\w+\s+safe`,
			`safety\s+in`,
			`dangerous\s+area`,
			`seguridad\s+en`,
			`es\s+seguro`,
		),
		SearchTerms: []string{
			"{neighborhood} crime rate safety statistics security",
			"{neighborhood} police reports crime statistics data",
			"{neighborhood} safety guide dangerous areas avoid",
			"{neighborhood} seguridad delincuencia estadisticas",
			"{neighborhood} neighborhood safety walking night",
		},
	},
	{
		Name: Cleanliness,
		Keywords: []string{
			"clean", "dirty", "garbage", "maintenance", "sanitation",
			"hygiene", "tidy", "messy",
			"limpio", "sucio", "limpieza",
			"well-maintained", "street cleaning", "waste management",
		},
		Patterns: patterns(
			`how\s+clean`,
			`cleanliness`,
			`clean\s+is`,
			`maintenance`,
			`well\s*maintained`,
			`street\s*cleaning`,
			`garbage\s*collection`,
			`qué\s+tal\s+la\s+limpieza`,
			`está\s+limpio`,
		),
		SearchTerms: []string{
			"{neighborhood} clean streets well maintained neighborhood",
			"{neighborhood} garbage collection street cleaning services",
			"{neighborhood} public spaces maintenance cleanliness",
			"{neighborhood} limpieza calles mantenimiento urbano",
			"{neighborhood} neighborhood upkeep clean safe area",
			"{neighborhood} waste management street maintenance",
			"{neighborhood} well kept clean public areas",
		},
	},
	{
		Name: PublicPerception,
		Keywords: []string{
			"opinion", "review", "reputation", "perception", "experience",
			"think", "feel", "locals", "residents",
			"opinión", "reseñas", "experiencia",
		},
		Patterns: patterns(
			`what.*think`,
			`people\s+say`,
			`reputation`,
			`living\s+experience`,
			`resident.*opinion`,
			`qué.*opinan`,
			`experiencia.*vivir`,
		),
		SearchTerms: []string{
			"{neighborhood} resident reviews living experience",
			"{neighborhood} locals opinions neighborhood life",
			"{neighborhood} what people say about living",
			"{neighborhood} opiniones residentes experiencia",
			"{neighborhood} neighborhood reputation community feel",
		},
	},
	{
		Name: InvestmentPotential,
		Keywords: []string{
			"investment", "property", "real estate", "market", "prices",
			"buy", "invest", "value", "appreciation",
			"inversión", "inmobiliario", "precios",
		},
		Patterns: patterns(
			`investment\s+potential`,
			`should.*invest`,
			`real\s+estate`,
			`property\s+market`,
			`buy.*property`,
			`potencial.*inversión`,
			`mercado.*inmobiliario`,
		),
		SearchTerms: []string{
			"{neighborhood} real estate investment market analysis",
			"{neighborhood} property prices trends investment guide",
			"{neighborhood} housing market investment opportunities",
			"{neighborhood} inversión inmobiliaria mercado precios",
			"{neighborhood} buy property investment potential value",
		},
	},
	{
		Name: GeneralInfo,
		Keywords: []string{
			"about", "information", "overview", "description", "tell",
			"guide", "what", "like",
			"información", "sobre", "guía",
		},
		Patterns: patterns(
			`tell.*about`,
			`what.*like`,
			`information.*about`,
			`overview`,
			`guide.*to`,
			`información.*sobre`,
			`cómo.*es`,
		),
		SearchTerms: []string{
			"{neighborhood} neighborhood guide amenities lifestyle",
			"{neighborhood} area overview attractions restaurants",
			"{neighborhood} living guide local life culture",
			"{neighborhood} guía barrio información general",
			"{neighborhood} what to know local attractions dining",
		},
	},
}

// Names returns all category names in declaration order.
func Names() []string {
	names := make([]string, len(Profiles))
	for i, p := range Profiles {
		names[i] = p.Name
	}
	return names
}

// ProfileByName looks up a profile by category name.
func ProfileByName(name string) (Profile, bool) {
	for _, p := range Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}
