package structured

import "regexp"

// metric kinds determine which key an extracted figure is stored under.
type metricKind int

const (
	kindNone metricKind = iota

	kindPricePerSqm
	kindTotalInvestment

	kindAnnualGrowth
	kindGrowthRate

	kindTotalIncidents
	kindIncidentsPerThousand
	kindSafetyRating

	kindRatingWithScale
	kindRating

	kindAQI
	kindPM25
	kindAirQualityWord
	kindCleanlinessScore
	kindServiceWord
)

type metricPattern struct {
	re   *regexp.Regexp
	kind metricKind
}

// Square-meter price forms, Spanish and English. Values are validated
// against a 1000-50000 EUR/m2 plausibility window after parsing.
var pricePatterns = []metricPattern{
	{regexp.MustCompile(`(?i)€\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)\s*(?:per\s*)?(?:m²|metro|square)`), kindPricePerSqm},
	{regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)\s*euros?\s*(?:per\s*)?(?:m²|metro|square)`), kindPricePerSqm},
	{regexp.MustCompile(`(?i)price.*?€\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`), kindPricePerSqm},
	{regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*)\s*€/m²`), kindPricePerSqm},
	{regexp.MustCompile(`(?i)alcanza\s*los\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)\s*euros?\s*por\s*metro`), kindPricePerSqm},
}

// Whole-project figures. Anything under 100000 EUR is treated as noise.
var totalPricePatterns = []metricPattern{
	{regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*(?:\.\d{3})?)\s*euros?\s*(?:project|investment|total)`), kindTotalInvestment},
	{regexp.MustCompile(`(?i)project.*?(\d{1,3}(?:,\d{3})*(?:\.\d{3})?)\s*euros?`), kindTotalInvestment},
	{regexp.MustCompile(`(?i)investment.*?(\d{1,3}(?:,\d{3})*(?:\.\d{3})?)\s*euros?`), kindTotalInvestment},
}

var percentagePatterns = []metricPattern{
	{regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d{1,2})?)\s*%\s*(?:annual|yearly|year|interanual)`), kindAnnualGrowth},
	{regexp.MustCompile(`(?i)incremento.*?(\d{1,2}(?:\.\d{1,2})?)\s*%`), kindGrowthRate},
	{regexp.MustCompile(`(?i)increase.*?(\d{1,2}(?:\.\d{1,2})?)\s*%`), kindGrowthRate},
	{regexp.MustCompile(`(?i)growth.*?(\d{1,2}(?:\.\d{1,2})?)\s*%`), kindGrowthRate},
	{regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d{1,2})?)\s*%.*?increase`), kindGrowthRate},
}

// Crime figure forms. The kindNone entries recognize a crime mention with
// no usable figure: they stop the scan without recording a metric.
var crimePatterns = []metricPattern{
	{regexp.MustCompile(`(?i)(\d{1,4})\s*(?:cases|incidents|crimes).*?(?:theft|robbery|crime)`), kindTotalIncidents},
	{regexp.MustCompile(`(?i)(\d{1,3})\s*incidents?\s*per\s*1,?000\s*residents`), kindIncidentsPerThousand},
	{regexp.MustCompile(`(?i)crime\s*rate.*?(\d{1,2}(?:\.\d{1,2})?)`), kindNone},
	{regexp.MustCompile(`(?i)(\d{1,4})\s*reported.*?crimes?`), kindNone},
	{regexp.MustCompile(`(?i)safety\s*rating.*?(\d{1,2}(?:\.\d{1,2})?)`), kindSafetyRating},
}

var ratingPatterns = []metricPattern{
	{regexp.MustCompile(`(?i)rated?\s*(\d{1,2}(?:\.\d{1,2})?)\s*(?:of|out\s*of|/)\s*(\d{1,2})`), kindRatingWithScale},
	{regexp.MustCompile(`(?i)puntuación.*?(\d{1,2}(?:\.\d{1,2})?)\s*sobre\s*(\d{1,2})`), kindRatingWithScale},
	{regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d{1,2})?)\s*stars?`), kindRating},
	{regexp.MustCompile(`(?i)score.*?(\d{1,2}(?:\.\d{1,2})?)`), kindRating},
}

var cleanlinessPatterns = []metricPattern{
	{regexp.MustCompile(`(?i)Air Quality Index.*?(\d{1,3})`), kindAQI},
	{regexp.MustCompile(`(?i)AQI.*?(\d{1,3})`), kindAQI},
	{regexp.MustCompile(`(?i)PM2\.5.*?(\d{1,3})`), kindPM25},
	{regexp.MustCompile(`(?i)air quality.*?(Good|Moderate|Poor|Very Poor|Excellent)`), kindAirQualityWord},
	{regexp.MustCompile(`(?i)cleanliness.*?rating.*?(\d{1,2})`), kindCleanlinessScore},
	{regexp.MustCompile(`(?i)maintenance.*?score.*?(\d{1,2})`), kindCleanlinessScore},
	{regexp.MustCompile(`(?i)street.*?cleaning.*?(daily|weekly|regular|excellent|good|poor)`), kindServiceWord},
	{regexp.MustCompile(`(?i)garbage.*?collection.*?(daily|weekly|regular|excellent|good|poor)`), kindServiceWord},
	{regexp.MustCompile(`(?i)waste.*?management.*?(excellent|good|poor|adequate)`), kindServiceWord},
}

// descriptorScore pairs a textual descriptor with its 0-10 score. Slices
// are ordered: the first descriptor found in the text wins, so stronger
// phrases must precede their substrings.
type descriptorScore struct {
	term  string
	score float64
}

var safetyDescriptors = []descriptorScore{
	{"very safe", 9}, {"extremely safe", 9}, {"safest", 9},
	{"safe", 7}, {"generally safe", 7}, {"mostly safe", 7},
	{"somewhat safe", 5}, {"moderately safe", 5},
	{"unsafe", 3}, {"dangerous", 2}, {"high crime", 2}, {"high-risk", 2},
}

var cleanlinessDescriptors = []descriptorScore{
	{"very clean", 9}, {"extremely clean", 9}, {"spotless", 9}, {"immaculate", 9},
	{"clean", 7}, {"well-maintained", 7}, {"tidy", 7}, {"neat", 7},
	{"average cleanliness", 5}, {"moderately clean", 5},
	{"dirty", 3}, {"messy", 3}, {"poorly maintained", 3},
	{"very dirty", 1}, {"filthy", 1}, {"neglected", 1},
}

// Marketing boilerplate that disqualifies or gets stripped from facts.
var noisePhrases = []string{
	"discover detailed insights", "learn about", "smart strategies",
	"comprehensive guide", "book now", "see reviews", "contact us",
	"great deals for", "lowest rate guaranteed", "best price guarantee",
	"exclusive deal alerts", "want exclusive", "sign in", "overview reviews",
	"fully refundable rates", "free cancellation", "minutes away",
	"this hotel also features", "all rooms have",
}

// Sentence shapes worth keeping as key facts, per category.
var factPatterns = map[string][]*regexp.Regexp{
	"crime_rate": {
		regexp.MustCompile(`(?i)[^.]*(?:safe|safety|crime|security|police)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:incidents?|theft|robbery|violence)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:patrol|well-lit|secure)[^.]*\.`),
	},
	"investment_potential": {
		regexp.MustCompile(`(?i)[^.]*(?:price|investment|market|growth|appreciation)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:rental|yield|ROI|return)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:demand|supply|development)[^.]*\.`),
	},
	"public_perception": {
		regexp.MustCompile(`(?i)[^.]*(?:residents?|locals?|people|community)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:experience|living|life|atmosphere)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:reputation|known for|famous)[^.]*\.`),
	},
	"cleanliness": {
		regexp.MustCompile(`(?i)[^.]*(?:clean|maintenance|sanitation|hygiene|well-maintained)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:garbage|waste|environment|air quality|pollution)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:streets?|public spaces?|neighborhood|area)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:AQI|Air Quality Index|PM2\.5)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:street cleaning|waste management|upkeep)[^.]*\.`),
	},
	"general_info": {
		regexp.MustCompile(`(?i)[^.]*(?:location|situated|proximity)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:amenities|facilities|services)[^.]*\.`),
		regexp.MustCompile(`(?i)[^.]*(?:transport|metro|bus|connection)[^.]*\.`),
	},
}

// Phrases that signal a metric refers to somewhere other than the target
// neighborhood. Any of them rejects every metric in the snippet.
var exclusionaryPhrases = []string{
	"other areas", "outskirts", "surrounding areas", "nearby areas",
	"different neighborhood", "another district", "other districts",
	"outside", "exterior", "peripheral", "suburbs", "metropolitan area",
	"not in", "excluding", "except for", "apart from",
}

var realEstateKeywords = []string{"real estate", "property", "investment", "market", "price"}
