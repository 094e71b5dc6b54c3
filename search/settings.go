package search

import "time"

// Settings bound the pace and size of external searches. Public search
// backends rate-limit aggressively and one enrichment run issues
// several searches back to back, so the defaults stay conservative.
type Settings struct {
	PriorityTimeout       time.Duration // budget for the priority category
	BackgroundTimeout     time.Duration // budget for each background category
	MaxResultsPerCategory int
	CacheTTL              time.Duration // how long cached envelopes stay valid
	RetryAttempts         int
	SearchDelay           time.Duration // pause between consecutive searches
	FallbackDelay         time.Duration // pause before retrying after a failure
	RateLimitBackoff      time.Duration // pause after an explicit rate limit
	MaxSearchesPerMinute  int
}

// DefaultSettings returns the production tuning.
func DefaultSettings() Settings {
	return Settings{
		PriorityTimeout:       3 * time.Second,
		BackgroundTimeout:     10 * time.Second,
		MaxResultsPerCategory: 5,
		CacheTTL:              24 * time.Hour,
		RetryAttempts:         3,
		SearchDelay:           3 * time.Second,
		FallbackDelay:         5 * time.Second,
		RateLimitBackoff:      10 * time.Second,
		MaxSearchesPerMinute:  15,
	}
}
