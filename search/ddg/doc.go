// Package ddg queries the DuckDuckGo instant answer API as a
// single-endpoint fallback search provider.
//
// The endpoint tolerates very little traffic, so consecutive calls are
// spaced out on a wall clock instead of failing over. Instant answers
// sometimes arrive as a plain text abstract with no link results; the
// client wraps those in a single synthetic source so the enrichment
// pipeline always has something to work with.
package ddg
