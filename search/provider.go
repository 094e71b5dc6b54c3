package search

import (
	"context"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

// Request describes one category search.
type Request struct {
	Query        string
	Category     string
	Neighborhood string
	MaxResults   int

	// EnhanceContent and AddConfidence are read by the Orchestrator;
	// providers return raw results either way.
	EnhanceContent bool
	AddConfidence  bool
}

// Provider performs a web search and reports the outcome as an
// envelope. Backend failures are values on the envelope, not Go
// errors: a provider that exhausts its backends returns an envelope
// whose Err field holds the last failure and no sources.
type Provider interface {
	Search(ctx context.Context, req Request) *core.Envelope
}
