package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

type stubProvider struct {
	envelope *core.Envelope
	requests []Request
}

func (p *stubProvider) Search(_ context.Context, req Request) *core.Envelope {
	p.requests = append(p.requests, req)
	return p.envelope
}

func TestNewOrchestrator_RequiresProvider(t *testing.T) {
	_, err := NewOrchestrator(nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestOrchestrator_EnrichesSuccessfulEnvelope(t *testing.T) {
	provider := &stubProvider{
		envelope: &core.Envelope{
			SearchTerm: "Salamanca crime rate",
			Engine:     "stub",
			Sources: []core.Source{
				{
					Title:   "Salamanca safety report",
					URL:     "https://www.idealista.com/salamanca",
					Snippet: "Salamanca is very safe and well patrolled at night.",
				},
			},
			TotalResults: 1,
		},
	}

	o, err := NewOrchestrator(provider)
	require.NoError(t, err)

	envelope := o.Search(context.Background(), Request{
		Query:         "Salamanca crime rate",
		Category:      "crime_rate",
		Neighborhood:  "Salamanca, Madrid",
		AddConfidence: true,
	})

	require.NotNil(t, envelope)
	assert.False(t, envelope.Failed())

	// Content enhancement was not requested, so the snippet survives.
	assert.False(t, envelope.Sources[0].ContentEnhanced)
	assert.Nil(t, envelope.ContentExtraction)

	require.NotNil(t, envelope.Confidence)
	require.NotNil(t, envelope.Sources[0].Confidence)

	require.NotNil(t, envelope.Structured)
	require.NotNil(t, envelope.Sources[0].Structured)
	assert.Equal(t, "very safe", envelope.Sources[0].Structured.Metrics["safety_descriptor"])
}

func TestOrchestrator_FailedEnvelopePassesThrough(t *testing.T) {
	provider := &stubProvider{
		envelope: &core.Envelope{
			SearchTerm: "Salamanca crime rate",
			Err:        "all instances failed",
		},
	}

	o, err := NewOrchestrator(provider)
	require.NoError(t, err)

	envelope := o.Search(context.Background(), Request{
		Query:         "Salamanca crime rate",
		Category:      "crime_rate",
		Neighborhood:  "Salamanca, Madrid",
		AddConfidence: true,
	})

	require.NotNil(t, envelope)
	assert.True(t, envelope.Failed())
	assert.Nil(t, envelope.Confidence)
	assert.Nil(t, envelope.Structured)
}

func TestOrchestrator_SkipsStructuredWithoutNeighborhood(t *testing.T) {
	provider := &stubProvider{
		envelope: &core.Envelope{
			SearchTerm: "crime rate",
			Sources: []core.Source{
				{Title: "report", URL: "https://example.com", Snippet: "some text."},
			},
			TotalResults: 1,
		},
	}

	o, err := NewOrchestrator(provider)
	require.NoError(t, err)

	envelope := o.Search(context.Background(), Request{
		Query:    "crime rate",
		Category: "crime_rate",
	})

	require.NotNil(t, envelope)
	assert.Nil(t, envelope.Structured)
	assert.Nil(t, envelope.Sources[0].Structured)
}
