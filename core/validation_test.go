package core

import (
	"errors"
	"testing"
)

func TestValidateEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		envelope *Envelope
		wantErr  error
	}{
		{
			name: "valid envelope",
			envelope: &Envelope{
				SearchTerm:   "crime rate Salamanca Madrid",
				Sources:      []Source{{Title: "a"}, {Title: "b"}},
				TotalResults: 2,
			},
			wantErr: nil,
		},
		{
			name: "valid failed envelope",
			envelope: &Envelope{
				SearchTerm:   "crime rate Salamanca Madrid",
				TotalResults: 0,
				Err:          "all search instances failed",
			},
			wantErr: nil,
		},
		{
			name: "valid empty envelope",
			envelope: &Envelope{
				SearchTerm:   "cleanliness Lavapies",
				TotalResults: 0,
			},
			wantErr: nil,
		},
		{
			name:     "nil envelope",
			envelope: nil,
			wantErr:  ErrInvalidEnvelope,
		},
		{
			name: "empty search term",
			envelope: &Envelope{
				TotalResults: 0,
			},
			wantErr: ErrEmptyQuery,
		},
		{
			name: "count mismatch",
			envelope: &Envelope{
				SearchTerm:   "query",
				Sources:      []Source{{Title: "a"}},
				TotalResults: 3,
			},
			wantErr: ErrResultCountMismatch,
		},
		{
			name: "failed envelope with sources",
			envelope: &Envelope{
				SearchTerm:   "query",
				Sources:      []Source{{Title: "a"}},
				TotalResults: 1,
				Err:          "timeout",
			},
			wantErr: ErrInvalidEnvelope,
		},
		{
			name: "source with bad confidence",
			envelope: &Envelope{
				SearchTerm: "query",
				Sources: []Source{
					{Title: "a", Confidence: &ConfidenceBreakdown{Total: 140}},
				},
				TotalResults: 1,
			},
			wantErr: ErrConfidenceOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEnvelope(tt.envelope)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEnvelope() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateEnvelope() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEnvelope() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name    string
		source  *Source
		wantErr error
	}{
		{
			name:    "valid source",
			source:  &Source{Title: "hit", URL: "https://example.com", Snippet: "text"},
			wantErr: nil,
		},
		{
			name:    "valid source without URL",
			source:  &Source{Title: "instant answer", URL: "No URL"},
			wantErr: nil,
		},
		{
			name:    "valid source without snippet",
			source:  &Source{Title: "title only"},
			wantErr: nil,
		},
		{
			name:    "nil source",
			source:  nil,
			wantErr: ErrInvalidSource,
		},
		{
			name:    "empty title",
			source:  &Source{URL: "https://example.com"},
			wantErr: ErrInvalidSource,
		},
		{
			name: "confidence out of range",
			source: &Source{
				Title:      "hit",
				Confidence: &ConfidenceBreakdown{Total: -1},
			},
			wantErr: ErrConfidenceOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.source)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSource() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateSource() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSource() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateConfidence(t *testing.T) {
	tests := []struct {
		name      string
		breakdown ConfidenceBreakdown
		wantErr   bool
	}{
		{
			name: "valid breakdown",
			breakdown: ConfidenceBreakdown{
				DomainAuthority:  40,
				ContentQuality:   25,
				TechnicalQuality: 10,
				Recency:          8,
				Total:            83,
			},
			wantErr: false,
		},
		{
			name:      "zero breakdown",
			breakdown: ConfidenceBreakdown{},
			wantErr:   false,
		},
		{
			name:      "total above 100",
			breakdown: ConfidenceBreakdown{Total: 101},
			wantErr:   true,
		},
		{
			name:      "authority above cap",
			breakdown: ConfidenceBreakdown{DomainAuthority: 41, Total: 41},
			wantErr:   true,
		},
		{
			name:      "content quality above cap",
			breakdown: ConfidenceBreakdown{ContentQuality: 50, Total: 50},
			wantErr:   true,
		},
		{
			name:      "recency above cap",
			breakdown: ConfidenceBreakdown{Recency: 11, Total: 11},
			wantErr:   true,
		},
		{
			name:      "negative technical quality",
			breakdown: ConfidenceBreakdown{TechnicalQuality: -2},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfidence(&tt.breakdown)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfidence() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *DocumentChunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &DocumentChunk{
				Document: "guide.txt",
				Seq:      0,
				Text:     "Salamanca is an upscale district in central Madrid.",
			},
			wantErr: nil,
		},
		{
			name: "valid chunk with empty vector",
			chunk: &DocumentChunk{
				Document: "guide.txt",
				Seq:      3,
				Text:     "chunk text",
				Vector:   nil,
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name: "empty text",
			chunk: &DocumentChunk{
				Document: "guide.txt",
			},
			wantErr: ErrEmptyText,
		},
		{
			name: "empty document",
			chunk: &DocumentChunk{
				Text: "chunk text",
			},
			wantErr: ErrInvalidChunk,
		},
		{
			name: "negative sequence",
			chunk: &DocumentChunk{
				Document: "guide.txt",
				Seq:      -1,
				Text:     "chunk text",
			},
			wantErr: ErrInvalidChunk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateChunk() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
