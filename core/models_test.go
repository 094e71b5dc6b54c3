package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestSource_Builders(t *testing.T) {
	base := Source{
		Title:   "Salamanca overview",
		URL:     "https://example.com/salamanca",
		Snippet: "original snippet",
	}

	t.Run("WithSnippet copies and marks enhanced", func(t *testing.T) {
		enhanced := base.WithSnippet("extracted page content")

		if !enhanced.ContentEnhanced {
			t.Errorf("WithSnippet() did not set ContentEnhanced")
		}
		if enhanced.Snippet != "extracted page content" {
			t.Errorf("WithSnippet() snippet = %q", enhanced.Snippet)
		}
		if base.ContentEnhanced || base.Snippet != "original snippet" {
			t.Errorf("WithSnippet() mutated the receiver")
		}
	})

	t.Run("WithConfidence copies", func(t *testing.T) {
		c := &ConfidenceBreakdown{Total: 70, Level: ConfidenceHigh}
		scored := base.WithConfidence(c)

		if scored.Confidence != c {
			t.Errorf("WithConfidence() did not attach breakdown")
		}
		if base.Confidence != nil {
			t.Errorf("WithConfidence() mutated the receiver")
		}
	})

	t.Run("WithStructured copies", func(t *testing.T) {
		f := &StructuredFacts{Quality: DataQualityMedium}
		enriched := base.WithStructured(f)

		if enriched.Structured != f {
			t.Errorf("WithStructured() did not attach facts")
		}
		if base.Structured != nil {
			t.Errorf("WithStructured() mutated the receiver")
		}
	})
}

func TestEnvelope_Failed(t *testing.T) {
	tests := []struct {
		name     string
		envelope Envelope
		want     bool
	}{
		{
			name:     "envelope with error",
			envelope: Envelope{Err: "all instances failed"},
			want:     true,
		},
		{
			name:     "successful envelope",
			envelope: Envelope{Sources: []Source{{Title: "hit"}}, TotalResults: 1},
			want:     false,
		},
		{
			name:     "empty but not failed",
			envelope: Envelope{},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.envelope.Failed(); got != tt.want {
				t.Errorf("Envelope.Failed() = %v, want %v", got, tt.want)
			}
		})
	}
}
