package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(WithDelay(0))
	require.NoError(t, err)
	return e
}

const articlePage = `<!DOCTYPE html>
<html>
<head><meta name="description" content="A guide to Salamanca."></head>
<body>
<header><p>Site navigation menu with many links that should never appear in snippets at all</p></header>
<article>
<p>Salamanca is an upscale neighborhood in central Madrid known for designer shopping and quiet residential streets.</p>
<p>Residents describe the atmosphere as calm and safe, with locals praising the well maintained public areas.</p>
<p>Short paragraph.</p>
<p>The weather in Spain varies by season and region, with hot summers being common in the interior of the country.</p>
</article>
<footer><p>Cookie policy and privacy policy text that is long enough to pass the length filter easily here</p></footer>
</body>
</html>`

func TestExtract(t *testing.T) {
	e := newTestExtractor(t)
	ctx := context.Background()

	t.Run("scores and combines relevant paragraphs", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(articlePage))
		}))
		defer server.Close()

		got, err := e.Extract(ctx, server.URL, "Salamanca Madrid neighborhood")
		require.NoError(t, err)

		assert.Contains(t, got, "Salamanca is an upscale neighborhood")
		assert.Contains(t, got, " | ")
		assert.NotContains(t, got, "navigation menu")
		assert.NotContains(t, got, "Cookie policy")
		assert.NotContains(t, got, "weather in Spain")
	})

	t.Run("long snippet is truncated", func(t *testing.T) {
		long := strings.Repeat("Salamanca neighborhood residents enjoy quiet streets. ", 20)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body><p>" + long + "</p></body></html>"))
		}))
		defer server.Close()

		got, err := e.Extract(ctx, server.URL, "Salamanca")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.LessOrEqual(t, len([]rune(got)), maxSnippetLen+3)
	})

	t.Run("meta description fallback", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><head><meta name="description" content="Official Salamanca district portal."></head><body></body></html>`))
		}))
		defer server.Close()

		got, err := e.Extract(ctx, server.URL, "Salamanca")
		require.NoError(t, err)
		assert.Equal(t, "Official Salamanca district portal.", got)
	})

	t.Run("empty and sentinel URLs are skipped", func(t *testing.T) {
		for _, u := range []string{"", "No URL"} {
			got, err := e.Extract(ctx, u, "Salamanca")
			require.NoError(t, err)
			assert.Empty(t, got)
		}
	})

	t.Run("blocked domain is skipped", func(t *testing.T) {
		got, err := e.Extract(ctx, "https://www.tripadvisor.com/salamanca", "Salamanca")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("http error returns error and no content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}))
		defer server.Close()

		got, err := e.Extract(ctx, server.URL, "Salamanca")
		assert.Error(t, err)
		assert.Empty(t, got)
	})
}

func TestEnhance(t *testing.T) {
	e := newTestExtractor(t)
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articlePage))
	}))
	defer server.Close()

	t.Run("mixed sources", func(t *testing.T) {
		envelope := &core.Envelope{
			SearchTerm: "Salamanca Madrid neighborhood",
			Sources: []core.Source{
				{Title: "good page", URL: server.URL, Snippet: "thin snippet"},
				{Title: "no url", URL: "No URL", Snippet: "instant answer"},
			},
			TotalResults: 2,
		}

		e.Enhance(ctx, envelope, "Salamanca Madrid neighborhood")

		require.NotNil(t, envelope.ContentExtraction)
		assert.Equal(t, 1, envelope.ContentExtraction.EnhancedCount)
		assert.Equal(t, 2, envelope.ContentExtraction.TotalSources)

		assert.True(t, envelope.Sources[0].ContentEnhanced)
		assert.NotEqual(t, "thin snippet", envelope.Sources[0].Snippet)

		assert.False(t, envelope.Sources[1].ContentEnhanced)
		assert.Equal(t, "instant answer", envelope.Sources[1].Snippet)
	})

	t.Run("empty envelope untouched", func(t *testing.T) {
		envelope := &core.Envelope{SearchTerm: "q"}
		e.Enhance(ctx, envelope, "q")
		assert.Nil(t, envelope.ContentExtraction)
	})
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "whitespace collapsed",
			in:   "  Salamanca \n\t is   central ",
			want: "Salamanca is central",
		},
		{
			name: "noise removed",
			in:   "Great area. Cookie Policy applies.",
			want: "Great area.  applies.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanText(tt.in))
		})
	}
}
