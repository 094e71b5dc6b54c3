package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	detector, err := NewDetector()
	require.NoError(t, err)

	tests := []struct {
		name         string
		query        string
		wantPriority string
		wantDetected []string
	}{
		{
			name:         "crime pattern outranks keywords",
			query:        "What's the crime rate in Salamanca Madrid?",
			wantPriority: CrimeRate,
			wantDetected: []string{CrimeRate, GeneralInfo},
		},
		{
			name:         "cleanliness query",
			query:        "How clean is Malasana?",
			wantPriority: Cleanliness,
			wantDetected: []string{Cleanliness},
		},
		{
			name:         "investment query",
			query:        "Should I invest in real estate in Chamberi?",
			wantPriority: InvestmentPotential,
			wantDetected: []string{InvestmentPotential},
		},
		{
			name:         "perception query",
			query:        "What do residents think of La Latina?",
			wantPriority: PublicPerception,
			wantDetected: []string{PublicPerception, GeneralInfo},
		},
		{
			name:         "no category falls back to general info",
			query:        "Salamanca",
			wantPriority: GeneralInfo,
			wantDetected: []string{GeneralInfo},
		},
		{
			name:         "equal scores resolve to earliest category",
			query:        "security garbage Salamanca",
			wantPriority: CrimeRate,
			wantDetected: []string{CrimeRate, Cleanliness},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority, detected := detector.Detect(tt.query)
			assert.Equal(t, tt.wantPriority, priority)
			assert.Equal(t, tt.wantDetected, detected)
		})
	}
}

func TestDetect_Deterministic(t *testing.T) {
	detector, err := NewDetector()
	require.NoError(t, err)

	query := "Is Lavapies safe and clean for property investment?"
	firstPriority, firstDetected := detector.Detect(query)
	for i := 0; i < 10; i++ {
		priority, detected := detector.Detect(query)
		assert.Equal(t, firstPriority, priority)
		assert.Equal(t, firstDetected, detected)
	}
}

func TestRemaining(t *testing.T) {
	detector, err := NewDetector()
	require.NoError(t, err)

	tests := []struct {
		name     string
		detected []string
		want     []string
	}{
		{
			name:     "one detected",
			detected: []string{CrimeRate},
			want:     []string{Cleanliness, PublicPerception, InvestmentPotential, GeneralInfo},
		},
		{
			name:     "declaration order preserved",
			detected: []string{GeneralInfo, Cleanliness},
			want:     []string{CrimeRate, PublicPerception, InvestmentPotential},
		},
		{
			name:     "all detected",
			detected: []string{CrimeRate, Cleanliness, PublicPerception, InvestmentPotential, GeneralInfo},
			want:     nil,
		},
		{
			name:     "none detected",
			detected: nil,
			want:     []string{CrimeRate, Cleanliness, PublicPerception, InvestmentPotential, GeneralInfo},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.Remaining(tt.detected))
		})
	}
}

func TestExtractNeighborhood(t *testing.T) {
	detector, err := NewDetector()
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "city captured by pattern",
			query: "What's the crime rate in Soho London",
			want:  "Soho, London",
		},
		{
			name:  "spanish city with filler words",
			query: "Is Malasana Madrid a clean neighborhood?",
			want:  "Malasana, Madrid",
		},
		{
			name:  "district suffix stripped",
			query: "Salamanca district Madrid",
			want:  "Salamanca, Madrid",
		},
		{
			name:  "city inferred for known madrid neighborhood",
			query: "Tell me about investment potential in Chamberi",
			want:  "Chamberi, Madrid",
		},
		{
			name:  "city inferred for barcelona neighborhood",
			query: "How safe is it in Gracia",
			want:  "Gracia, Barcelona",
		},
		{
			name:  "no location",
			query: "zzz",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ExtractNeighborhood(tt.query))
		})
	}
}

func TestAnalyze(t *testing.T) {
	detector, err := NewDetector()
	require.NoError(t, err)

	analysis := detector.Analyze("What's the crime rate in Salamanca Madrid?")

	assert.Equal(t, "What's the crime rate in Salamanca Madrid?", analysis.Query)
	assert.Equal(t, "Salamanca, Madrid", analysis.Neighborhood)
	assert.Equal(t, CrimeRate, analysis.Priority)
	assert.Contains(t, analysis.Detected, CrimeRate)

	for _, bg := range analysis.Background {
		assert.NotContains(t, analysis.Detected, bg)
	}
	assert.Len(t, append(analysis.Detected, analysis.Background...), len(Profiles))
}

func TestRenderTerms(t *testing.T) {
	profile, ok := ProfileByName(CrimeRate)
	require.True(t, ok)

	terms := profile.RenderTerms("Salamanca, Madrid")
	require.Len(t, terms, len(profile.SearchTerms))
	assert.Equal(t, "Salamanca, Madrid crime rate safety statistics security", terms[0])
	for _, term := range terms {
		assert.NotContains(t, term, "{neighborhood}")
	}
}

func TestProfileByName(t *testing.T) {
	t.Run("known category", func(t *testing.T) {
		p, ok := ProfileByName(Cleanliness)
		require.True(t, ok)
		assert.Equal(t, Cleanliness, p.Name)
		assert.NotEmpty(t, p.Keywords)
		assert.NotEmpty(t, p.SearchTerms)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, ok := ProfileByName("weather")
		assert.False(t, ok)
	})
}

func TestNames(t *testing.T) {
	assert.Equal(t,
		[]string{CrimeRate, Cleanliness, PublicPerception, InvestmentPotential, GeneralInfo},
		Names())
}
