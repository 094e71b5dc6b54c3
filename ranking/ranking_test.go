package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	normalized, minV, maxV := Normalize([]float64{100, 200, 300})
	assert.Equal(t, []float64{0, 0.5, 1}, normalized)
	assert.Equal(t, 100.0, minV)
	assert.Equal(t, 300.0, maxV)
}

func TestNormalize_Degenerate(t *testing.T) {
	normalized, minV, maxV := Normalize([]float64{7, 7, 7})
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, normalized)
	assert.Equal(t, 7.0, minV)
	assert.Equal(t, 7.0, maxV)

	empty, _, _ := Normalize(nil)
	assert.Nil(t, empty)
}

func TestRank_Ordering(t *testing.T) {
	properties := []Property{
		{"id": "cheap-small", "price": 100000.0, "size": 40.0},
		{"id": "mid", "price": 200000.0, "size": 70.0},
		{"id": "big-expensive", "price": 300000.0, "size": 100.0},
	}

	// Size matters most, price penalizes.
	weights := Weights{"size": 2, "price": -1}

	ranked := Rank(properties, weights)
	require.Len(t, ranked, 3)

	// big-expensive: size 1*2 + price 1*-1 = 1; cheap-small: 0; mid: 0.5*2 - 0.5 = 0.5.
	assert.Equal(t, "big-expensive", ranked[0].Property["id"])
	assert.Equal(t, "mid", ranked[1].Property["id"])
	assert.Equal(t, "cheap-small", ranked[2].Property["id"])

	assert.InDelta(t, 100.0/3.0, ranked[0].Score, 0.001)
	assert.InDelta(t, 0.0, ranked[2].Score, 0.001)
}

func TestRank_Justification(t *testing.T) {
	properties := []Property{
		{"price": 100000.0},
		{"price": 300000.0},
	}

	ranked := Rank(properties, Weights{"price": 1})
	require.Len(t, ranked, 2)

	top := ranked[0]
	assert.Equal(t, 300000.0, top.Property["price"])

	contribution, ok := top.Justification["price"]
	require.True(t, ok)
	assert.Equal(t, 300000.0, contribution.Value)
	assert.Equal(t, 1.0, contribution.Normalized)
	assert.Equal(t, 1.0, contribution.Contribution)
}

func TestRank_SkipsNonNumericFields(t *testing.T) {
	properties := []Property{
		{"price": 100000.0, "name": "Flat A"},
		{"price": "not a number", "name": "Flat B"},
	}

	ranked := Rank(properties, Weights{"price": 1, "name": 1})
	require.Len(t, ranked, 2)

	// Flat B has no usable numeric field; name never contributes.
	assert.Equal(t, "Flat A", ranked[0].Property["name"])
	assert.NotContains(t, ranked[0].Justification, "name")
	assert.Empty(t, ranked[1].Justification)
}

func TestRank_NumericStrings(t *testing.T) {
	properties := []Property{
		{"price": "100000"},
		{"price": "300000"},
	}

	ranked := Rank(properties, Weights{"price": -1})
	require.Len(t, ranked, 2)
	assert.Equal(t, "100000", ranked[0].Property["price"])
}

func TestScore_ZeroWeights(t *testing.T) {
	properties := []Property{{"price": 100000.0}}
	score, breakdown := Score(properties[0], Weights{"price": 0}, fieldBounds(properties, Weights{"price": 0}))
	assert.Equal(t, 0.0, score)
	assert.Nil(t, breakdown)
}

func TestRank_DegenerateFieldScoresHalf(t *testing.T) {
	properties := []Property{
		{"price": 200000.0},
		{"price": 200000.0},
	}

	ranked := Rank(properties, Weights{"price": 1})
	for _, s := range ranked {
		assert.InDelta(t, 50.0, s.Score, 0.001)
	}
}
