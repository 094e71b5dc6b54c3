package ranking

import (
	"sort"
	"strconv"
)

// Property is one candidate with arbitrary attributes (price, size, ...).
type Property map[string]any

// Weights maps attribute names to user-defined weights. Negative weights
// penalize high values.
type Weights map[string]float64

// Contribution records how one field moved a property's score.
type Contribution struct {
	Value        float64 `json:"value"`
	Normalized   float64 `json:"normalized"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Scored pairs a property with its 0-100 score and the per-field
// breakdown behind it.
type Scored struct {
	Property      Property                `json:"property"`
	Score         float64                 `json:"score"`
	Justification map[string]Contribution `json:"justification"`
}

// bounds is the observed min and max of one field across the candidates.
type bounds struct {
	min float64
	max float64
}

// Normalize min-max normalizes values to [0, 1] and returns the bounds.
// All-equal input maps every value to 0.5.
func Normalize(values []float64) ([]float64, float64, float64) {
	if len(values) == 0 {
		return nil, 0, 0
	}

	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	normalized := make([]float64, len(values))
	for i, v := range values {
		if minV == maxV {
			normalized[i] = 0.5
		} else {
			normalized[i] = (v - minV) / (maxV - minV)
		}
	}
	return normalized, minV, maxV
}

// numericValue converts a property attribute to float64. Strings holding
// numbers count as numeric, matching the loosely typed listing data this
// operates on.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// fieldBounds computes min-max bounds per weighted field across all
// properties. Fields with no numeric values are absent from the result.
func fieldBounds(properties []Property, weights Weights) map[string]bounds {
	info := make(map[string]bounds, len(weights))
	for field := range weights {
		var values []float64
		for _, p := range properties {
			if raw, ok := p[field]; ok {
				if v, ok := numericValue(raw); ok {
					values = append(values, v)
				}
			}
		}
		if len(values) == 0 {
			continue
		}
		_, minV, maxV := Normalize(values)
		info[field] = bounds{min: minV, max: maxV}
	}
	return info
}

// Score computes the weighted 0-100 score of one property given
// precomputed field bounds. Zero total weight yields a zero score.
func Score(property Property, weights Weights, info map[string]bounds) (float64, map[string]Contribution) {
	totalWeight := 0.0
	for _, w := range weights {
		if w < 0 {
			totalWeight -= w
		} else {
			totalWeight += w
		}
	}
	if totalWeight == 0 {
		return 0, nil
	}

	score := 0.0
	breakdown := make(map[string]Contribution)

	for field, weight := range weights {
		b, ok := info[field]
		if !ok {
			continue
		}
		raw, ok := property[field]
		if !ok {
			continue
		}
		value, ok := numericValue(raw)
		if !ok {
			continue
		}

		norm := 0.5
		if b.min != b.max {
			norm = (value - b.min) / (b.max - b.min)
		}

		weighted := norm * weight
		score += weighted
		breakdown[field] = Contribution{
			Value:        value,
			Normalized:   norm,
			Weight:       weight,
			Contribution: weighted,
		}
	}

	return (score / totalWeight) * 100, breakdown
}

// Rank scores every property and returns them in descending score order.
func Rank(properties []Property, weights Weights) []Scored {
	info := fieldBounds(properties, weights)

	scored := make([]Scored, len(properties))
	for i, p := range properties {
		score, breakdown := Score(p, weights, info)
		scored[i] = Scored{Property: p, Score: score, Justification: breakdown}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
