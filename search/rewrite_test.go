package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteLocationQuery(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		neighborhood string
		want         string
	}{
		{
			name:         "no neighborhood leaves query untouched",
			query:        "crime statistics",
			neighborhood: "",
			want:         "crime statistics",
		},
		{
			name:         "madrid hint",
			query:        "crime statistics",
			neighborhood: "Salamanca, Madrid",
			want:         `"Salamanca" "Madrid" crime statistics Spain neighborhood district barrio`,
		},
		{
			name:         "london hint",
			query:        "cost of living",
			neighborhood: "Soho, London",
			want:         `"Soho" "London" cost of living UK England neighborhood area borough`,
		},
		{
			name:         "barcelona hint",
			query:        "safety",
			neighborhood: "Gracia, Barcelona",
			want:         `"Gracia" "Barcelona" safety Spain Catalonia neighborhood district barrio`,
		},
		{
			name:         "unknown city gets generic suffix",
			query:        "parks",
			neighborhood: "Mitte, Berlin",
			want:         `"Mitte" "Berlin" parks neighborhood area district`,
		},
		{
			name:         "single location name quoted",
			query:        "crime statistics",
			neighborhood: "Salamanca",
			want:         `"Salamanca" crime statistics neighborhood area`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteLocationQuery(tt.query, tt.neighborhood))
		})
	}
}
