package search

import (
	"fmt"
	"strings"
)

// RewriteLocationQuery pins a query to its target location. The area
// and city are quoted for exact matching and a locale hint is appended
// so generic terms like "crime statistics" do not drift to other
// cities. A neighborhood without a city part gets the generic suffix.
func RewriteLocationQuery(query, neighborhood string) string {
	if neighborhood == "" {
		return query
	}

	parts := strings.Split(neighborhood, ",")
	if len(parts) < 2 {
		return fmt.Sprintf("%q %s neighborhood area", neighborhood, query)
	}

	area := strings.TrimSpace(parts[0])
	city := strings.TrimSpace(parts[1])
	rewritten := fmt.Sprintf("%q %q %s", area, city, query)

	switch {
	case strings.Contains(strings.ToLower(city), "madrid"):
		rewritten += " Spain neighborhood district barrio"
	case strings.Contains(strings.ToLower(city), "london"):
		rewritten += " UK England neighborhood area borough"
	case strings.Contains(strings.ToLower(city), "barcelona"):
		rewritten += " Spain Catalonia neighborhood district barrio"
	default:
		rewritten += " neighborhood area district"
	}

	return rewritten
}
