// Package structured parses concrete metrics and factual statements out of
// free-text search snippets.
//
// Extraction is category-aware: investment snippets yield prices and growth
// percentages, crime snippets yield incident counts and safety descriptors,
// and so on. Every candidate metric passes context validation before it is
// kept, so a figure about a neighboring district does not end up attributed
// to the target neighborhood.
package structured
