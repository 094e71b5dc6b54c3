// Package content replaces thin search-engine snippets with text scraped
// from the result pages themselves.
//
// The Extractor fetches a page, strips boilerplate elements, scores the
// remaining paragraphs against the search context and keeps the best ones.
// Extraction is strictly best-effort: any fetch or parse problem leaves the
// original snippet in place and never fails the pipeline.
package content
