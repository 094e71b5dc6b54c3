// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateEnvelope validates an Envelope according to domain rules.
//
// Validation rules:
//   - SearchTerm must not be empty
//   - TotalResults must equal len(Sources)
//   - a failed envelope (Err set) must carry no sources
//   - every attached confidence breakdown must be within range
//
// NOT validated:
//   - Instance and Engine (absent on failed or cached envelopes)
//   - enrichment summaries (attached only after their stages run)
func ValidateEnvelope(e *Envelope) error {
	if e == nil {
		return fmt.Errorf("%w: envelope is nil", ErrInvalidEnvelope)
	}

	if e.SearchTerm == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEnvelope, ErrEmptyQuery)
	}

	if e.TotalResults != len(e.Sources) {
		return fmt.Errorf("%w: %w: total=%d sources=%d",
			ErrInvalidEnvelope, ErrResultCountMismatch, e.TotalResults, len(e.Sources))
	}

	if e.Err != "" && len(e.Sources) > 0 {
		return fmt.Errorf("%w: failed envelope carries %d sources", ErrInvalidEnvelope, len(e.Sources))
	}

	for i := range e.Sources {
		if err := ValidateSource(&e.Sources[i]); err != nil {
			return fmt.Errorf("%w: source %d: %w", ErrInvalidEnvelope, i, err)
		}
	}

	return nil
}

// ValidateSource validates a Source according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - confidence, when attached, must be within 0-100
//
// NOT validated (legitimately absent on some backends):
//   - URL (instant-answer results carry the "No URL" sentinel)
//   - Snippet (some engines return title-only hits)
func ValidateSource(s *Source) error {
	if s == nil {
		return fmt.Errorf("%w: source is nil", ErrInvalidSource)
	}

	if s.Title == "" {
		return fmt.Errorf("%w: title is empty", ErrInvalidSource)
	}

	if s.Confidence != nil {
		if err := ValidateConfidence(s.Confidence); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSource, err)
		}
	}

	return nil
}

// ValidateConfidence checks that a breakdown's scores sit inside their caps.
func ValidateConfidence(c *ConfidenceBreakdown) error {
	if c.Total < 0 || c.Total > 100 {
		return fmt.Errorf("%w: total %d", ErrConfidenceOutOfRange, c.Total)
	}
	if c.DomainAuthority < 0 || c.DomainAuthority > 40 {
		return fmt.Errorf("%w: domain authority %d", ErrConfidenceOutOfRange, c.DomainAuthority)
	}
	if c.ContentQuality < 0 || c.ContentQuality > 40 {
		return fmt.Errorf("%w: content quality %d", ErrConfidenceOutOfRange, c.ContentQuality)
	}
	if c.TechnicalQuality < 0 || c.TechnicalQuality > 10 {
		return fmt.Errorf("%w: technical quality %d", ErrConfidenceOutOfRange, c.TechnicalQuality)
	}
	if c.Recency < 0 || c.Recency > 10 {
		return fmt.Errorf("%w: recency %d", ErrConfidenceOutOfRange, c.Recency)
	}
	return nil
}

// ValidateChunk validates a DocumentChunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Document must not be empty
//   - Seq must not be negative
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the embedding processor runs)
func ValidateChunk(chunk *DocumentChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.Document == "" {
		return fmt.Errorf("%w: document identifier is empty", ErrInvalidChunk)
	}

	if chunk.Seq < 0 {
		return fmt.Errorf("%w: negative sequence %d", ErrInvalidChunk, chunk.Seq)
	}

	return nil
}
