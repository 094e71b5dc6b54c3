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

import "errors"

// Domain validation errors
var (
	// ErrInvalidEnvelope indicates an Envelope failed validation.
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrInvalidSource indicates a Source failed validation.
	ErrInvalidSource = errors.New("invalid source")

	// ErrInvalidChunk indicates a DocumentChunk failed validation.
	ErrInvalidChunk = errors.New("invalid document chunk")

	// ErrEmptyQuery indicates a query string is empty.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrResultCountMismatch indicates TotalResults disagrees with the
	// number of sources in the envelope.
	ErrResultCountMismatch = errors.New("total results must equal source count")

	// ErrConfidenceOutOfRange indicates a confidence score outside 0-100.
	ErrConfidenceOutOfRange = errors.New("confidence score out of range")
)
