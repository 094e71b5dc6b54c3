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


// Package ranking scores and orders properties by user-weighted criteria.
//
// Each weighted field is min-max normalized across the candidate set and
// the normalized values are combined into a 0-100 score, with an optional
// per-field justification breakdown. Fields holding non-numeric values
// are skipped rather than treated as errors.
package ranking
