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


// Package enrich coordinates neighborhood research across categories.
//
// The Coordinator classifies a free-text query into a priority category,
// searches that category first, and optionally works through the
// remaining categories in declaration order. Categories are processed
// sequentially with a delay between searches so shared backends are not
// hammered. Each category search runs inside a bounded time window; a
// search that overruns its window yields an error envelope rather than
// blocking the whole enrichment.
//
// Successful envelopes are cached per neighborhood and category when an
// envelope cache is configured, and the assembled enrichment can be
// persisted through a results saver.
package enrich
