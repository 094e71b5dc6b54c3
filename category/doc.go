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


// Package category classifies free-text neighborhood queries.
//
// The Detector type maps a query onto a fixed set of research categories
// (crime rate, cleanliness, public perception, investment potential,
// general info) and extracts the neighborhood name the query is about.
// Classification is deterministic: keyword hits score 1, phrase-pattern
// hits score 3, and ties resolve to the earliest declared category.
package category
