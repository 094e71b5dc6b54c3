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


// Package confidence estimates how much a retrieval pipeline should trust
// each search result.
//
// The Scorer combines four signals into a 0-100 score: domain authority
// from a curated table (40 points), content quality across four sub-scores
// (40 points), technical quality (10 points) and a recency estimate
// (10 points). The score maps to a level bucket and a normalized weight
// for retrieval-time blending.
package confidence
