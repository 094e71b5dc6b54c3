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


// Package docstore ingests documents for semantic retrieval.
//
// A Store splits document text into overlapping chunks, persists them
// through a storage.ChunkRepository, and embeds them asynchronously on a
// worker pool. Search embeds the query and retrieves the most similar
// chunks, boosting chunks that contain every query word verbatim.
//
// Embedding is behind the Embedder interface; the provided
// implementation talks to any OpenAI-compatible embedding API.
package docstore
