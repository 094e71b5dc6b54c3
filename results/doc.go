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


// Package results persists enrichment output as JSON files.
//
// Files are named after the normalized neighborhood identifier, the kind
// of result, and a timestamp, so repeated runs for the same neighborhood
// accumulate instead of overwriting. The Saver also lists previously
// saved files, optionally filtered by neighborhood.
package results
