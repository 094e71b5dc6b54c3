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


// Package search defines the web search layer: the Provider interface
// backends implement, the pure helpers shared between them, and the
// Orchestrator that runs raw results through content enhancement,
// confidence scoring and structured extraction.
//
// Backend unreliability is modeled as data, not as Go errors: a
// Provider always returns a *core.Envelope, and an exhausted search is
// an envelope whose Err field carries the last failure. Constructors
// return errors only for misconfiguration.
package search
