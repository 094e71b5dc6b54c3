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


// Package searx searches through a pool of public SearxNG instances
// with automatic failover.
//
// Public instances come and go, rate-limit without warning and return
// the occasional HTML error page where JSON was promised. The client
// treats all of that as routine: it keeps a per-instance failure
// count, probes for the fastest instance at startup, walks the pool in
// reliability order on every search and only reports failure once the
// whole pool is exhausted.
package searx
