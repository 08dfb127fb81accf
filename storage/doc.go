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


// Package storage defines the persistence interfaces for the retrieval
// core: sparse indexes, document graphs, text units and vector points, all
// keyed by the (tenant, chat) collection pair.
//
// Indexes and graphs are replaced wholesale on rebuild; implementations
// must make each replace atomic so a concurrent search reads either the old
// or the new state, never a partial one. The MUS serialization format used
// for all persisted records lives in this package so every backend shares
// one wire format.
package storage
