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


// Package retrieval orchestrates dense, sparse and graph-enhanced retrieval
// into one ranked context list per query.
//
// The engine is request-scoped: dense and sparse lookups for one request
// run concurrently and are joined before fusion, neighbor expansion fans
// out over a bounded worker pool, and every failure surfaces through a
// single RetrievalError while logs keep the root cause.
package retrieval
