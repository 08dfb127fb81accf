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


package badger

// Stores bundles every BadgerDB-backed store over one backend.
type Stores struct {
	Backend *Backend
	Sparse  *SparseIndexStore
	Graph   *GraphStore
	Units   *UnitStore
	Vectors *VectorStore
}

// NewStores creates the full store set over an open backend.
func NewStores(backend *Backend) *Stores {
	return &Stores{
		Backend: backend,
		Sparse:  NewSparseIndexStore(backend),
		Graph:   NewGraphStore(backend),
		Units:   NewUnitStore(backend),
		Vectors: NewVectorStore(backend),
	}
}

// NewMemoryStores creates an in-memory store set for testing.
// Caller must close the backend when done.
func NewMemoryStores() (*Stores, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return NewStores(backend), nil
}
