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

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// GraphStore implements storage.GraphStore for BadgerDB. Like the sparse
// index, a collection's graph is one record and rebuilds replace it whole.
type GraphStore struct {
	backend *Backend
}

var _ storage.GraphStore = (*GraphStore)(nil)

// NewGraphStore creates a new GraphStore.
func NewGraphStore(backend *Backend) *GraphStore {
	return &GraphStore{backend: backend}
}

// SaveGraph persists the document graph for a collection.
func (s *GraphStore) SaveGraph(ctx context.Context, collection core.CollectionID, graph *core.DocumentGraph) error {
	if err := core.ValidateCollectionID(collection); err != nil {
		return err
	}

	graph.UpdatedAt = time.Now().UnixMicro()
	key := makeCollectionKey(graphPrefix, collection)

	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(key, storage.MarshalDocumentGraph(graph)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadGraph returns the persisted graph for a collection, or
// storage.ErrNotFound if no graph has been built.
func (s *GraphStore) LoadGraph(ctx context.Context, collection core.CollectionID) (*core.DocumentGraph, error) {
	key := makeCollectionKey(graphPrefix, collection)
	var graph *core.DocumentGraph

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			graph, err = storage.UnmarshalDocumentGraph(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return graph, nil
}

// DeleteGraph removes a collection's graph. Returns true if a graph existed.
func (s *GraphStore) DeleteGraph(ctx context.Context, collection core.CollectionID) (bool, error) {
	key := makeCollectionKey(graphPrefix, collection)
	existed := false

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		existed = true
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return false, err
	}
	return existed, nil
}
