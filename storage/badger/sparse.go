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

// SparseIndexStore implements storage.SparseIndexStore for BadgerDB.
// Each collection's index is a single record, so a rebuild replaces the
// old index atomically and readers never observe a partial state.
type SparseIndexStore struct {
	backend *Backend
}

var _ storage.SparseIndexStore = (*SparseIndexStore)(nil)

// NewSparseIndexStore creates a new SparseIndexStore.
func NewSparseIndexStore(backend *Backend) *SparseIndexStore {
	return &SparseIndexStore{backend: backend}
}

// SaveSparseIndex persists the index for a collection, assigning the next
// version number. Returns the assigned version.
func (s *SparseIndexStore) SaveSparseIndex(ctx context.Context, collection core.CollectionID, index *core.SparseIndex) (uint64, error) {
	if err := core.ValidateCollectionID(collection); err != nil {
		return 0, err
	}

	key := makeCollectionKey(sparseIndexPrefix, collection)
	var version uint64

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		version = 1
		item, err := tx.Get(key)
		if err == nil {
			err = item.Value(func(val []byte) error {
				old, err := storage.UnmarshalSparseIndex(val)
				if err != nil {
					return err
				}
				version = old.Version + 1
				return nil
			})
			if err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		index.Version = version
		index.UpdatedAt = time.Now().UnixMicro()

		if err := tx.Set(key, storage.MarshalSparseIndex(index)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// LoadSparseIndex returns the persisted index for a collection, or
// storage.ErrNotFound if the collection has never been indexed.
func (s *SparseIndexStore) LoadSparseIndex(ctx context.Context, collection core.CollectionID) (*core.SparseIndex, error) {
	key := makeCollectionKey(sparseIndexPrefix, collection)
	var index *core.SparseIndex

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			index, err = storage.UnmarshalSparseIndex(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return index, nil
}

// DeleteSparseIndex removes a collection's index. Returns true if an index
// existed.
func (s *SparseIndexStore) DeleteSparseIndex(ctx context.Context, collection core.CollectionID) (bool, error) {
	key := makeCollectionKey(sparseIndexPrefix, collection)
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
