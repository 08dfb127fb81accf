package badger

import (
	"context"
	"errors"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// UnitStore implements storage.UnitStore for BadgerDB.
type UnitStore struct {
	backend *Backend
}

var _ storage.UnitStore = (*UnitStore)(nil)

// NewUnitStore creates a new UnitStore.
func NewUnitStore(backend *Backend) *UnitStore {
	return &UnitStore{backend: backend}
}

// SaveUnits stores text units in a collection, overwriting units with the
// same ID. Every unit is validated before anything is written.
func (s *UnitStore) SaveUnits(ctx context.Context, collection core.CollectionID, units []*core.TextUnit) error {
	if err := core.ValidateCollectionID(collection); err != nil {
		return err
	}
	for _, unit := range units {
		if err := core.ValidateTextUnit(unit); err != nil {
			return err
		}
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, unit := range units {
			unit.Collection = collection
			key := makeUnitKey(unitPrefix, collection, unit.ID)
			if err := tx.Set(key, storage.MarshalTextUnit(unit)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetUnit returns a single unit, or storage.ErrNotFound.
func (s *UnitStore) GetUnit(ctx context.Context, collection core.CollectionID, unitID core.ID) (*core.TextUnit, error) {
	key := makeUnitKey(unitPrefix, collection, unitID)
	var unit *core.TextUnit

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			unit, err = storage.UnmarshalTextUnit(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// GetUnits returns the units with the given IDs, in request order. IDs with
// no stored unit are skipped rather than failing the whole batch.
func (s *UnitStore) GetUnits(ctx context.Context, collection core.CollectionID, unitIDs []core.ID) ([]*core.TextUnit, error) {
	units := make([]*core.TextUnit, 0, len(unitIDs))

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, unitID := range unitIDs {
			item, err := tx.Get(makeUnitKey(unitPrefix, collection, unitID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			var unit *core.TextUnit
			err = item.Value(func(val []byte) error {
				unit, err = storage.UnmarshalTextUnit(val)
				return err
			})
			if err != nil {
				return err
			}
			units = append(units, unit)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return units, nil
}

// ListUnits returns every unit in a collection, sorted by document then
// sequence so callers see units in reading order.
func (s *UnitStore) ListUnits(ctx context.Context, collection core.CollectionID) ([]*core.TextUnit, error) {
	var units []*core.TextUnit

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionKey(unitPrefix, collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var unit *core.TextUnit
			err := iter.Item().Value(func(val []byte) error {
				var err error
				unit, err = storage.UnmarshalTextUnit(val)
				return err
			})
			if err != nil {
				return err
			}
			units = append(units, unit)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(units, func(a, b *core.TextUnit) int {
		if a.DocumentID != b.DocumentID {
			if a.DocumentID < b.DocumentID {
				return -1
			}
			return 1
		}
		return a.Sequence - b.Sequence
	})
	return units, nil
}

// DeleteUnits removes every unit in a collection. Returns the number of
// units deleted.
func (s *UnitStore) DeleteUnits(ctx context.Context, collection core.CollectionID) (int, error) {
	deleted := 0

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionKey(unitPrefix, collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
			deleted++
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
