package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// VectorStore implements storage.VectorStore for BadgerDB using brute-force
// scans. Collections stay small enough (thousands of units) that a linear
// dot-product pass beats the operational cost of an ANN index.
type VectorStore struct {
	backend *Backend
}

var _ storage.VectorStore = (*VectorStore)(nil)

// NewVectorStore creates a new VectorStore.
func NewVectorStore(backend *Backend) *VectorStore {
	return &VectorStore{backend: backend}
}

// CreateCollection is a no-op for BadgerDB; collections materialize when the
// first point is indexed. Kept for parity with server-backed vector stores.
func (s *VectorStore) CreateCollection(ctx context.Context, collection core.CollectionID) error {
	return core.ValidateCollectionID(collection)
}

// IndexPoints stores embedding points, overwriting points with the same
// unit ID.
func (s *VectorStore) IndexPoints(ctx context.Context, collection core.CollectionID, points []*core.VectorPoint) error {
	if err := core.ValidateCollectionID(collection); err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, point := range points {
			key := makeUnitKey(vectorPrefix, collection, point.UnitID)
			if err := tx.Set(key, storage.MarshalVectorPoint(point)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// SearchVectors returns the units most similar to the query vector, scored
// by dot product (cosine similarity for normalized embeddings), filtered by
// threshold and sorted descending.
func (s *VectorStore) SearchVectors(ctx context.Context, collection core.CollectionID, vector []float32, limit int, threshold float64) ([]core.ScoredUnit, error) {
	var results []core.ScoredUnit

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionKey(vectorPrefix, collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var point *core.VectorPoint
			err := iter.Item().Value(func(val []byte) error {
				var err error
				point, err = storage.UnmarshalVectorPoint(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(point.Vector) == 0 {
				continue
			}

			similarity := dotProduct(vector, point.Vector)
			if float64(similarity) >= threshold {
				results = append(results, core.ScoredUnit{
					UnitID:     point.UnitID,
					Score:      float64(similarity),
					Source:     core.SourceDense,
					Meta:       point.Meta,
					DenseScore: float64(similarity),
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b core.ScoredUnit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DeleteVectors removes every point in a collection. Returns the number of
// points deleted.
func (s *VectorStore) DeleteVectors(ctx context.Context, collection core.CollectionID) (int, error) {
	deleted := 0

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionKey(vectorPrefix, collection)
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

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
