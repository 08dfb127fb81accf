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

package reindex

import (
	"context"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

const (
	// DefaultBatchSize is the default number of units to process in each batch
	DefaultBatchSize = 100
)

// UnitIterator iterates over all text units of a collection in batches.
type UnitIterator struct {
	store     storage.UnitStore
	batchSize int
}

// NewUnitIterator creates a new unit iterator.
// batchSize: number of units to process in each batch (must be > 0)
func NewUnitIterator(store storage.UnitStore, batchSize int) *UnitIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &UnitIterator{
		store:     store,
		batchSize: batchSize,
	}
}

// ForEach iterates over all units of the collection, calling fn for each
// batch. Iteration stops on first error from fn or when all units are
// processed. Context cancellation is checked between batches.
func (it *UnitIterator) ForEach(ctx context.Context, collection core.CollectionID, fn func([]*core.TextUnit) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	units, err := it.store.ListUnits(ctx, collection)
	if err != nil {
		return err
	}

	if len(units) == 0 {
		return nil
	}

	for i := 0; i < len(units); i += it.batchSize {
		end := i + it.batchSize
		if end > len(units) {
			end = len(units)
		}

		if err := fn(units[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
