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


package sparse

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
	"github.com/poiesic/docquery/tokenizer"
)

// Service builds, queries and deletes per-collection BM25 indexes.
type Service struct {
	store  storage.SparseIndexStore
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[core.CollectionID]*ranking
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a new sparse retrieval service.
func NewService(store storage.SparseIndexStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Service{
		store:  store,
		logger: slog.Default(),
		cache:  make(map[core.CollectionID]*ranking),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Build tokenizes the units and persists a fresh index for the collection,
// replacing any previous one. Units whose text tokenizes to nothing are
// still indexed with an empty token row so positions stay aligned with IDs.
func (s *Service) Build(ctx context.Context, collection core.CollectionID, units []*core.TextUnit) (*core.SparseIndex, error) {
	if len(units) == 0 {
		return nil, ErrNoUnits
	}
	for _, unit := range units {
		if err := core.ValidateTextUnit(unit); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	index := &core.SparseIndex{
		Corpus:        make([][]string, len(units)),
		UnitIDs:       make([]core.ID, len(units)),
		Meta:          make([]core.UnitMeta, len(units)),
		DocumentCount: len(units),
	}
	for i, unit := range units {
		tokens := tokenizer.Tokenize(unit.Text)
		index.Corpus[i] = tokens
		index.UnitIDs[i] = unit.ID
		index.Meta[i] = unit.Meta()
		index.TotalTokens += len(tokens)
	}

	version, err := s.store.SaveSparseIndex(ctx, collection, index)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[collection] = newRanking(index)
	s.mu.Unlock()

	s.logger.Info("sparse index built",
		"collection", collection.String(),
		"units", len(units),
		"tokens", index.TotalTokens,
		"version", version,
		"duration", time.Since(start))
	return index, nil
}

// Search tokenizes the query with the same tokenizer used at index time and
// returns up to limit BM25 hits. Returns ErrIndexNotFound if the collection
// has never been indexed.
func (s *Service) Search(ctx context.Context, collection core.CollectionID, query string, limit int) ([]core.ScoredUnit, error) {
	r, err := s.rankingFor(ctx, collection)
	if err != nil {
		return nil, err
	}

	queryTokens := tokenizer.Tokenize(query)
	hits := r.search(queryTokens, limit)

	s.logger.Debug("sparse search",
		"collection", collection.String(),
		"query_tokens", len(queryTokens),
		"hits", len(hits))
	return hits, nil
}

// Delete removes the collection's index and drops the cached ranking.
// Returns true if an index existed.
func (s *Service) Delete(ctx context.Context, collection core.CollectionID) (bool, error) {
	existed, err := s.store.DeleteSparseIndex(ctx, collection)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	delete(s.cache, collection)
	s.mu.Unlock()
	return existed, nil
}

// rankingFor returns the cached ranking for a collection, rebuilding it when
// the persisted index carries a newer version than the cached one.
func (s *Service) rankingFor(ctx context.Context, collection core.CollectionID) (*ranking, error) {
	index, err := s.store.LoadSparseIndex(ctx, collection)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrIndexNotFound
		}
		return nil, err
	}

	s.mu.RLock()
	cached, ok := s.cache[collection]
	s.mu.RUnlock()
	if ok && cached.version == index.Version {
		return cached, nil
	}

	start := time.Now()
	r := newRanking(index)

	s.mu.Lock()
	s.cache[collection] = r
	s.mu.Unlock()

	s.logger.Debug("sparse ranking rebuilt",
		"collection", collection.String(),
		"version", index.Version,
		"documents", len(index.Corpus),
		"duration", time.Since(start))
	return r, nil
}
