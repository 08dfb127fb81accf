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
	"fmt"
	"io"
	"time"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/graph"
	"github.com/poiesic/docquery/sparse"
	"github.com/poiesic/docquery/storage"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of units to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of units)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer re-embeds every text unit of a collection and rewrites its
// vector points, for embedding-model migrations.
type Reindexer struct {
	units     storage.UnitStore
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *UnitIterator
	sparse    *sparse.Service
	graphs    *graph.Service
}

// Option configures a Reindexer.
type Option func(*Reindexer)

// WithRebuild makes the reindexer rebuild the sparse index and document
// graph of the collection after re-embedding completes.
func WithRebuild(sparseSvc *sparse.Service, graphSvc *graph.Service) Option {
	return func(r *Reindexer) {
		r.sparse = sparseSvc
		r.graphs = graphSvc
	}
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(units storage.UnitStore, vectors storage.VectorStore, embedder ai.Embedder, config *Config, progress io.Writer, opts ...Option) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	r := &Reindexer{
		units:     units,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(vectors, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewUnitIterator(units, config.BatchSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run re-embeds every unit of the collection with the configured embedder.
// Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context, collection core.CollectionID) error {
	allUnits, err := r.units.ListUnits(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to list units: %w", err)
	}

	totalUnits := len(allUnits)
	if totalUnits == 0 {
		fmt.Fprintf(r.progress, "No units found in collection %s (0 units)\n", collection.String())
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindexing of %d units (batch size: %d)\n",
		totalUnits, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalUnits, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, collection, func(units []*core.TextUnit) error {
		if err := r.processor.Process(ctx, collection, units); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(units)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	if r.sparse != nil && r.graphs != nil {
		fmt.Fprintf(r.progress, "Rebuilding sparse index and document graph\n")
		index, err := r.sparse.Build(ctx, collection, allUnits)
		if err != nil {
			return fmt.Errorf("failed to rebuild sparse index: %w", err)
		}
		graphState, err := r.graphs.Build(ctx, collection, allUnits)
		if err != nil {
			return fmt.Errorf("failed to rebuild document graph: %w", err)
		}
		fmt.Fprintf(r.progress, "Rebuilt sparse index v%d and graph (%d nodes, %d edges)\n",
			index.Version, len(graphState.Nodes), len(graphState.Edges))
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d units in %v (%.1f units/sec)\n",
		totalUnits, elapsed.Round(time.Second), float64(totalUnits)/elapsed.Seconds())

	return nil
}
