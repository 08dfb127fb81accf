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

package indexing

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/graph"
	"github.com/poiesic/docquery/sparse"
	"github.com/poiesic/docquery/storage"
)

// defaultBatchSize is the number of unit texts sent to the embedder per call.
const defaultBatchSize = 32

// Pipeline builds the full retrieval state of a collection.
type Pipeline struct {
	units     storage.UnitStore
	vectors   storage.VectorStore
	sparse    *sparse.Service
	graphs    *graph.Service
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the embedding worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many texts are embedded per batch call.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an indexing pipeline over the given stores and services.
func NewPipeline(
	units storage.UnitStore,
	vectors storage.VectorStore,
	sparseService *sparse.Service,
	graphService *graph.Service,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if units == nil {
		return nil, ErrUnitStoreRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if sparseService == nil {
		return nil, ErrSparseServiceRequired
	}
	if graphService == nil {
		return nil, ErrGraphServiceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		units:     units,
		vectors:   vectors,
		sparse:    sparseService,
		graphs:    graphService,
		embedder:  embedder,
		pool:      pool,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Summary reports what an IndexCollection run produced.
type Summary struct {
	Units        int
	IndexVersion uint64
	GraphNodes   int
	GraphEdges   int
	VectorPoints int
	Duration     time.Duration
}

// IndexCollection makes the collection searchable: it stores the units,
// builds the sparse index and document graph, and embeds every unit into
// the vector store. Each stage fully replaces the previous state, so
// re-running the pipeline rebuilds the collection from scratch.
func (p *Pipeline) IndexCollection(ctx context.Context, collection core.CollectionID, units []*core.TextUnit) (*Summary, error) {
	if len(units) == 0 {
		return nil, ErrNoUnits
	}

	start := time.Now()

	if err := p.units.SaveUnits(ctx, collection, units); err != nil {
		return nil, fmt.Errorf("save units: %w", err)
	}

	index, err := p.sparse.Build(ctx, collection, units)
	if err != nil {
		return nil, fmt.Errorf("build sparse index: %w", err)
	}

	documentGraph, err := p.graphs.Build(ctx, collection, units)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	if err := p.vectors.CreateCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("create vector collection: %w", err)
	}

	points, err := p.embedUnits(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("embed units: %w", err)
	}
	if err := p.vectors.IndexPoints(ctx, collection, points); err != nil {
		return nil, fmt.Errorf("index vector points: %w", err)
	}

	summary := &Summary{
		Units:        len(units),
		IndexVersion: index.Version,
		GraphNodes:   len(documentGraph.Nodes),
		GraphEdges:   len(documentGraph.Edges),
		VectorPoints: len(points),
		Duration:     time.Since(start),
	}

	p.logger.Info("collection indexed",
		"collection", collection.String(),
		"units", summary.Units,
		"index_version", summary.IndexVersion,
		"graph_nodes", summary.GraphNodes,
		"graph_edges", summary.GraphEdges,
		"duration", summary.Duration)

	return summary, nil
}

// embedUnits embeds unit texts in batches on the worker pool. Batches run
// concurrently and land in a slice indexed by batch, so the returned points
// keep unit order regardless of completion order.
func (p *Pipeline) embedUnits(ctx context.Context, units []*core.TextUnit) ([]*core.VectorPoint, error) {
	batches := (len(units) + p.batchSize - 1) / p.batchSize
	results := make([][][]float32, batches)
	errs := make([]error, batches)

	var wg sync.WaitGroup
	for batch := 0; batch < batches; batch++ {
		batch := batch
		lo := batch * p.batchSize
		hi := min(lo+p.batchSize, len(units))

		texts := make([]string, hi-lo)
		for i, unit := range units[lo:hi] {
			texts[i] = unit.Text
		}

		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			vectors, err := p.embedder.EmbedTexts(ctx, texts)
			if err != nil {
				errs[batch] = err
				return
			}
			if len(vectors) != len(texts) {
				errs[batch] = fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(vectors))
				return
			}
			results[batch] = vectors
		}); err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	points := make([]*core.VectorPoint, 0, len(units))
	for batch, vectors := range results {
		for i, vector := range vectors {
			unit := units[batch*p.batchSize+i]
			points = append(points, &core.VectorPoint{
				UnitID: unit.ID,
				Vector: vector,
				Meta:   unit.Meta(),
			})
		}
	}
	return points, nil
}

// DeleteSummary reports what a DeleteCollection run removed.
type DeleteSummary struct {
	Units        int
	IndexExisted bool
	GraphExisted bool
	VectorPoints int
}

// DeleteCollection removes every trace of the collection: units, sparse
// index, document graph and vector points. Missing state is not an error.
func (p *Pipeline) DeleteCollection(ctx context.Context, collection core.CollectionID) (*DeleteSummary, error) {
	unitCount, err := p.units.DeleteUnits(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("delete units: %w", err)
	}

	indexExisted, err := p.sparse.Delete(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("delete sparse index: %w", err)
	}

	graphExisted, err := p.graphs.Delete(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("delete graph: %w", err)
	}

	vectorCount, err := p.vectors.DeleteVectors(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("delete vectors: %w", err)
	}

	p.logger.Info("collection deleted",
		"collection", collection.String(),
		"units", unitCount,
		"vector_points", vectorCount)

	return &DeleteSummary{
		Units:        unitCount,
		IndexExisted: indexExisted,
		GraphExisted: graphExisted,
		VectorPoints: vectorCount,
	}, nil
}

// Release releases the embedding worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
