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


package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/graph"
	"github.com/poiesic/docquery/sparse"
	"github.com/poiesic/docquery/storage"
)

// Request is one retrieval call, usually produced by the router.
type Request struct {
	Query               string
	Mode                core.RetrievalMode
	TopK                int
	ScoreThreshold      float64
	ExpandWithNeighbors bool
	NeighborHops        int
}

// Engine dispatches retrieval requests across the dense, sparse and graph
// paths and post-processes the combined result.
type Engine struct {
	dense   retriever
	sparse  retriever
	graphs  *graph.Service
	units   storage.UnitStore
	config  Config
	logger  *slog.Logger
	workers *ants.Pool
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithConfig overrides the engine tuning constants.
func WithConfig(config Config) Option {
	return func(e *Engine) error {
		e.config = config
		return nil
	}
}

// NewEngine creates a retrieval engine over the given services and stores.
func NewEngine(
	sparseService *sparse.Service,
	graphService *graph.Service,
	units storage.UnitStore,
	vectors storage.VectorStore,
	embedder ai.Embedder,
	opts ...Option,
) (*Engine, error) {
	if sparseService == nil {
		return nil, ErrSparseServiceRequired
	}
	if graphService == nil {
		return nil, ErrGraphServiceRequired
	}
	if units == nil {
		return nil, ErrUnitStoreRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		graphs: graphService,
		units:  units,
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	e.dense = &denseRetriever{embedder: embedder, vectors: vectors, logger: e.logger}
	e.sparse = &sparseRetriever{service: sparseService, logger: e.logger}

	workers, err := ants.NewPool(e.config.ExpansionWorkers)
	if err != nil {
		return nil, err
	}
	e.workers = workers
	return e, nil
}

// Close releases the expansion worker pool.
func (e *Engine) Close() error {
	e.workers.Release()
	return nil
}

// Retrieve executes one retrieval request and returns ranked, enriched
// contexts. All failures surface as ErrRetrieval with the cause attached;
// partial results are never returned alongside an error.
func (e *Engine) Retrieve(ctx context.Context, collection core.CollectionID, request Request) ([]core.RetrievedContext, error) {
	if strings.TrimSpace(request.Query) == "" {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, ErrEmptyQuery)
	}

	start := time.Now()
	e.logger.Info("retrieving",
		"collection", collection.String(),
		"mode", string(request.Mode),
		"top_k", request.TopK)

	results, err := e.dispatch(ctx, collection, request)
	if err != nil {
		e.logger.Error("retrieval failed", "collection", collection.String(), "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	// graph_enhanced expands inside dispatch; other modes expand only on
	// explicit request.
	if request.ExpandWithNeighbors && request.Mode != core.ModeGraphEnhanced {
		results = e.expandWithNeighbors(ctx, collection, results, request.NeighborHops)
	}

	contexts, err := e.enrich(ctx, collection, results)
	if err != nil {
		e.logger.Error("enrichment failed", "collection", collection.String(), "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	filtered := contexts[:0]
	for _, c := range contexts {
		if c.Score >= request.ScoreThreshold {
			filtered = append(filtered, c)
		}
	}
	if request.TopK > 0 && len(filtered) > request.TopK {
		filtered = filtered[:request.TopK]
	}

	e.logger.Info("retrieved contexts",
		"collection", collection.String(),
		"count", len(filtered),
		"duration", time.Since(start))
	return filtered, nil
}

func (e *Engine) dispatch(ctx context.Context, collection core.CollectionID, request Request) ([]core.ScoredUnit, error) {
	switch request.Mode {
	case core.ModeDenseOnly:
		ctx, cancel := context.WithTimeout(ctx, e.config.ExternalTimeout)
		defer cancel()
		return e.dense.retrieve(ctx, collection, request.Query, request.TopK, request.ScoreThreshold)

	case core.ModeSparseOnly:
		return e.sparse.retrieve(ctx, collection, request.Query, request.TopK, request.ScoreThreshold)

	case core.ModeHybrid:
		return e.hybrid(ctx, collection, request.Query, request.TopK, request.ScoreThreshold)

	case core.ModeGraphEnhanced:
		results, err := e.hybrid(ctx, collection, request.Query, request.TopK, request.ScoreThreshold)
		if err != nil {
			return nil, err
		}
		return e.expandWithNeighbors(ctx, collection, results, request.NeighborHops), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, request.Mode)
	}
}

// hybrid overfetches both retrievers concurrently and fuses the lists with
// weighted RRF. Either side failing degrades to an empty contribution; the
// request only fails if orchestration itself does.
func (e *Engine) hybrid(ctx context.Context, collection core.CollectionID, query string, topK int, threshold float64) ([]core.ScoredUnit, error) {
	fetch := topK * e.config.OverfetchFactor

	var denseHits, sparseHits []core.ScoredUnit
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dctx, cancel := context.WithTimeout(gctx, e.config.ExternalTimeout)
		defer cancel()
		denseHits = e.dense.retrieveLenient(dctx, collection, query, fetch, threshold)
		return nil
	})
	g.Go(func() error {
		sparseHits = e.sparse.retrieveLenient(gctx, collection, query, fetch, threshold)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := Fuse(
		[][]core.ScoredUnit{denseHits, sparseHits},
		[]float64{e.config.DenseWeight, e.config.SparseWeight},
		e.config.RRFConstant,
	)

	// Raw RRF scores live in rank space, bounded by 1/(k+1). Scale so the
	// best hit scores 1.0; otherwise the routed score thresholds (0.2-0.4)
	// would discard every fused result.
	if len(fused) > 0 && fused[0].Score > 0 {
		max := fused[0].Score
		for i := range fused {
			fused[i].Score /= max
		}
	}

	if topK > 0 && len(fused) > topK {
		fused = fused[:topK]
	}
	return fused, nil
}

// expandWithNeighbors adds graph neighbors of every result with a
// per-hop decayed score. Neighbor lookups run on the bounded worker pool;
// the merge is sequential in parent rank order so output is deterministic.
// Individual lookup failures are logged and skipped.
func (e *Engine) expandWithNeighbors(ctx context.Context, collection core.CollectionID, results []core.ScoredUnit, hops int) []core.ScoredUnit {
	if len(results) == 0 || hops < 1 {
		return results
	}

	neighborSets := make([][]core.Neighbor, len(results))
	var wg sync.WaitGroup

	for i, result := range results {
		i, result := i, result
		wg.Add(1)
		submitErr := e.workers.Submit(func() {
			defer wg.Done()
			neighbors, err := e.graphs.Neighbors(ctx, collection, result.UnitID, "", hops)
			if err != nil {
				e.logger.Warn("neighbor lookup failed",
					"node", result.UnitID.String(), "err", err)
				return
			}
			neighborSets[i] = neighbors
		})
		if submitErr != nil {
			wg.Done()
			e.logger.Warn("neighbor expansion not scheduled", "err", submitErr)
		}
	}
	wg.Wait()

	seen := make(map[core.ID]bool, len(results))
	expanded := make([]core.ScoredUnit, 0, len(results))

	for i, result := range results {
		if !seen[result.UnitID] {
			expanded = append(expanded, result)
			seen[result.UnitID] = true
		}
		for _, neighbor := range neighborSets[i] {
			if seen[neighbor.Node.NodeID] {
				continue
			}
			seen[neighbor.Node.NodeID] = true
			decay := 1.0
			for d := 0; d < neighbor.Distance; d++ {
				decay *= e.config.NeighborDecay
			}
			expanded = append(expanded, core.ScoredUnit{
				UnitID: neighbor.Node.NodeID,
				Score:  result.Score * decay,
				Source: core.SourceGraph,
				Meta: core.UnitMeta{
					DocumentID:   neighbor.Node.DocumentID,
					UnitType:     neighbor.Node.NodeType,
					Sequence:     neighbor.Node.Sequence,
					PageNumber:   neighbor.Node.PageNumber,
					SectionTitle: neighbor.Node.SectionTitle,
				},
				GraphDistance: neighbor.Distance,
			})
		}
	}

	sort.SliceStable(expanded, func(i, j int) bool { return expanded[i].Score > expanded[j].Score })

	e.logger.Debug("neighbor expansion",
		"collection", collection.String(),
		"before", len(results),
		"after", len(expanded))
	return expanded
}

// enrich loads each surviving unit's full text. Units that vanished since
// indexing are dropped with a warning rather than failing the request.
func (e *Engine) enrich(ctx context.Context, collection core.CollectionID, results []core.ScoredUnit) ([]core.RetrievedContext, error) {
	if len(results) == 0 {
		return nil, nil
	}

	ids := make([]core.ID, len(results))
	for i, r := range results {
		ids[i] = r.UnitID
	}
	units, err := e.units.GetUnits(ctx, collection, ids)
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}

	byID := make(map[core.ID]*core.TextUnit, len(units))
	for _, unit := range units {
		byID[unit.ID] = unit
	}

	contexts := make([]core.RetrievedContext, 0, len(results))
	for _, result := range results {
		unit, ok := byID[result.UnitID]
		if !ok {
			e.logger.Warn("unit missing during enrichment",
				"collection", collection.String(), "unit", result.UnitID.String())
			continue
		}
		contexts = append(contexts, core.RetrievedContext{
			UnitID:        unit.ID,
			Text:          unit.Text,
			Score:         result.Score,
			Source:        result.Source,
			DocumentID:    unit.DocumentID,
			UnitType:      unit.UnitType,
			Sequence:      unit.Sequence,
			PageNumber:    unit.PageNumber,
			SectionTitle:  unit.SectionTitle,
			DenseScore:    result.DenseScore,
			SparseScore:   result.SparseScore,
			GraphDistance: result.GraphDistance,
		})
	}
	return contexts, nil
}
