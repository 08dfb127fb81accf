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

package docquery

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/ai/openai"
	"github.com/poiesic/docquery/answer"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/graph"
	"github.com/poiesic/docquery/indexing"
	"github.com/poiesic/docquery/reindex"
	"github.com/poiesic/docquery/retrieval"
	"github.com/poiesic/docquery/router"
	"github.com/poiesic/docquery/sparse"
	"github.com/poiesic/docquery/storage/badger"
)

// Engine is the top-level entry point. It owns the storage backend and
// wires the indexing, routing, retrieval and answer services together.
type Engine struct {
	backend   *badger.Backend
	stores    *badger.Stores
	provider  ai.AIProvider
	sparse    *sparse.Service
	graphs    *graph.Service
	router    *router.Router
	retriever *retrieval.Engine
	pipeline  *indexing.Pipeline
	answers   *answer.Service
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	aiConfig        *ai.Config
	provider        ai.AIProvider
	retrievalConfig *retrieval.Config
	inMemory        bool
	logger          *slog.Logger
}

// WithAIConfig sets the AI endpoint configuration.
func WithAIConfig(config *ai.Config) Option {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects an AI provider directly, bypassing the OpenAI
// client construction. Used for tests and custom backends.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithRetrievalConfig overrides the retrieval engine defaults.
func WithRetrievalConfig(config retrieval.Config) Option {
	return func(o *engineOptions) {
		o.retrievalConfig = &config
	}
}

// WithInMemory opens the storage backend in memory, discarding all data
// on Close.
func WithInMemory() Option {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the structured logger for all services.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// Open creates an Engine over the storage at filePath.
func Open(filePath string, opts ...Option) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}
	stores := badger.NewStores(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	sparseService, err := sparse.NewService(stores.Sparse, sparse.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	graphService, err := graph.NewService(stores.Graph, graph.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	retrievalOpts := []retrieval.Option{retrieval.WithLogger(options.logger)}
	if options.retrievalConfig != nil {
		retrievalOpts = append(retrievalOpts, retrieval.WithConfig(*options.retrievalConfig))
	}
	retriever, err := retrieval.NewEngine(sparseService, graphService, stores.Units, stores.Vectors,
		provider.Embedder(), retrievalOpts...)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	pipeline, err := indexing.NewPipeline(stores.Units, stores.Vectors, sparseService, graphService,
		provider.Embedder(), indexing.WithLogger(options.logger))
	if err != nil {
		retriever.Close()
		provider.Close()
		backend.Close()
		return nil, err
	}

	answerService, err := answer.NewService(provider.Generator(), answer.WithLogger(options.logger))
	if err != nil {
		pipeline.Release()
		retriever.Close()
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:   backend,
		stores:    stores,
		provider:  provider,
		sparse:    sparseService,
		graphs:    graphService,
		router:    router.New(options.logger),
		retriever: retriever,
		pipeline:  pipeline,
		answers:   answerService,
		logger:    options.logger,
	}, nil
}

// Close releases the worker pools, the AI provider and the storage backend.
func (e *Engine) Close() error {
	e.pipeline.Release()
	e.retriever.Close()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Analyze returns the deterministic characteristics of a query.
func (e *Engine) Analyze(query string) core.QueryCharacteristics {
	return e.router.Analyze(query)
}

// Route picks a retrieval plan for the query under the collection settings.
func (e *Engine) Route(request router.Request, config core.CollectionConfig) core.RoutingDecision {
	return e.router.Route(request, config)
}

// Retrieve runs the retrieval engine directly with an explicit plan.
func (e *Engine) Retrieve(ctx context.Context, collection core.CollectionID, request retrieval.Request) ([]core.RetrievedContext, error) {
	return e.retriever.Retrieve(ctx, collection, request)
}

// Query routes the query and retrieves with the chosen plan in one step.
func (e *Engine) Query(ctx context.Context, collection core.CollectionID, request router.Request, config core.CollectionConfig) (core.RoutingDecision, []core.RetrievedContext, error) {
	decision := e.router.Route(request, config)

	contexts, err := e.retriever.Retrieve(ctx, collection, retrieval.Request{
		Query:               request.Query,
		Mode:                decision.SelectedMode,
		TopK:                decision.TopK,
		ScoreThreshold:      decision.ScoreThreshold,
		ExpandWithNeighbors: decision.ExpandWithNeighbors,
		NeighborHops:        decision.NeighborHops,
	})
	return decision, contexts, err
}

// IndexCollection makes the collection searchable from the given units.
func (e *Engine) IndexCollection(ctx context.Context, collection core.CollectionID, units []*core.TextUnit) (*indexing.Summary, error) {
	return e.pipeline.IndexCollection(ctx, collection, units)
}

// DeleteCollection removes all retrieval state of the collection.
func (e *Engine) DeleteCollection(ctx context.Context, collection core.CollectionID) (*indexing.DeleteSummary, error) {
	return e.pipeline.DeleteCollection(ctx, collection)
}

// BuildSparseIndex rebuilds only the BM25 index of the collection.
func (e *Engine) BuildSparseIndex(ctx context.Context, collection core.CollectionID, units []*core.TextUnit) (*core.SparseIndex, error) {
	return e.sparse.Build(ctx, collection, units)
}

// SearchSparse runs a BM25-only search against the collection.
func (e *Engine) SearchSparse(ctx context.Context, collection core.CollectionID, query string, limit int) ([]core.ScoredUnit, error) {
	return e.sparse.Search(ctx, collection, query, limit)
}

// BuildGraph rebuilds only the document graph of the collection.
func (e *Engine) BuildGraph(ctx context.Context, collection core.CollectionID, units []*core.TextUnit) (*core.DocumentGraph, error) {
	return e.graphs.Build(ctx, collection, units)
}

// Neighbors returns units reachable from startID within hops, optionally
// restricted to one edge type.
func (e *Engine) Neighbors(ctx context.Context, collection core.CollectionID, startID core.ID, edgeType core.EdgeType, hops int) ([]core.Neighbor, error) {
	return e.graphs.Neighbors(ctx, collection, startID, edgeType, hops)
}

// Answer generates a grounded answer for the query from the contexts.
func (e *Engine) Answer(ctx context.Context, query string, contexts []core.RetrievedContext, config answer.Config) (*answer.Answer, error) {
	return e.answers.Generate(ctx, query, contexts, config)
}

// NewReindexer creates a reindexer for embedding-model migrations over this
// engine's stores.
func (e *Engine) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(e.stores.Units, e.stores.Vectors, e.provider.Embedder(), config, progress,
		reindex.WithRebuild(e.sparse, e.graphs))
}
