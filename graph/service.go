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


package graph

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// MaxHops bounds neighbor traversal depth.
const MaxHops = 3

// Service builds, queries and deletes per-collection document graphs.
type Service struct {
	store  storage.GraphStore
	logger *slog.Logger
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

// NewService creates a new graph service.
func NewService(store storage.GraphStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Build derives the graph from the units and persists it, replacing any
// previous graph for the collection.
func (s *Service) Build(ctx context.Context, collection core.CollectionID, units []*core.TextUnit) (*core.DocumentGraph, error) {
	start := time.Now()

	graph, err := Build(units)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveGraph(ctx, collection, graph); err != nil {
		return nil, err
	}

	s.logger.Info("document graph built",
		"collection", collection.String(),
		"nodes", graph.NodeCount,
		"edges", graph.EdgeCount,
		"duration", time.Since(start))
	return graph, nil
}

// Neighbors runs a bounded breadth-first traversal from the start node,
// following outgoing edges only. The optional edgeType filter restricts
// which edges are followed (empty means all types). Discovered neighbors
// are returned in discovery order with their hop distance; the start node
// itself is never included.
func (s *Service) Neighbors(ctx context.Context, collection core.CollectionID, startID core.ID, edgeType core.EdgeType, hops int) ([]core.Neighbor, error) {
	if hops < 1 || hops > MaxHops {
		return nil, ErrInvalidHops
	}

	graph, err := s.store.LoadGraph(ctx, collection)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrGraphNotFound
		}
		return nil, err
	}

	// Outgoing adjacency, preserving edge insertion order for stable
	// discovery order.
	adjacency := make(map[core.ID][]core.GraphEdge, len(graph.Nodes))
	for _, edge := range graph.Edges {
		if edgeType != "" && edge.Type != edgeType {
			continue
		}
		adjacency[edge.SourceID] = append(adjacency[edge.SourceID], edge)
	}

	visited := map[core.ID]bool{startID: true}
	frontier := []core.ID{startID}
	var neighbors []core.Neighbor

	for round := 0; round < hops && len(frontier) > 0; round++ {
		var next []core.ID
		for _, nodeID := range frontier {
			for _, edge := range adjacency[nodeID] {
				if visited[edge.TargetID] {
					continue
				}
				node, ok := graph.Nodes[edge.TargetID]
				if !ok {
					continue
				}
				visited[edge.TargetID] = true
				neighbors = append(neighbors, core.Neighbor{
					Node:     node,
					Edge:     edge,
					Distance: round + 1,
				})
				next = append(next, edge.TargetID)
			}
		}
		frontier = next
	}

	s.logger.Debug("neighbor query",
		"collection", collection.String(),
		"start", startID.String(),
		"hops", hops,
		"found", len(neighbors))
	return neighbors, nil
}

// Delete removes the collection's graph. Returns true if one existed.
func (s *Service) Delete(ctx context.Context, collection core.CollectionID) (bool, error) {
	return s.store.DeleteGraph(ctx, collection)
}
