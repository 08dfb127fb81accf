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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/docquery"
	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/answer"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/reindex"
	"github.com/poiesic/docquery/retrieval"
	"github.com/poiesic/docquery/router"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docquery",
		Usage: "Hybrid retrieval over multilingual document collections",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Index a collection from a JSON file of text units",
				Action: indexCommand,
				Flags: append(collectionFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to JSON file containing text units",
						Required: true,
					},
				),
			},
			{
				Name:   "search",
				Usage:  "Search a collection",
				Action: searchCommand,
				Flags: append(collectionFlags(),
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Retrieval mode (dense_only, sparse_only, hybrid, graph_enhanced); empty routes automatically",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of results to return",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum result score",
					},
				),
			},
			{
				Name:   "route",
				Usage:  "Show the routing decision for a query without retrieving",
				Action: routeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "strictness",
						Usage: "Collection strictness (strict_docs_only or allow_reasoning)",
						Value: "strict_docs_only",
					},
				},
			},
			{
				Name:   "neighbors",
				Usage:  "List graph neighbors of a unit",
				Action: neighborsCommand,
				Flags: append(collectionFlags(),
					&cli.Uint64Flag{
						Name:     "unit",
						Usage:    "Start unit ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "edge-type",
						Usage: "Restrict to one edge type (CONTAINS, NEXT, REFERS_TO)",
					},
					&cli.IntFlag{
						Name:  "hops",
						Usage: "Traversal depth (1-3)",
						Value: 1,
					},
				),
			},
			{
				Name:   "ask",
				Usage:  "Retrieve and generate a grounded answer",
				Action: askCommand,
				Flags: append(collectionFlags(),
					&cli.StringFlag{
						Name:  "tone",
						Usage: "Answer tone (simple_uzbek, technical_russian, formal_english)",
						Value: answer.ToneSimpleUzbek,
					},
					&cli.StringFlag{
						Name:  "strictness",
						Usage: "Answer strictness (strict_docs_only or allow_reasoning)",
						Value: answer.StrictDocsOnly,
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed all units of a collection with the configured embedding model",
				Action: reindexCommand,
				Flags: append(collectionFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of units to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func collectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "tenant",
			Usage:    "Tenant ID",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "chat",
			Usage:    "Chat ID",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Generation model name",
			Value: "qwen2.5:3b",
		},
	}
}

func openEngine(c *cli.Context) (*docquery.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
	)
	return docquery.Open(c.String("db"), docquery.WithAIConfig(aiConfig))
}

func collectionID(c *cli.Context) core.CollectionID {
	return core.CollectionID{
		Tenant: core.ID(c.Uint64("tenant")),
		Chat:   core.ID(c.Uint64("chat")),
	}
}

// unitFile is the on-disk JSON shape accepted by the index command.
type unitFile struct {
	Units []struct {
		DocumentID   uint64 `json:"document_id"`
		UnitType     string `json:"unit_type"`
		Text         string `json:"text"`
		Sequence     int    `json:"sequence"`
		Level        int    `json:"level"`
		PageNumber   int    `json:"page_number"`
		SectionTitle string `json:"section_title"`
	} `json:"units"`
}

func loadUnits(path string, collection core.CollectionID) ([]*core.TextUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read units file: %w", err)
	}

	var file unitFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse units file: %w", err)
	}

	units := make([]*core.TextUnit, len(file.Units))
	for i, u := range file.Units {
		units[i] = &core.TextUnit{
			ID:           core.UnitIDFor(core.ID(u.DocumentID), u.Sequence, u.Text),
			Collection:   collection,
			DocumentID:   core.ID(u.DocumentID),
			UnitType:     u.UnitType,
			Text:         u.Text,
			Sequence:     u.Sequence,
			Level:        u.Level,
			PageNumber:   u.PageNumber,
			SectionTitle: u.SectionTitle,
		}
	}
	return units, nil
}

func indexCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	collection := collectionID(c)
	units, err := loadUnits(c.String("file"), collection)
	if err != nil {
		return err
	}

	summary, err := engine.IndexCollection(context.Background(), collection, units)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("Indexed %d units (index v%d, %d graph nodes, %d graph edges, %d vector points) in %v\n",
		summary.Units, summary.IndexVersion, summary.GraphNodes, summary.GraphEdges,
		summary.VectorPoints, summary.Duration.Round(time.Millisecond))
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required as a positional argument")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	ctx := context.Background()
	collection := collectionID(c)

	var contexts []core.RetrievedContext
	if mode := c.String("mode"); mode != "" {
		contexts, err = engine.Retrieve(ctx, collection, retrieval.Request{
			Query:          query,
			Mode:           core.RetrievalMode(mode),
			TopK:           c.Int("top-k"),
			ScoreThreshold: c.Float64("threshold"),
		})
	} else {
		var decision core.RoutingDecision
		decision, contexts, err = engine.Query(ctx, collection,
			router.Request{Query: query},
			core.CollectionConfig{Strictness: answer.StrictDocsOnly})
		if err == nil {
			fmt.Printf("Routed as %s (%s)\n\n", decision.SelectedMode, decision.Reasoning)
		}
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printContexts(contexts)
	return nil
}

func routeCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required as a positional argument")
	}

	r := router.New(slog.Default())
	decision := r.Route(router.Request{Query: query},
		core.CollectionConfig{Strictness: c.String("strictness")})

	fmt.Printf("Query type:  %s (confidence %.2f)\n", decision.Characteristics.QueryType, decision.Characteristics.Confidence)
	fmt.Printf("Language:    %s\n", decision.Characteristics.Language)
	fmt.Printf("Mode:        %s\n", decision.SelectedMode)
	fmt.Printf("Top K:       %d\n", decision.TopK)
	fmt.Printf("Threshold:   %.2f\n", decision.ScoreThreshold)
	fmt.Printf("Expand:      %t (hops: %d)\n", decision.ExpandWithNeighbors, decision.NeighborHops)
	fmt.Printf("Reasoning:   %s\n", decision.Reasoning)
	return nil
}

func neighborsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	neighbors, err := engine.Neighbors(context.Background(), collectionID(c),
		core.ID(c.Uint64("unit")), core.EdgeType(c.String("edge-type")), c.Int("hops"))
	if err != nil {
		return fmt.Errorf("neighbor query failed: %w", err)
	}

	if len(neighbors) == 0 {
		fmt.Println("No neighbors found")
		return nil
	}
	for _, n := range neighbors {
		fmt.Printf("%s  distance=%d  via=%s  type=%s  seq=%d\n",
			n.Node.NodeID.String(), n.Distance, n.Edge.Type, n.Node.NodeType, n.Node.Sequence)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required as a positional argument")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	ctx := context.Background()
	strictness := c.String("strictness")

	decision, contexts, err := engine.Query(ctx, collectionID(c),
		router.Request{Query: query},
		core.CollectionConfig{Strictness: strictness})
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	result, err := engine.Answer(ctx, query, contexts, answer.Config{
		Purpose:    "policy_qa",
		Tone:       c.String("tone"),
		Strictness: strictness,
	})
	if err != nil {
		return fmt.Errorf("answer generation failed: %w", err)
	}

	fmt.Printf("Mode: %s, contexts: %d, confidence: %s\n\n", decision.SelectedMode, result.ContextsUsed, result.Confidence)
	fmt.Println(result.Text)
	if len(result.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, citation := range result.Citations {
			fmt.Printf("  [Context %d] document %s", citation.ContextNumber, citation.DocumentID.String())
			if citation.PageNumber > 0 {
				fmt.Printf(", page %d", citation.PageNumber)
			}
			fmt.Println()
		}
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("batch-size"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer := engine.NewReindexer(config, os.Stderr)
	if err := reindexer.Run(context.Background(), collectionID(c)); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func printContexts(contexts []core.RetrievedContext) {
	if len(contexts) == 0 {
		fmt.Println("No results")
		return
	}
	for i, ctx := range contexts {
		fmt.Printf("%d. [%.4f] doc=%s seq=%d source=%s\n", i+1, ctx.Score,
			ctx.DocumentID.String(), ctx.Sequence, ctx.Source)
		fmt.Printf("   %s\n", ctx.Text)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
