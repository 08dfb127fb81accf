package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// denseRetriever embeds the query and searches the vector store.
type denseRetriever struct {
	embedder ai.Embedder
	vectors  storage.VectorStore
	logger   *slog.Logger
}

func (r *denseRetriever) retrieve(ctx context.Context, collection core.CollectionID, query string, limit int, threshold float64) ([]core.ScoredUnit, error) {
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vector) == 0 {
		r.logger.Warn("dense retrieval skipped: empty query embedding")
		return nil, nil
	}

	hits, err := r.vectors.SearchVectors(ctx, collection, vector, limit, threshold)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return hits, nil
}

// retrieveLenient degrades failures to an empty list with a logged error.
// Used inside hybrid fusion, where one side going down should not sink the
// whole request.
func (r *denseRetriever) retrieveLenient(ctx context.Context, collection core.CollectionID, query string, limit int, threshold float64) []core.ScoredUnit {
	hits, err := r.retrieve(ctx, collection, query, limit, threshold)
	if err != nil {
		r.logger.Error("dense retrieval failed", "err", err)
		return nil
	}
	return hits
}
