package retrieval

import (
	"context"
	"log/slog"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/sparse"
)

// retriever is one side of hybrid retrieval. retrieve surfaces failures to
// the caller; retrieveLenient degrades them to an empty contribution, for
// use inside fusion where one side going down should not sink the request.
type retriever interface {
	retrieve(ctx context.Context, collection core.CollectionID, query string, limit int, threshold float64) ([]core.ScoredUnit, error)
	retrieveLenient(ctx context.Context, collection core.CollectionID, query string, limit int, threshold float64) []core.ScoredUnit
}

var (
	_ retriever = (*denseRetriever)(nil)
	_ retriever = (*sparseRetriever)(nil)
)

// sparseRetriever adapts the BM25 service. The score threshold is ignored:
// BM25 scores are unbounded, so thresholds only make sense after fusion.
type sparseRetriever struct {
	service *sparse.Service
	logger  *slog.Logger
}

func (r *sparseRetriever) retrieve(ctx context.Context, collection core.CollectionID, query string, limit int, _ float64) ([]core.ScoredUnit, error) {
	return r.service.Search(ctx, collection, query, limit)
}

func (r *sparseRetriever) retrieveLenient(ctx context.Context, collection core.CollectionID, query string, limit int, threshold float64) []core.ScoredUnit {
	hits, err := r.retrieve(ctx, collection, query, limit, threshold)
	if err != nil {
		r.logger.Error("sparse retrieval failed", "err", err)
		return nil
	}
	return hits
}
