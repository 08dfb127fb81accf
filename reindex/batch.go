package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// BatchProcessor re-embeds batches of text units and rewrites their
// vector points.
type BatchProcessor struct {
	vectors        storage.VectorStore
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(vectors storage.VectorStore, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		vectors:        vectors,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-embeds a batch of units and replaces their points in the
// vector store. Vectors are normalized after embedding so dot product
// scores behave like cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, collection core.CollectionID, units []*core.TextUnit) error {
	if len(units) == 0 {
		return nil
	}

	texts := make([]string, len(units))
	for i, unit := range units {
		texts[i] = unit.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(units) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(units), len(embeddings))
	}

	points := make([]*core.VectorPoint, len(units))
	for i, unit := range units {
		points[i] = &core.VectorPoint{
			UnitID: unit.ID,
			Vector: NormalizeVector(embeddings[i]),
			Meta:   unit.Meta(),
		}
	}

	if err := bp.vectors.IndexPoints(ctx, collection, points); err != nil {
		return fmt.Errorf("failed to update vector points: %w", err)
	}

	return nil
}
