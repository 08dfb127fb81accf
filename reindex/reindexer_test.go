package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docquery/ai/mock"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/graph"
	"github.com/poiesic/docquery/sparse"
	badgerstore "github.com/poiesic/docquery/storage/badger"
)

func seedUnits(t *testing.T, stores *badgerstore.Stores, collection core.CollectionID, count int) []*core.TextUnit {
	t.Helper()

	units := make([]*core.TextUnit, count)
	for i := range units {
		text := "Paragraph about labor law provision " + string(rune('a'+i%26))
		units[i] = &core.TextUnit{
			ID:         core.UnitIDFor(1, i, text),
			Collection: collection,
			DocumentID: 1,
			UnitType:   "paragraph",
			Text:       text,
			Sequence:   i,
			Level:      1,
		}
	}
	require.NoError(t, stores.Units.SaveUnits(context.Background(), collection, units))
	return units
}

func TestUnitIteratorBatches(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Backend.Close()

	collection := core.CollectionID{Tenant: 1, Chat: 1}
	seedUnits(t, stores, collection, 7)

	iterator := NewUnitIterator(stores.Units, 3)
	var batchSizes []int
	err = iterator.ForEach(context.Background(), collection, func(units []*core.TextUnit) error {
		batchSizes = append(batchSizes, len(units))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 1}, batchSizes)
}

func TestUnitIteratorEmptyCollection(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Backend.Close()

	iterator := NewUnitIterator(stores.Units, 3)
	called := false
	err = iterator.ForEach(context.Background(), core.CollectionID{Tenant: 1, Chat: 1}, func([]*core.TextUnit) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestUnitIteratorStopsOnError(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Backend.Close()

	collection := core.CollectionID{Tenant: 1, Chat: 1}
	seedUnits(t, stores, collection, 6)

	batchErr := errors.New("batch failed")
	batches := 0
	iterator := NewUnitIterator(stores.Units, 2)
	err = iterator.ForEach(context.Background(), collection, func([]*core.TextUnit) error {
		batches++
		return batchErr
	})
	assert.ErrorIs(t, err, batchErr)
	assert.Equal(t, 1, batches)
}

func TestReindexerRewritesNormalizedVectors(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Backend.Close()

	collection := core.CollectionID{Tenant: 1, Chat: 1}
	units := seedUnits(t, stores, collection, 5)

	var progress bytes.Buffer
	reindexer := NewReindexer(stores.Units, stores.Vectors, mock.NewMockEmbedder(), &Config{
		BatchSize:      2,
		ReportInterval: 2,
		MaxRetries:     1,
		RetryDelay:     0,
	}, &progress)

	require.NoError(t, reindexer.Run(context.Background(), collection))
	assert.Contains(t, progress.String(), "Reindexing complete")

	// Normalized vectors score themselves at 1.0 under dot product.
	embedder := mock.NewMockEmbedder()
	for _, unit := range units {
		raw, err := embedder.EmbedText(context.Background(), unit.Text)
		require.NoError(t, err)

		hits, err := stores.Vectors.SearchVectors(context.Background(), collection, NormalizeVector(raw), 1, 0)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, unit.ID, hits[0].UnitID)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
	}
}

func TestReindexerRebuildsSparseAndGraph(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Backend.Close()

	collection := core.CollectionID{Tenant: 1, Chat: 1}
	seedUnits(t, stores, collection, 4)

	sparseSvc, err := sparse.NewService(stores.Sparse)
	require.NoError(t, err)
	graphSvc, err := graph.NewService(stores.Graph)
	require.NoError(t, err)

	var progress bytes.Buffer
	reindexer := NewReindexer(stores.Units, stores.Vectors, mock.NewMockEmbedder(), &Config{
		BatchSize:      2,
		ReportInterval: 2,
		MaxRetries:     1,
		RetryDelay:     0,
	}, &progress, WithRebuild(sparseSvc, graphSvc))

	require.NoError(t, reindexer.Run(context.Background(), collection))
	assert.Contains(t, progress.String(), "Rebuilt sparse index")

	hits, err := sparseSvc.Search(context.Background(), collection, "labor law provision", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, hits)

	graphState, err := stores.Graph.LoadGraph(context.Background(), collection)
	require.NoError(t, err)
	assert.Len(t, graphState.Nodes, 4)
}

func TestReindexerEmptyCollection(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Backend.Close()

	var progress bytes.Buffer
	reindexer := NewReindexer(stores.Units, stores.Vectors, mock.NewMockEmbedder(), nil, &progress)

	require.NoError(t, reindexer.Run(context.Background(), core.CollectionID{Tenant: 9, Chat: 9}))
	assert.Contains(t, progress.String(), "No units found")
}

func TestReindexerRetriesEmbedderFailures(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Backend.Close()

	collection := core.CollectionID{Tenant: 1, Chat: 1}
	seedUnits(t, stores, collection, 2)

	embedder := mock.NewMockEmbedder()
	fallback := mock.NewMockEmbedder()
	failures := 2
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("model warming up")
		}
		return fallback.EmbedTexts(ctx, texts)
	}

	var progress bytes.Buffer
	reindexer := NewReindexer(stores.Units, stores.Vectors, embedder, &Config{
		BatchSize:      10,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}, &progress)

	require.NoError(t, reindexer.Run(context.Background(), collection))
	assert.Equal(t, 0, failures)
}
