package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docquery/ai/mock"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/graph"
	"github.com/poiesic/docquery/sparse"
	badgerstore "github.com/poiesic/docquery/storage/badger"
)

type testEnv struct {
	stores   *badgerstore.Stores
	sparse   *sparse.Service
	graphs   *graph.Service
	embedder *mock.MockEmbedder
	engine   *Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Backend.Close() })

	sparseService, err := sparse.NewService(stores.Sparse)
	require.NoError(t, err)
	graphService, err := graph.NewService(stores.Graph)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	engine, err := NewEngine(sparseService, graphService, stores.Units, stores.Vectors, embedder)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	return &testEnv{
		stores:   stores,
		sparse:   sparseService,
		graphs:   graphService,
		embedder: embedder,
		engine:   engine,
	}
}

func testUnit(collection core.CollectionID, docID core.ID, seq, level int, unitType, text string) *core.TextUnit {
	return &core.TextUnit{
		ID:         core.UnitIDFor(docID, seq, text),
		Collection: collection,
		DocumentID: docID,
		UnitType:   unitType,
		Text:       text,
		Sequence:   seq,
		Level:      level,
	}
}

// seed stores units, builds both indexes and embeds every unit.
func (env *testEnv) seed(t *testing.T, collection core.CollectionID, units []*core.TextUnit) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, env.stores.Units.SaveUnits(ctx, collection, units))
	_, err := env.sparse.Build(ctx, collection, units)
	require.NoError(t, err)
	_, err = env.graphs.Build(ctx, collection, units)
	require.NoError(t, err)

	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.Text
	}
	vectors, err := env.embedder.EmbedTexts(ctx, texts)
	require.NoError(t, err)

	points := make([]*core.VectorPoint, len(units))
	for i, u := range units {
		points[i] = &core.VectorPoint{UnitID: u.ID, Vector: vectors[i], Meta: u.Meta()}
	}
	require.NoError(t, env.stores.Vectors.IndexPoints(ctx, collection, points))
}

func laborUnits(collection core.CollectionID) []*core.TextUnit {
	return []*core.TextUnit{
		testUnit(collection, 1, 0, 1, "heading", "Article 27. Annual leave"),
		testUnit(collection, 1, 1, 2, "paragraph", "Every employee has the right to annual paid leave of fifteen working days."),
		testUnit(collection, 1, 2, 2, "paragraph", "Leave may be postponed only with the employee's written consent."),
		testUnit(collection, 1, 3, 1, "heading", "Article 28. Wages"),
		testUnit(collection, 1, 4, 2, "paragraph", "Wages are paid at least once a month."),
	}
}

func TestRetrieveEmptyQuery(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.Retrieve(context.Background(), core.CollectionID{Tenant: 1, Chat: 1}, Request{
		Query: "   ", Mode: core.ModeHybrid, TopK: 5,
	})
	assert.ErrorIs(t, err, ErrRetrieval)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestRetrieveInvalidMode(t *testing.T) {
	env := newTestEnv(t)
	collection := core.CollectionID{Tenant: 1, Chat: 1}
	env.seed(t, collection, laborUnits(collection))

	_, err := env.engine.Retrieve(context.Background(), collection, Request{
		Query: "annual leave", Mode: core.RetrievalMode("telepathy"), TopK: 5,
	})
	assert.ErrorIs(t, err, ErrRetrieval)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestRetrieveSparseOnly(t *testing.T) {
	env := newTestEnv(t)
	collection := core.CollectionID{Tenant: 1, Chat: 1}
	units := laborUnits(collection)
	env.seed(t, collection, units)

	contexts, err := env.engine.Retrieve(context.Background(), collection, Request{
		Query: "wages month", Mode: core.ModeSparseOnly, TopK: 10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, contexts)
	assert.Equal(t, units[4].ID, contexts[0].UnitID)
	assert.Equal(t, "Wages are paid at least once a month.", contexts[0].Text)
	assert.Positive(t, contexts[0].Score)
}

func TestRetrieveSparseOnlyMissingIndex(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.Retrieve(context.Background(), core.CollectionID{Tenant: 8, Chat: 8}, Request{
		Query: "anything", Mode: core.ModeSparseOnly, TopK: 5,
	})
	assert.ErrorIs(t, err, ErrRetrieval)
	assert.ErrorIs(t, err, sparse.ErrIndexNotFound)
}

func TestRetrieveDenseOnly(t *testing.T) {
	env := newTestEnv(t)
	collection := core.CollectionID{Tenant: 1, Chat: 1}
	units := laborUnits(collection)
	env.seed(t, collection, units)

	// The mock embedder maps identical text to identical vectors, so
	// querying with a unit's own text must put that unit on top.
	contexts, err := env.engine.Retrieve(context.Background(), collection, Request{
		Query: units[1].Text, Mode: core.ModeDenseOnly, TopK: 3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, contexts)
	assert.Equal(t, units[1].ID, contexts[0].UnitID)
	assert.LessOrEqual(t, len(contexts), 3)
}

func TestRetrieveHybrid(t *testing.T) {
	env := newTestEnv(t)
	collection := core.CollectionID{Tenant: 1, Chat: 1}
	units := laborUnits(collection)
	env.seed(t, collection, units)

	contexts, err := env.engine.Retrieve(context.Background(), collection, Request{
		Query: "annual paid leave", Mode: core.ModeHybrid, TopK: 3, ScoreThreshold: 0.3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, contexts)
	assert.LessOrEqual(t, len(contexts), 3)

	// Scores are rescaled so the best fused hit is 1.0.
	assert.InDelta(t, 1.0, contexts[0].Score, 1e-9)
	assert.Equal(t, core.SourceFusion, contexts[0].Source)

	for i := 1; i < len(contexts); i++ {
		assert.GreaterOrEqual(t, contexts[i-1].Score, contexts[i].Score)
	}
}

func TestRetrieveHybridSurvivesMissingVectors(t *testing.T) {
	env := newTestEnv(t)
	collection := core.CollectionID{Tenant: 1, Chat: 1}
	units := laborUnits(collection)

	// Sparse index and units only; the vector side has nothing indexed.
	ctx := context.Background()
	require.NoError(t, env.stores.Units.SaveUnits(ctx, collection, units))
	_, err := env.sparse.Build(ctx, collection, units)
	require.NoError(t, err)
	_, err = env.graphs.Build(ctx, collection, units)
	require.NoError(t, err)

	contexts, err := env.engine.Retrieve(ctx, collection, Request{
		Query: "annual paid leave", Mode: core.ModeHybrid, TopK: 5, ScoreThreshold: 0.2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, contexts, "sparse side alone should still produce results")
}

func TestRetrieveGraphEnhancedExpands(t *testing.T) {
	env := newTestEnv(t)
	collection := core.CollectionID{Tenant: 1, Chat: 1}
	units := laborUnits(collection)
	env.seed(t, collection, units)

	plain, err := env.engine.Retrieve(context.Background(), collection, Request{
		Query: "annual leave", Mode: core.ModeHybrid, TopK: 2, ScoreThreshold: 0,
	})
	require.NoError(t, err)

	expanded, err := env.engine.Retrieve(context.Background(), collection, Request{
		Query: "annual leave", Mode: core.ModeGraphEnhanced, TopK: 10,
		ScoreThreshold: 0, ExpandWithNeighbors: true, NeighborHops: 2,
	})
	require.NoError(t, err)
	assert.Greater(t, len(expanded), len(plain), "expansion should surface neighbor units")

	foundNeighbor := false
	for _, c := range expanded {
		if c.Source == core.SourceGraph {
			foundNeighbor = true
			assert.GreaterOrEqual(t, c.GraphDistance, 1)
			assert.LessOrEqual(t, c.GraphDistance, 2)
		}
	}
	assert.True(t, foundNeighbor)
}

func TestRetrieveThresholdFiltersResults(t *testing.T) {
	env := newTestEnv(t)
	collection := core.CollectionID{Tenant: 1, Chat: 1}
	env.seed(t, collection, laborUnits(collection))

	contexts, err := env.engine.Retrieve(context.Background(), collection, Request{
		Query: "annual paid leave", Mode: core.ModeHybrid, TopK: 10, ScoreThreshold: 1.1,
	})
	require.NoError(t, err)
	assert.Empty(t, contexts, "no fused score can exceed the rescaled maximum of 1.0")
}

func TestRetrieveTenantIsolation(t *testing.T) {
	env := newTestEnv(t)

	tenantA := core.CollectionID{Tenant: 1, Chat: 1}
	tenantB := core.CollectionID{Tenant: 2, Chat: 1}

	env.seed(t, tenantA, []*core.TextUnit{
		testUnit(tenantA, 100, 0, 1, "paragraph", "Tenant A confidential leave policy."),
	})
	env.seed(t, tenantB, []*core.TextUnit{
		testUnit(tenantB, 200, 0, 1, "paragraph", "Tenant B confidential leave policy."),
	})

	contexts, err := env.engine.Retrieve(context.Background(), tenantA, Request{
		Query: "confidential leave policy", Mode: core.ModeHybrid, TopK: 10, ScoreThreshold: 0,
	})
	require.NoError(t, err)
	require.NotEmpty(t, contexts)
	for _, c := range contexts {
		assert.Equal(t, core.ID(100), c.DocumentID, "tenant A must never see tenant B documents")
	}
}

func TestRetrieveDropsVanishedUnits(t *testing.T) {
	env := newTestEnv(t)
	collection := core.CollectionID{Tenant: 1, Chat: 1}
	units := laborUnits(collection)
	env.seed(t, collection, units)

	// Deleting stored units after indexing leaves the sparse index pointing
	// at unit IDs that no longer resolve; enrichment must drop them.
	_, err := env.stores.Units.DeleteUnits(context.Background(), collection)
	require.NoError(t, err)

	contexts, err := env.engine.Retrieve(context.Background(), collection, Request{
		Query: "annual paid leave", Mode: core.ModeSparseOnly, TopK: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, contexts)
}
