package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

func newTestStores(t *testing.T) *Stores {
	t.Helper()
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Backend.Close() })
	return stores
}

func testCollection() core.CollectionID {
	return core.CollectionID{Tenant: 1, Chat: 1}
}

func makeUnit(collection core.CollectionID, docID core.ID, seq int, text string) *core.TextUnit {
	return &core.TextUnit{
		ID:         core.UnitIDFor(docID, seq, text),
		Collection: collection,
		DocumentID: docID,
		UnitType:   "paragraph",
		Text:       text,
		Sequence:   seq,
	}
}

func TestSparseIndexStoreRoundTrip(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()

	index := &core.SparseIndex{
		Corpus:        [][]string{{"mehnat", "kodeksi"}},
		UnitIDs:       []core.ID{10},
		Meta:          []core.UnitMeta{{DocumentID: 1, UnitType: "article"}},
		DocumentCount: 1,
		TotalTokens:   2,
	}

	version, err := stores.Sparse.SaveSparseIndex(ctx, collection, index)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)

	loaded, err := stores.Sparse.LoadSparseIndex(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, index.Corpus, loaded.Corpus)
	assert.Equal(t, index.UnitIDs, loaded.UnitIDs)
	assert.Equal(t, uint64(1), loaded.Version)
	assert.NotZero(t, loaded.UpdatedAt)
}

func TestSparseIndexStoreVersionIncrements(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()

	index := &core.SparseIndex{Corpus: [][]string{{"a"}}, UnitIDs: []core.ID{1}, Meta: []core.UnitMeta{{}}, DocumentCount: 1, TotalTokens: 1}

	for want := uint64(1); want <= 3; want++ {
		version, err := stores.Sparse.SaveSparseIndex(ctx, collection, index)
		require.NoError(t, err)
		assert.Equal(t, want, version)
	}
}

func TestSparseIndexStoreNotFound(t *testing.T) {
	stores := newTestStores(t)

	_, err := stores.Sparse.LoadSparseIndex(context.Background(), testCollection())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSparseIndexStoreDelete(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()

	existed, err := stores.Sparse.DeleteSparseIndex(ctx, collection)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = stores.Sparse.SaveSparseIndex(ctx, collection, &core.SparseIndex{Corpus: [][]string{{"a"}}, UnitIDs: []core.ID{1}, Meta: []core.UnitMeta{{}}, DocumentCount: 1, TotalTokens: 1})
	require.NoError(t, err)

	existed, err = stores.Sparse.DeleteSparseIndex(ctx, collection)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = stores.Sparse.LoadSparseIndex(ctx, collection)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSparseIndexStoreCollectionIsolation(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	a := core.CollectionID{Tenant: 1, Chat: 1}
	b := core.CollectionID{Tenant: 2, Chat: 1}

	_, err := stores.Sparse.SaveSparseIndex(ctx, a, &core.SparseIndex{Corpus: [][]string{{"a"}}, UnitIDs: []core.ID{1}, Meta: []core.UnitMeta{{}}, DocumentCount: 1, TotalTokens: 1})
	require.NoError(t, err)

	_, err = stores.Sparse.LoadSparseIndex(ctx, b)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGraphStoreRoundTrip(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()

	graph := &core.DocumentGraph{
		Nodes: map[core.ID]core.GraphNode{
			1: {NodeID: 1, NodeType: "article", Text: "Article 1"},
			2: {NodeID: 2, NodeType: "paragraph", Text: "Body", Sequence: 1},
		},
		Edges:     []core.GraphEdge{{SourceID: 1, TargetID: 2, Type: core.EdgeContains}},
		NodeCount: 2,
		EdgeCount: 1,
	}

	require.NoError(t, stores.Graph.SaveGraph(ctx, collection, graph))

	loaded, err := stores.Graph.LoadGraph(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, graph.Nodes, loaded.Nodes)
	assert.Equal(t, graph.Edges, loaded.Edges)
	assert.NotZero(t, loaded.UpdatedAt)

	existed, err := stores.Graph.DeleteGraph(ctx, collection)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = stores.Graph.LoadGraph(ctx, collection)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUnitStoreSaveAndGet(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()

	unit := makeUnit(collection, 100, 0, "Article 1. General provisions.")
	require.NoError(t, stores.Units.SaveUnits(ctx, collection, []*core.TextUnit{unit}))

	got, err := stores.Units.GetUnit(ctx, collection, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, unit, got)

	_, err = stores.Units.GetUnit(ctx, collection, core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUnitStoreRejectsInvalidUnit(t *testing.T) {
	stores := newTestStores(t)
	collection := testCollection()

	bad := makeUnit(collection, 100, 0, "valid")
	bad.Text = ""

	err := stores.Units.SaveUnits(context.Background(), collection, []*core.TextUnit{bad})
	assert.ErrorIs(t, err, core.ErrEmptyText)
}

func TestUnitStoreGetUnitsSkipsMissing(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()

	u1 := makeUnit(collection, 100, 0, "first")
	u2 := makeUnit(collection, 100, 1, "second")
	require.NoError(t, stores.Units.SaveUnits(ctx, collection, []*core.TextUnit{u1, u2}))

	got, err := stores.Units.GetUnits(ctx, collection, []core.ID{u1.ID, core.ID(999), u2.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, u1.ID, got[0].ID)
	assert.Equal(t, u2.ID, got[1].ID)
}

func TestUnitStoreListOrder(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()

	units := []*core.TextUnit{
		makeUnit(collection, 200, 1, "doc2 second"),
		makeUnit(collection, 100, 2, "doc1 third"),
		makeUnit(collection, 100, 0, "doc1 first"),
		makeUnit(collection, 200, 0, "doc2 first"),
		makeUnit(collection, 100, 1, "doc1 second"),
	}
	require.NoError(t, stores.Units.SaveUnits(ctx, collection, units))

	listed, err := stores.Units.ListUnits(ctx, collection)
	require.NoError(t, err)
	require.Len(t, listed, 5)
	for i := 1; i < len(listed); i++ {
		prev, cur := listed[i-1], listed[i]
		if prev.DocumentID == cur.DocumentID {
			assert.Less(t, prev.Sequence, cur.Sequence)
		} else {
			assert.Less(t, prev.DocumentID, cur.DocumentID)
		}
	}
}

func TestUnitStoreDeleteCounts(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()
	other := core.CollectionID{Tenant: 1, Chat: 2}

	require.NoError(t, stores.Units.SaveUnits(ctx, collection, []*core.TextUnit{
		makeUnit(collection, 100, 0, "a"), makeUnit(collection, 100, 1, "b"),
	}))
	require.NoError(t, stores.Units.SaveUnits(ctx, other, []*core.TextUnit{
		makeUnit(other, 100, 0, "c"),
	}))

	deleted, err := stores.Units.DeleteUnits(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := stores.Units.ListUnits(ctx, other)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestVectorStoreSearch(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()

	points := []*core.VectorPoint{
		{UnitID: 1, Vector: []float32{1, 0, 0}, Meta: core.UnitMeta{DocumentID: 100}},
		{UnitID: 2, Vector: []float32{0.9, 0.1, 0}, Meta: core.UnitMeta{DocumentID: 100}},
		{UnitID: 3, Vector: []float32{0, 1, 0}, Meta: core.UnitMeta{DocumentID: 100}},
	}
	require.NoError(t, stores.Vectors.IndexPoints(ctx, collection, points))

	results, err := stores.Vectors.SearchVectors(ctx, collection, []float32{1, 0, 0}, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, core.ID(1), results[0].UnitID)
	assert.Equal(t, core.ID(2), results[1].UnitID)
	assert.Equal(t, core.SourceDense, results[0].Source)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestVectorStoreThroughInterface(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()

	var vectors storage.VectorStore = stores.Vectors
	require.NoError(t, vectors.CreateCollection(ctx, collection))

	points := []*core.VectorPoint{
		{UnitID: 1, Vector: []float32{1, 0}, Meta: core.UnitMeta{DocumentID: 100}},
		{UnitID: 2, Vector: []float32{0, 1}, Meta: core.UnitMeta{DocumentID: 100}},
	}
	require.NoError(t, vectors.IndexPoints(ctx, collection, points))

	results, err := vectors.SearchVectors(ctx, collection, []float32{1, 0}, 10, 0.9)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ID(1), results[0].UnitID)
}

func TestVectorStoreSearchLimit(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()

	var points []*core.VectorPoint
	for i := 1; i <= 5; i++ {
		points = append(points, &core.VectorPoint{UnitID: core.ID(i), Vector: []float32{float32(i) / 5, 0}})
	}
	require.NoError(t, stores.Vectors.IndexPoints(ctx, collection, points))

	results, err := stores.Vectors.SearchVectors(ctx, collection, []float32{1, 0}, 2, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, core.ID(5), results[0].UnitID)
	assert.Equal(t, core.ID(4), results[1].UnitID)
}

func TestVectorStoreDelete(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	collection := testCollection()

	require.NoError(t, stores.Vectors.IndexPoints(ctx, collection, []*core.VectorPoint{
		{UnitID: 1, Vector: []float32{1}},
		{UnitID: 2, Vector: []float32{0.5}},
	}))

	deleted, err := stores.Vectors.DeleteVectors(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	results, err := stores.Vectors.SearchVectors(ctx, collection, []float32{1}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}
