package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docquery/core"
)

func scored(id core.ID, score float64, source core.ContextSource) core.ScoredUnit {
	return core.ScoredUnit{UnitID: id, Score: score, Source: source}
}

func TestFuseEmptyInput(t *testing.T) {
	assert.Nil(t, Fuse(nil, nil, 60))
	assert.Empty(t, Fuse([][]core.ScoredUnit{{}, {}}, nil, 60))
}

func TestFuseOverlappingItemRanksFirst(t *testing.T) {
	a := scored(1, 0.9, core.SourceDense)
	b := scored(2, 0.8, core.SourceDense)
	c := scored(3, 5.0, core.SourceSparse)

	fused := Fuse(
		[][]core.ScoredUnit{{a, b}, {scored(2, 4.0, core.SourceSparse), c}},
		[]float64{0.6, 0.4},
		60,
	)
	require.Len(t, fused, 3)

	// b appears in both lists, rank 2 dense and rank 1 sparse:
	// 0.6/62 + 0.4/61.
	assert.Equal(t, core.ID(2), fused[0].UnitID)
	assert.InDelta(t, 0.6/62+0.4/61, fused[0].Score, 1e-12)

	// a leads the heavier list: 0.6/61 beats c's 0.4/62.
	assert.Equal(t, core.ID(1), fused[1].UnitID)
	assert.InDelta(t, 0.6/61, fused[1].Score, 1e-12)
	assert.Equal(t, core.ID(3), fused[2].UnitID)
	assert.InDelta(t, 0.4/62, fused[2].Score, 1e-12)
}

func TestFuseNormalizesWeights(t *testing.T) {
	lists := [][]core.ScoredUnit{
		{scored(1, 1, core.SourceDense)},
		{scored(2, 1, core.SourceSparse)},
	}

	scaled := Fuse(lists, []float64{6, 4}, 60)
	unit := Fuse(lists, []float64{0.6, 0.4}, 60)
	require.Len(t, scaled, 2)
	assert.InDelta(t, unit[0].Score, scaled[0].Score, 1e-12)
	assert.InDelta(t, unit[1].Score, scaled[1].Score, 1e-12)
}

func TestFuseKeepsFirstOccurrencePayload(t *testing.T) {
	denseSide := core.ScoredUnit{UnitID: 7, Score: 0.9, Source: core.SourceDense, DenseScore: 0.9, Meta: core.UnitMeta{DocumentID: 42}}
	sparseSide := core.ScoredUnit{UnitID: 7, Score: 3.2, Source: core.SourceSparse, SparseScore: 3.2}

	fused := Fuse([][]core.ScoredUnit{{denseSide}, {sparseSide}}, nil, 60)
	require.Len(t, fused, 1)
	assert.Equal(t, core.SourceFusion, fused[0].Source)
	assert.Equal(t, 0.9, fused[0].DenseScore)
	assert.Equal(t, core.ID(42), fused[0].Meta.DocumentID)
	assert.Zero(t, fused[0].SparseScore, "payload comes from the first occurrence only")
}

func TestFuseTiesPreserveFirstSeenOrder(t *testing.T) {
	fused := Fuse([][]core.ScoredUnit{
		{scored(10, 1, core.SourceDense)},
		{scored(20, 1, core.SourceSparse)},
	}, nil, 60)
	require.Len(t, fused, 2)
	assert.Equal(t, core.ID(10), fused[0].UnitID)
	assert.Equal(t, core.ID(20), fused[1].UnitID)
}

func TestFuseOutputBounds(t *testing.T) {
	lists := [][]core.ScoredUnit{
		{scored(1, 1, core.SourceDense), scored(2, 1, core.SourceDense)},
		{scored(2, 1, core.SourceSparse), scored(3, 1, core.SourceSparse)},
		{scored(3, 1, core.SourceSparse)},
	}

	fused := Fuse(lists, nil, 60)
	assert.LessOrEqual(t, len(fused), 5)
	assert.Len(t, fused, 3)

	seen := make(map[core.ID]bool)
	for _, item := range fused {
		assert.False(t, seen[item.UnitID])
		seen[item.UnitID] = true
	}
}
