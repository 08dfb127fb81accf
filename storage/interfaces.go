package storage

import (
	"context"

	"github.com/poiesic/docquery/core"
)

// SparseIndexStore persists the BM25 state per collection.
// Implementations must be thread-safe and must replace indexes atomically.
type SparseIndexStore interface {
	// SaveSparseIndex stores the index for a collection with full-replace
	// semantics and assigns the next index version.
	// Returns the stored version.
	SaveSparseIndex(ctx context.Context, collection core.CollectionID, index *core.SparseIndex) (uint64, error)

	// LoadSparseIndex retrieves the index for a collection.
	// Returns ErrNotFound if no index exists.
	LoadSparseIndex(ctx context.Context, collection core.CollectionID) (*core.SparseIndex, error)

	// DeleteSparseIndex removes the index for a collection.
	// Reports whether an index existed.
	DeleteSparseIndex(ctx context.Context, collection core.CollectionID) (bool, error)
}

// GraphStore persists the document graph per collection.
// Same lifecycle and atomicity guarantees as SparseIndexStore.
type GraphStore interface {
	// SaveGraph stores the graph for a collection with full-replace semantics.
	SaveGraph(ctx context.Context, collection core.CollectionID, graph *core.DocumentGraph) error

	// LoadGraph retrieves the graph for a collection.
	// Returns ErrNotFound if no graph exists.
	LoadGraph(ctx context.Context, collection core.CollectionID) (*core.DocumentGraph, error)

	// DeleteGraph removes the graph for a collection.
	// Reports whether a graph existed.
	DeleteGraph(ctx context.Context, collection core.CollectionID) (bool, error)
}

// UnitStore persists text units so retrieval hits can be enriched with
// their full text and metadata.
type UnitStore interface {
	// SaveUnits stores units for a collection, overwriting by unit ID.
	SaveUnits(ctx context.Context, collection core.CollectionID, units []*core.TextUnit) error

	// GetUnit retrieves a single unit.
	// Returns ErrNotFound if the unit doesn't exist.
	GetUnit(ctx context.Context, collection core.CollectionID, id core.ID) (*core.TextUnit, error)

	// GetUnits retrieves multiple units by ID.
	// Returns only the units that exist (no error for missing units).
	GetUnits(ctx context.Context, collection core.CollectionID, ids []core.ID) ([]*core.TextUnit, error)

	// ListUnits returns every unit of the collection ordered by sequence.
	ListUnits(ctx context.Context, collection core.CollectionID) ([]*core.TextUnit, error)

	// DeleteUnits removes all units of a collection.
	// Reports how many were removed.
	DeleteUnits(ctx context.Context, collection core.CollectionID) (int, error)
}

// VectorStore is the dense retrieval surface. The production deployment
// backs this with a dedicated vector database; the in-tree Badger
// implementation serves tests, the CLI and small installations.
type VectorStore interface {
	// CreateCollection prepares vector storage for a collection.
	// Idempotent.
	CreateCollection(ctx context.Context, collection core.CollectionID) error

	// IndexPoints stores embedded units, overwriting by unit ID.
	IndexPoints(ctx context.Context, collection core.CollectionID, points []*core.VectorPoint) error

	// SearchVectors returns up to limit units whose vectors score at least
	// threshold against the query vector, highest first.
	SearchVectors(ctx context.Context, collection core.CollectionID, vector []float32, limit int, threshold float64) ([]core.ScoredUnit, error)

	// DeleteVectors removes all points of a collection.
	// Reports how many were removed.
	DeleteVectors(ctx context.Context, collection core.CollectionID) (int, error)
}
