package indexing

import "errors"

var (
	// ErrUnitStoreRequired is returned when a unit store is not provided.
	ErrUnitStoreRequired = errors.New("unit store required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrSparseServiceRequired is returned when a sparse index service is not provided.
	ErrSparseServiceRequired = errors.New("sparse index service required")

	// ErrGraphServiceRequired is returned when a graph service is not provided.
	ErrGraphServiceRequired = errors.New("graph service required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrNoUnits is returned when indexing is attempted with no units.
	ErrNoUnits = errors.New("no units to index")
)
