package retrieval

import "errors"

var (
	// ErrInvalidMode is returned for a retrieval mode outside the known set.
	ErrInvalidMode = errors.New("invalid retrieval mode")

	// ErrRetrieval wraps any orchestration failure; the original cause is
	// attached, so callers handle one error surface while logs keep the
	// root cause.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrEmptyQuery is returned when the request carries a blank query.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrSparseServiceRequired, ErrGraphServiceRequired,
	// ErrUnitStoreRequired, ErrVectorStoreRequired and ErrEmbedderRequired
	// guard engine construction.
	ErrSparseServiceRequired = errors.New("sparse service is required")
	ErrGraphServiceRequired  = errors.New("graph service is required")
	ErrUnitStoreRequired     = errors.New("unit store is required")
	ErrVectorStoreRequired   = errors.New("vector store is required")
	ErrEmbedderRequired      = errors.New("embedder is required")
)
