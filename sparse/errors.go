package sparse

import "errors"

var (
	// ErrStoreRequired is returned when NewService is called without a store.
	ErrStoreRequired = errors.New("sparse index store is required")

	// ErrIndexNotFound is returned when searching a collection that has
	// never been indexed.
	ErrIndexNotFound = errors.New("sparse index not found")

	// ErrNoUnits is returned when building an index from an empty unit set.
	ErrNoUnits = errors.New("cannot build sparse index from zero units")
)
