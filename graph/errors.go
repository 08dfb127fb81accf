package graph

import "errors"

var (
	// ErrStoreRequired is returned when NewService is called without a store.
	ErrStoreRequired = errors.New("graph store is required")

	// ErrGraphNotFound is returned when querying a collection that has no
	// built graph.
	ErrGraphNotFound = errors.New("document graph not found")

	// ErrNoUnits is returned when building a graph from an empty unit set.
	ErrNoUnits = errors.New("cannot build graph from zero units")

	// ErrInvalidHops is returned when a neighbor query asks for a hop count
	// outside [1,3].
	ErrInvalidHops = errors.New("neighbor hops must be between 1 and 3")
)
