// Package mock provides deterministic in-process test doubles for the ai
// interfaces. Embeddings are derived from a text hash, so identical texts
// always map to identical vectors and tests need no network access.
package mock
