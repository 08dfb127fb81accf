package retrieval

import "time"

// Config carries the engine's tuning constants. The defaults mirror the
// values the routing table was calibrated against; change them together.
type Config struct {
	// DenseWeight and SparseWeight bias RRF fusion between the two
	// retrievers. They are normalized before use, so only the ratio
	// matters.
	DenseWeight  float64
	SparseWeight float64

	// RRFConstant flattens rank sensitivity in reciprocal rank fusion.
	RRFConstant int

	// NeighborDecay is the per-hop score multiplier during graph
	// expansion: a neighbor at distance d scores parent × decay^d.
	NeighborDecay float64

	// OverfetchFactor multiplies top_k when fetching candidate lists for
	// fusion, so both sides contribute enough overlap.
	OverfetchFactor int

	// ExpansionWorkers bounds concurrent neighbor lookups during graph
	// expansion.
	ExpansionWorkers int

	// ExternalTimeout caps embedding and vector search calls.
	ExternalTimeout time.Duration
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		DenseWeight:      0.6,
		SparseWeight:     0.4,
		RRFConstant:      60,
		NeighborDecay:    0.8,
		OverfetchFactor:  2,
		ExpansionWorkers: 4,
		ExternalTimeout:  10 * time.Second,
	}
}
