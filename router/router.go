package router

import (
	"log/slog"

	"github.com/poiesic/docquery/core"
)

// Request carries a query plus optional manual overrides.
type Request struct {
	Query string

	// ForceMode bypasses the computed retrieval mode when non-empty.
	ForceMode core.RetrievalMode
	// ForceTopK bypasses the computed result count when positive.
	ForceTopK int
}

// Router combines query analysis and strategy selection.
type Router struct {
	analyzer *Analyzer
	logger   *slog.Logger
}

// New creates a Router. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		analyzer: NewAnalyzer(logger),
		logger:   logger,
	}
}

// Analyze exposes bare query analysis without strategy selection.
func (r *Router) Analyze(query string) core.QueryCharacteristics {
	return r.analyzer.Analyze(query)
}

// Route analyzes the query, picks a strategy for the collection's settings
// and applies any manual overrides from the request.
func (r *Router) Route(request Request, config core.CollectionConfig) core.RoutingDecision {
	chars := r.analyzer.Analyze(request.Query)
	decision := Decide(chars, config)

	if request.ForceMode != "" {
		decision.SelectedMode = request.ForceMode
		decision.Reasoning += " (Manually overridden)"
	}
	if request.ForceTopK > 0 {
		decision.TopK = request.ForceTopK
	}

	r.logger.Info("routing decision",
		"mode", string(decision.SelectedMode),
		"top_k", decision.TopK,
		"threshold", decision.ScoreThreshold,
		"expand", decision.ExpandWithNeighbors,
		"reasoning", decision.Reasoning)
	return decision
}
