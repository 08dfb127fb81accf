package answer

import "errors"

var (
	// ErrGeneratorRequired is returned when a Service is constructed
	// without a generator.
	ErrGeneratorRequired = errors.New("generator is required")

	// ErrNoRelevantContext is returned in strict mode when retrieval
	// produced no contexts to ground an answer on.
	ErrNoRelevantContext = errors.New("no relevant information found in documents")

	// ErrGeneration wraps failures of the underlying language model call.
	ErrGeneration = errors.New("answer generation failed")
)
