// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package answer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
)

// Answer is a generated response with its supporting evidence.
type Answer struct {
	Text         string
	Citations    []Citation
	ContextsUsed int
	Confidence   string
}

// Service generates grounded answers over retrieved contexts.
type Service struct {
	generator ai.Generator
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates an answer service over the given generator.
func NewService(generator ai.Generator, opts ...Option) (*Service, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	s := &Service{
		generator: generator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate produces a grounded answer for the query from the given contexts.
// In strict mode an empty context set is an error; in lenient mode the model
// may fall back to general knowledge.
func (s *Service) Generate(ctx context.Context, query string, contexts []core.RetrievedContext, config Config) (*Answer, error) {
	start := time.Now()

	if len(contexts) == 0 {
		if config.Strictness == StrictDocsOnly {
			return nil, ErrNoRelevantContext
		}
		s.logger.Warn("no contexts found, answering from general knowledge", "query", query)
	}

	contexts = truncateContexts(contexts, maxContextTokens)

	systemPrompt := buildSystemPrompt(config)
	userPrompt := buildUserPrompt(query, contexts)

	text, err := s.generator.Generate(ctx, userPrompt, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	answer := &Answer{
		Text:         text,
		Citations:    extractCitations(text, contexts),
		ContextsUsed: len(contexts),
		Confidence:   determineConfidence(contexts),
	}

	s.logger.Info("answer generated",
		"chars", len(answer.Text),
		"citations", len(answer.Citations),
		"confidence", answer.Confidence,
		"contexts_used", answer.ContextsUsed,
		"duration", time.Since(start))

	return answer, nil
}
