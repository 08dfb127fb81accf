package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docquery/ai/mock"
	"github.com/poiesic/docquery/core"
)

func sampleContexts() []core.RetrievedContext {
	return []core.RetrievedContext{
		{
			UnitID: 1, DocumentID: 10, Sequence: 0, Score: 0.9,
			PageNumber: 3, SectionTitle: "Article 27",
			Text: "Every employee has the right to annual paid leave.",
		},
		{
			UnitID: 2, DocumentID: 10, Sequence: 1, Score: 0.8,
			Text: "Leave may be postponed only with written consent.",
		},
		{
			UnitID: 3, DocumentID: 11, Sequence: 0, Score: 0.75,
			Text: "Wages are paid at least once a month.",
		},
	}
}

func TestNewServiceRequiresGenerator(t *testing.T) {
	_, err := NewService(nil)
	assert.ErrorIs(t, err, ErrGeneratorRequired)
}

func TestGenerateStrictModeNoContexts(t *testing.T) {
	service, err := NewService(mock.NewMockGenerator())
	require.NoError(t, err)

	_, err = service.Generate(context.Background(), "annual leave?", nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoRelevantContext)
}

func TestGenerateLenientModeNoContexts(t *testing.T) {
	service, err := NewService(mock.NewMockGenerator())
	require.NoError(t, err)

	config := DefaultConfig()
	config.Strictness = AllowReasoning

	answer, err := service.Generate(context.Background(), "annual leave?", nil, config)
	require.NoError(t, err)
	assert.Equal(t, 0, answer.ContextsUsed)
	assert.Equal(t, ConfidenceLow, answer.Confidence)
}

func TestGeneratePromptContainsContextsAndQuery(t *testing.T) {
	generator := mock.NewMockGenerator()
	var capturedPrompt, capturedSystem string
	generator.GenerateFunc = func(ctx context.Context, prompt, systemPrompt string) (string, error) {
		capturedPrompt = prompt
		capturedSystem = systemPrompt
		return "Leave is fifteen days [Context 1].", nil
	}

	service, err := NewService(generator)
	require.NoError(t, err)

	answer, err := service.Generate(context.Background(), "How long is annual leave?", sampleContexts(), DefaultConfig())
	require.NoError(t, err)

	assert.Contains(t, capturedPrompt, "[Context 1]")
	assert.Contains(t, capturedPrompt, "annual paid leave")
	assert.Contains(t, capturedPrompt, "QUESTION: How long is annual leave?")
	assert.Contains(t, capturedPrompt, "Page 3")
	assert.Contains(t, capturedPrompt, "Section: Article 27")

	assert.Contains(t, capturedSystem, "ONLY based on the provided context documents")
	assert.Contains(t, capturedSystem, "O'zbek tili")

	require.Len(t, answer.Citations, 1)
	assert.Equal(t, 1, answer.Citations[0].ContextNumber)
	assert.Equal(t, core.ID(10), answer.Citations[0].DocumentID)
	assert.Equal(t, 3, answer.Citations[0].PageNumber)
}

func TestGenerateLenientSystemPrompt(t *testing.T) {
	generator := mock.NewMockGenerator()
	var capturedSystem string
	generator.GenerateFunc = func(ctx context.Context, prompt, systemPrompt string) (string, error) {
		capturedSystem = systemPrompt
		return "ok", nil
	}

	service, err := NewService(generator)
	require.NoError(t, err)

	config := Config{Purpose: "hr_assistant", Tone: ToneFormalEnglish, Strictness: AllowReasoning}
	_, err = service.Generate(context.Background(), "q", sampleContexts(), config)
	require.NoError(t, err)

	assert.Contains(t, capturedSystem, "HR policies")
	assert.Contains(t, capturedSystem, "formal, professional English")
	assert.Contains(t, capturedSystem, "general knowledge if documents are incomplete")
	assert.NotContains(t, capturedSystem, "Do NOT use your general knowledge")
}

func TestGenerateWrapsGeneratorError(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, prompt, systemPrompt string) (string, error) {
		return "", errors.New("connection refused")
	}

	service, err := NewService(generator)
	require.NoError(t, err)

	_, err = service.Generate(context.Background(), "q", sampleContexts(), DefaultConfig())
	assert.ErrorIs(t, err, ErrGeneration)
	assert.ErrorContains(t, err, "connection refused")
}

func TestExtractCitationsDeduplicatesAndBounds(t *testing.T) {
	contexts := sampleContexts()
	text := "See [Context 1] and again [Context 1], also [Context 3] and bogus [Context 9]."

	citations := extractCitations(text, contexts)
	require.Len(t, citations, 2)
	assert.Equal(t, 1, citations[0].ContextNumber)
	assert.Equal(t, 3, citations[1].ContextNumber)
}

func TestDetermineConfidence(t *testing.T) {
	high := []core.RetrievedContext{{Score: 0.9}, {Score: 0.8}, {Score: 0.75}}
	assert.Equal(t, ConfidenceHigh, determineConfidence(high))

	medium := []core.RetrievedContext{{Score: 0.6}, {Score: 0.5}}
	assert.Equal(t, ConfidenceMedium, determineConfidence(medium))

	low := []core.RetrievedContext{{Score: 0.3}}
	assert.Equal(t, ConfidenceLow, determineConfidence(low))
	assert.Equal(t, ConfidenceLow, determineConfidence(nil))
}

func TestTruncateContextsKeepsRankedPrefix(t *testing.T) {
	contexts := []core.RetrievedContext{
		{Text: strings.Repeat("a", 30)},
		{Text: strings.Repeat("b", 30)},
		{Text: strings.Repeat("c", 30)},
	}

	// Budget of 16 tokens is 64 chars, room for exactly two contexts.
	truncated := truncateContexts(contexts, 16)
	require.Len(t, truncated, 2)
	assert.Equal(t, contexts[0].Text, truncated[0].Text)

	assert.Len(t, truncateContexts(contexts, 1000), 3)
}
