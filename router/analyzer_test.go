package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/docquery/core"
)

func TestAnalyzeExactReference(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	chars := analyzer.Analyze("What is Article 27?")
	assert.Equal(t, core.QueryExactReference, chars.QueryType)
	assert.Equal(t, 0.9, chars.Confidence)
	assert.True(t, chars.HasNumbers)
	assert.True(t, chars.HasQuestionWords)
}

func TestAnalyzeSemanticQuestion(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	chars := analyzer.Analyze("How should an employment contract be terminated")
	assert.Equal(t, core.QuerySemanticQuestion, chars.QueryType)
	assert.Equal(t, 0.85, chars.Confidence)
	assert.Greater(t, chars.WordCount, 3)
}

func TestAnalyzeKeywordSearch(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	tests := []struct {
		name  string
		query string
	}{
		{"short with numbers", "form 2025"},
		{"all uppercase", "VAT NDS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chars := analyzer.Analyze(tt.query)
			assert.Equal(t, core.QueryKeywordSearch, chars.QueryType)
			assert.Equal(t, 0.75, chars.Confidence)
		})
	}
}

func TestAnalyzeHybridQuery(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	chars := analyzer.Analyze("employment contract termination severance procedure details")
	assert.Equal(t, core.QueryHybrid, chars.QueryType)
	assert.Equal(t, 0.6, chars.Confidence)
}

func TestAnalyzeUnclear(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	chars := analyzer.Analyze("hello there")
	assert.Equal(t, core.QueryUnclear, chars.QueryType)
	assert.Equal(t, 0.3, chars.Confidence)
}

func TestAnalyzeEmptyQueryDegrades(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	chars := analyzer.Analyze("")
	assert.Equal(t, core.QueryUnclear, chars.QueryType)
	assert.Zero(t, chars.WordCount)
}

func TestAnalyzeExactPhrases(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	assert.True(t, analyzer.Analyze(`find "force majeure" clauses everywhere`).HasExactPhrases)
	assert.False(t, analyzer.Analyze(`find force majeure clauses everywhere`).HasExactPhrases)
}

func TestAnalyzeTechnicalTerms(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	assert.True(t, analyzer.Analyze("what does maxRetries control").ContainsTechnicalTerms)
	assert.True(t, analyzer.Analyze("explain HTTP").ContainsTechnicalTerms)
	assert.True(t, analyzer.Analyze("snake_case field").ContainsTechnicalTerms)
	assert.False(t, analyzer.Analyze("plain everyday words").ContainsTechnicalTerms)
}

func TestAnalyzeMultilingualQuestionWords(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	uz := analyzer.Analyze("Mehnat shartnomasi qanday bekor qilinadi")
	assert.True(t, uz.HasQuestionWords)
	assert.Equal(t, core.QuerySemanticQuestion, uz.QueryType)

	ru := analyzer.Analyze("Когда работник может требовать компенсацию ущерба")
	assert.True(t, ru.HasQuestionWords)
	assert.Equal(t, core.QuerySemanticQuestion, ru.QueryType)
}

func TestAnalyzeQuestionMarkCountsAsQuestion(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	chars := analyzer.Analyze("annual leave duration year fifteen days?")
	assert.True(t, chars.HasQuestionWords)
	assert.Equal(t, core.QuerySemanticQuestion, chars.QueryType)
}
