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


package router

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/language"
	"github.com/poiesic/docquery/reference"
)

// Question words across the three supported languages. Matched as
// substrings of the lowercased query, like quote and digit checks.
var questionWords = []string{
	// English
	"what", "who", "where", "when", "why", "how", "which", "whose",
	// Russian
	"что", "кто", "где", "когда", "почему", "как", "какой", "чей",
	// Uzbek
	"nima", "kim", "qayer", "qachon", "nega", "qanday", "qaysi",
}

// Analyzer extracts query characteristics for routing.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates a query analyzer. A nil logger falls back to
// slog.Default().
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze extracts deterministic features from the query and classifies it.
// Analysis never fails: a blank or unintelligible query degrades to UNCLEAR
// rather than returning an error.
func (a *Analyzer) Analyze(query string) core.QueryCharacteristics {
	words := strings.Fields(query)

	chars := core.QueryCharacteristics{
		WordCount:              len(words),
		HasNumbers:             containsDigit(query),
		HasExactPhrases:        strings.ContainsAny(query, `"'`),
		Language:               language.Detect(query),
		ContainsTechnicalTerms: hasTechnicalTerms(words),
	}
	chars.HasQuestionWords = hasQuestionWords(query)
	hasReferences := reference.Contains(query)

	chars.QueryType, chars.Confidence = classify(query, hasReferences, chars)

	a.logger.Debug("query analyzed",
		"type", string(chars.QueryType),
		"language", string(chars.Language),
		"words", chars.WordCount,
		"confidence", chars.Confidence)
	return chars
}

// classify applies the routing rules in priority order. The confidence
// values are fixed per rule, not computed.
func classify(query string, hasReferences bool, chars core.QueryCharacteristics) (core.QueryType, float64) {
	if hasReferences {
		return core.QueryExactReference, 0.9
	}
	if chars.HasQuestionWords && chars.WordCount > 3 {
		return core.QuerySemanticQuestion, 0.85
	}
	if chars.WordCount <= 3 && chars.WordCount > 0 && (chars.HasNumbers || isAllUpper(query)) {
		return core.QueryKeywordSearch, 0.75
	}
	if chars.WordCount > 3 {
		return core.QueryHybrid, 0.6
	}
	return core.QueryUnclear, 0.3
}

func hasQuestionWords(query string) bool {
	lower := strings.ToLower(query)
	for _, word := range questionWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return strings.Contains(query, "?")
}

// hasTechnicalTerms reports CamelCase words, multi-letter uppercase words,
// and words carrying underscores or dashes.
func hasTechnicalTerms(words []string) bool {
	for _, word := range words {
		if strings.ContainsAny(word, "_-") {
			return true
		}
		if isAllUpper(word) && len([]rune(word)) > 1 {
			return true
		}
		if isCamelCase(word) {
			return true
		}
	}
	return false
}

// isCamelCase matches words starting lowercase with an interior uppercase
// letter, e.g. "topK" or "camelCase".
func isCamelCase(word string) bool {
	runes := []rune(word)
	if len(runes) < 2 || !unicode.IsLower(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return true
		}
		if !unicode.IsLower(r) {
			return false
		}
	}
	return false
}

// isAllUpper reports whether the text contains at least one letter and no
// lowercase letters.
func isAllUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func containsDigit(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
