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


// Package reference detects cross-references to numbered document sections
// ("Article 27", "modda 5", "статья 12") in English, Uzbek and Russian.
//
// The pattern set is shared between the document graph builder (REFERS_TO
// edges) and the query analyzer (exact-reference classification); the two
// must never diverge.
package reference

import "regexp"

// patterns covers the three supported languages. Each pattern captures the
// referenced number in its first group.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`[Aa]rticle\s+(\d+)`),
	regexp.MustCompile(`[Ss]ection\s+(\d+)`),
	regexp.MustCompile(`[Cc]lause\s+(\d+)`),
	regexp.MustCompile(`[Mm]odda\s+(\d+)`),    // Uzbek: article
	regexp.MustCompile(`(\d+)-[Mm]odda`),      // Uzbek suffixed form: "27-modda"
	regexp.MustCompile(`[Bb]o['ʻ’]?lim\s+(\d+)`), // Uzbek: section
	regexp.MustCompile(`[Сс]татья\s+(\d+)`),   // Russian: article
	regexp.MustCompile(`[Бб]анд\s+(\d+)`),     // Russian/Uzbek legal: clause
}

// Match is one detected cross-reference.
type Match struct {
	// Text is the full matched phrase, e.g. "Article 27".
	Text string
	// Number is the referenced section number, e.g. "27".
	Number string
}

// Find returns every cross-reference in text, in document order per
// pattern. Overlapping matches from different patterns are all reported.
func Find(text string) []Match {
	var matches []Match
	for _, pattern := range patterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			matches = append(matches, Match{Text: m[0], Number: m[1]})
		}
	}
	return matches
}

// Contains reports whether text holds at least one cross-reference.
func Contains(text string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
