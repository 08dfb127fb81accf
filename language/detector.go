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


// Package language identifies the language of queries and documents.
//
// Detection is statistical (trigram-based) and limited to the three
// supported languages; anything else maps to unknown. Documents are sampled
// at the beginning, middle and end so mixed-language material is reported
// as mixed rather than whichever language happens to open the file.
package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/poiesic/docquery/core"
)

const (
	// documentSampleRunes is the size of each document sample window.
	documentSampleRunes = 500

	// minSampleRunes is the minimum text length for a reliable detection.
	minSampleRunes = 50
)

// Detect identifies the language of a short text such as a query.
// Returns unknown when the text is not one of the supported languages or is
// too ambiguous to classify.
func Detect(text string) core.QueryLanguage {
	text = strings.TrimSpace(text)
	if text == "" {
		return core.LanguageUnknown
	}
	return mapLang(whatlanggo.DetectLang(text))
}

// DetectDocument identifies the dominant language of a full document by
// sampling its beginning, middle and end. Returns mixed when the samples
// disagree, and defaults to Uzbek when nothing can be detected (the primary
// corpus language).
func DetectDocument(text string) core.QueryLanguage {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) < minSampleRunes {
		return core.LanguageUzbek
	}

	samples := [][]rune{
		sliceRunes(runes, 0, documentSampleRunes),
		sliceRunes(runes, len(runes)/2, documentSampleRunes),
		sliceRunes(runes, len(runes)-documentSampleRunes, documentSampleRunes),
	}

	detected := make(map[core.QueryLanguage]bool)
	for _, sample := range samples {
		if len(sample) < minSampleRunes {
			continue
		}
		lang := mapLang(whatlanggo.DetectLang(string(sample)))
		if lang != core.LanguageUnknown {
			detected[lang] = true
		}
	}

	switch len(detected) {
	case 0:
		return core.LanguageUzbek
	case 1:
		for lang := range detected {
			return lang
		}
	}
	return core.LanguageMixed
}

func mapLang(lang whatlanggo.Lang) core.QueryLanguage {
	switch lang {
	case whatlanggo.Uzb:
		return core.LanguageUzbek
	case whatlanggo.Rus:
		return core.LanguageRussian
	case whatlanggo.Eng:
		return core.LanguageEnglish
	default:
		return core.LanguageUnknown
	}
}

func sliceRunes(runes []rune, start, length int) []rune {
	if start < 0 {
		start = 0
	}
	if start >= len(runes) {
		return nil
	}
	end := start + length
	if end > len(runes) {
		end = len(runes)
	}
	return runes[start:end]
}
