package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenize splits text into lowercase tokens suitable for BM25 indexing.
//
// Rules:
//   - lowercase the input
//   - extract maximal runs of word characters and hyphens, so hyphenated
//     terms ("sub-clause") and numeric IDs stay intact
//   - drop stopwords for the three supported languages
//   - drop tokens shorter than 2 runes unless they are purely numeric
//     (article and clause numbers must survive)
//
// Empty or blank input yields an empty slice. The function is pure.
func Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	text = strings.ToLower(text)

	tokens := make([]string, 0, len(text)/6)
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := strings.Trim(current.String(), "-")
		current.Reset()
		if token == "" {
			return
		}
		if IsStopword(token) {
			return
		}
		if runeLen(token) < 2 && !isNumeric(token) {
			return
		}
		tokens = append(tokens, token)
	}

	for _, r := range text {
		if isWordRune(r) {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// IsStopword reports whether token is in the fixed three-language stopword
// set. The token must already be lowercase.
func IsStopword(token string) bool {
	return stopwords[token]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func isNumeric(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
