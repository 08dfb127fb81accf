package answer

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/poiesic/docquery/core"
)

// Citation is one source reference the model actually used in its answer.
type Citation struct {
	ContextNumber int
	DocumentID    core.ID
	PageNumber    int
	SectionTitle  string
}

// Confidence levels attached to generated answers.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

var contextCitePattern = regexp.MustCompile(`\[Context\s+(\d+)\]`)

// extractCitations resolves [Context N] markers in the answer back to the
// contexts that were offered in the prompt. Out-of-range markers are
// ignored; duplicates collapse to one citation per document unit.
func extractCitations(text string, contexts []core.RetrievedContext) []Citation {
	var citations []Citation
	seen := make(map[string]struct{})

	for _, match := range contextCitePattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil || n < 1 || n > len(contexts) {
			continue
		}
		ctx := contexts[n-1]

		key := fmt.Sprintf("%d:%d", ctx.DocumentID, ctx.Sequence)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		citations = append(citations, Citation{
			ContextNumber: n,
			DocumentID:    ctx.DocumentID,
			PageNumber:    ctx.PageNumber,
			SectionTitle:  ctx.SectionTitle,
		})
	}
	return citations
}

// determineConfidence grades the answer by how well-supported it was:
// three or more strong contexts is high, a couple of decent ones medium,
// anything else low.
func determineConfidence(contexts []core.RetrievedContext) string {
	if len(contexts) == 0 {
		return ConfidenceLow
	}

	strong, decent := 0, 0
	for _, ctx := range contexts {
		if ctx.Score > 0.7 {
			strong++
		}
		if ctx.Score > 0.4 {
			decent++
		}
	}

	switch {
	case strong >= 3:
		return ConfidenceHigh
	case decent >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
