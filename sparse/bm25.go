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


package sparse

import (
	"math"
	"sort"

	"github.com/poiesic/docquery/core"
)

// Okapi BM25 parameters. k1 controls term frequency saturation, b controls
// document length normalization.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// ranking is the in-memory BM25 structure derived from a persisted index.
// It is immutable once built and safe for concurrent readers.
type ranking struct {
	termFreqs []map[string]int // per document: term -> occurrences
	docLens   []int
	avgDocLen float64
	idf       map[string]float64
	unitIDs   []core.ID
	meta      []core.UnitMeta
	version   uint64
}

// newRanking builds the BM25 statistics for a token corpus.
func newRanking(index *core.SparseIndex) *ranking {
	n := len(index.Corpus)
	r := &ranking{
		termFreqs: make([]map[string]int, n),
		docLens:   make([]int, n),
		idf:       make(map[string]float64),
		unitIDs:   index.UnitIDs,
		meta:      index.Meta,
		version:   index.Version,
	}

	docFreq := make(map[string]int)
	totalLen := 0
	for i, tokens := range index.Corpus {
		freqs := make(map[string]int, len(tokens))
		for _, token := range tokens {
			freqs[token]++
		}
		r.termFreqs[i] = freqs
		r.docLens[i] = len(tokens)
		totalLen += len(tokens)
		for token := range freqs {
			docFreq[token]++
		}
	}
	if n > 0 {
		r.avgDocLen = float64(totalLen) / float64(n)
	}

	// The +1 inside the log keeps IDF strictly positive even for terms
	// present in most documents, so scores stay comparable across queries.
	for token, df := range docFreq {
		r.idf[token] = math.Log(1 + (float64(n)-float64(df)+0.5)/(float64(df)+0.5))
	}
	return r
}

// search scores every document against the query tokens and returns hits
// with positive scores, sorted descending. Ties keep corpus order, so
// results are stable across identical queries.
func (r *ranking) search(queryTokens []string, limit int) []core.ScoredUnit {
	if len(queryTokens) == 0 || len(r.termFreqs) == 0 {
		return nil
	}

	scores := make([]float64, len(r.termFreqs))
	for _, token := range queryTokens {
		idf, ok := r.idf[token]
		if !ok {
			continue
		}
		for i, freqs := range r.termFreqs {
			tf := float64(freqs[token])
			if tf == 0 {
				continue
			}
			norm := 1 - bm25B + bm25B*float64(r.docLens[i])/r.avgDocLen
			scores[i] += idf * tf * (bm25K1 + 1) / (tf + bm25K1*norm)
		}
	}

	var hits []core.ScoredUnit
	for i, score := range scores {
		if score <= 0 {
			continue
		}
		hits = append(hits, core.ScoredUnit{
			UnitID:      r.unitIDs[i],
			Score:       score,
			Source:      core.SourceSparse,
			Meta:        r.meta[i],
			SparseScore: score,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
