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


package retrieval

import (
	"sort"

	"github.com/poiesic/docquery/core"
)

// Fuse combines ranked lists with weighted reciprocal rank fusion. An item
// at 1-based rank r in a list with normalized weight w contributes
// w/(k+r) to its cumulative score; items absent from a list contribute
// nothing from it. Output is sorted by fused score descending with ties
// keeping first-seen order, each item carrying the payload of its first
// occurrence and tagged source=fusion.
//
// A nil weights slice means equal weights. Weight and list counts must
// match; extra weights are ignored.
func Fuse(lists [][]core.ScoredUnit, weights []float64, k int) []core.ScoredUnit {
	if len(lists) == 0 {
		return nil
	}
	if weights == nil {
		weights = make([]float64, len(lists))
		for i := range weights {
			weights[i] = 1
		}
	}

	var weightSum float64
	for i := range lists {
		weightSum += weights[i]
	}
	if weightSum == 0 {
		return nil
	}

	scores := make(map[core.ID]float64)
	payloads := make(map[core.ID]core.ScoredUnit)
	var order []core.ID

	for i, list := range lists {
		weight := weights[i] / weightSum
		for rank, item := range list {
			scores[item.UnitID] += weight / float64(k+rank+1)
			if _, seen := payloads[item.UnitID]; !seen {
				payloads[item.UnitID] = item
				order = append(order, item.UnitID)
			}
		}
	}

	fused := make([]core.ScoredUnit, 0, len(order))
	for _, id := range order {
		item := payloads[id]
		item.Score = scores[id]
		item.Source = core.SourceFusion
		fused = append(fused, item)
	}

	sort.SliceStable(fused, func(i, j int) bool { return fused[i].Score > fused[j].Score })
	return fused
}
