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

import "github.com/poiesic/docquery/core"

// Decide maps query characteristics and collection settings to a retrieval
// plan. Pure function; the parameter table is fixed per query type, with
// strictness tightening only the semantic-question branch.
func Decide(chars core.QueryCharacteristics, config core.CollectionConfig) core.RoutingDecision {
	switch chars.QueryType {
	case core.QueryExactReference:
		return core.RoutingDecision{
			SelectedMode:        core.ModeGraphEnhanced,
			TopK:                10,
			ScoreThreshold:      0.2,
			ExpandWithNeighbors: true,
			NeighborHops:        2,
			Reasoning: "Detected exact reference (article/section number). " +
				"Using graph-enhanced mode to find the reference and surrounding context.",
			Characteristics: chars,
		}

	case core.QueryKeywordSearch:
		return core.RoutingDecision{
			SelectedMode:   core.ModeSparseOnly,
			TopK:           15,
			ScoreThreshold: 0.0,
			Reasoning: "Detected keyword search (short query with technical terms). " +
				"Using BM25 sparse search for exact keyword matching.",
			Characteristics: chars,
		}

	case core.QuerySemanticQuestion:
		topK, threshold := 12, 0.3
		if config.Strictness == core.StrictnessDocsOnly {
			topK, threshold = 8, 0.4
		}
		return core.RoutingDecision{
			SelectedMode:        core.ModeHybrid,
			TopK:                topK,
			ScoreThreshold:      threshold,
			ExpandWithNeighbors: true,
			NeighborHops:        1,
			Reasoning: "Detected semantic question. " +
				"Using hybrid mode (dense + sparse) for best semantic understanding.",
			Characteristics: chars,
		}

	case core.QueryHybrid:
		return core.RoutingDecision{
			SelectedMode:   core.ModeHybrid,
			TopK:           10,
			ScoreThreshold: 0.35,
			Reasoning: "General query with mixed characteristics. " +
				"Using hybrid mode (dense + sparse fusion) for balanced results.",
			Characteristics: chars,
		}

	default:
		return core.RoutingDecision{
			SelectedMode:   core.ModeHybrid,
			TopK:           10,
			ScoreThreshold: 0.3,
			Reasoning:      "Query type unclear. Using hybrid mode as default safe strategy.",
			Characteristics: chars,
		}
	}
}
