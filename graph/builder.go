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


package graph

import (
	"regexp"
	"slices"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/reference"
)

// Unit types whose headings anchor cross-reference resolution.
var headingUnitTypes = map[string]bool{
	"heading": true,
	"section": true,
}

var firstNumberPattern = regexp.MustCompile(`\d+`)

// Build constructs the document graph for an ordered unit set. Units are
// sorted by document then sequence before edge derivation, so callers may
// pass them in any order.
func Build(units []*core.TextUnit) (*core.DocumentGraph, error) {
	if len(units) == 0 {
		return nil, ErrNoUnits
	}

	ordered := make([]*core.TextUnit, len(units))
	copy(ordered, units)
	slices.SortStableFunc(ordered, func(a, b *core.TextUnit) int {
		if a.DocumentID != b.DocumentID {
			if a.DocumentID < b.DocumentID {
				return -1
			}
			return 1
		}
		return a.Sequence - b.Sequence
	})

	graph := &core.DocumentGraph{
		Nodes: make(map[core.ID]core.GraphNode, len(ordered)),
	}
	for _, unit := range ordered {
		graph.Nodes[unit.ID] = core.GraphNode{
			NodeID:       unit.ID,
			NodeType:     unit.UnitType,
			Text:         unit.Text,
			Level:        unit.Level,
			Sequence:     unit.Sequence,
			DocumentID:   unit.DocumentID,
			PageNumber:   unit.PageNumber,
			SectionTitle: unit.SectionTitle,
			Metadata:     unit.Metadata,
		}
	}

	graph.Edges = append(graph.Edges, containsEdges(ordered)...)
	graph.Edges = append(graph.Edges, nextEdges(ordered)...)
	graph.Edges = append(graph.Edges, refersToEdges(ordered)...)

	graph.NodeCount = len(graph.Nodes)
	graph.EdgeCount = len(graph.Edges)
	graph.Stats = computeStats(graph)
	return graph, nil
}

// containsEdges derives the hierarchy forest. A stack of (level, id) pairs
// tracks open ancestors; each unit attaches to its nearest preceding unit
// of strictly lower level within the same document.
func containsEdges(ordered []*core.TextUnit) []core.GraphEdge {
	type stackEntry struct {
		level int
		id    core.ID
	}

	var edges []core.GraphEdge
	var stack []stackEntry
	var currentDoc core.ID

	for i, unit := range ordered {
		if i == 0 || unit.DocumentID != currentDoc {
			stack = stack[:0]
			currentDoc = unit.DocumentID
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= unit.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			edges = append(edges, core.GraphEdge{
				SourceID: stack[len(stack)-1].id,
				TargetID: unit.ID,
				Type:     core.EdgeContains,
			})
		}
		stack = append(stack, stackEntry{level: unit.Level, id: unit.ID})
	}
	return edges
}

// nextEdges links adjacent units in reading order, one edge per gap,
// never crossing document boundaries.
func nextEdges(ordered []*core.TextUnit) []core.GraphEdge {
	var edges []core.GraphEdge
	for i := 1; i < len(ordered); i++ {
		if ordered[i].DocumentID != ordered[i-1].DocumentID {
			continue
		}
		edges = append(edges, core.GraphEdge{
			SourceID: ordered[i-1].ID,
			TargetID: ordered[i].ID,
			Type:     core.EdgeNext,
		})
	}
	return edges
}

// refersToEdges resolves textual cross-references. The lookup maps the
// first number appearing in each heading-typed unit to that unit; on
// collision the earliest unit keeps the number. Matches that resolve to
// the referring unit itself are skipped.
func refersToEdges(ordered []*core.TextUnit) []core.GraphEdge {
	lookup := make(map[string]core.ID)
	for _, unit := range ordered {
		if !headingUnitTypes[unit.UnitType] {
			continue
		}
		number := firstNumberPattern.FindString(unit.Text)
		if number == "" {
			continue
		}
		if _, taken := lookup[number]; !taken {
			lookup[number] = unit.ID
		}
	}

	var edges []core.GraphEdge
	for _, unit := range ordered {
		for _, match := range reference.Find(unit.Text) {
			target, ok := lookup[match.Number]
			if !ok || target == unit.ID {
				continue
			}
			edges = append(edges, core.GraphEdge{
				SourceID: unit.ID,
				TargetID: target,
				Type:     core.EdgeRefersTo,
				Metadata: map[string]string{
					"reference": match.Text,
					"number":    match.Number,
				},
			})
		}
	}
	return edges
}

func computeStats(graph *core.DocumentGraph) core.GraphStats {
	stats := core.GraphStats{
		EdgeTypeCounts: make(map[string]int),
		NodeTypeCounts: make(map[string]int),
	}
	for _, edge := range graph.Edges {
		stats.EdgeTypeCounts[string(edge.Type)]++
	}
	for _, node := range graph.Nodes {
		stats.NodeTypeCounts[node.NodeType]++
	}
	if graph.NodeCount > 0 {
		stats.AvgNodeDegree = float64(graph.EdgeCount) / float64(graph.NodeCount)
	}
	return stats
}
