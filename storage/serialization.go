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


package storage

import (
	"sort"

	"github.com/poiesic/docquery/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	return id, err
}

// MarshalTextUnit serializes a TextUnit to bytes.
func MarshalTextUnit(unit *core.TextUnit) []byte {
	buf := make([]byte, TextUnitMUS.Size(*unit))
	TextUnitMUS.Marshal(*unit, buf)
	return buf
}

// UnmarshalTextUnit deserializes a TextUnit from bytes.
func UnmarshalTextUnit(data []byte) (*core.TextUnit, error) {
	unit, _, err := TextUnitMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// MarshalSparseIndex serializes a SparseIndex to bytes.
func MarshalSparseIndex(index *core.SparseIndex) []byte {
	buf := make([]byte, SparseIndexMUS.Size(*index))
	SparseIndexMUS.Marshal(*index, buf)
	return buf
}

// UnmarshalSparseIndex deserializes a SparseIndex from bytes.
func UnmarshalSparseIndex(data []byte) (*core.SparseIndex, error) {
	index, _, err := SparseIndexMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &index, nil
}

// MarshalDocumentGraph serializes a DocumentGraph to bytes.
func MarshalDocumentGraph(graph *core.DocumentGraph) []byte {
	buf := make([]byte, DocumentGraphMUS.Size(*graph))
	DocumentGraphMUS.Marshal(*graph, buf)
	return buf
}

// UnmarshalDocumentGraph deserializes a DocumentGraph from bytes.
func UnmarshalDocumentGraph(data []byte) (*core.DocumentGraph, error) {
	graph, _, err := DocumentGraphMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &graph, nil
}

// MarshalVectorPoint serializes a VectorPoint to bytes.
func MarshalVectorPoint(point *core.VectorPoint) []byte {
	buf := make([]byte, VectorPointMUS.Size(*point))
	VectorPointMUS.Marshal(*point, buf)
	return buf
}

// UnmarshalVectorPoint deserializes a VectorPoint from bytes.
func UnmarshalVectorPoint(data []byte) (*core.VectorPoint, error) {
	point, _, err := VectorPointMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedNodes(nodes map[core.ID]core.GraphNode) []core.GraphNode {
	out := make([]core.GraphNode, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, node)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID < out[j].NodeID })
	return out
}
