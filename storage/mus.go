package storage

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/docquery/core"
)

// Hand-written MUS serializers for the persisted record types. The field
// order below is the wire format; append new fields at the end only, and
// bump the key prefixes in the backend if a breaking change is ever needed.

// IDMUS serializes core.ID.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id core.ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id core.ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idMUS) Size(id core.ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

// UnitMetaMUS serializes core.UnitMeta.
var UnitMetaMUS = unitMetaMUS{}

type unitMetaMUS struct{}

func (unitMetaMUS) Marshal(m core.UnitMeta, bs []byte) (n int) {
	n = IDMUS.Marshal(m.DocumentID, bs)
	n += ord.String.Marshal(m.UnitType, bs[n:])
	n += varint.Int.Marshal(m.Sequence, bs[n:])
	n += varint.Int.Marshal(m.PageNumber, bs[n:])
	n += ord.String.Marshal(m.SectionTitle, bs[n:])
	return n
}

func (unitMetaMUS) Unmarshal(bs []byte) (m core.UnitMeta, n int, err error) {
	var n1 int
	if m.DocumentID, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if m.UnitType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Sequence, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.PageNumber, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.SectionTitle, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	return m, n, nil
}

func (unitMetaMUS) Size(m core.UnitMeta) (size int) {
	size = IDMUS.Size(m.DocumentID)
	size += ord.String.Size(m.UnitType)
	size += varint.Int.Size(m.Sequence)
	size += varint.Int.Size(m.PageNumber)
	size += ord.String.Size(m.SectionTitle)
	return size
}

// TextUnitMUS serializes core.TextUnit. The collection pair is part of the
// storage key, not the value, so it is serialized too for self-description.
var TextUnitMUS = textUnitMUS{}

type textUnitMUS struct{}

func (textUnitMUS) Marshal(u core.TextUnit, bs []byte) (n int) {
	n = IDMUS.Marshal(u.ID, bs)
	n += IDMUS.Marshal(u.Collection.Tenant, bs[n:])
	n += IDMUS.Marshal(u.Collection.Chat, bs[n:])
	n += IDMUS.Marshal(u.DocumentID, bs[n:])
	n += ord.String.Marshal(u.UnitType, bs[n:])
	n += ord.String.Marshal(u.Text, bs[n:])
	n += varint.Int.Marshal(u.Sequence, bs[n:])
	n += varint.Int.Marshal(u.Level, bs[n:])
	n += varint.Int.Marshal(u.PageNumber, bs[n:])
	n += ord.String.Marshal(u.SectionTitle, bs[n:])
	n += marshalStringMap(u.Metadata, bs[n:])
	return n
}

func (textUnitMUS) Unmarshal(bs []byte) (u core.TextUnit, n int, err error) {
	var n1 int
	if u.ID, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if u.Collection.Tenant, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Collection.Chat, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.DocumentID, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.UnitType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Sequence, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Level, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.PageNumber, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.SectionTitle, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Metadata, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	return u, n, nil
}

func (textUnitMUS) Size(u core.TextUnit) (size int) {
	size = IDMUS.Size(u.ID)
	size += IDMUS.Size(u.Collection.Tenant)
	size += IDMUS.Size(u.Collection.Chat)
	size += IDMUS.Size(u.DocumentID)
	size += ord.String.Size(u.UnitType)
	size += ord.String.Size(u.Text)
	size += varint.Int.Size(u.Sequence)
	size += varint.Int.Size(u.Level)
	size += varint.Int.Size(u.PageNumber)
	size += ord.String.Size(u.SectionTitle)
	size += sizeStringMap(u.Metadata)
	return size
}

// SparseIndexMUS serializes core.SparseIndex.
var SparseIndexMUS = sparseIndexMUS{}

type sparseIndexMUS struct{}

func (sparseIndexMUS) Marshal(idx core.SparseIndex, bs []byte) (n int) {
	n = varint.Int.Marshal(len(idx.Corpus), bs)
	for _, tokens := range idx.Corpus {
		n += marshalStringSlice(tokens, bs[n:])
	}
	n += varint.Int.Marshal(len(idx.UnitIDs), bs[n:])
	for _, id := range idx.UnitIDs {
		n += IDMUS.Marshal(id, bs[n:])
	}
	n += varint.Int.Marshal(len(idx.Meta), bs[n:])
	for _, meta := range idx.Meta {
		n += UnitMetaMUS.Marshal(meta, bs[n:])
	}
	n += varint.Int.Marshal(idx.DocumentCount, bs[n:])
	n += varint.Int.Marshal(idx.TotalTokens, bs[n:])
	n += varint.Uint64.Marshal(idx.Version, bs[n:])
	n += varint.Int64.Marshal(idx.UpdatedAt, bs[n:])
	return n
}

func (sparseIndexMUS) Unmarshal(bs []byte) (idx core.SparseIndex, n int, err error) {
	var n1, count int
	if count, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	idx.Corpus = make([][]string, count)
	for i := range idx.Corpus {
		if idx.Corpus[i], n1, err = unmarshalStringSlice(bs[n:]); err != nil {
			return idx, n + n1, err
		}
		n += n1
	}
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return idx, n + n1, err
	}
	n += n1
	idx.UnitIDs = make([]core.ID, count)
	for i := range idx.UnitIDs {
		if idx.UnitIDs[i], n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
			return idx, n + n1, err
		}
		n += n1
	}
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return idx, n + n1, err
	}
	n += n1
	idx.Meta = make([]core.UnitMeta, count)
	for i := range idx.Meta {
		if idx.Meta[i], n1, err = UnitMetaMUS.Unmarshal(bs[n:]); err != nil {
			return idx, n + n1, err
		}
		n += n1
	}
	if idx.DocumentCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return idx, n + n1, err
	}
	n += n1
	if idx.TotalTokens, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return idx, n + n1, err
	}
	n += n1
	if idx.Version, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return idx, n + n1, err
	}
	n += n1
	if idx.UpdatedAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return idx, n + n1, err
	}
	n += n1
	return idx, n, nil
}

func (sparseIndexMUS) Size(idx core.SparseIndex) (size int) {
	size = varint.Int.Size(len(idx.Corpus))
	for _, tokens := range idx.Corpus {
		size += sizeStringSlice(tokens)
	}
	size += varint.Int.Size(len(idx.UnitIDs))
	for _, id := range idx.UnitIDs {
		size += IDMUS.Size(id)
	}
	size += varint.Int.Size(len(idx.Meta))
	for _, meta := range idx.Meta {
		size += UnitMetaMUS.Size(meta)
	}
	size += varint.Int.Size(idx.DocumentCount)
	size += varint.Int.Size(idx.TotalTokens)
	size += varint.Uint64.Size(idx.Version)
	size += varint.Int64.Size(idx.UpdatedAt)
	return size
}

// GraphNodeMUS serializes core.GraphNode.
var GraphNodeMUS = graphNodeMUS{}

type graphNodeMUS struct{}

func (graphNodeMUS) Marshal(node core.GraphNode, bs []byte) (n int) {
	n = IDMUS.Marshal(node.NodeID, bs)
	n += ord.String.Marshal(node.NodeType, bs[n:])
	n += ord.String.Marshal(node.Text, bs[n:])
	n += varint.Int.Marshal(node.Level, bs[n:])
	n += varint.Int.Marshal(node.Sequence, bs[n:])
	n += IDMUS.Marshal(node.DocumentID, bs[n:])
	n += varint.Int.Marshal(node.PageNumber, bs[n:])
	n += ord.String.Marshal(node.SectionTitle, bs[n:])
	n += marshalStringMap(node.Metadata, bs[n:])
	return n
}

func (graphNodeMUS) Unmarshal(bs []byte) (node core.GraphNode, n int, err error) {
	var n1 int
	if node.NodeID, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if node.NodeType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return node, n + n1, err
	}
	n += n1
	if node.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return node, n + n1, err
	}
	n += n1
	if node.Level, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return node, n + n1, err
	}
	n += n1
	if node.Sequence, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return node, n + n1, err
	}
	n += n1
	if node.DocumentID, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return node, n + n1, err
	}
	n += n1
	if node.PageNumber, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return node, n + n1, err
	}
	n += n1
	if node.SectionTitle, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return node, n + n1, err
	}
	n += n1
	if node.Metadata, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return node, n + n1, err
	}
	n += n1
	return node, n, nil
}

func (graphNodeMUS) Size(node core.GraphNode) (size int) {
	size = IDMUS.Size(node.NodeID)
	size += ord.String.Size(node.NodeType)
	size += ord.String.Size(node.Text)
	size += varint.Int.Size(node.Level)
	size += varint.Int.Size(node.Sequence)
	size += IDMUS.Size(node.DocumentID)
	size += varint.Int.Size(node.PageNumber)
	size += ord.String.Size(node.SectionTitle)
	size += sizeStringMap(node.Metadata)
	return size
}

// GraphEdgeMUS serializes core.GraphEdge.
var GraphEdgeMUS = graphEdgeMUS{}

type graphEdgeMUS struct{}

func (graphEdgeMUS) Marshal(edge core.GraphEdge, bs []byte) (n int) {
	n = IDMUS.Marshal(edge.SourceID, bs)
	n += IDMUS.Marshal(edge.TargetID, bs[n:])
	n += ord.String.Marshal(string(edge.Type), bs[n:])
	n += marshalStringMap(edge.Metadata, bs[n:])
	return n
}

func (graphEdgeMUS) Unmarshal(bs []byte) (edge core.GraphEdge, n int, err error) {
	var n1 int
	if edge.SourceID, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if edge.TargetID, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return edge, n + n1, err
	}
	n += n1
	var edgeType string
	if edgeType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return edge, n + n1, err
	}
	n += n1
	edge.Type = core.EdgeType(edgeType)
	if edge.Metadata, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return edge, n + n1, err
	}
	n += n1
	return edge, n, nil
}

func (graphEdgeMUS) Size(edge core.GraphEdge) (size int) {
	size = IDMUS.Size(edge.SourceID)
	size += IDMUS.Size(edge.TargetID)
	size += ord.String.Size(string(edge.Type))
	size += sizeStringMap(edge.Metadata)
	return size
}

// DocumentGraphMUS serializes core.DocumentGraph. Nodes are written sorted
// by node ID so the encoding is deterministic.
var DocumentGraphMUS = documentGraphMUS{}

type documentGraphMUS struct{}

func (documentGraphMUS) Marshal(graph core.DocumentGraph, bs []byte) (n int) {
	nodes := sortedNodes(graph.Nodes)
	n = varint.Int.Marshal(len(nodes), bs)
	for _, node := range nodes {
		n += GraphNodeMUS.Marshal(node, bs[n:])
	}
	n += varint.Int.Marshal(len(graph.Edges), bs[n:])
	for _, edge := range graph.Edges {
		n += GraphEdgeMUS.Marshal(edge, bs[n:])
	}
	n += varint.Int.Marshal(graph.NodeCount, bs[n:])
	n += varint.Int.Marshal(graph.EdgeCount, bs[n:])
	n += marshalCountMap(graph.Stats.EdgeTypeCounts, bs[n:])
	n += marshalCountMap(graph.Stats.NodeTypeCounts, bs[n:])
	n += varint.Float64.Marshal(graph.Stats.AvgNodeDegree, bs[n:])
	n += varint.Int64.Marshal(graph.UpdatedAt, bs[n:])
	return n
}

func (documentGraphMUS) Unmarshal(bs []byte) (graph core.DocumentGraph, n int, err error) {
	var n1, count int
	if count, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	graph.Nodes = make(map[core.ID]core.GraphNode, count)
	for i := 0; i < count; i++ {
		var node core.GraphNode
		if node, n1, err = GraphNodeMUS.Unmarshal(bs[n:]); err != nil {
			return graph, n + n1, err
		}
		n += n1
		graph.Nodes[node.NodeID] = node
	}
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return graph, n + n1, err
	}
	n += n1
	graph.Edges = make([]core.GraphEdge, count)
	for i := range graph.Edges {
		if graph.Edges[i], n1, err = GraphEdgeMUS.Unmarshal(bs[n:]); err != nil {
			return graph, n + n1, err
		}
		n += n1
	}
	if graph.NodeCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return graph, n + n1, err
	}
	n += n1
	if graph.EdgeCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return graph, n + n1, err
	}
	n += n1
	if graph.Stats.EdgeTypeCounts, n1, err = unmarshalCountMap(bs[n:]); err != nil {
		return graph, n + n1, err
	}
	n += n1
	if graph.Stats.NodeTypeCounts, n1, err = unmarshalCountMap(bs[n:]); err != nil {
		return graph, n + n1, err
	}
	n += n1
	if graph.Stats.AvgNodeDegree, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return graph, n + n1, err
	}
	n += n1
	if graph.UpdatedAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return graph, n + n1, err
	}
	n += n1
	return graph, n, nil
}

func (documentGraphMUS) Size(graph core.DocumentGraph) (size int) {
	size = varint.Int.Size(len(graph.Nodes))
	for _, node := range graph.Nodes {
		size += GraphNodeMUS.Size(node)
	}
	size += varint.Int.Size(len(graph.Edges))
	for _, edge := range graph.Edges {
		size += GraphEdgeMUS.Size(edge)
	}
	size += varint.Int.Size(graph.NodeCount)
	size += varint.Int.Size(graph.EdgeCount)
	size += sizeCountMap(graph.Stats.EdgeTypeCounts)
	size += sizeCountMap(graph.Stats.NodeTypeCounts)
	size += varint.Float64.Size(graph.Stats.AvgNodeDegree)
	size += varint.Int64.Size(graph.UpdatedAt)
	return size
}

// VectorPointMUS serializes core.VectorPoint.
var VectorPointMUS = vectorPointMUS{}

type vectorPointMUS struct{}

func (vectorPointMUS) Marshal(point core.VectorPoint, bs []byte) (n int) {
	n = IDMUS.Marshal(point.UnitID, bs)
	n += varint.Int.Marshal(len(point.Vector), bs[n:])
	for _, v := range point.Vector {
		n += varint.Float32.Marshal(v, bs[n:])
	}
	n += UnitMetaMUS.Marshal(point.Meta, bs[n:])
	return n
}

func (vectorPointMUS) Unmarshal(bs []byte) (point core.VectorPoint, n int, err error) {
	var n1, count int
	if point.UnitID, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return point, n + n1, err
	}
	n += n1
	point.Vector = make([]float32, count)
	for i := range point.Vector {
		if point.Vector[i], n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
			return point, n + n1, err
		}
		n += n1
	}
	if point.Meta, n1, err = UnitMetaMUS.Unmarshal(bs[n:]); err != nil {
		return point, n + n1, err
	}
	n += n1
	return point, n, nil
}

func (vectorPointMUS) Size(point core.VectorPoint) (size int) {
	size = IDMUS.Size(point.UnitID)
	size += varint.Int.Size(len(point.Vector))
	for _, v := range point.Vector {
		size += varint.Float32.Size(v)
	}
	size += UnitMetaMUS.Size(point.Meta)
	return size
}

// helpers

func marshalStringSlice(values []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(values), bs)
	for _, v := range values {
		n += ord.String.Marshal(v, bs[n:])
	}
	return n
}

func unmarshalStringSlice(bs []byte) (values []string, n int, err error) {
	var n1, count int
	if count, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	values = make([]string, count)
	for i := range values {
		if values[i], n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return values, n + n1, err
		}
		n += n1
	}
	return values, n, nil
}

func sizeStringSlice(values []string) (size int) {
	size = varint.Int.Size(len(values))
	for _, v := range values {
		size += ord.String.Size(v)
	}
	return size
}

// String maps are written sorted by key for deterministic encoding.
func marshalStringMap(m map[string]string, bs []byte) (n int) {
	keys := sortedKeys(m)
	n = varint.Int.Marshal(len(keys), bs)
	for _, k := range keys {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(m[k], bs[n:])
	}
	return n
}

func unmarshalStringMap(bs []byte) (m map[string]string, n int, err error) {
	var n1, count int
	if count, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	if count == 0 {
		return nil, n, nil
	}
	m = make(map[string]string, count)
	for i := 0; i < count; i++ {
		var k, v string
		if k, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return m, n + n1, err
		}
		n += n1
		if v, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return m, n + n1, err
		}
		n += n1
		m[k] = v
	}
	return m, n, nil
}

func sizeStringMap(m map[string]string) (size int) {
	size = varint.Int.Size(len(m))
	for k, v := range m {
		size += ord.String.Size(k)
		size += ord.String.Size(v)
	}
	return size
}

func marshalCountMap(m map[string]int, bs []byte) (n int) {
	keys := sortedKeys(m)
	n = varint.Int.Marshal(len(keys), bs)
	for _, k := range keys {
		n += ord.String.Marshal(k, bs[n:])
		n += varint.Int.Marshal(m[k], bs[n:])
	}
	return n
}

func unmarshalCountMap(bs []byte) (m map[string]int, n int, err error) {
	var n1, count int
	if count, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	if count == 0 {
		return nil, n, nil
	}
	m = make(map[string]int, count)
	for i := 0; i < count; i++ {
		var k string
		var v int
		if k, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return m, n + n1, err
		}
		n += n1
		if v, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
			return m, n + n1, err
		}
		n += n1
		m[k] = v
	}
	return m, n, nil
}

func sizeCountMap(m map[string]int) (size int) {
	size = varint.Int.Size(len(m))
	for k, v := range m {
		size += ord.String.Size(k)
		size += varint.Int.Size(v)
	}
	return size
}
