package core

import "strconv"

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing by the document pipeline.
type ID uint64

// String renders the ID in decimal, matching the CLI and log output format.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// CollectionID identifies one tenant-scoped document collection ("chat").
// Every index, graph and vector lookup is keyed by the full pair; no
// operation may read across this boundary.
type CollectionID struct {
	Tenant ID
	Chat   ID
}

// String returns "tenant/chat", used in log attributes and cache keys.
func (c CollectionID) String() string {
	return c.Tenant.String() + "/" + c.Chat.String()
}

// TextUnit is the smallest addressable chunk of a parsed document
// (paragraph, heading, table row). Units are produced by the document
// pipeline, ordered by Sequence within a document, and immutable once
// created.
type TextUnit struct {
	ID           ID
	Collection   CollectionID
	DocumentID   ID
	UnitType     string
	Text         string
	Sequence     int
	Level        int
	PageNumber   int // 0 when unknown
	SectionTitle string
	Metadata     map[string]string
}

// Meta returns the payload subset carried by sparse indexes and vector
// points for this unit.
func (u *TextUnit) Meta() UnitMeta {
	return UnitMeta{
		DocumentID:   u.DocumentID,
		UnitType:     u.UnitType,
		Sequence:     u.Sequence,
		PageNumber:   u.PageNumber,
		SectionTitle: u.SectionTitle,
	}
}

// UnitMeta is the per-unit metadata stored alongside index entries and
// vector points so hits can be attributed without loading the full unit.
type UnitMeta struct {
	DocumentID   ID
	UnitType     string
	Sequence     int
	PageNumber   int
	SectionTitle string
}

// SparseIndex is the persisted BM25 state for one collection: parallel
// arrays where index i of Corpus, UnitIDs and Meta all refer to the same
// unit. Rebuilt in full on every (re)index event.
type SparseIndex struct {
	Corpus        [][]string
	UnitIDs       []ID
	Meta          []UnitMeta
	DocumentCount int
	TotalTokens   int
	Version       uint64 // bumped on every rebuild; invalidates ranking caches
	UpdatedAt     int64  // unix micro
}

// EdgeType classifies a directed edge in the document graph.
type EdgeType string

const (
	EdgeContains EdgeType = "CONTAINS"
	EdgeNext     EdgeType = "NEXT"
	EdgeRefersTo EdgeType = "REFERS_TO"
	EdgePartOf   EdgeType = "PART_OF"
)

// GraphNode mirrors a text unit inside the document graph.
type GraphNode struct {
	NodeID       ID
	NodeType     string
	Text         string
	Level        int
	Sequence     int
	DocumentID   ID
	PageNumber   int
	SectionTitle string
	Metadata     map[string]string
}

// GraphEdge is a directed, typed edge. Parallel edges of different types
// between the same pair are allowed.
type GraphEdge struct {
	SourceID ID
	TargetID ID
	Type     EdgeType
	Metadata map[string]string
}

// GraphStats summarizes a built graph.
type GraphStats struct {
	EdgeTypeCounts map[string]int
	NodeTypeCounts map[string]int
	AvgNodeDegree  float64
}

// DocumentGraph is the persisted graph for one collection, rebuilt
// wholesale like the sparse index.
type DocumentGraph struct {
	Nodes     map[ID]GraphNode
	Edges     []GraphEdge
	NodeCount int
	EdgeCount int
	Stats     GraphStats
	UpdatedAt int64 // unix micro
}

// Neighbor is one node discovered during breadth-first neighbor expansion,
// with the edge it was reached through and its hop distance from the start.
type Neighbor struct {
	Node     GraphNode
	Edge     GraphEdge
	Distance int
}

// QueryType classifies a user query for routing.
type QueryType string

const (
	QueryExactReference   QueryType = "exact_reference"
	QueryKeywordSearch    QueryType = "keyword_search"
	QuerySemanticQuestion QueryType = "semantic_question"
	QueryHybrid           QueryType = "hybrid_query"
	QueryUnclear          QueryType = "unclear"
)

// QueryLanguage is the detected language of a query or document.
type QueryLanguage string

const (
	LanguageUzbek   QueryLanguage = "uz"
	LanguageRussian QueryLanguage = "ru"
	LanguageEnglish QueryLanguage = "en"
	LanguageMixed   QueryLanguage = "mixed"
	LanguageUnknown QueryLanguage = "unknown"
)

// QueryCharacteristics is the analyzer's view of a query. Derived per
// request, never persisted.
type QueryCharacteristics struct {
	QueryType              QueryType
	Language               QueryLanguage
	HasNumbers             bool
	HasExactPhrases        bool
	HasQuestionWords       bool
	WordCount              int
	ContainsTechnicalTerms bool
	Confidence             float64
}

// RetrievalMode selects the retrieval strategy for one request.
type RetrievalMode string

const (
	ModeDenseOnly     RetrievalMode = "dense_only"
	ModeSparseOnly    RetrievalMode = "sparse_only"
	ModeHybrid        RetrievalMode = "hybrid"
	ModeGraphEnhanced RetrievalMode = "graph_enhanced"
)

// StrictnessDocsOnly restricts answers to retrieved documents and tightens
// routing thresholds.
const StrictnessDocsOnly = "strict_docs_only"

// CollectionConfig carries the collection-level settings that influence
// routing. Owned by the excluded CRUD layer; read-only here.
type CollectionConfig struct {
	Strictness string
	Purpose    string
}

// RoutingDecision is the router's chosen retrieval plan for one query.
type RoutingDecision struct {
	SelectedMode        RetrievalMode
	TopK                int
	ScoreThreshold      float64
	ExpandWithNeighbors bool
	NeighborHops        int
	Reasoning           string
	Characteristics     QueryCharacteristics
}

// ContextSource names the retrieval stage a context came from.
type ContextSource string

const (
	SourceDense  ContextSource = "dense"
	SourceSparse ContextSource = "sparse"
	SourceGraph  ContextSource = "graph"
	SourceFusion ContextSource = "fusion"
)

// RetrievedContext is the unit of retrieval output: one ranked, attributable
// text chunk.
type RetrievedContext struct {
	UnitID       ID
	Text         string
	Score        float64
	Source       ContextSource
	DocumentID   ID
	UnitType     string
	Sequence     int
	PageNumber   int
	SectionTitle string

	// Per-stage attribution, zero when the stage did not contribute.
	DenseScore    float64
	SparseScore   float64
	GraphDistance int
}

// VectorPoint is one embedded unit stored in the vector index.
type VectorPoint struct {
	UnitID ID
	Vector []float32
	Meta   UnitMeta
}

// ScoredUnit is an intermediate ranked hit flowing between retrievers,
// fusion and neighbor expansion before enrichment.
type ScoredUnit struct {
	UnitID        ID
	Score         float64
	Source        ContextSource
	Meta          UnitMeta
	DenseScore    float64
	SparseScore   float64
	GraphDistance int
}
