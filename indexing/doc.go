// Package indexing orchestrates making a collection searchable: it persists
// the text units, builds the sparse index and the document graph, and embeds
// the units into the vector store on a bounded worker pool.
package indexing
