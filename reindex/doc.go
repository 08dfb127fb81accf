// Package reindex re-embeds the text units of a collection with a new or
// updated embedding model and rewrites its vector points in place.
//
// The package supports batch processing, progress tracking, retry logic
// with exponential backoff, and vector normalization so cosine and dot
// product similarity agree.
package reindex
