// Package vectorstore holds indexed resume documents and serves
// nearest-neighbor retrieval over them.
//
// Documents are append-only: every upload becomes one document, nothing is
// updated or deleted. Each implementation persists its full state to a
// durable location after every insert, and reloads it at startup when the
// artifact exists. The on-disk formats are trusted: they are produced only
// by this service and must never be loaded from an untrusted source.
package vectorstore

import (
	"context"
	"math"
	"sort"
	"time"
)

// DefaultTopK is the number of documents retrieved when the caller does
// not specify k.
const DefaultTopK = 4

// Document is one indexed text blob with its embedding vector.
type Document struct {
	ID      string
	Text    string
	Vector  []float32
	AddedAt time.Time
}

// Result is a retrieved document with its similarity score.
type Result struct {
	Document
	Score float32
}

// Store is the interface over the process-wide document index.
type Store interface {
	// Insert embeds text, appends it as a new document and persists the
	// store. It returns the store version after the insert; versions
	// increase by one per successful insert, so concurrent readers can
	// reason about which state they observed.
	Insert(ctx context.Context, text string) (version int64, err error)

	// Retrieve returns the k most relevant documents for the query,
	// best first. k <= 0 uses DefaultTopK. Retrieving from an empty
	// store is an error; callers check Len first and degrade.
	Retrieve(ctx context.Context, query string, k int) ([]Result, error)

	// Len returns the number of indexed documents.
	Len() int

	// Version returns the current store version.
	Version() int64

	// Close releases any underlying resources.
	Close() error
}

// cosineSimilarity computes cosine similarity between two vectors.
// Mismatched lengths compare over the shorter prefix.
func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// rankByCosine scores docs against the query vector and returns the top k.
func rankByCosine(docs []Document, queryVec []float32, k int) []Result {
	results := make([]Result, 0, len(docs))
	for _, d := range docs {
		results = append(results, Result{Document: d, Score: cosineSimilarity(queryVec, d.Vector)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}
