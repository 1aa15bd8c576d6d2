// Package embedding maps text to fixed-dimension vectors.
//
// The same provider is used for indexing uploads and embedding chat
// queries, so both live in one embedding space.
package embedding

import "context"

// Provider generates vector embeddings for text.
type Provider interface {
	// Embed generates embeddings for the given texts, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding dimension.
	Dimension() int
}
