package vectorindex

import (
	"context"
	"errors"
	"math"

	"medbot/internal/guideline"
)

// Dim is the embedding dimension produced by the configured embedding model.
const Dim = 1536

var ErrDimension = errors.New("vectorindex: vector dimension mismatch")

// Index stores chunk embeddings with positionally matched chunk metadata:
// vector i always corresponds to chunk i. It is built once at startup and is
// read-only afterwards; Search ranks by Euclidean distance, nearest first.
type Index interface {
	Add(ctx context.Context, vec []float32, chunk guideline.Chunk) error
	Search(ctx context.Context, query []float32, k int) ([]guideline.Chunk, error)
	Len() int
}

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
