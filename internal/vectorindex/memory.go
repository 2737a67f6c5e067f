package vectorindex

import (
	"context"
	"sort"

	"medbot/internal/guideline"
)

// Memory is a flat in-process index with exact nearest-neighbor scan.
type Memory struct {
	vectors [][]float32
	chunks  []guideline.Chunk
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Add(ctx context.Context, vec []float32, chunk guideline.Chunk) error {
	if len(m.vectors) > 0 && len(vec) != len(m.vectors[0]) {
		return ErrDimension
	}
	m.vectors = append(m.vectors, vec)
	m.chunks = append(m.chunks, chunk)
	return nil
}

func (m *Memory) Search(ctx context.Context, query []float32, k int) ([]guideline.Chunk, error) {
	if k <= 0 || len(m.vectors) == 0 {
		return nil, nil
	}
	if len(query) != len(m.vectors[0]) {
		return nil, ErrDimension
	}
	type scored struct {
		pos  int
		dist float64
	}
	scores := make([]scored, len(m.vectors))
	for i, v := range m.vectors {
		scores[i] = scored{pos: i, dist: euclidean(query, v)}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].dist < scores[j].dist })
	if k > len(scores) {
		k = len(scores)
	}
	out := make([]guideline.Chunk, 0, k)
	for _, s := range scores[:k] {
		out = append(out, m.chunks[s.pos])
	}
	return out, nil
}

func (m *Memory) Len() int { return len(m.vectors) }
