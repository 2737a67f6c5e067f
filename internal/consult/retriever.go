package consult

import (
	"context"
	"fmt"
	"os"
	"strings"

	"medbot/internal/llm"
	"medbot/internal/vectorindex"
)

// TopK is the number of guideline chunks retrieved per turn.
const TopK = 3

// Retriever joins extracted keywords to the vector index.
type Retriever struct {
	emb   llm.Embedder
	idx   vectorindex.Index
	model string
}

func NewRetriever(emb llm.Embedder, idx vectorindex.Index) *Retriever {
	return &Retriever{emb: emb, idx: idx, model: os.Getenv("MEDBOT_EMBEDDING_MODEL")}
}

// Context embeds the comma-joined keyword set, searches the index, and returns
// the retrieved chunk texts joined with blank lines for prompt insertion. An
// empty keyword set skips retrieval entirely: no guideline grounding beats a
// meaningless query.
func (r *Retriever) Context(ctx context.Context, keywords []string) (string, error) {
	if len(keywords) == 0 {
		return "", nil
	}
	query := strings.Join(keywords, ", ")
	vecs, err := r.emb.Embeddings(ctx, r.model, []string{query})
	if err != nil {
		return "", fmt.Errorf("embedding query: %w", err)
	}
	if len(vecs) == 0 {
		return "", fmt.Errorf("embedding query: empty response")
	}
	chunks, err := r.idx.Search(ctx, vecs[0], TopK)
	if err != nil {
		return "", fmt.Errorf("searching index: %w", err)
	}
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	return strings.Join(texts, "\n\n"), nil
}
