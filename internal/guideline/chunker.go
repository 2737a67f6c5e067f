package guideline

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Chunk is a bounded-size excerpt of guideline text used as a retrieval unit.
// Immutable once created.
type Chunk struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// TokenCounter reports how many model tokens a string encodes to.
type TokenCounter func(text string) int

// DefaultTokenBudget is the chunk size limit in tokens.
const DefaultTokenBudget = 500

// NewTiktokenCounter returns a counter backed by the cl100k_base encoding,
// matching the embedding model family.
func NewTiktokenCounter() (TokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}, nil
}

// Split cuts text on ". " sentence boundaries and accumulates sentences into
// chunks of fewer than budget tokens. A sentence is never split: when the
// buffer plus the next sentence would reach the budget, the buffer closes and
// the sentence starts a new chunk, so a single oversized sentence becomes an
// oversized chunk. The final non-empty buffer always flushes.
func Split(text, source string, budget int, count TokenCounter) []Chunk {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	var chunks []Chunk
	var buf string
	for _, sentence := range strings.Split(text, ". ") {
		if sentence == "" {
			continue
		}
		if buf == "" {
			buf = sentence
			continue
		}
		joined := buf + ". " + sentence
		if count(joined) >= budget {
			chunks = append(chunks, Chunk{Text: buf, Source: source})
			buf = sentence
		} else {
			buf = joined
		}
	}
	if strings.TrimSpace(buf) != "" {
		chunks = append(chunks, Chunk{Text: buf, Source: source})
	}
	return chunks
}
