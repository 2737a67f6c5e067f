package llm

import (
	"context"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatProvider provides chat completion APIs. A negative temperature means the
// provider default (some models reject an explicit value).
type ChatProvider interface {
	Chat(ctx context.Context, model string, messages []Message, temperature float32) (string, error)
}

// Embedder provides embedding generation APIs.
type Embedder interface {
	Embeddings(ctx context.Context, model string, inputs []string) ([][]float32, error)
}
