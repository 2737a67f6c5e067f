// Package translate localizes text through a zero-temperature chat completion.
// Correctness is delegated entirely to the underlying model: no glossary, no
// back-translation check.
package translate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"medbot/internal/llm"
)

const promptTemplate = "Translate the following %s text to %s:\n\n%s"

type Translator struct {
	llm   llm.ChatProvider
	model string
}

func New(p llm.ChatProvider) *Translator {
	return &Translator{llm: p, model: os.Getenv("MEDBOT_CHAT_MODEL")}
}

// Translate converts text from one spoken language to another. Same-language
// calls (and empty input) return the text unchanged without a model call.
func (t *Translator) Translate(ctx context.Context, text, from, to string) (string, error) {
	if strings.TrimSpace(text) == "" || strings.EqualFold(from, to) {
		return text, nil
	}
	msg := llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf(promptTemplate, from, to, text),
	}
	out, err := t.llm.Chat(ctx, t.model, []llm.Message{msg}, 0)
	if err != nil {
		return "", fmt.Errorf("translate %s to %s: %w", from, to, err)
	}
	return strings.TrimSpace(out), nil
}

// ToEnglish normalizes patient input for keyword extraction.
func (t *Translator) ToEnglish(ctx context.Context, text, from string) (string, error) {
	return t.Translate(ctx, text, from, "English")
}

// FromEnglish localizes an assistant reply for display.
func (t *Translator) FromEnglish(ctx context.Context, text, to string) (string, error) {
	return t.Translate(ctx, text, "English", to)
}
