package consult

import (
	"errors"

	"medbot/internal/llm"
)

// ErrMalformedTranscript marks a conversation payload that is not a
// well-formed ordered sequence of role/content pairs.
var ErrMalformedTranscript = errors.New("conversation must be a list of role/content messages")

// Message is one transcript entry. Content is the canonical English text;
// Localized carries the patient-language copy when translation is in play.
type Message struct {
	Role      llm.Role `json:"role"`
	Content   string   `json:"content"`
	Localized string   `json:"localized,omitempty"`
}

// Transcript is the ordered message sequence owned by the caller; the backend
// is stateless between requests. Invariant: at most one system message, and
// when present it is the first element.
type Transcript []Message

func (t Transcript) Validate() error {
	for i, m := range t {
		switch m.Role {
		case llm.RoleSystem, llm.RoleUser, llm.RoleAssistant:
		default:
			return ErrMalformedTranscript
		}
		if m.Content == "" {
			return ErrMalformedTranscript
		}
		if m.Role == llm.RoleSystem && i != 0 {
			return ErrMalformedTranscript
		}
	}
	return nil
}

// SetSystem removes any existing system message and inserts content at
// position 0, so the invariant cannot be violated by repeated calls.
func (t Transcript) SetSystem(content string) Transcript {
	out := make(Transcript, 0, len(t)+1)
	out = append(out, Message{Role: llm.RoleSystem, Content: content})
	for _, m := range t {
		if m.Role == llm.RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (t Transcript) AppendUser(content, localized string) Transcript {
	return append(t, Message{Role: llm.RoleUser, Content: content, Localized: localized})
}

func (t Transcript) AppendAssistant(content, localized string) Transcript {
	return append(t, Message{Role: llm.RoleAssistant, Content: content, Localized: localized})
}

// Messages converts the transcript to the wire shape of the chat provider.
func (t Transcript) Messages() []llm.Message {
	out := make([]llm.Message, len(t))
	for i, m := range t {
		out[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
