package consult

import (
	"context"
	"errors"
	"os"
	"strings"

	"medbot/internal/llm"
	mylog "medbot/internal/log"
	"medbot/internal/prompt"
	"medbot/internal/translate"
)

// ErrInvalidInput marks a missing or empty user input.
var ErrInvalidInput = errors.New("invalid input")

// KeywordExtractor produces the deduplicated keyword set for retrieval.
type KeywordExtractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// Grounding bundles the optional capabilities of the guideline-grounded
// variant. A nil Grounding gives the plain conversational flow; both run
// through the same orchestrator.
type Grounding struct {
	Translator *translate.Translator
	Extractor  KeywordExtractor
	Retriever  *Retriever
	// History returns the patient's medical-history summary; optional.
	History func(ctx context.Context) (string, error)
}

// Orchestrator drives one consultation conversation over a stateless
// transcript that round-trips through the client on every call.
type Orchestrator struct {
	llm       llm.ChatProvider
	model     string
	grounding *Grounding
	lg        *mylog.Logger
}

func NewOrchestrator(p llm.ChatProvider, g *Grounding) *Orchestrator {
	return &Orchestrator{
		llm:       p,
		model:     os.Getenv("MEDBOT_CHAT_MODEL"),
		grounding: g,
		lg:        mylog.New(),
	}
}

// Start initializes a transcript with the system prompt for language and the
// localized assistant greeting.
func (o *Orchestrator) Start(language string) (string, Transcript) {
	greeting := prompt.Greeting(language)
	var t Transcript
	t = t.SetSystem(prompt.System(language))
	t = t.AppendAssistant(greeting, "")
	return greeting, t
}

// Continue runs one turn: validate, append the user input, optionally refresh
// the system prompt with freshly retrieved guideline context, complete, and
// append the reply. The updated transcript is returned verbatim; remote
// failures propagate to the caller untouched.
func (o *Orchestrator) Continue(ctx context.Context, t Transcript, input, language string) (Transcript, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrInvalidInput
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if language == "" {
		language = prompt.DefaultLanguage
	}

	if o.grounding == nil {
		t = t.AppendUser(input, "")
	} else {
		english, err := o.grounding.Translator.ToEnglish(ctx, input, language)
		if err != nil {
			return nil, err
		}
		localized := ""
		if english != input {
			localized = input
		}
		t = t.AppendUser(english, localized)

		keywords, err := o.grounding.Extractor.Extract(ctx, english)
		if err != nil {
			return nil, err
		}
		guidelines, err := o.grounding.Retriever.Context(ctx, keywords)
		if err != nil {
			return nil, err
		}
		history := ""
		if o.grounding.History != nil {
			if history, err = o.grounding.History(ctx); err != nil {
				return nil, err
			}
		}
		// prior system message is discarded: guideline context is rebuilt
		// fresh on every turn
		t = t.SetSystem(prompt.WithContext(prompt.System(language), history, guidelines))
		o.lg.Debug("consult.grounded", "keywords", len(keywords), "context_chars", len(guidelines))
	}

	reply, err := o.llm.Chat(ctx, o.model, t.Messages(), -1)
	if err != nil {
		return nil, err
	}
	localizedReply := ""
	if o.grounding != nil {
		if localizedReply, err = o.grounding.Translator.FromEnglish(ctx, reply, language); err != nil {
			return nil, err
		}
		if localizedReply == reply {
			localizedReply = ""
		}
	}
	t = t.AppendAssistant(reply, localizedReply)
	return t, nil
}
