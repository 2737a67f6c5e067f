package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"medbot/internal/llm"
	mylog "medbot/internal/log"
)

// ErrEmptyInput is returned before any network call when an embedding input is
// empty or whitespace-only.
var ErrEmptyInput = errors.New("openai: empty embedding input")

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	lg      *mylog.Logger
}

func NewFromEnv() *Client {
	base := os.Getenv("MEDBOT_OPENAI_BASE_URL")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  os.Getenv("MEDBOT_OPENAI_API_KEY"),
		http:    &http.Client{Timeout: 120 * time.Second},
		lg:      mylog.New(),
	}
}

// Chat implements llm.ChatProvider using an OpenAI-compatible API.
// Failures are surfaced to the caller as-is; there is no retry.
func (c *Client) Chat(ctx context.Context, model string, messages []llm.Message, temperature float32) (string, error) {
	if model == "" {
		model = os.Getenv("MEDBOT_CHAT_MODEL")
		if model == "" {
			model = "gpt-5"
		}
	}
	reqBody := map[string]any{
		"model":    model,
		"messages": messages,
	}
	if temperature >= 0 {
		reqBody["temperature"] = temperature
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.lg.Error("chat.request", "err", err.Error())
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat http %d: %s", resp.StatusCode, string(data))
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat: no choices in response")
	}
	return out.Choices[0].Message.Content, nil
}

// Embeddings implements llm.Embedder using an OpenAI-compatible API.
func (c *Client) Embeddings(ctx context.Context, model string, inputs []string) ([][]float32, error) {
	for _, in := range inputs {
		if strings.TrimSpace(in) == "" {
			return nil, ErrEmptyInput
		}
	}
	if model == "" {
		model = os.Getenv("MEDBOT_EMBEDDING_MODEL")
		if model == "" {
			model = "text-embedding-ada-002"
		}
	}
	reqBody := map[string]any{
		"model": model,
		"input": inputs,
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.lg.Error("embeddings.request", "err", err.Error())
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings http %d: %s", resp.StatusCode, string(data))
	}
	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	res := make([][]float32, 0, len(out.Data))
	for _, d := range out.Data {
		res = append(res, d.Embedding)
	}
	return res, nil
}
