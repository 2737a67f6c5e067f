// Package ner wraps a biomedical named-entity recognition model server
// exposing a HuggingFace-style inference endpoint.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	mylog "medbot/internal/log"
)

type entity struct {
	Word  string `json:"word"`
	Group string `json:"entity_group"`
}

type Client struct {
	baseURL string
	http    *http.Client
	lg      *mylog.Logger
}

// NewFromEnv builds a client for MEDBOT_NER_URL and probes the model server.
// The model being loadable is a startup precondition: a failed probe is
// returned as an error and the caller must treat it as fatal.
func NewFromEnv(ctx context.Context) (*Client, error) {
	base := os.Getenv("MEDBOT_NER_URL")
	if base == "" {
		return nil, errors.New("ner: MEDBOT_NER_URL not set")
	}
	c := &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		lg:      mylog.New(),
	}
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := c.Extract(probeCtx, "ping"); err != nil {
		return nil, fmt.Errorf("ner: model server probe failed: %w", err)
	}
	c.lg.Info("ner.ready", "url", c.baseURL)
	return c, nil
}

// Extract runs the recognizer and returns the set of distinct entity surface
// strings, lower-cased. Duplicates collapse under case-insensitive comparison;
// the result is sorted so repeated calls on the same text are identical.
func (c *Client) Extract(ctx context.Context, text string) ([]string, error) {
	b, _ := json.Marshal(map[string]string{"text": text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ner", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ner http %d: %s", resp.StatusCode, string(data))
	}
	var ents []entity
	if err := json.NewDecoder(resp.Body).Decode(&ents); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(ents))
	out := make([]string, 0, len(ents))
	for _, e := range ents {
		w := strings.ToLower(strings.TrimSpace(e.Word))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out, nil
}
