package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"medbot/internal/consult"
	"medbot/internal/llm"
	"medbot/internal/prompt"
)

type fakeChat struct {
	reply string
}

func (f *fakeChat) Chat(ctx context.Context, model string, messages []llm.Message, temperature float32) (string, error) {
	return f.reply, nil
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testRouter(reply string) *gin.Engine {
	orch := consult.NewOrchestrator(&fakeChat{reply: reply}, nil)
	return New(orch).Router()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	rr := doJSON(t, testRouter(""), http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("code=%d", rr.Code)
	}
}

func TestChatConversationNotAList(t *testing.T) {
	r := testRouter("ok")
	req := httptest.NewRequest(http.MethodPost, "/chat",
		bytes.NewReader([]byte(`{"input":"hi","conversation":"nope"}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("code=%d, want 400", rr.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body["error"] == "" {
		t.Fatalf("missing error body: %s", rr.Body.String())
	}
}

func TestChatInvalidInput(t *testing.T) {
	r := testRouter("ok")
	cases := []string{
		`{"input":"","conversation":[]}`,
		`{"conversation":[]}`,
		`{"input":42,"conversation":[]}`,
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(c)))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: code=%d, want 400", c, rr.Code)
		}
	}
}

func TestStartUnknownLanguageFallsBack(t *testing.T) {
	rr := doJSON(t, testRouter(""), http.MethodGet, "/start-consultation/Klingon", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("code=%d", rr.Code)
	}
	var body struct {
		Greeting string `json:"greeting"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Greeting != prompt.Greeting("English") {
		t.Fatalf("greeting=%q, want English fallback verbatim", body.Greeting)
	}
}

func TestConsultationEndToEnd(t *testing.T) {
	r := testRouter("How long have you had it?")

	rr := doJSON(t, r, http.MethodGet, "/start-consultation/English", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("start code=%d", rr.Code)
	}
	var started struct {
		Greeting     string             `json:"greeting"`
		Conversation consult.Transcript `json:"conversation"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if started.Greeting != prompt.Greeting("English") {
		t.Fatalf("greeting=%q", started.Greeting)
	}
	if len(started.Conversation) != 2 {
		t.Fatalf("conversation len=%d, want 2", len(started.Conversation))
	}
	if started.Conversation[0].Role != llm.RoleSystem || started.Conversation[1].Role != llm.RoleAssistant {
		t.Fatalf("roles=%v", started.Conversation)
	}

	rr = doJSON(t, r, http.MethodPost, "/chat", map[string]any{
		"input":        "I have a headache",
		"conversation": started.Conversation,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("chat code=%d body=%s", rr.Code, rr.Body.String())
	}
	var chatted struct {
		Conversation consult.Transcript `json:"conversation"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &chatted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	wantRoles := []llm.Role{llm.RoleSystem, llm.RoleAssistant, llm.RoleUser, llm.RoleAssistant}
	if len(chatted.Conversation) != len(wantRoles) {
		t.Fatalf("len=%d, want %d", len(chatted.Conversation), len(wantRoles))
	}
	for i, role := range wantRoles {
		if chatted.Conversation[i].Role != role {
			t.Fatalf("pos %d: role=%s, want %s", i, chatted.Conversation[i].Role, role)
		}
	}
	last := chatted.Conversation[len(chatted.Conversation)-1]
	if last.Role != llm.RoleAssistant || last.Content != "How long have you had it?" {
		t.Fatalf("last=%v", last)
	}
}

func TestRequestIDHeader(t *testing.T) {
	rr := doJSON(t, testRouter(""), http.MethodGet, "/healthz", nil)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}
