// Package server exposes the pre-consultation backend over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medbot/internal/config"
	"medbot/internal/consult"
	"medbot/internal/guideline"
	"medbot/internal/llm"
	"medbot/internal/llm/openai"
	mylog "medbot/internal/log"
	"medbot/internal/ner"
	"medbot/internal/translate"
	"medbot/internal/vectorindex"
)

type Server struct {
	orch *consult.Orchestrator
	lg   *mylog.Logger
}

func New(orch *consult.Orchestrator) *Server {
	return &Server{orch: orch, lg: mylog.New()}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestID())
	r.Use(s.accessLog())
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/start-consultation/:language", s.handleStart)
	r.POST("/chat", s.handleChat)
	return r
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.lg.Info("http.request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString("requestID"),
		)
	}
}

func (s *Server) handleStart(c *gin.Context) {
	language := c.Param("language")
	greeting, transcript := s.orch.Start(language)
	c.JSON(http.StatusOK, gin.H{
		"greeting":         greeting,
		"patient_language": language,
		"conversation":     transcript,
	})
}

type chatRequest struct {
	Input           string             `json:"input"`
	Conversation    consult.Transcript `json:"conversation"`
	PatientLanguage string             `json:"patient_language"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation must be a list of role/content messages"})
		return
	}
	out, err := s.orch.Continue(c.Request.Context(), req.Conversation, req.Input, req.PatientLanguage)
	if err != nil {
		switch {
		case errors.Is(err, consult.ErrInvalidInput), errors.Is(err, consult.ErrMalformedTranscript):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			// upstream service failure; surfaced, not retried
			s.lg.Error("chat.turn", "err", err.Error(), "request_id", c.GetString("requestID"))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": out})
}

// buildGrounding assembles the retrieval capability set when guideline sources
// are configured: scrape, chunk, embed (one call per chunk), index. Returns
// nil when MEDBOT_GUIDELINE_URLS is unset, which selects the plain flow.
func buildGrounding(ctx context.Context, client *openai.Client, lg *mylog.Logger) (*consult.Grounding, error) {
	sources := guideline.SourcesFromEnv()
	if len(sources) == 0 {
		lg.Info("guidelines.disabled", "reason", "no sources configured")
		return nil, nil
	}

	counter, err := guideline.NewTiktokenCounter()
	if err != nil {
		return nil, err
	}
	chunks, err := guideline.NewScraper().FetchAll(ctx, sources, guideline.DefaultTokenBudget, counter)
	if err != nil {
		return nil, err
	}
	idx, err := vectorindex.NewFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	embModel := os.Getenv("MEDBOT_EMBEDDING_MODEL")
	for _, ch := range chunks {
		vecs, err := client.Embeddings(ctx, embModel, []string{ch.Text})
		if err != nil {
			return nil, err
		}
		if len(vecs) == 0 {
			return nil, errors.New("embedding service returned no vector")
		}
		if err := idx.Add(ctx, vecs[0], ch); err != nil {
			return nil, err
		}
	}
	lg.Info("guidelines.indexed", "sources", len(sources), "chunks", idx.Len())

	extractor, err := ner.NewFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	return &consult.Grounding{
		Translator: translate.New(client),
		Extractor:  extractor,
		Retriever:  consult.NewRetriever(client, idx),
	}, nil
}

// Run wires the full backend and serves until SIGINT/SIGTERM.
func Run(addr string) error {
	if err := config.LoadAndApply(); err != nil {
		return err
	}
	gin.SetMode(config.Get("GIN_MODE", gin.ReleaseMode))
	lg := mylog.New()

	client := openai.NewFromEnv()
	grounding, err := buildGrounding(context.Background(), client, lg)
	if err != nil {
		return err
	}
	orch := consult.NewOrchestrator(client, grounding)

	srv := &http.Server{Addr: addr, Handler: New(orch).Router()}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	lg.Info("server.listening", "addr", addr, "grounded", grounding != nil)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		lg.Info("server.shutdown", "signal", sig.String())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

var _ llm.ChatProvider = (*openai.Client)(nil)
var _ llm.Embedder = (*openai.Client)(nil)
