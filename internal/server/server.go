// Package server provides the HTTP proxy between the browser form and the inference backend.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/cv-maker/internal/config"
	"github.com/jonathan/cv-maker/internal/llm"
	"github.com/jonathan/cv-maker/internal/pipeline"
	"github.com/jonathan/cv-maker/internal/rendering"
	"github.com/jonathan/cv-maker/internal/server/ratelimit"
	"github.com/jonathan/cv-maker/internal/types"
)

// HeaderSource reports which pipeline stage produced the returned document
const HeaderSource = "X-CV-Source"

// HeaderRequestID carries the per-request id in both directions
const HeaderRequestID = "X-Request-ID"

// maxBodyBytes bounds request bodies; form fields are truncated far below this
const maxBodyBytes = 1 << 20

// PDFRenderer prints a document as PDF
type PDFRenderer interface {
	Render(ctx context.Context, doc types.ResumeDocument, lang types.Language) ([]byte, error)
}

// Deps holds optional collaborators; nil fields are built from the config
type Deps struct {
	Client    llm.Client
	Renderer  PDFRenderer
	Logger    *slog.Logger
	RateLimit *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer    *http.Server
	handler       http.Handler
	logger        *slog.Logger
	allowedOrigin string
	timeout       time.Duration

	llmConfig *llm.Config
	client    llm.Client
	clientErr error // configuration failure reported per request
	generator *pipeline.Generator
	renderer  PDFRenderer

	rateLimiter *ratelimit.Limiter
	probes      singleflight.Group
}

// New creates a new server instance.
// Missing backend credentials do not prevent startup: liveness keeps working
// and generate/probe answer with a configuration error.
func New(ctx context.Context, cfg config.Config, deps Deps) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		logger:        logger,
		allowedOrigin: cfg.AllowedOrigin,
		timeout:       cfg.Timeout(),
		llmConfig:     cfg.LLMConfig(),
		client:        deps.Client,
		renderer:      deps.Renderer,
	}

	if s.client == nil {
		client, err := llm.NewClient(ctx, s.llmConfig)
		if err != nil {
			logger.Warn("inference client unavailable", "provider", s.llmConfig.Provider, "error", err)
			s.clientErr = err
		} else {
			s.client = client
		}
	}
	if s.client != nil {
		s.generator = pipeline.NewGenerator(s.client, pipeline.Options{
			MaxTokens:   s.llmConfig.MaxTokens,
			Temperature: s.llmConfig.Temperature,
		}, logger)
	}

	if s.renderer == nil {
		s.renderer = rendering.NewPDFRenderer(cfg.ChromePath, logger)
	}

	rlConfig := deps.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rlConfig)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /{$}", s.handleGenerate)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /generate/stream", s.handleGenerateStream)
	mux.HandleFunc("POST /render", s.handleRender)

	s.handler = s.withRecover(s.withRequestID(s.withLogging(s.withCORS(s.withRateLimit(mux)))))

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.timeout + 60*time.Second, // model calls plus a PDF render
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT/SIGTERM
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr, "provider", s.provider(), "model", s.model())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close releases the rate limiter and the inference client
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Warn("closing inference client", "error", err)
		}
	}
}

func (s *Server) provider() llm.Provider {
	if s.client != nil {
		return s.client.Provider()
	}
	return s.llmConfig.Provider
}

func (s *Server) model() string {
	if s.client != nil {
		return s.client.Model()
	}
	return s.llmConfig.GetModel()
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", "error", err)
	}
}

// errorResponse writes err as {"error", "detail"} with its mapped status
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	s.jsonResponse(w, HTTPStatus(err), toErrorResponse(err))
}
