package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/cv-maker/internal/llm"
	"github.com/jonathan/cv-maker/internal/logging"
	"github.com/jonathan/cv-maker/internal/pipeline"
	"github.com/jonathan/cv-maker/internal/prompts"
	"github.com/jonathan/cv-maker/internal/rendering"
	"github.com/jonathan/cv-maker/internal/types"
)

// HealthResponse is the liveness body
type HealthResponse struct {
	OK       bool         `json:"ok"`
	Model    string       `json:"model"`
	Provider llm.Provider `json:"provider"`
}

// handleHealth returns liveness, or runs the debug probe when asked
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if debugRequested(r) {
		s.handleProbe(w, r)
		return
	}
	s.jsonResponse(w, http.StatusOK, HealthResponse{OK: true, Model: s.model(), Provider: s.provider()})
}

// handleProbe performs one trivial model round-trip shared by concurrent callers
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	if s.clientErr != nil {
		s.jsonResponse(w, http.StatusInternalServerError, llm.Probe(r.Context(), nil, s.llmConfig, ""))
		return
	}

	result, _, _ := s.probes.Do("probe", func() (any, error) {
		// detached so one caller hanging up does not fail the others
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.timeout)
		defer cancel()
		return llm.Probe(ctx, s.client, s.llmConfig, prompts.ProbePrompt()), nil
	})

	report := result.(llm.ProbeReport)
	status := http.StatusOK
	if !report.OK {
		status = http.StatusBadGateway
	}
	s.jsonResponse(w, status, report)
}

// handleGenerate turns form inputs into a resume document
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeGenerateRequest(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if s.clientErr != nil {
		s.errorResponse(w, s.clientErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	outcome, err := s.generator.Generate(ctx, req.Inputs, req.Language())
	if err != nil {
		logging.FromContext(ctx, s.logger).Error("generate failed", "error", err)
		s.errorResponse(w, err)
		return
	}

	w.Header().Set(HeaderSource, string(outcome.Source))
	s.jsonResponse(w, http.StatusOK, outcome.Document)
}

// handleGenerateStream runs the pipeline and streams progress via SSE
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeGenerateRequest(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if s.clientErr != nil {
		s.errorResponse(w, s.clientErr)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	log := logging.FromContext(ctx, s.logger)

	gen := s.generator.WithProgress(func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent(EventStep, event); err != nil {
			log.Warn("writing SSE event", "error", err)
		}
	})

	outcome, err := gen.Generate(ctx, req.Inputs, req.Language())
	if err != nil {
		log.Error("streaming generate failed", "error", err)
		sse.WriteError(err)
		return
	}
	sse.WriteComplete(outcome)
}

// handleRender prints a document as PDF, or as HTML with ?format=html
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req types.RenderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}

	lang, _ := types.ParseLanguage(req.Lang)
	doc := req.Document.Normalize()

	if strings.EqualFold(r.URL.Query().Get("format"), "html") {
		html, err := rendering.RenderHTML(doc, lang)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, html)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	pdf, err := s.renderer.Render(ctx, doc, lang)
	if err != nil {
		logging.FromContext(ctx, s.logger).Error("render failed", "error", err)
		s.errorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="cv.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}

// decodeGenerateRequest parses and validates a {inputs, lang} body.
// An empty body is treated as an empty request.
func (s *Server) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (types.GenerateRequest, error) {
	var req types.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return req, err
	}
	if err := req.Validate(); err != nil {
		return req, validationError(err)
	}
	return req, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// debugRequested reports whether the request carries a truthy debug flag
func debugRequested(r *http.Request) bool {
	v := r.URL.Query().Get("debug")
	if v == "" {
		return false
	}
	on, err := strconv.ParseBool(v)
	return err == nil && on
}
