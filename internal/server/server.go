// Package server exposes the conversion engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/specconv/specconv/internal/config"
	"github.com/specconv/specconv/internal/domain"
	"github.com/specconv/specconv/internal/engine"
	"github.com/specconv/specconv/internal/fileio"
)

// maxBodySize caps request bodies at 32 MiB; captured archives get large
// but anything beyond this is almost certainly a mistake.
const maxBodySize = 32 << 20

// Server serves the conversion API.
type Server struct {
	engine *engine.Engine
	cfg    *config.Config
	logger zerolog.Logger
	http   *http.Server
}

// New creates the server.
func New(eng *engine.Engine, cfg *config.Config, logger zerolog.Logger) *Server {
	s := &Server{
		engine: eng,
		cfg:    cfg,
		logger: logger,
	}
	s.http = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the chi router with the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/api/formats", s.handleFormats)
	r.Post("/api/convert/{target}", s.handleConvert)

	return r
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("shutting down")
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

type formatEntry struct {
	Name        string   `json:"name"`
	Extensions  []string `json:"extensions"`
	Description string   `json:"description"`
}

type conversionEntry struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type formatsResponse struct {
	Formats     []formatEntry     `json:"formats"`
	Conversions []conversionEntry `json:"conversions"`
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	resp := formatsResponse{}
	for _, f := range domain.Formats() {
		info := f.Info()
		resp.Formats = append(resp.Formats, formatEntry{
			Name:        string(f),
			Extensions:  info.Extensions,
			Description: info.Description,
		})
	}
	for _, pair := range s.engine.Registry().Conversions() {
		resp.Conversions = append(resp.Conversions, conversionEntry{
			From: string(pair[0]),
			To:   string(pair[1]),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	target, ok := domain.ParseFormat(chi.URLParam(r, "target"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown target format %q", chi.URLParam(r, "target")))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}
	doc, err := fileio.Decode(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var source domain.Format
	if raw := r.URL.Query().Get("source"); raw != "" {
		source, ok = domain.ParseFormat(raw)
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown source format %q", raw))
			return
		}
	}

	opts := s.optionsFromQuery(r)
	hint := r.URL.Query().Get("filename")

	result, err := s.engine.Convert(r.Context(), doc, source, target, hint, opts)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	if result.Validation != nil && !result.Validation.Valid {
		w.Header().Set("X-Validation-Error", result.Validation.Error)
	}

	if result.Rendered != nil {
		w.Header().Set("Content-Type", renderedContentType(target))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Rendered)
		return
	}

	asYAML := wantsYAML(r)
	data, err := fileio.Encode(result.Document, asYAML)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if asYAML {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) optionsFromQuery(r *http.Request) domain.Options {
	q := r.URL.Query()
	opts := domain.Options{
		Title:       q.Get("title"),
		Version:     q.Get("version"),
		Description: q.Get("description"),
		Servers:     q["server"],
		BasePath:    q.Get("base_path"),
		SkipAuth:    q.Get("skip_auth") == "true",
		NoValidate:  !s.cfg.Validate,
		Strict:      q.Get("strict") == "true",
	}
	if q.Get("no_validate") == "true" {
		opts.NoValidate = true
	}
	return opts
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps conversion errors onto HTTP statuses: client mistakes are
// 400, a strict validation failure is 422, anything else is 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedInput),
		errors.Is(err, domain.ErrFormatUndetected),
		errors.Is(err, domain.ErrTargetFormatRequired),
		errors.Is(err, domain.ErrUnsupportedConversion):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOutputValidationFailed):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func wantsYAML(r *http.Request) bool {
	if r.URL.Query().Get("format") == "yaml" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "yaml")
}

func renderedContentType(target domain.Format) string {
	switch target {
	case domain.FormatPDF:
		return "application/pdf"
	case domain.FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}
