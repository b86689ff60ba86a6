// Package server exposes the dashboard assistant over HTTP.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scan-dashboard/internal/assistant"
	"scan-dashboard/internal/common/config"
	"scan-dashboard/internal/common/logger"
)

const (
	maxQueryLength = 500
	maxBodyBytes   = 4 << 10
)

// Asker answers one natural-language question.
type Asker interface {
	Ask(ctx context.Context, query string) assistant.Answer
}

type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

type QueryRequest struct {
	Query string `json:"query"`
}

type QueryResponse struct {
	assistant.Answer
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// New builds the server and wires all routes.
func New(cfg config.ServerConfig, asker Asker, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Server{log: log.WithFields(map[string]interface{}{"component": "server"})}
	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.routes(cfg, asker),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes(cfg config.ServerConfig, asker Asker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/assistant", func(api chi.Router) {
		if cfg.RateLimit > 0 {
			api.Use(rateLimit(cfg.RateLimit, config.GetDuration(cfg.RateWindow)))
		}
		api.Post("/query", s.handleQuery(asker))
		api.Get("/suggestions", handleSuggestions)
	})
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Addr() string { return s.httpServer.Addr }

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", map[string]interface{}{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server", nil)
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleQuery(asker Asker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Detail: "body must be {\"query\": string}"})
			return
		}

		query := strings.TrimSpace(req.Query)
		switch {
		case query == "":
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Detail: "query is required"})
			return
		case len(query) > maxQueryLength:
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:  "invalid_request",
				Detail: fmt.Sprintf("query must be at most %d characters", maxQueryLength),
			})
			return
		}

		answer := asker.Ask(r.Context(), query)
		writeJSON(w, http.StatusOK, QueryResponse{Answer: answer, RequestID: middleware.GetReqID(r.Context())})
	}
}

func handleSuggestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": assistant.SuggestedQuestions()})
}

func rateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error:  "rate_limit_exceeded",
				Detail: "Too many requests. Please try again later.",
			})
		}),
	)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("HTTP request", map[string]interface{}{
			"request_id":  middleware.GetReqID(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
