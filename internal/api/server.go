// Package api exposes the HTTP interface for the judge discovery service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eventra/judge-scout/internal/config"
	"github.com/eventra/judge-scout/internal/scout"
)

// CandidateFinder is the pipeline surface the API depends on.
type CandidateFinder interface {
	FindCandidates(ctx context.Context, topic string) []scout.Judge
}

// Server wires HTTP handlers to the finder and the judge store.
type Server struct {
	router chi.Router
	finder CandidateFinder
	store  scout.JudgeStore
	valid  *validator.Validate
	cfg    config.Config
	logger *zap.Logger
}

// topicSlug is the allow-list for topics; the extraction layer interpolates
// the topic into the remote URL verbatim, so anything else is rejected here.
var topicSlug = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NewServer constructs a Server with middleware and routes.
func NewServer(finder CandidateFinder, store scout.JudgeStore, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	valid := validator.New()
	_ = valid.RegisterValidation("topicslug", func(fl validator.FieldLevel) bool {
		return topicSlug.MatchString(fl.Field().String())
	})

	s := &Server{
		finder: finder,
		store:  store,
		valid:  valid,
		cfg:    cfg,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(60 * time.Second))
	if cfg.Auth.Enabled {
		r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/judges", func(r chi.Router) {
			r.Post("/search", s.searchJudges)
			r.Get("/", s.listJudges)
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type searchRequest struct {
	Topic string `json:"topic" validate:"required,min=1,max=64,topicslug"`
}

// searchJudges runs the discovery pipeline. The pipeline itself never fails;
// the only error responses here are for malformed requests.
func (s *Server) searchJudges(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.valid.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "topic must be a lowercase slug, e.g. \"machine-learning\"")
		return
	}

	judges := s.finder.FindCandidates(r.Context(), req.Topic)
	writeJSON(w, http.StatusOK, map[string]any{"judges": judges})
}

func (s *Server) listJudges(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "judge store unavailable")
		return
	}
	judges, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list judges failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list judges")
		return
	}
	if judges == nil {
		judges = []scout.Judge{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"judges": judges})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write json response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
