package shell

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/readiness"
)

type encoder interface {
	Encode(v any) error
}

// Status is the body of /v1/status
type Status struct {
	State    State              `json:"state" yaml:"state"`
	Since    time.Time          `json:"since" yaml:"since"`
	Category readiness.Category `json:"category,omitempty" yaml:"category,omitempty"`
	Reason   string             `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func (s *Shell) register(ctx context.Context) {
	s.router.Use(logger.Middleware(ctx))

	// Handles public json api
	s.router.Route("/v1", func(r chi.Router) {
		r.Use(s.cors())
		r.Get("/status", s.handleStatus)
		r.Get("/readiness", s.handleReadiness)
		r.Get("/report", s.handleReport)
	})

	// Web SDK configuration of the front-end, only handed out once the backend is usable
	s.router.Get("/__/firebase/init.json", s.handleInitConfig)

	// Handles OpenApi spec
	s.router.Get("/openapi", s.handleOpenAPI)

	s.router.Post("/retry", s.handleRetry)

	// Handles prometheus metrics
	s.router.Handle("/metrics",
		promhttp.HandlerFor(
			s.metrics.GetRegistry(),
			promhttp.HandlerOpts{Registry: s.metrics.GetRegistry()},
		))

	// Handles the page tree
	s.router.Handle("/*", http.HandlerFunc(s.handlePages))
}

func (s *Shell) cors() func(http.Handler) http.Handler {
	origins := s.cfg.Api.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}

func (s *Shell) status() Status {
	st, since := s.state.current()
	status := Status{State: st, Since: since}
	if st == StateFailed {
		if res, ok := s.checker.Last(); ok {
			status.Category = res.Category
			status.Reason = res.Reason
		}
	}
	return status
}

func (s *Shell) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.status())
}

func (s *Shell) handleReadiness(w http.ResponseWriter, r *http.Request) {
	res, ok := s.checker.Last()
	if !ok {
		writeText(w, r, http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Shell) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.State() == StateChecking {
		writeText(w, r, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, r, http.StatusOK, s.checker.Report(r.Context()))
}

func (s *Shell) handleInitConfig(w http.ResponseWriter, r *http.Request) {
	if s.State() != StateReady {
		writeText(w, r, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, r, http.StatusOK, s.cfg.Firebase.PublicConfig())
}

func (s *Shell) handleRetry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if st := s.State(); st != StateFailed {
		log.WarnContext(r.Context(), "Retry rejected", "state", st)
		writeText(w, r, http.StatusConflict)
		return
	}
	s.requestRestart()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Shell) handlePages(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	switch s.State() {
	case StateReady:
		s.pages.ServeHTTP(w, r)
		return
	case StateChecking:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := checkingPage.Execute(w, nil); err != nil {
			log.Error("Failed to render page", "error", err)
		}
	case StateFailed:
		view := failedView{Category: readiness.CategoryUnknown}
		if res, ok := s.checker.Last(); ok {
			view = failedView{Category: res.Category, Reason: res.Reason, Remediation: res.Remediation}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := failedPage.Execute(w, view); err != nil {
			log.Error("Failed to render page", "error", err)
		}
	}
}

func (s *Shell) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	oapi, err := OpenAPI(r.Context())
	if err != nil {
		log.Error("failed to create openapi", "error", err)
		writeText(w, r, http.StatusInternalServerError)
		return
	}

	var marshaler encoder
	switch mime := r.Header.Get("Accept"); {
	case strings.Contains(mime, "application/json"):
		w.Header().Add("Content-Type", "application/json")
		marshaler = json.NewEncoder(w)
	default:
		w.Header().Add("Content-Type", "text/yaml")
		marshaler = yaml.NewEncoder(w)
	}

	if err := marshaler.Encode(oapi); err != nil {
		log.Error("failed to marshal openapi", "error", err)
		writeText(w, r, http.StatusInternalServerError)
	}
}

// writeJSON encodes v as indented json
func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

// writeText writes the status text of the code
func writeText(w http.ResponseWriter, r *http.Request, code int) {
	w.WriteHeader(code)
	if _, err := w.Write([]byte(http.StatusText(code))); err != nil {
		logger.FromContext(r.Context()).Error("Failed to write response", "error", err)
	}
}
