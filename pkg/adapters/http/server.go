package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/inet"
	"github.com/aretw0/inet/pkg/domain"
	"github.com/aretw0/inet/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds a posted definition.
const maxBodyBytes = 4 << 20

// Server exposes a NetEngine as a JSON API.
type Server struct {
	Engine  ports.NetEngine
	Streams *StreamManager
	Logger  *slog.Logger

	metrics http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts h, usually a promhttp handler, at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine ports.NetEngine, opts ...Option) http.Handler {
	s := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/nets", func(r chi.Router) {
		r.Get("/", s.ListNets)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/", s.LoadNet)
			r.Get("/", s.GetNet)
			r.Delete("/", s.DeleteNet)
			r.Post("/reduce", s.Reduce)
			r.Post("/normalize", s.Normalize)
			r.Get("/agents/{agent}", s.InspectAgent)
			r.Get("/graph", s.GetGraph)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "inet-http",
		"version": strings.TrimSpace(inet.Version),
	})
}

// ListNets handles GET /nets.
func (s *Server) ListNets(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.List(r.Context())
	if err != nil {
		s.writeError(w, "List", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// LoadNet handles POST /nets/{id}. The body is a JSON definition; an empty
// body loads the definition of the same name from the engine's library.
func (s *Server) LoadNet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > maxBodyBytes {
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	var snap *domain.Snapshot
	if len(strings.TrimSpace(string(body))) == 0 {
		snap, err = s.Engine.LoadNamed(r.Context(), id)
	} else {
		var def domain.Definition
		if err := json.Unmarshal(body, &def); err != nil {
			s.writeError(w, "Load", fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err))
			return
		}
		snap, err = s.Engine.Load(r.Context(), id, &def)
	}
	if err != nil {
		s.writeError(w, "Load", err)
		return
	}

	s.broadcast(id, "loaded", snap)
	s.writeJSON(w, http.StatusCreated, snap)
}

// GetNet handles GET /nets/{id}.
func (s *Server) GetNet(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Engine.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "Snapshot", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteNet handles DELETE /nets/{id}.
func (s *Server) DeleteNet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Engine.Delete(r.Context(), id); err != nil {
		s.writeError(w, "Delete", err)
		return
	}
	s.broadcast(id, "deleted", nil)
	w.WriteHeader(http.StatusNoContent)
}

// Reduce handles POST /nets/{id}/reduce: one sweep.
func (s *Server) Reduce(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := s.Engine.Reduce(r.Context(), id)
	if err != nil {
		s.writeError(w, "Reduce", err)
		return
	}
	s.broadcast(id, "pass", report)
	s.writeJSON(w, http.StatusOK, report)
}

// Normalize handles POST /nets/{id}/normalize.
func (s *Server) Normalize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := s.Engine.Normalize(r.Context(), id)
	if err != nil {
		s.writeError(w, "Normalize", err)
		return
	}
	s.broadcast(id, "normalized", report)
	s.writeJSON(w, http.StatusOK, report)
}

// InspectAgent handles GET /nets/{id}/agents/{agent}.
func (s *Server) InspectAgent(w http.ResponseWriter, r *http.Request) {
	view, err := s.Engine.Inspect(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "agent"))
	if err != nil {
		s.writeError(w, "Inspect", err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// GetGraph handles GET /nets/{id}/graph and returns Mermaid text.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	out, err := s.Engine.Render(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "Render", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, out)
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNetNotFound), errors.Is(err, domain.ErrUnknownAgent):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDefinition), errors.Is(err, inet.ErrNoLoader):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotARedex):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPassLimit):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "err", err)
	} else {
		s.Logger.Warn(op+" rejected", "status", status, "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}
