// Package server exposes the skill repository and router over a small
// localhost HTTP API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/router"
	"github.com/jingkaihe/skillkit/pkg/settings"
	"github.com/jingkaihe/skillkit/pkg/skills"
)

// ServerConfig holds the configuration for the API server
type ServerConfig struct {
	Host string
	Port int
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// Server serves the skill API
type Server struct {
	mux      *mux.Router
	repo     *skills.Repository
	settings *settings.Settings
	router   *router.Router
	config   *ServerConfig
}

// NewServer creates a new API server
func NewServer(config *ServerConfig, repo *skills.Repository, s *settings.Settings, rt *router.Router) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	srv := &Server{
		mux:      mux.NewRouter(),
		repo:     repo,
		settings: s,
		router:   rt,
		config:   config,
	}
	srv.setupRoutes()
	return srv, nil
}

// setupRoutes configures all the HTTP routes
func (s *Server) setupRoutes() {
	api := s.mux.PathPrefix("/api").Subrouter()
	api.HandleFunc("/skills", s.handleListSkills).Methods("GET")
	api.HandleFunc("/skills/{name}", s.handleGetSkill).Methods("GET")
	api.HandleFunc("/skills/{name}/files/{file}", s.handleGetSupportingFile).Methods("GET")
	api.HandleFunc("/enabled", s.handleListEnabled).Methods("GET")
	api.HandleFunc("/enabled/{name}", s.handleEnable).Methods("PUT")
	api.HandleFunc("/enabled/{name}", s.handleDisable).Methods("DELETE")
	api.HandleFunc("/route", s.handleRoute).Methods("POST")

	s.mux.Use(s.loggingMiddleware)
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.G(ctx).WithField("addr", addr).Info("skill API listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed")
	}
}

// Handler exposes the route handler for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

type skillResponse struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"displayName"`
	Description  string   `json:"description"`
	Model        string   `json:"model,omitempty"`
	AllowedTools []string `json:"allowedTools,omitempty"`
	Path         string   `json:"path"`
	Files        []string `json:"files,omitempty"`
	Enabled      bool     `json:"enabled"`
	Body         string   `json:"body,omitempty"`
}

func (s *Server) skillToResponse(ctx context.Context, skill *skills.Skill, includeBody bool) skillResponse {
	resp := skillResponse{
		Name:         skill.DirName,
		DisplayName:  skill.DisplayName(),
		Description:  skill.Meta.Description,
		Model:        skill.Meta.Model,
		AllowedTools: skill.Meta.AllowedTools,
		Path:         skill.Path,
		Files:        skill.Files,
		Enabled:      s.settings.IsEnabled(ctx, skill.DirName),
	}
	if includeBody {
		resp.Body = skill.Body
	}
	return resp
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	all := s.repo.ListSkills(r.Context())
	responses := make([]skillResponse, 0, len(all))
	for _, skill := range all {
		responses = append(responses, s.skillToResponse(r.Context(), skill, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"skills": responses})
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	skill := s.repo.FindSkill(r.Context(), name)
	if skill == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("skill %q not found", name))
		return
	}
	writeJSON(w, http.StatusOK, s.skillToResponse(r.Context(), skill, true))
}

func (s *Server) handleGetSupportingFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	content, err := s.repo.ReadSupportingFile(r.Context(), vars["name"], vars["file"])
	if err != nil {
		if errors.Is(err, skills.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.G(r.Context()).WithError(err).Error("failed to read supporting file")
		writeError(w, http.StatusInternalServerError, "failed to read supporting file")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(content)
}

func (s *Server) handleListEnabled(w http.ResponseWriter, r *http.Request) {
	names := s.settings.ListEnabled(r.Context())
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": names})
}

func (s *Server) handleEnable(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if skill := s.repo.FindSkill(r.Context(), name); skill == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("skill %q not found", name))
		return
	}
	if err := s.settings.Enable(r.Context(), name); err != nil {
		logger.G(r.Context()).WithError(err).Error("failed to enable skill")
		writeError(w, http.StatusInternalServerError, "failed to enable skill")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": true})
}

func (s *Server) handleDisable(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := s.settings.Disable(r.Context(), name); err != nil {
		logger.G(r.Context()).WithError(err).Error("failed to disable skill")
		writeError(w, http.StatusInternalServerError, "failed to disable skill")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
}

type routeRequest struct {
	Request string `json:"request"`
}

type routeResponse struct {
	Outcome string `json:"outcome"`
	Skill   string `json:"skill,omitempty"`
	Message string `json:"message"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Request == "" {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object with a non-empty \"request\" field")
		return
	}

	result := s.router.Route(r.Context(), req.Request)
	resp := routeResponse{
		Outcome: result.Outcome.String(),
		Message: result.Message,
	}
	if result.Skill != nil {
		resp.Skill = result.Skill.DirName
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		logger.G(r.Context()).WithFields(map[string]any{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rw.statusCode,
			"duration": time.Since(start),
		}).Info("HTTP request")
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
