package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/wolong/internal/app"
	"github.com/felixgeelhaar/wolong/internal/config"
	"github.com/felixgeelhaar/wolong/internal/domain"
	"github.com/felixgeelhaar/wolong/internal/game"
	"github.com/felixgeelhaar/wolong/internal/settings"
)

// Version is reported by the status endpoint.
const Version = "0.1.0"

// Server represents the Wolong daemon HTTP server
type Server struct {
	cfg    *config.LocalConfig
	server *http.Server
	router *http.ServeMux
	app    *app.App
}

// ServerConfig holds configuration for creating a new server
type ServerConfig struct {
	Config  *config.LocalConfig
	BaseDir string // Wolong directory; storage paths resolve under it
	Options app.Options
}

// NewServer creates a new daemon server
func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	services, err := app.New(ctx, cfg.Config, cfg.BaseDir, cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("create services: %w", err)
	}

	s := &Server{
		cfg:    cfg.Config,
		router: http.NewServeMux(),
		app:    services,
	}

	// Setup routes
	s.setupRoutes()

	// Create HTTP server with middleware chain
	addr := fmt.Sprintf("%s:%d", cfg.Config.Daemon.Bind, cfg.Config.Daemon.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return recoveryMiddleware(correlationIDMiddleware(loggingMiddleware(s.router)))
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health & status
	s.router.HandleFunc("GET /v1/health", s.handleHealth)
	s.router.HandleFunc("GET /v1/status", s.handleStatus)
	s.router.HandleFunc("GET /v1/config", s.handleGetConfig)

	// Progress
	s.router.HandleFunc("GET /v1/progress", s.handleGetProgress)
	s.router.HandleFunc("DELETE /v1/progress", s.handleResetProgress)
	s.router.HandleFunc("GET /v1/achievements", s.handleListAchievements)
	s.router.HandleFunc("GET /v1/levels/{mode}", s.handleListLevels)

	// Problems
	s.router.HandleFunc("GET /v1/problems/{mode}", s.handleGenerateProblem)

	// Sessions
	s.router.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	s.router.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	s.router.HandleFunc("DELETE /v1/sessions/{id}", s.handleDeleteSession)
	s.router.HandleFunc("POST /v1/sessions/{id}/select", s.handleSelect)
	s.router.HandleFunc("POST /v1/sessions/{id}/reveal", s.handleReveal)
	s.router.HandleFunc("POST /v1/sessions/{id}/skip", s.handleSkipReveal)
	s.router.HandleFunc("POST /v1/sessions/{id}/reset", s.handleResetSelection)
	s.router.HandleFunc("POST /v1/sessions/{id}/hint", s.handleToggleHint)

	// Settings
	s.router.HandleFunc("GET /v1/settings/sound", s.handleGetSound)
	s.router.HandleFunc("PUT /v1/settings/sound", s.handlePutSound)
}

// RunOptions tune the serve loop.
type RunOptions struct {
	// SweepEvery is how often finished sessions are dropped. Zero disables sweeping.
	SweepEvery time.Duration
	// ShutdownGrace bounds how long in-flight requests may finish.
	ShutdownGrace time.Duration
}

// Run serves until ctx is cancelled or the listener fails, then shuts down.
// Cancellation is a clean stop and returns nil.
func (s *Server) Run(ctx context.Context, opts RunOptions) error {
	slog.Info("starting wolong daemon",
		"addr", s.server.Addr,
		"storage", s.app.Backend,
		"version", Version,
	)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.server.ListenAndServe()
	}()

	var sweep <-chan time.Time
	if opts.SweepEvery > 0 {
		ticker := time.NewTicker(opts.SweepEvery)
		defer ticker.Stop()
		sweep = ticker.C
	}

	for {
		select {
		case err := <-serveErr:
			if closeErr := s.app.Close(); closeErr != nil {
				slog.Warn("failed to close storage", "error", closeErr)
			}
			return fmt.Errorf("serve: %w", err)
		case <-sweep:
			s.app.Coordinator.Sweep()
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownGrace)
			defer cancel()
			if err := s.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		}
	}
}

// Shutdown stops accepting requests, waits for in-flight ones and closes storage.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down daemon", "sessions", s.app.Coordinator.Len())

	err := s.server.Shutdown(ctx)
	if cerr := s.app.Close(); cerr != nil {
		slog.Warn("failed to close storage", "error", cerr)
	}
	return err
}

// Handler implementations

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":   "running",
		"version":  Version,
		"storage":  s.app.Backend,
		"sessions": s.app.Coordinator.Len(),
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	// Return config without the postgres URL
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"daemon":  s.cfg.Daemon,
		"storage": s.cfg.Storage.Backend,
		"seeded":  s.cfg.Game.Seed != 0,
	})
}

// Progress handlers

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.app.Progress.Progress(r.Context()))
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.app.Progress.Reset(r.Context()))
}

func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	p := s.app.Progress.Progress(r.Context())

	resp := map[string]interface{}{
		"achievements": p.Achievements,
		"unlocked":     p.UnlockedCount(),
		"total":        len(p.Achievements),
		"rank":         p.CurrentLevel,
		"total_stars":  p.TotalStars,
	}
	if next, needed, ok := domain.StarsToNextRank(p.TotalStars); ok {
		resp["next_rank"] = next
		resp["stars_to_next_rank"] = needed
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseGameMode(r.PathValue("mode"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid mode", err)
		return
	}

	levels, err := s.app.Progress.Levels(r.Context(), mode)
	if err != nil {
		s.jsonError(w, statusFor(err), "failed to list levels", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"mode":   mode,
		"info":   mode.Info(),
		"levels": levels,
	})
}

func (s *Server) handleGenerateProblem(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseGameMode(r.PathValue("mode"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid mode", err)
		return
	}

	level := 1
	if raw := r.URL.Query().Get("level"); raw != "" {
		level, err = strconv.Atoi(raw)
		if err != nil {
			s.jsonError(w, http.StatusBadRequest, "level must be an integer", err)
			return
		}
	}

	p, err := s.app.Generator.Generate(mode, level)
	if err != nil {
		s.jsonError(w, statusFor(err), "failed to generate problem", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, p)
}

// Session handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode  string `json:"mode"`
		Level int    `json:"level"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	mode, err := domain.ParseGameMode(req.Mode)
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid mode", err)
		return
	}
	if req.Level == 0 {
		req.Level = 1
	}

	g, err := s.app.Coordinator.Start(r.Context(), mode, req.Level)
	if err != nil {
		s.jsonError(w, statusFor(err), "failed to start session", err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, g.Status())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookupGame(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, g.Status())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseSessionID(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid session id", err)
		return
	}

	if err := s.app.Coordinator.Remove(id); err != nil {
		s.jsonError(w, statusFor(err), "failed to delete session", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Index == nil {
		s.jsonError(w, http.StatusBadRequest, "index is required", nil)
		return
	}

	s.sessionAction(w, r, func(g *game.Game) error {
		return g.Select(*req.Index)
	})
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, func(g *game.Game) error {
		return g.Session().Reveal()
	})
}

func (s *Server) handleSkipReveal(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, func(g *game.Game) error {
		return g.Session().SkipReveal()
	})
}

func (s *Server) handleResetSelection(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, func(g *game.Game) error {
		return g.Session().ResetSelection()
	})
}

func (s *Server) handleToggleHint(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, func(g *game.Game) error {
		return g.Session().ToggleHint()
	})
}

// sessionAction applies an input to the session named in the path and
// responds with the resulting status.
func (s *Server) sessionAction(w http.ResponseWriter, r *http.Request, action func(*game.Game) error) {
	g, ok := s.lookupGame(w, r)
	if !ok {
		return
	}
	if err := action(g); err != nil {
		s.jsonError(w, statusFor(err), "action rejected", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, g.Status())
}

func (s *Server) lookupGame(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	id, err := domain.ParseSessionID(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid session id", err)
		return nil, false
	}

	g, err := s.app.Coordinator.Get(id)
	if err != nil {
		s.jsonError(w, statusFor(err), "session not found", nil)
		return nil, false
	}
	return g, true
}

// Settings handlers

func (s *Server) handleGetSound(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.app.Sound.Load(r.Context()))
}

func (s *Server) handlePutSound(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled *bool    `json:"enabled"`
		Volume  *float64 `json:"volume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctx := r.Context()
	var sound settings.Sound
	if req.Enabled != nil {
		sound = s.app.Sound.SetEnabled(ctx, *req.Enabled)
	}
	if req.Volume != nil {
		sound = s.app.Sound.SetVolume(ctx, *req.Volume)
	}
	if req.Enabled == nil && req.Volume == nil {
		sound = s.app.Sound.Load(ctx)
	}

	s.jsonResponse(w, http.StatusOK, sound)
}

// Helper methods

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLevelLocked):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrSessionNotActive):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrInvalidLevel),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrWrongMode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}
