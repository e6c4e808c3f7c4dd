// Package server is the HTTP rendering boundary for imovel.
//
// It resolves deferred views on request, renders them with the shared
// configuration and the current control props, and routes button
// activations sent over HTTP or WebSocket. Deferred-load failures surface
// here as 500 responses.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/livefir/imovel/config"
	"github.com/livefir/imovel/internal/metrics"
	"github.com/livefir/imovel/views"
)

// Server serves views and control activations
type Server struct {
	cfg      *config.Config
	views    *views.Registry
	controls *controls
	log      *zap.Logger
	upgrader *websocket.Upgrader
	metrics  *metrics.Collector
	minify   bool
	mux      *http.ServeMux
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithMetrics shares a metrics collector with the server
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// WithMinify toggles HTML minification of rendered views (default on)
func WithMinify(enabled bool) Option {
	return func(s *Server) {
		s.minify = enabled
	}
}

// New creates a Server
func New(cfg *config.Config, registry *views.Registry, list []Control, opts ...Option) (*Server, error) {
	cs, err := newControls(list)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		views:    registry,
		controls: cs,
		log:      zap.NewNop(),
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		metrics: metrics.NewCollector(),
		minify:  true,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /views/{name}", s.handleView)
	s.mux.HandleFunc("GET /api/views", s.handleViewStates)
	s.mux.HandleFunc("GET /api/config", s.handleConfig)
	s.mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	s.mux.HandleFunc("DELETE /api/metrics", s.handleMetricsReset)
	s.mux.HandleFunc("POST /actions", s.handleAction)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return s, nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	view, err := s.views.Load(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, views.ErrUnknownView):
			http.Error(w, "view not found", http.StatusNotFound)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Requester went away; the load carries on for the next one.
			s.log.Debug("view request abandoned", zap.String("view", name), zap.Error(err))
		default:
			s.metrics.LoadFailure()
			s.log.Error("view unavailable", zap.String("view", name), zap.Error(err))
			http.Error(w, "view unavailable", http.StatusInternalServerError)
		}
		return
	}

	page := views.Page{
		Config:   s.cfg,
		Controls: s.controls.forView(name),
	}

	var buf bytes.Buffer
	if err := view.Render(&buf, page); err != nil {
		s.metrics.RenderError()
		s.log.Error("view render failed", zap.String("view", name), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	s.metrics.ViewRendered(name)

	out := buf.Bytes()
	if s.minify {
		out = minifyHTML(out)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out)
}

type viewState struct {
	Name   string `json:"name"`
	Module string `json:"module"`
	State  string `json:"state"`
}

func (s *Server) handleViewStates(w http.ResponseWriter, r *http.Request) {
	entries := s.views.Entries()
	states := make([]viewState, 0, len(entries))
	for _, e := range entries {
		states = append(states, viewState{Name: e.Name, Module: e.Module, State: e.State.String()})
	}
	s.writeJSON(w, http.StatusOK, states)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, publicConfig(s.cfg))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleMetricsReset(w http.ResponseWriter, r *http.Request) {
	s.metrics.Reset()
	s.log.Info("metrics reset")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	msg, err := decodeMessage(r.Body)
	if err != nil {
		resp, status := s.failure(msg.Action, err)
		s.writeJSON(w, status, resp)
		return
	}

	if err := s.controls.activate(msg.Action); err != nil {
		resp, status := s.failure(msg.Action, err)
		s.writeJSON(w, status, resp)
		return
	}

	s.metrics.ActionAccepted()
	s.log.Info("control activated", zap.String("action", msg.Action), zap.String("transport", "http"))
	s.writeJSON(w, http.StatusOK, ActionResponse{Action: msg.Action, Success: true})
}

// failure maps an action error to its response and HTTP status
func (s *Server) failure(action string, err error) (ActionResponse, int) {
	s.metrics.ActionRejected()
	resp := ActionResponse{Action: action, Error: err.Error()}

	var fields MultiError
	switch {
	case errors.As(err, &fields):
		resp.Errors = fields.Fields()
		return resp, http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnknownControl):
		return resp, http.StatusNotFound
	case errors.Is(err, ErrControlDisabled):
		return resp, http.StatusConflict
	default:
		return resp, http.StatusBadRequest
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("failed to write response", zap.Error(err))
	}
}

// publicConfig is the subset of the configuration exposed to the browser
func publicConfig(cfg *config.Config) map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":        cfg.App.Name,
			"version":     cfg.App.Version,
			"description": cfg.App.Description,
		},
		"api": map[string]any{
			"baseUrl":    cfg.API.BaseURL,
			"configured": cfg.APIConfigured(),
			"timeoutMs":  cfg.API.TimeoutMS,
		},
		"ui": map[string]any{
			"primaryColor":       cfg.UI.PrimaryColor,
			"defaultColorScheme": cfg.UI.DefaultColorScheme,
			"notifications": map[string]any{
				"position":    cfg.UI.Notifications.Position,
				"autoCloseMs": cfg.UI.Notifications.AutoCloseMS,
			},
		},
		"performance": map[string]any{
			"debounceDelayMs": cfg.Performance.DebounceDelayMS,
			"cacheTimeoutMs":  cfg.Performance.CacheTimeoutMS,
			"maxRetries":      cfg.Performance.MaxRetries,
		},
		"validation": map[string]any{
			"minPasswordLength":   cfg.Validation.MinPasswordLength,
			"requireSpecialChars": cfg.Validation.RequireSpecialChars,
			"emailPattern":        cfg.Validation.EmailPattern,
		},
	}
}
