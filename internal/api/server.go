// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api serves the public HTTP surface of the gateway.
package api

import (
	"context"
	"net/http"

	"github.com/ManuGH/ubusgw/internal/api/middleware"
	"github.com/ManuGH/ubusgw/internal/config"
	xglog "github.com/ManuGH/ubusgw/internal/log"
	"github.com/ManuGH/ubusgw/internal/session"
	"github.com/rs/zerolog"
)

// Sessions is the session capability the dispatcher needs.
// *session.Manager implements it.
type Sessions interface {
	Login(ctx context.Context, username, password string) session.Outcome[session.Token]
	Uptime(ctx context.Context, sessionID string) session.Outcome[uint64]
}

// Server is the public HTTP API.
type Server struct {
	cfg      config.AppConfig
	sessions Sessions
	logger   zerolog.Logger
}

// New creates an API server backed by sessions.
func New(cfg config.AppConfig, sessions Sessions) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		logger:   xglog.WithComponent("api"),
	}
}

// Handler returns the routed handler with the ingress middleware stack.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(s.stackConfig())

	r.HandleFunc(RouteLogin, s.handleRequest)
	r.HandleFunc(RouteUptime, s.handleRequest)
	r.NotFound(s.handleRequest)
	r.MethodNotAllowed(s.handleRequest)

	return r
}

func (s *Server) stackConfig() middleware.StackConfig {
	sc := middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		EnableLogging:         true,
		EnableRateLimit:       s.cfg.RateLimit.Enabled,
		RateLimit:             s.cfg.RateLimit.Requests,
		RateWindow:            s.cfg.RateLimit.Window,
	}
	if s.cfg.Telemetry.Enabled {
		sc.TracingService = s.cfg.LogService
		if sc.TracingService == "" {
			sc.TracingService = "ubusgw"
		}
	}
	return sc
}
