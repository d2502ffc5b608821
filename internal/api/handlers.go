// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ManuGH/ubusgw/internal/api/middleware"
	xglog "github.com/ManuGH/ubusgw/internal/log"
	"github.com/ManuGH/ubusgw/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// handleRequest serves every path on the public listener. Routing decisions
// are made by Route, not by the mux, so unknown paths get the same treatment
// as known ones.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	logger := xglog.WithContext(r.Context(), s.logger)

	if err := r.ParseForm(); err != nil {
		logger.Debug().
			Err(err).
			Str(xglog.FieldEvent, "request.form.invalid").
			Msg("could not parse request form, using what was read")
	}

	intent := Route(r.URL.Path, FormParams(r.Form))
	middleware.AddSpanAttributes(r, attribute.String(telemetry.IntentKey, intent.Kind()))

	out := s.dispatch(r.Context(), intent)

	evt := logger.Info()
	if out.Status != http.StatusOK {
		evt = logger.Warn()
	}
	evt.
		Str(xglog.FieldEvent, "request.dispatched").
		Str(xglog.FieldIntent, intent.Kind()).
		Str(xglog.FieldPath, r.URL.Path).
		Int(xglog.FieldHTTPStatus, out.Status).
		Msg("request dispatched")

	writeOutcome(w, out)
}

// dispatch turns an Intent into exactly one Outcome.
func (s *Server) dispatch(ctx context.Context, intent Intent) Outcome {
	switch in := intent.(type) {
	case LoginIntent:
		return MapLogin(s.sessions.Login(ctx, in.Username, in.Password))
	case UptimeIntent:
		return MapUptime(s.sessions.Uptime(ctx, in.SessionID))
	case InvalidIntent:
		return MapInvalid(in)
	default:
		panic(fmt.Sprintf("api: unhandled intent %T", intent))
	}
}
