// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Middleware logs one access line per request. Query strings are never
// logged because they may carry credentials or session tokens.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger := WithComponentFromContext(r.Context(), "http")
			evt := logger.Info()
			if status >= http.StatusInternalServerError {
				evt = logger.Error()
			}
			evt.
				Str(FieldEvent, "request.handled").
				Str(FieldHTTPMethod, r.Method).
				Str(FieldPath, r.URL.Path).
				Str(FieldRemoteAddr, r.RemoteAddr).
				Int(FieldHTTPStatus, status).
				Int("bytes", ww.BytesWritten()).
				Dur(FieldDuration, time.Since(start)).
				Msg("request handled")
		})
	}
}
