// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Deps holds the collaborators the manager serves.
type Deps struct {
	Logger zerolog.Logger

	// APIHandler serves the gateway routes.
	APIHandler http.Handler

	// MetricsHandler is served on MetricsAddr when both are set.
	MetricsHandler http.Handler
	MetricsAddr    string
}

// Validate checks that all required dependencies are present.
func (d Deps) Validate() error {
	if d.Logger.GetLevel() == zerolog.Disabled {
		return ErrMissingLogger
	}
	if d.APIHandler == nil {
		return ErrMissingAPIHandler
	}
	return nil
}
