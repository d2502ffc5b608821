// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import "errors"

// Failure reasons returned to HTTP clients.
const (
	ReasonLoginFailed  = "Failed executing session login command"
	ReasonAuthFailed   = "Authentication failed"
	ReasonUptimeFailed = "Failed getting uptime"
)

var (
	// ErrMissingField is returned when a bus reply lacks an expected field.
	ErrMissingField = errors.New("session: reply field missing or ill-typed")
)
