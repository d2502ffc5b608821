// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldSessionID = "session_id"
	FieldUsername  = "username"

	// Event fields
	FieldEvent  = "event"
	FieldIntent = "intent"
	FieldResult = "result"
	FieldReason = "reason"

	// Bus fields
	FieldObject   = "object"
	FieldMethod   = "method"
	FieldExitCode = "exit_code"
	FieldStatus   = "bus_status"
	FieldObjectID = "object_id"
	FieldSocket   = "socket"

	// HTTP fields
	FieldPath       = "path"
	FieldHTTPMethod = "http_method"
	FieldHTTPStatus = "status"
	FieldRemoteAddr = "remote_addr"
	FieldDuration   = "duration"
)

// MaskToken shortens an opaque credential so it can be correlated in logs
// without being replayable.
func MaskToken(token string) string {
	const keep = 4
	if len(token) <= keep {
		return "***"
	}
	return token[:keep] + "***"
}
