// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ubus

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// Sentinel errors for errors.Is checks at the session boundary.
	ErrInvocation   = errors.New("ubus: bus tool could not be started")
	ErrExitStatus   = errors.New("ubus: bus tool exited with non-zero status")
	ErrBadResponse  = errors.New("ubus: invalid response format or malformed data")
	ErrEncodeArgs   = errors.New("ubus: call arguments could not be encoded")
	ErrNotConnected = errors.New("ubus: control socket not connected")
	ErrProtocol     = errors.New("ubus: control socket protocol violation")
)

// Status mirrors the libubus status codes, which the CLI also uses as its
// exit status.
type Status int

const (
	StatusOK Status = iota
	StatusInvalidCommand
	StatusInvalidArgument
	StatusMethodNotFound
	StatusNotFound
	StatusNoData
	StatusPermissionDenied
	StatusTimeout
	StatusNotSupported
	StatusUnknownError
	StatusConnectionFailed
	StatusNoMemory
	StatusParseError
	StatusSystemError
)

var statusNames = [...]string{
	StatusOK:               "OK",
	StatusInvalidCommand:   "INVALID_COMMAND",
	StatusInvalidArgument:  "INVALID_ARGUMENT",
	StatusMethodNotFound:   "METHOD_NOT_FOUND",
	StatusNotFound:         "NOT_FOUND",
	StatusNoData:           "NO_DATA",
	StatusPermissionDenied: "PERMISSION_DENIED",
	StatusTimeout:          "TIMEOUT",
	StatusNotSupported:     "NOT_SUPPORTED",
	StatusUnknownError:     "UNKNOWN_ERROR",
	StatusConnectionFailed: "CONNECTION_FAILED",
	StatusNoMemory:         "NO_MEMORY",
	StatusParseError:       "PARSE_ERROR",
	StatusSystemError:      "SYSTEM_ERROR",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "STATUS_" + strconv.Itoa(int(s))
}

// CallError wraps one of the sentinel errors with the context of a failed call.
type CallError struct {
	Sentinel error
	Object   string
	Method   string
	ExitCode int
	Stderr   string
	Err      error // underlying cause (exec, json, ...)
}

func (e *CallError) Error() string {
	msg := fmt.Sprintf("ubus call %s %s: %v", e.Object, e.Method, e.Sentinel)
	if errors.Is(e.Sentinel, ErrExitStatus) {
		msg = fmt.Sprintf("%s (exit %d, %s)", msg, e.ExitCode, e.Status())
	}
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CallError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}

// Status interprets the exit code as a ubus status.
func (e *CallError) Status() Status {
	return Status(e.ExitCode)
}

// StatusError is returned by the control socket when ubusd answers a request
// with a non-OK status.
type StatusError struct {
	Op     string
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ubus: %s: %s", e.Op, e.Status)
}

// Kind classifies err into a short label for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvocation):
		return "invocation"
	case errors.Is(err, ErrExitStatus):
		return "exit_status"
	case errors.Is(err, ErrBadResponse):
		return "protocol"
	case errors.Is(err, ErrEncodeArgs):
		return "encode"
	case errors.Is(err, ErrNotConnected):
		return "not_connected"
	default:
		return "unknown"
	}
}
