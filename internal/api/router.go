// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import "net/url"

// Public routes. Matching is exact: "/login/" is an unknown route.
const (
	RouteLogin  = "/login"
	RouteUptime = "/uptime"
)

// Request parameters.
const (
	ParamUsername  = "username"
	ParamPassword  = "password"
	ParamSessionID = "session_id"
)

// Rejection reasons produced by Route.
const (
	ReasonMissingUsername  = "Login failed. Username is not provided"
	ReasonMissingPassword  = "Login failed. Password is not provided"
	ReasonMissingSessionID = "Failed getting uptime. Authorization is required"
	ReasonUnknownRoute     = "Unknown route"
)

// RejectStatus tags an InvalidIntent with the HTTP status it maps to.
type RejectStatus int

const (
	StatusBadRequest RejectStatus = iota + 1
	StatusUnauthorized
)

func (s RejectStatus) String() string {
	switch s {
	case StatusBadRequest:
		return "bad_request"
	case StatusUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Intent is what a request asks the gateway to do. The set of variants is
// closed: LoginIntent, UptimeIntent and InvalidIntent.
type Intent interface {
	// Kind names the variant for logs and span attributes.
	Kind() string
	isIntent()
}

// LoginIntent requests a new bus session.
type LoginIntent struct {
	Username string
	Password string
}

// UptimeIntent requests the system uptime on behalf of a session.
type UptimeIntent struct {
	SessionID string
}

// InvalidIntent is a request rejected before any bus work.
type InvalidIntent struct {
	Status RejectStatus
	Reason string
}

func (LoginIntent) Kind() string   { return "login" }
func (UptimeIntent) Kind() string  { return "uptime" }
func (InvalidIntent) Kind() string { return "invalid" }

func (LoginIntent) isIntent()   {}
func (UptimeIntent) isIntent()  {}
func (InvalidIntent) isIntent() {}

// ParamLookup reports a request parameter and whether it was supplied.
type ParamLookup interface {
	Lookup(name string) (string, bool)
}

// FormParams adapts parsed form values (query merged with a POST body).
type FormParams url.Values

// Lookup returns the first value for name. A parameter given with an empty
// value counts as present.
func (p FormParams) Lookup(name string) (string, bool) {
	vs, ok := p[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Route classifies a request path and its parameters. It performs no I/O.
func Route(path string, params ParamLookup) Intent {
	switch path {
	case RouteLogin:
		username, ok := params.Lookup(ParamUsername)
		if !ok {
			return InvalidIntent{Status: StatusUnauthorized, Reason: ReasonMissingUsername}
		}
		password, ok := params.Lookup(ParamPassword)
		if !ok {
			return InvalidIntent{Status: StatusUnauthorized, Reason: ReasonMissingPassword}
		}
		return LoginIntent{Username: username, Password: password}

	case RouteUptime:
		id, ok := params.Lookup(ParamSessionID)
		if !ok {
			return InvalidIntent{Status: StatusUnauthorized, Reason: ReasonMissingSessionID}
		}
		return UptimeIntent{SessionID: id}

	default:
		return InvalidIntent{Status: StatusBadRequest, Reason: ReasonUnknownRoute}
	}
}
