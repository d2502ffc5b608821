// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package session implements login and authenticated uptime queries on top
// of the ubus session and system objects.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	xglog "github.com/ManuGH/ubusgw/internal/log"
	"github.com/ManuGH/ubusgw/internal/metrics"
	"github.com/ManuGH/ubusgw/internal/ubus"
	"github.com/rs/zerolog"
)

// DefaultTimeout is the session lifetime in seconds requested on login.
const DefaultTimeout = 300

// Bus objects and methods used by the manager.
const (
	objectSession = "session"
	objectSystem  = "system"

	methodLogin = "login"
	methodGet   = "get"
	methodInfo  = "info"
)

// LoginRequest is the message sent to `session login`.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Timeout  int    `json:"timeout"`
}

// SessionRef identifies an existing session in `session get`.
type SessionRef struct {
	Session Token `json:"ubus_rpc_session"`
}

// Manager serializes all bus work behind one lock: at most one bus call is
// in flight at any time, and an uptime query holds the lock across both its
// authentication and its system call.
type Manager struct {
	mu     sync.Mutex
	bus    ubus.Caller
	logger zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New returns a Manager that talks to the bus through bus.
func New(bus ubus.Caller, opts ...Option) *Manager {
	m := &Manager{
		bus:    bus,
		logger: xglog.WithComponent("session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login creates a bus session for the given credentials.
func (m *Manager) Login(ctx context.Context, username, password string) Outcome[Token] {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger := xglog.WithContext(ctx, m.logger)

	token, expires, err := m.login(ctx, username, password)
	metrics.IncSessionOperation("login", err == nil)
	if err != nil {
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "session.login.failed").
			Str(xglog.FieldReason, ubusKind(err)).
			Str(xglog.FieldUsername, username).
			Msg("session login failed")
		return Failure[Token](ReasonLoginFailed)
	}

	evt := logger.Info().
		Str(xglog.FieldEvent, "session.login.succeeded").
		Str(xglog.FieldUsername, username).
		Str(xglog.FieldSessionID, xglog.MaskToken(string(token)))
	if expires != nil {
		evt = evt.Int64("expires", *expires)
	}
	evt.Msg("session created")

	return Success(token)
}

func (m *Manager) login(ctx context.Context, username, password string) (Token, *int64, error) {
	out, err := m.bus.Call(ctx, objectSession, methodLogin, LoginRequest{
		Username: username,
		Password: password,
		Timeout:  DefaultTimeout,
	})
	if err != nil {
		return "", nil, fmt.Errorf("session login: %w", err)
	}

	token, err := field[Token](out, "ubus_rpc_session")
	if err != nil {
		return "", nil, fmt.Errorf("session login reply: %w", err)
	}
	if token == "" {
		return "", nil, fmt.Errorf("session login reply: %w: ubus_rpc_session is empty", ErrMissingField)
	}

	var expires *int64
	if v, err := field[int64](out, "expires"); err == nil {
		expires = &v
	}
	return token, expires, nil
}

// Uptime returns the system uptime in seconds after validating sessionID.
// A rejected session short-circuits: the system object is not queried.
func (m *Manager) Uptime(ctx context.Context, sessionID string) Outcome[uint64] {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger := xglog.WithContext(ctx, m.logger)

	if !m.authenticate(ctx, sessionID) {
		metrics.IncSessionOperation("uptime", false)
		return Failure[uint64](ReasonAuthFailed)
	}

	uptime, err := m.uptime(ctx)
	metrics.IncSessionOperation("uptime", err == nil)
	if err != nil {
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "session.uptime.failed").
			Str(xglog.FieldReason, ubusKind(err)).
			Msg("system info query failed")
		return Failure[uint64](ReasonUptimeFailed)
	}
	return Success(uptime)
}

func (m *Manager) uptime(ctx context.Context) (uint64, error) {
	out, err := m.bus.Call(ctx, objectSystem, methodInfo, nil)
	if err != nil {
		return 0, fmt.Errorf("system info: %w", err)
	}
	v, err := field[uint64](out, "uptime")
	if err != nil {
		return 0, fmt.Errorf("system info reply: %w", err)
	}
	return v, nil
}

// authenticate succeeds iff `session get` for the token succeeds. The reply
// is not inspected and the result is never cached.
func (m *Manager) authenticate(ctx context.Context, sessionID string) bool {
	_, err := m.bus.Call(ctx, objectSession, methodGet, SessionRef{Session: Token(sessionID)})
	metrics.IncSessionOperation("authenticate", err == nil)
	if err != nil {
		logger := xglog.WithContext(ctx, m.logger)
		logger.Info().
			Err(err).
			Str(xglog.FieldEvent, "session.auth.rejected").
			Str(xglog.FieldReason, ubusKind(err)).
			Str(xglog.FieldSessionID, xglog.MaskToken(sessionID)).
			Msg("session validation failed")
		return false
	}
	return true
}

// field decodes one top-level member of a JSON object. Absent, null and
// ill-typed members are all reported as ErrMissingField.
func field[T any](payload json.RawMessage, name string) (T, error) {
	var zero T
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return zero, fmt.Errorf("%w: %v", ubus.ErrBadResponse, err)
	}
	raw, ok := obj[name]
	if !ok || string(raw) == "null" {
		return zero, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrMissingField, name, err)
	}
	return v, nil
}

func ubusKind(err error) string {
	if k := ubus.Kind(err); k != "unknown" {
		return k
	}
	return "protocol"
}
