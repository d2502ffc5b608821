// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

// Token is the opaque session identifier issued by the bus. It is forwarded
// verbatim and never interpreted.
type Token string

// Outcome is the result of a session operation: either a value or a static,
// user-facing failure reason.
type Outcome[T any] struct {
	value  T
	reason string
	ok     bool
}

// Success wraps a successful result.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, ok: true}
}

// Failure wraps a failure reason.
func Failure[T any](reason string) Outcome[T] {
	return Outcome[T]{reason: reason}
}

// OK reports whether the operation succeeded.
func (o Outcome[T]) OK() bool { return o.ok }

// Value returns the result; it is the zero value on failure.
func (o Outcome[T]) Value() T { return o.value }

// Reason returns the failure reason; it is empty on success.
func (o Outcome[T]) Reason() string { return o.reason }
