// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ubus

import (
	"context"

	xglog "github.com/ManuGH/ubusgw/internal/log"
	"github.com/ManuGH/ubusgw/internal/metrics"
	"github.com/rs/zerolog"
)

// Client bundles the data-call capability with the optional control-socket
// connection used for object discovery.
type Client struct {
	Caller
	conn   *Conn
	logger zerolog.Logger
}

// NewClient wraps caller. conn may be nil; lookups then report "not found"
// without touching the bus.
func NewClient(caller Caller, conn *Conn) *Client {
	metrics.SetControlSocketConnected(conn != nil)
	return &Client{
		Caller: caller,
		conn:   conn,
		logger: xglog.WithComponent("ubus"),
	}
}

// Connect dials the control socket and wraps caller. A dial failure only
// disables object lookup; the returned client is always usable for calls.
func Connect(ctx context.Context, caller Caller, socket string) (*Client, error) {
	conn, err := Dial(ctx, socket)
	if err != nil {
		return NewClient(caller, nil), err
	}
	return NewClient(caller, conn), nil
}

// Connected reports whether a control-socket connection is held.
func (c *Client) Connected() bool {
	return c.conn != nil
}

// LookupObjectID resolves a bus object name to its numeric id. Without a
// control-socket connection it returns false and does nothing.
func (c *Client) LookupObjectID(ctx context.Context, name string) (uint32, bool) {
	if c.conn == nil {
		return 0, false
	}
	id, found, err := c.conn.LookupID(ctx, name)
	if err != nil {
		logger := xglog.WithContext(ctx, c.logger)
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "bus.lookup.failed").
			Str(xglog.FieldObject, name).
			Str(xglog.FieldSocket, c.conn.Path()).
			Msg("ubus object lookup failed")
		return 0, false
	}
	return id, found
}

// Close releases the control-socket connection, if any.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	metrics.SetControlSocketConnected(false)
	return c.conn.Close()
}
