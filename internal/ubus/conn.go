// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ubus

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultControlTimeout bounds a control-socket exchange whose context
// carries no deadline of its own.
const DefaultControlTimeout = 2 * time.Second

// Conn is a persistent connection to the ubusd control socket. It is only
// used for object discovery; data calls go through the CLI.
type Conn struct {
	// mu serializes lookups. Close does not take it.
	mu     sync.Mutex
	nc     net.Conn
	closed atomic.Bool
	path   string
	peer   uint32
	seq    uint16
}

// Dial connects to the control socket at path and waits for the ubusd HELLO.
// A ubusd that accepts but stays silent fails the dial once ctx, or
// DefaultControlTimeout when ctx has no deadline, runs out.
func Dial(ctx context.Context, path string) (*Conn, error) {
	ctx, cancel := boundContext(ctx)
	defer cancel()

	var d net.Dialer
	nc, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}

	stop := watchDeadline(ctx, nc)
	hello, err := readMessage(nc)
	stop()
	if err != nil {
		_ = nc.Close()
		return nil, fmt.Errorf("read hello from %s: %w", path, err)
	}
	if hello.typ != msgHello {
		_ = nc.Close()
		return nil, fmt.Errorf("%w: expected hello, got message type %d", ErrProtocol, hello.typ)
	}

	return &Conn{nc: nc, path: path, peer: hello.peer}, nil
}

// boundContext adds DefaultControlTimeout to contexts without a deadline.
func boundContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, DefaultControlTimeout)
}

// watchDeadline applies ctx's deadline to nc and interrupts pending I/O when
// ctx is cancelled early. The returned func clears both.
func watchDeadline(ctx context.Context, nc net.Conn) func() {
	if deadline, ok := ctx.Deadline(); ok {
		_ = nc.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = nc.SetDeadline(time.Now())
	})
	return func() {
		stop()
		_ = nc.SetDeadline(time.Time{})
	}
}

// Path returns the socket path this connection was dialed with.
func (c *Conn) Path() string { return c.path }

// Peer returns the client id ubusd assigned to this connection.
func (c *Conn) Peer() uint32 { return c.peer }

// LookupID resolves an object path to its id. found is false when ubusd
// does not know the object.
func (c *Conn) LookupID(ctx context.Context, name string) (id uint32, found bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return 0, false, ErrNotConnected
	}

	c.seq++
	seq := c.seq

	ctx, cancel := boundContext(ctx)
	defer cancel()
	defer watchDeadline(ctx, c.nc)()

	var payload []byte
	if name != "" {
		payload = appendStringAttr(nil, attrObjPath, name)
	}
	if _, err := c.nc.Write(encodeMessage(msgLookup, seq, 0, payload)); err != nil {
		return 0, false, fmt.Errorf("send lookup: %w", err)
	}

	for {
		msg, err := readMessage(c.nc)
		if err != nil {
			return 0, false, fmt.Errorf("read lookup reply: %w", err)
		}
		if msg.seq != seq {
			continue
		}
		switch msg.typ {
		case msgData:
			pathAttr, okPath := msg.attr(attrObjPath)
			idAttr, okID := msg.attr(attrObjID)
			if !okPath || !okID || pathAttr.string() != name {
				continue
			}
			v, err := idAttr.uint32()
			if err != nil {
				return 0, false, err
			}
			id, found = v, true
		case msgStatus:
			st := StatusOK
			if a, ok := msg.attr(attrStatus); ok {
				v, err := a.uint32()
				if err != nil {
					return 0, false, err
				}
				st = Status(v)
			}
			switch st {
			case StatusOK:
				return id, found, nil
			case StatusNotFound:
				return 0, false, nil
			default:
				return 0, false, &StatusError{Op: "lookup " + name, Status: st}
			}
		}
	}
}

// Close closes the underlying socket. A lookup blocked on the socket fails
// instead of holding Close up.
func (c *Conn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.nc.Close()
}
