// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ubus

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUbusd speaks just enough of the ubusd protocol to answer lookups.
type fakeUbusd struct {
	t       *testing.T
	ln      net.Listener
	path    string
	objects map[string]uint32
	// denyLookups makes every lookup end with PERMISSION_DENIED.
	denyLookups bool
	// noise sends an unrelated message before each reply.
	noise bool
	// silent accepts connections but never sends HELLO.
	silent bool
	// mute sends HELLO but never answers lookups.
	mute bool

	wg sync.WaitGroup
}

func newFakeUbusd(t *testing.T, objects map[string]uint32) *fakeUbusd {
	t.Helper()
	// Unix socket paths are length-limited, keep the directory short.
	dir, err := os.MkdirTemp("", "ubusd")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "ubus.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)

	f := &fakeUbusd{t: t, ln: ln, path: path, objects: objects}
	t.Cleanup(func() {
		_ = ln.Close()
		f.wg.Wait()
	})
	return f
}

func (f *fakeUbusd) serve() {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		for {
			nc, err := f.ln.Accept()
			if err != nil {
				return
			}
			f.wg.Add(1)
			go func() {
				defer f.wg.Done()
				f.handle(nc)
			}()
		}
	}()
}

func (f *fakeUbusd) handle(nc net.Conn) {
	defer nc.Close()
	if f.silent {
		_, _ = io.Copy(io.Discard, nc)
		return
	}
	const peer = 0x0badcafe
	if _, err := nc.Write(encodeMessage(msgHello, 0, peer, nil)); err != nil {
		return
	}
	for {
		msg, err := readMessage(nc)
		if err != nil {
			return
		}
		if msg.typ != msgLookup || f.mute {
			continue
		}
		if f.noise {
			_, _ = nc.Write(encodeMessage(msgData, msg.seq+100, peer, appendStringAttr(nil, attrObjPath, "noise")))
		}
		status := uint32(StatusOK)
		switch {
		case f.denyLookups:
			status = uint32(StatusPermissionDenied)
		default:
			name := ""
			if a, ok := msg.attr(attrObjPath); ok {
				name = a.string()
			}
			id, ok := f.objects[name]
			if !ok {
				status = uint32(StatusNotFound)
				break
			}
			var payload []byte
			payload = appendStringAttr(payload, attrObjPath, name)
			payload = appendUint32Attr(payload, attrObjID, id)
			payload = appendUint32Attr(payload, attrObjType, id+1)
			if _, err := nc.Write(encodeMessage(msgData, msg.seq, peer, payload)); err != nil {
				return
			}
		}
		if _, err := nc.Write(encodeMessage(msgStatus, msg.seq, peer, appendUint32Attr(nil, attrStatus, status))); err != nil {
			return
		}
	}
}

func dialFake(t *testing.T, f *fakeUbusd) *Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, err := Dial(ctx, f.path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestDial_ReadsHello(t *testing.T) {
	f := newFakeUbusd(t, nil)
	f.serve()

	conn := dialFake(t, f)
	assert.Equal(t, uint32(0x0badcafe), conn.Peer())
	assert.Equal(t, f.path, conn.Path())
}

func TestDial_MissingSocket(t *testing.T) {
	_, err := Dial(context.Background(), filepath.Join(t.TempDir(), "absent.sock"))
	assert.Error(t, err)
}

func TestConn_LookupID(t *testing.T) {
	f := newFakeUbusd(t, map[string]uint32{"session": 0x1111, "system": 0x2222})
	f.noise = true
	f.serve()
	conn := dialFake(t, f)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	id, found, err := conn.LookupID(ctx, "system")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint32(0x2222), id)

	id, found, err = conn.LookupID(ctx, "session")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint32(0x1111), id)

	_, found, err = conn.LookupID(ctx, "network.interface")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestConn_LookupID_StatusError(t *testing.T) {
	f := newFakeUbusd(t, map[string]uint32{"system": 1})
	f.denyLookups = true
	f.serve()
	conn := dialFake(t, f)

	_, _, err := conn.LookupID(context.Background(), "system")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StatusPermissionDenied, se.Status)
}

func TestConn_LookupAfterClose(t *testing.T) {
	f := newFakeUbusd(t, nil)
	f.serve()
	conn := dialFake(t, f)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())

	_, _, err := conn.LookupID(context.Background(), "system")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestClient_LookupObjectID_WithoutConnection(t *testing.T) {
	c := NewClient(NewCLI(), nil)
	assert.False(t, c.Connected())

	id, ok := c.LookupObjectID(context.Background(), "system")
	assert.False(t, ok)
	assert.Zero(t, id)
	assert.NoError(t, c.Close())
}

func TestConnect_DegradesOnDialFailure(t *testing.T) {
	c, err := Connect(context.Background(), NewCLI(), filepath.Join(t.TempDir(), "absent.sock"))
	assert.Error(t, err)
	require.NotNil(t, c)
	assert.False(t, c.Connected())
	assert.NotNil(t, c.Caller)
}

func TestClient_LookupObjectID(t *testing.T) {
	f := newFakeUbusd(t, map[string]uint32{"session": 77})
	f.serve()

	c, err := Connect(context.Background(), NewCLI(), f.path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	assert.True(t, c.Connected())

	id, ok := c.LookupObjectID(context.Background(), "session")
	assert.True(t, ok)
	assert.Equal(t, uint32(77), id)

	_, ok = c.LookupObjectID(context.Background(), "missing")
	assert.False(t, ok)
}

func TestClient_LookupObjectID_ErrorIsFalse(t *testing.T) {
	f := newFakeUbusd(t, map[string]uint32{"session": 77})
	f.denyLookups = true
	f.serve()

	c, err := Connect(context.Background(), NewCLI(), f.path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, ok := c.LookupObjectID(context.Background(), "session")
	assert.False(t, ok)
}

func TestDial_SilentPeerTimesOut(t *testing.T) {
	f := newFakeUbusd(t, nil)
	f.silent = true
	f.serve()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Dial(ctx, f.path)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDial_SilentPeerWithoutDeadline(t *testing.T) {
	f := newFakeUbusd(t, nil)
	f.silent = true
	f.serve()

	start := time.Now()
	_, err := Dial(context.Background(), f.path)
	require.Error(t, err)
	assert.Less(t, time.Since(start), DefaultControlTimeout+time.Second)
}

func TestDial_CancelInterruptsHello(t *testing.T) {
	f := newFakeUbusd(t, nil)
	f.silent = true
	f.serve()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := Dial(ctx, f.path)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestConn_LookupID_MutePeerTimesOut(t *testing.T) {
	f := newFakeUbusd(t, map[string]uint32{"system": 1})
	f.mute = true
	f.serve()
	conn := dialFake(t, f)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := conn.LookupID(ctx, "system")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestConn_CloseUnblocksLookup(t *testing.T) {
	f := newFakeUbusd(t, map[string]uint32{"system": 1})
	f.mute = true
	f.serve()
	conn := dialFake(t, f)

	errCh := make(chan error, 1)
	go func() {
		_, _, err := conn.LookupID(context.Background(), "system")
		errCh <- err
	}()
	time.Sleep(50 * time.Millisecond)

	closed := make(chan error, 1)
	go func() { closed <- conn.Close() }()

	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close waited for a blocked lookup")
	}
	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("lookup still blocked after Close")
	}
}
