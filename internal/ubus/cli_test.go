// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ubus

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRun struct {
	name string
	args []string
	ctx  context.Context
}

type fakeRunner struct {
	mu     sync.Mutex
	calls  []recordedRun
	result RunResult
	err    error
}

func (f *fakeRunner) run(ctx context.Context, name string, args []string) (RunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedRun{name: name, args: append([]string(nil), args...), ctx: ctx})
	return f.result, f.err
}

func TestCLI_Call_Success(t *testing.T) {
	fr := &fakeRunner{result: RunResult{Stdout: []byte("{\n\t\"uptime\": 54321\n}\n")}}
	cli := NewCLI(WithRunner(fr.run))

	out, err := cli.Call(context.Background(), "system", "info", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"uptime":54321}`, string(out))

	require.Len(t, fr.calls, 1)
	assert.Equal(t, DefaultBinary, fr.calls[0].name)
	assert.Equal(t, []string{"call", "system", "info"}, fr.calls[0].args)
}

func TestCLI_Call_EncodesArgsAsJSON(t *testing.T) {
	fr := &fakeRunner{result: RunResult{Stdout: []byte(`{"ubus_rpc_session":"abc"}`)}}
	cli := NewCLI(WithRunner(fr.run))

	args := map[string]any{
		"username": `ad"min`,
		"password": "p\\ss\n\"}, \"timeout\": 0",
		"timeout":  300,
	}
	_, err := cli.Call(context.Background(), "session", "login", args)
	require.NoError(t, err)

	require.Len(t, fr.calls, 1)
	argv := fr.calls[0].args
	require.Len(t, argv, 4)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(argv[3]), &decoded))
	assert.Equal(t, `ad"min`, decoded["username"])
	assert.Equal(t, "p\\ss\n\"}, \"timeout\": 0", decoded["password"])
	assert.Equal(t, float64(300), decoded["timeout"])
}

func TestCLI_Call_EmptyStdoutIsEmptyObject(t *testing.T) {
	fr := &fakeRunner{result: RunResult{Stdout: []byte("  \n")}}
	cli := NewCLI(WithRunner(fr.run))

	out, err := cli.Call(context.Background(), "session", "get", map[string]string{"ubus_rpc_session": "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}

func TestCLI_Call_Failures(t *testing.T) {
	tests := []struct {
		name     string
		result   RunResult
		runErr   error
		sentinel error
		kind     string
	}{
		{
			name:     "spawn failure",
			runErr:   exec.ErrNotFound,
			sentinel: ErrInvocation,
			kind:     "invocation",
		},
		{
			name:     "non-zero exit",
			result:   RunResult{ExitCode: 4, Stderr: []byte("Command failed: Not found\n")},
			sentinel: ErrExitStatus,
			kind:     "exit_status",
		},
		{
			name:     "garbage stdout",
			result:   RunResult{Stdout: []byte("Command failed: whatever")},
			sentinel: ErrBadResponse,
			kind:     "protocol",
		},
		{
			name:     "json array is not an object",
			result:   RunResult{Stdout: []byte(`[1,2,3]`)},
			sentinel: ErrBadResponse,
			kind:     "protocol",
		},
		{
			name:     "truncated object",
			result:   RunResult{Stdout: []byte(`{"uptime": 1`)},
			sentinel: ErrBadResponse,
			kind:     "protocol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := &fakeRunner{result: tt.result, err: tt.runErr}
			cli := NewCLI(WithRunner(fr.run))

			out, err := cli.Call(context.Background(), "session", "get", nil)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.kind, Kind(err))

			var ce *CallError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "session", ce.Object)
			assert.Equal(t, "get", ce.Method)
		})
	}
}

func TestCLI_Call_ExitStatusCarriesBusStatus(t *testing.T) {
	fr := &fakeRunner{result: RunResult{ExitCode: 6, Stderr: []byte("Command failed: Permission denied")}}
	cli := NewCLI(WithRunner(fr.run))

	_, err := cli.Call(context.Background(), "session", "login", map[string]string{})
	var ce *CallError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, StatusPermissionDenied, ce.Status())
	assert.Equal(t, "Command failed: Permission denied", ce.Stderr)
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
}

func TestCLI_Call_UnencodableArgs(t *testing.T) {
	fr := &fakeRunner{}
	cli := NewCLI(WithRunner(fr.run))

	_, err := cli.Call(context.Background(), "session", "login", map[string]any{"bad": make(chan int)})
	assert.ErrorIs(t, err, ErrEncodeArgs)
	assert.Empty(t, fr.calls, "runner must not be invoked when args cannot be encoded")
}

func TestCLI_Call_IgnoresCallerCancellation(t *testing.T) {
	fr := &fakeRunner{result: RunResult{Stdout: []byte(`{}`)}}
	cli := NewCLI(WithRunner(fr.run))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cli.Call(ctx, "system", "info", nil)
	require.NoError(t, err)
	require.Len(t, fr.calls, 1)
	assert.NoError(t, fr.calls[0].ctx.Err(), "bus call must not inherit caller cancellation")
	_, hasDeadline := fr.calls[0].ctx.Deadline()
	assert.False(t, hasDeadline)
}

func TestCLI_Call_CallTimeoutSetsDeadline(t *testing.T) {
	fr := &fakeRunner{result: RunResult{Stdout: []byte(`{}`)}}
	cli := NewCLI(WithRunner(fr.run), WithCallTimeout(5*time.Second))

	_, err := cli.Call(context.Background(), "system", "info", nil)
	require.NoError(t, err)
	_, hasDeadline := fr.calls[0].ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestCLI_Argv(t *testing.T) {
	tests := []struct {
		name string
		opts []CLIOption
		args any
		want []string
	}{
		{
			name: "defaults",
			want: []string{"call", "system", "info"},
		},
		{
			name: "default socket is not passed",
			opts: []CLIOption{WithSocket(DefaultSocket)},
			want: []string{"call", "system", "info"},
		},
		{
			name: "custom socket and timeout",
			opts: []CLIOption{WithSocket("/tmp/ubus.sock"), WithBusTimeout(10 * time.Second)},
			want: []string{"-s", "/tmp/ubus.sock", "-t", "10", "call", "system", "info"},
		},
		{
			name: "sub-second timeout is dropped",
			opts: []CLIOption{WithBusTimeout(500 * time.Millisecond)},
			want: []string{"call", "system", "info"},
		},
		{
			name: "with message",
			args: map[string]string{"ubus_rpc_session": "abc"},
			want: []string{"call", "system", "info", `{"ubus_rpc_session":"abc"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, err := NewCLI(tt.opts...).Argv("system", "info", tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, argv)
		})
	}
}

func TestCLI_WithBinary(t *testing.T) {
	fr := &fakeRunner{result: RunResult{Stdout: []byte(`{}`)}}
	cli := NewCLI(WithRunner(fr.run), WithBinary("/usr/bin/ubus"), WithBinary("  "))

	_, err := cli.Call(context.Background(), "system", "info", nil)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/ubus", fr.calls[0].name)
}

func TestDefaultRun(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	ctx := context.Background()

	res, err := defaultRun(ctx, sh, []string{"-c", `printf '{"uptime":7}'; echo oops >&2`})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, `{"uptime":7}`, string(res.Stdout))
	assert.Equal(t, "oops\n", string(res.Stderr))

	res, err = defaultRun(ctx, sh, []string{"-c", "exit 4"})
	require.NoError(t, err)
	assert.Equal(t, 4, res.ExitCode)

	_, err = defaultRun(ctx, "/nonexistent/ubus-binary", nil)
	assert.Error(t, err)
}

func TestDefaultRun_TimeoutKillsTool(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	cli := NewCLI(WithBinary(sh), WithCallTimeout(100*time.Millisecond))
	cli.run = func(ctx context.Context, name string, _ []string) (RunResult, error) {
		// A forked child keeps stdout open unless the whole group dies.
		return defaultRun(ctx, name, []string{"-c", "sleep 30 & sleep 30"})
	}

	start := time.Now()
	_, err = cli.Call(context.Background(), "system", "info", nil)
	assert.ErrorIs(t, err, ErrInvocation)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}

func TestMinimalEnv(t *testing.T) {
	t.Setenv("PATH", "/opt/bin")
	t.Setenv("SECRET_TOKEN", "should-not-leak")
	assert.Equal(t, []string{"PATH=/opt/bin"}, minimalEnv())

	t.Setenv("PATH", "")
	assert.Equal(t, []string{"PATH=" + fallbackPath}, minimalEnv())
}
