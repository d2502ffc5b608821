// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ubus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	xglog "github.com/ManuGH/ubusgw/internal/log"
	"github.com/ManuGH/ubusgw/internal/metrics"
	"github.com/ManuGH/ubusgw/internal/procgroup"
	"github.com/ManuGH/ubusgw/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBinary is the ubus command-line tool looked up in PATH.
	DefaultBinary = "ubus"
	// DefaultSocket is the ubusd control socket.
	DefaultSocket = "/var/run/ubus.sock"

	fallbackPath = "/usr/sbin:/usr/bin:/sbin:/bin"
)

// Caller performs one call against a bus object. A nil args sends no
// message argument. On success the reply is a JSON object.
type Caller interface {
	Call(ctx context.Context, object, method string, args any) (json.RawMessage, error)
}

// RunResult is the captured outcome of a finished process.
type RunResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes a command. It returns an error only when the process could
// not be started or waited for; a non-zero exit is reported in RunResult.
type Runner func(ctx context.Context, name string, args []string) (RunResult, error)

// CLI is the production Caller. It invokes the ubus tool once per call.
type CLI struct {
	binary      string
	socket      string
	busTimeout  time.Duration
	callTimeout time.Duration
	run         Runner
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// CLIOption configures a CLI.
type CLIOption func(*CLI)

// WithBinary overrides the ubus tool path.
func WithBinary(path string) CLIOption {
	return func(c *CLI) {
		if strings.TrimSpace(path) != "" {
			c.binary = path
		}
	}
}

// WithSocket points the tool at a non-default ubusd socket (-s).
func WithSocket(path string) CLIOption {
	return func(c *CLI) { c.socket = path }
}

// WithBusTimeout sets the ubus request timeout passed as -t (whole seconds).
func WithBusTimeout(d time.Duration) CLIOption {
	return func(c *CLI) { c.busTimeout = d }
}

// WithCallTimeout bounds the whole process invocation. Zero disables it.
func WithCallTimeout(d time.Duration) CLIOption {
	return func(c *CLI) { c.callTimeout = d }
}

// WithRunner replaces process execution, mainly for tests.
func WithRunner(r Runner) CLIOption {
	return func(c *CLI) {
		if r != nil {
			c.run = r
		}
	}
}

// WithLogger sets the logger used for call diagnostics.
func WithLogger(l zerolog.Logger) CLIOption {
	return func(c *CLI) { c.logger = l }
}

// NewCLI returns a CLI caller with the given options applied.
func NewCLI(opts ...CLIOption) *CLI {
	c := &CLI{
		binary: DefaultBinary,
		socket: DefaultSocket,
		run:    defaultRun,
		logger: xglog.WithComponent("ubus"),
		tracer: telemetry.Tracer("ubusgw/ubus"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Argv returns the argument vector (without the binary) for a call.
func (c *CLI) Argv(object, method string, args any) ([]string, error) {
	argv := make([]string, 0, 8)
	if c.socket != "" && c.socket != DefaultSocket {
		argv = append(argv, "-s", c.socket)
	}
	if secs := int(c.busTimeout / time.Second); secs > 0 {
		argv = append(argv, "-t", strconv.Itoa(secs))
	}
	argv = append(argv, "call", object, method)
	if args != nil {
		msg, err := json.Marshal(args)
		if err != nil {
			return nil, err
		}
		argv = append(argv, string(msg))
	}
	return argv, nil
}

// Call invokes `ubus call <object> <method> [args]`. An issued call is never
// abandoned because the caller went away; only the configured call timeout
// bounds it.
func (c *CLI) Call(ctx context.Context, object, method string, args any) (json.RawMessage, error) {
	start := time.Now()
	ctx = context.WithoutCancel(ctx)
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	ctx, span := c.tracer.Start(ctx, "ubus "+object+"."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(telemetry.BusCallAttributes(object, method)...),
	)
	defer span.End()

	out, err := c.call(ctx, object, method, args)
	result := metrics.ResultSuccess
	if err != nil {
		result = Kind(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		span.SetAttributes(telemetry.ErrorAttributes(result)...)
		var ce *CallError
		if errors.As(err, &ce) && errors.Is(err, ErrExitStatus) {
			span.SetAttributes(telemetry.BusExitAttributes(ce.ExitCode, ce.Status().String())...)
		}
	}
	metrics.ObserveBusCall(object, method, result, time.Since(start))

	logger := xglog.WithContext(ctx, c.logger)
	logger.Debug().
		Str(xglog.FieldEvent, "bus.call").
		Str(xglog.FieldObject, object).
		Str(xglog.FieldMethod, method).
		Str(xglog.FieldResult, result).
		Dur(xglog.FieldDuration, time.Since(start)).
		Msg("ubus call finished")

	return out, err
}

func (c *CLI) call(ctx context.Context, object, method string, args any) (json.RawMessage, error) {
	argv, err := c.Argv(object, method, args)
	if err != nil {
		return nil, &CallError{Sentinel: ErrEncodeArgs, Object: object, Method: method, Err: err}
	}

	res, err := c.run(ctx, c.binary, argv)
	if err != nil {
		return nil, &CallError{Sentinel: ErrInvocation, Object: object, Method: method, ExitCode: -1, Err: err}
	}
	if res.ExitCode != 0 {
		return nil, &CallError{
			Sentinel: ErrExitStatus,
			Object:   object,
			Method:   method,
			ExitCode: res.ExitCode,
			Stderr:   strings.TrimSpace(string(res.Stderr)),
		}
	}

	out := bytes.TrimSpace(res.Stdout)
	if len(out) == 0 {
		// ubus prints nothing for calls that reply without data.
		return json.RawMessage("{}"), nil
	}
	if out[0] != '{' || !json.Valid(out) {
		return nil, &CallError{Sentinel: ErrBadResponse, Object: object, Method: method, Err: errors.New("stdout is not a JSON object")}
	}
	return json.RawMessage(out), nil
}

func defaultRun(ctx context.Context, name string, args []string) (RunResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = minimalEnv()
	procgroup.Bind(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := RunResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

func minimalEnv() []string {
	path := os.Getenv("PATH")
	if path == "" {
		path = fallbackPath
	}
	return []string{"PATH=" + path}
}
