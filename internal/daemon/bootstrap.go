// SPDX-License-Identifier: MIT

// Package daemon wires the gateway components together and manages their
// lifecycle.
package daemon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/ubusgw/internal/api"
	"github.com/ManuGH/ubusgw/internal/config"
	"github.com/ManuGH/ubusgw/internal/health"
	xglog "github.com/ManuGH/ubusgw/internal/log"
	"github.com/ManuGH/ubusgw/internal/session"
	"github.com/ManuGH/ubusgw/internal/telemetry"
	"github.com/ManuGH/ubusgw/internal/ubus"
)

// Bootstrap builds the runtime for cfg: tracing, the bus client, the session
// manager, the public API, and the operator listener with metrics and probes.
// extra CLI options are appended after the configured ones.
func Bootstrap(ctx context.Context, cfg config.AppConfig, extra ...ubus.CLIOption) (*App, error) {
	logger := xglog.WithComponent("daemon")

	service := cfg.LogService
	if service == "" {
		service = "ubusgw"
	}
	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    service,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	opts := append([]ubus.CLIOption{
		ubus.WithBinary(cfg.Bus.Binary),
		ubus.WithSocket(cfg.Bus.Socket),
		ubus.WithBusTimeout(cfg.Bus.Timeout),
		ubus.WithCallTimeout(cfg.Bus.CallTimeout),
	}, extra...)
	cli := ubus.NewCLI(opts...)

	dialCtx, cancel := context.WithTimeout(ctx, controlTimeout(cfg))
	client, err := ubus.Connect(dialCtx, cli, cfg.Bus.Socket)
	cancel()
	if err != nil {
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "bus.control.unavailable").
			Str(xglog.FieldSocket, cfg.Bus.Socket).
			Msg("control socket unavailable, object lookup disabled")
	}

	sessions := session.New(client)
	handler := api.New(cfg, sessions).Handler()

	mgr, err := NewManager(cfg.Server, Deps{
		Logger:         logger,
		APIHandler:     handler,
		MetricsHandler: operatorHandler(probes(cfg, client)),
		MetricsAddr:    cfg.Metrics.ListenAddr,
	})
	if err != nil {
		_ = client.Close()
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	// LIFO: the bus client closes before the tracer flushes.
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	mgr.RegisterShutdownHook("bus", func(context.Context) error {
		return client.Close()
	})

	app, err := NewApp(logger, mgr, client)
	if err != nil {
		return nil, err
	}
	app.probeTimeout = controlTimeout(cfg)
	return app, nil
}

// controlTimeout bounds each control-socket exchange.
func controlTimeout(cfg config.AppConfig) time.Duration {
	if cfg.Bus.Timeout > 0 {
		return cfg.Bus.Timeout
	}
	return ubus.DefaultControlTimeout
}

func probes(cfg config.AppConfig, client *ubus.Client) *health.Manager {
	h := health.NewManager(cfg.Version)
	h.RegisterChecker(health.NewBinaryChecker("bus_tool", cfg.Bus.Binary))
	h.RegisterChecker(health.NewSocketChecker("bus_socket", cfg.Bus.Socket))
	h.RegisterChecker(health.NewFuncChecker("control_socket", client.Connected,
		health.StatusDegraded, "object lookup disabled"))
	return h
}

// operatorHandler serves the operator listener: metrics and probes.
func operatorHandler(h *health.Manager) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", h.ServeHealth)
	r.Get("/readyz", h.ServeReady)
	return r
}
