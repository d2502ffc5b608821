// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"github.com/ManuGH/ubusgw/internal/validate"
)

// Validate validates an AppConfig using the centralized validation package.
func Validate(cfg AppConfig) error {
	v := validate.New()

	if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
		v.AddError("logLevel", "must be one of trace, debug, info, warn, error", cfg.LogLevel)
	}
	v.NotEmpty("logService", cfg.LogService)

	// Server
	v.ListenAddr("server.listenAddr", cfg.Server.ListenAddr)
	v.NonNegativeDuration("server.readTimeout", cfg.Server.ReadTimeout)
	v.NonNegativeDuration("server.writeTimeout", cfg.Server.WriteTimeout)
	v.NonNegativeDuration("server.idleTimeout", cfg.Server.IdleTimeout)
	v.Positive("server.maxHeaderBytes", cfg.Server.MaxHeaderBytes)
	v.MinDuration("server.shutdownTimeout", cfg.Server.ShutdownTimeout, MinShutdownTimeout)

	// Bus
	v.Command("bus.binary", cfg.Bus.Binary)
	v.AbsPath("bus.socket", cfg.Bus.Socket)
	v.NonNegativeDuration("bus.timeout", cfg.Bus.Timeout)
	v.WholeSeconds("bus.timeout", cfg.Bus.Timeout)
	v.NonNegativeDuration("bus.callTimeout", cfg.Bus.CallTimeout)

	// Rate limit
	if cfg.RateLimit.Enabled {
		v.Positive("rateLimit.requests", cfg.RateLimit.Requests)
		v.MinDuration("rateLimit.window", cfg.RateLimit.Window, 1)
	}

	// Metrics
	if cfg.Metrics.ListenAddr != "" {
		v.ListenAddr("metrics.listenAddr", cfg.Metrics.ListenAddr)
		if cfg.Metrics.ListenAddr == cfg.Server.ListenAddr {
			v.AddError("metrics.listenAddr", "must differ from server.listenAddr", cfg.Metrics.ListenAddr)
		}
	}

	// Telemetry
	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{ExporterGRPC, ExporterHTTP})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
	}
	v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)

	return v.Err()
}
