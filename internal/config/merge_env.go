// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

// Environment variables. Every key the loader consumes is listed here.
const (
	EnvLogLevel   = "UBUSGW_LOG_LEVEL"
	EnvLogService = "UBUSGW_LOG_SERVICE"

	EnvListen                = "UBUSGW_LISTEN"
	EnvServerReadTimeout     = "UBUSGW_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "UBUSGW_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout     = "UBUSGW_SERVER_IDLE_TIMEOUT"
	EnvServerMaxHeaderBytes  = "UBUSGW_SERVER_MAX_HEADER_BYTES"
	EnvServerShutdownTimeout = "UBUSGW_SERVER_SHUTDOWN_TIMEOUT"

	EnvBusBinary      = "UBUSGW_BUS_BINARY"
	EnvBusSocket      = "UBUSGW_BUS_SOCKET"
	EnvBusTimeout     = "UBUSGW_BUS_TIMEOUT"
	EnvBusCallTimeout = "UBUSGW_BUS_CALL_TIMEOUT"

	EnvRateLimitEnabled  = "UBUSGW_RATELIMIT_ENABLED"
	EnvRateLimitRequests = "UBUSGW_RATELIMIT_REQUESTS"
	EnvRateLimitWindow   = "UBUSGW_RATELIMIT_WINDOW"

	EnvMetricsListen = "UBUSGW_METRICS_LISTEN"

	EnvTelemetryEnabled      = "UBUSGW_TELEMETRY_ENABLED"
	EnvTelemetryExporter     = "UBUSGW_TELEMETRY_EXPORTER"
	EnvTelemetryEndpoint     = "UBUSGW_TELEMETRY_ENDPOINT"
	EnvTelemetrySamplingRate = "UBUSGW_TELEMETRY_SAMPLING_RATE"
)

// mergeEnvConfig applies environment overrides on top of cfg.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)
	cfg.LogService = l.envString(EnvLogService, cfg.LogService)

	s := &cfg.Server
	s.ListenAddr = l.envString(EnvListen, s.ListenAddr)
	s.ReadTimeout = l.envDuration(EnvServerReadTimeout, s.ReadTimeout)
	s.WriteTimeout = l.envDuration(EnvServerWriteTimeout, s.WriteTimeout)
	s.IdleTimeout = l.envDuration(EnvServerIdleTimeout, s.IdleTimeout)
	s.MaxHeaderBytes = l.envInt(EnvServerMaxHeaderBytes, s.MaxHeaderBytes)
	s.ShutdownTimeout = l.envDuration(EnvServerShutdownTimeout, s.ShutdownTimeout)

	b := &cfg.Bus
	b.Binary = l.envString(EnvBusBinary, b.Binary)
	b.Socket = l.envString(EnvBusSocket, b.Socket)
	b.Timeout = l.envDuration(EnvBusTimeout, b.Timeout)
	b.CallTimeout = l.envDuration(EnvBusCallTimeout, b.CallTimeout)

	r := &cfg.RateLimit
	r.Enabled = l.envBool(EnvRateLimitEnabled, r.Enabled)
	r.Requests = l.envInt(EnvRateLimitRequests, r.Requests)
	r.Window = l.envDuration(EnvRateLimitWindow, r.Window)

	cfg.Metrics.ListenAddr = l.envString(EnvMetricsListen, cfg.Metrics.ListenAddr)

	t := &cfg.Telemetry
	t.Enabled = l.envBool(EnvTelemetryEnabled, t.Enabled)
	t.Exporter = l.envString(EnvTelemetryExporter, t.Exporter)
	t.Endpoint = l.envString(EnvTelemetryEndpoint, t.Endpoint)
	t.SamplingRate = l.envFloat(EnvTelemetrySamplingRate, t.SamplingRate)
}
