// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

// Telemetry exporters.
const (
	ExporterHTTP = "http"
	ExporterGRPC = "grpc"
)

// AppConfig is the effective, validated configuration.
type AppConfig struct {
	Version    string
	LogLevel   string
	LogService string

	Server    ServerConfig
	Bus       BusConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	Telemetry TelemetryConfig
}

// BusConfig controls how the ubus tool and control socket are used.
type BusConfig struct {
	// Binary is the ubus executable, a bare name or an absolute path.
	Binary string
	// Socket is the ubusd control socket.
	Socket string
	// Timeout is passed to the tool as -t in whole seconds; 0 keeps the tool default.
	Timeout time.Duration
	// CallTimeout bounds a single invocation locally; 0 disables it.
	CallTimeout time.Duration
}

// RateLimitConfig configures per-client-IP ingress limiting.
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// MetricsConfig configures the operator listener. An empty address disables it.
type MetricsConfig struct {
	ListenAddr string
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// FileConfig represents the YAML configuration structure. Unset keys keep
// their defaults, so scalars that have a meaningful zero are pointers.
type FileConfig struct {
	LogLevel   string `yaml:"logLevel,omitempty"`
	LogService string `yaml:"logService,omitempty"`

	Server    ServerFileConfig    `yaml:"server,omitempty"`
	Bus       BusFileConfig       `yaml:"bus,omitempty"`
	RateLimit RateLimitFileConfig `yaml:"rateLimit,omitempty"`
	Metrics   MetricsFileConfig   `yaml:"metrics,omitempty"`
	Telemetry TelemetryFileConfig `yaml:"telemetry,omitempty"`
}

// ServerFileConfig holds HTTP listener settings; durations are Go duration strings.
type ServerFileConfig struct {
	ListenAddr      string `yaml:"listenAddr,omitempty"`
	ReadTimeout     string `yaml:"readTimeout,omitempty"`
	WriteTimeout    string `yaml:"writeTimeout,omitempty"`
	IdleTimeout     string `yaml:"idleTimeout,omitempty"`
	MaxHeaderBytes  *int   `yaml:"maxHeaderBytes,omitempty"`
	ShutdownTimeout string `yaml:"shutdownTimeout,omitempty"`
}

// BusFileConfig holds bus settings.
type BusFileConfig struct {
	Binary      string `yaml:"binary,omitempty"`
	Socket      string `yaml:"socket,omitempty"`
	Timeout     string `yaml:"timeout,omitempty"`
	CallTimeout string `yaml:"callTimeout,omitempty"`
}

// RateLimitFileConfig holds rate limit settings.
type RateLimitFileConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Requests *int   `yaml:"requests,omitempty"`
	Window   string `yaml:"window,omitempty"`
}

// MetricsFileConfig holds operator listener settings.
type MetricsFileConfig struct {
	ListenAddr *string `yaml:"listenAddr,omitempty"`
}

// TelemetryFileConfig holds tracing settings.
type TelemetryFileConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}
