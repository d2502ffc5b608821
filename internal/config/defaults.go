// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

const (
	defaultLogLevel     = "info"
	defaultLogService   = "ubusgw"
	defaultBusBinary    = "ubus"
	defaultBusSocket    = "/var/run/ubus.sock"
	defaultRateRequests = 60
	defaultRateWindow   = time.Minute
	defaultOTLPEndpoint = "localhost:4318"
	defaultSamplingRate = 1.0
)

// Defaults returns the configuration used when neither file nor environment
// say otherwise.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:   defaultLogLevel,
		LogService: defaultLogService,
		Server:     DefaultServerConfig(),
		Bus: BusConfig{
			Binary: defaultBusBinary,
			Socket: defaultBusSocket,
		},
		RateLimit: RateLimitConfig{
			Requests: defaultRateRequests,
			Window:   defaultRateWindow,
		},
		Telemetry: TelemetryConfig{
			Exporter:     ExporterHTTP,
			Endpoint:     defaultOTLPEndpoint,
			SamplingRate: defaultSamplingRate,
		},
	}
}

// DefaultYAML is the commented config file written by `ubusgw config init`.
// Loading it yields Defaults().
const DefaultYAML = `# ubusgw configuration
# Precedence: environment (UBUSGW_*) > this file > built-in defaults.

logLevel: info
logService: ubusgw

server:
  listenAddr: localhost:8080
  readTimeout: 30s
  # 0 disables the write timeout; bus calls may block.
  writeTimeout: 0s
  idleTimeout: 120s
  maxHeaderBytes: 1048576
  shutdownTimeout: 15s

bus:
  binary: ubus
  socket: /var/run/ubus.sock
  # Passed to ubus as -t (whole seconds). 0 keeps the ubus default.
  timeout: 0s
  # Local bound on one ubus invocation. 0 disables it.
  callTimeout: 0s

rateLimit:
  enabled: false
  requests: 60
  window: 1m

metrics:
  # Empty disables the /metrics listener.
  listenAddr: ""

telemetry:
  enabled: false
  exporter: http
  endpoint: localhost:4318
  samplingRate: 1.0
`
