// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuGH/ubusgw/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader("", "1.2.3").Load()
	require.NoError(t, err)

	want := Defaults()
	want.Version = "1.2.3"
	assert.Equal(t, want, cfg)
	assert.Equal(t, "localhost:8080", cfg.Server.ListenAddr)
	assert.Equal(t, "/var/run/ubus.sock", cfg.Bus.Socket)
	assert.Zero(t, cfg.Server.WriteTimeout)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoad_DefaultYAMLMatchesDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", DefaultYAML)

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
logLevel: debug
server:
  listenAddr: 0.0.0.0:9000
  shutdownTimeout: 5s
bus:
  binary: /bin/ubus
  socket: /tmp/ubus.sock
  timeout: 10s
rateLimit:
  enabled: true
  requests: 5
metrics:
  listenAddr: 127.0.0.1:9100
telemetry:
  enabled: true
  exporter: grpc
  endpoint: collector:4317
  samplingRate: 0.25
`)

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.ListenAddr)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout, "unset keys keep defaults")
	assert.Equal(t, "/bin/ubus", cfg.Bus.Binary)
	assert.Equal(t, "/tmp/ubus.sock", cfg.Bus.Socket)
	assert.Equal(t, 10*time.Second, cfg.Bus.Timeout)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.ListenAddr)
	assert.Equal(t, TelemetryConfig{Enabled: true, Exporter: "grpc", Endpoint: "collector:4317", SamplingRate: 0.25}, cfg.Telemetry)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.yml", `
server:
  listenAddr: 0.0.0.0:9000
bus:
  callTimeout: 2s
`)
	t.Setenv(EnvListen, "127.0.0.1:7000")
	t.Setenv(EnvBusCallTimeout, "4s")
	t.Setenv(EnvRateLimitEnabled, "yes")
	t.Setenv(EnvTelemetrySamplingRate, "0.5")

	l := NewLoader(path, "")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Server.ListenAddr)
	assert.Equal(t, 4*time.Second, cfg.Bus.CallTimeout)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 0.5, cfg.Telemetry.SamplingRate)

	assert.Contains(t, l.ConsumedEnvKeys, EnvListen)
	assert.Contains(t, l.ConsumedEnvKeys, EnvTelemetryEndpoint)
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv(EnvServerReadTimeout, "soon")
	t.Setenv(EnvRateLimitRequests, "many")

	cfg, err := NewLoader("", "").Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60, cfg.RateLimit.Requests)
}

func TestLoad_ClampsShutdownTimeout(t *testing.T) {
	t.Setenv(EnvServerShutdownTimeout, "1s")

	cfg, err := NewLoader("", "").Load()
	require.NoError(t, err)
	assert.Equal(t, MinShutdownTimeout, cfg.Server.ShutdownTimeout)
}

func TestLoad_StrictFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		is      error
	}{
		{name: "unknown key", file: "c.yaml", content: "bus:\n  sockett: /x\n", is: ErrUnknownConfigField},
		{name: "second document", file: "c.yaml", content: "logLevel: info\n---\nlogLevel: debug\n", is: ErrMultipleDocuments},
		{name: "not yaml extension", file: "c.json", content: "{}", is: ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			_, err := NewLoader(path, "").Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestLoad_BadDurationInFile(t *testing.T) {
	path := writeConfig(t, "c.yaml", "server:\n  readTimeout: fast\n")
	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.readTimeout")
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeConfig(t, "c.yaml", "")
	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"), "").Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, "c.yaml", "logLevel: loud\nbus:\n  socket: relative.sock\n")
	_, err := NewLoader(path, "").Load()
	require.Error(t, err)

	var ve validate.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve.Errors()))
	for _, e := range ve.Errors() {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"logLevel", "bus.socket"}, fields)
}
