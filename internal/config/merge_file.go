// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
	"time"
)

// mergeFileConfig overlays the keys present in src onto dst.
func mergeFileConfig(dst *AppConfig, src *FileConfig) error {
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogService != "" {
		dst.LogService = src.LogService
	}

	return errors.Join(
		mergeFileServer(&dst.Server, src.Server),
		mergeFileBus(&dst.Bus, src.Bus),
		mergeFileRateLimit(&dst.RateLimit, src.RateLimit),
		mergeFileTelemetry(&dst.Telemetry, src.Telemetry),
		mergeFileMetrics(&dst.Metrics, src.Metrics),
	)
}

func mergeFileServer(dst *ServerConfig, src ServerFileConfig) error {
	if src.ListenAddr != "" {
		dst.ListenAddr = src.ListenAddr
	}
	if src.MaxHeaderBytes != nil {
		dst.MaxHeaderBytes = *src.MaxHeaderBytes
	}
	return errors.Join(
		mergeDuration(&dst.ReadTimeout, "server.readTimeout", src.ReadTimeout),
		mergeDuration(&dst.WriteTimeout, "server.writeTimeout", src.WriteTimeout),
		mergeDuration(&dst.IdleTimeout, "server.idleTimeout", src.IdleTimeout),
		mergeDuration(&dst.ShutdownTimeout, "server.shutdownTimeout", src.ShutdownTimeout),
	)
}

func mergeFileBus(dst *BusConfig, src BusFileConfig) error {
	if src.Binary != "" {
		dst.Binary = src.Binary
	}
	if src.Socket != "" {
		dst.Socket = src.Socket
	}
	return errors.Join(
		mergeDuration(&dst.Timeout, "bus.timeout", src.Timeout),
		mergeDuration(&dst.CallTimeout, "bus.callTimeout", src.CallTimeout),
	)
}

func mergeFileRateLimit(dst *RateLimitConfig, src RateLimitFileConfig) error {
	if src.Enabled != nil {
		dst.Enabled = *src.Enabled
	}
	if src.Requests != nil {
		dst.Requests = *src.Requests
	}
	return mergeDuration(&dst.Window, "rateLimit.window", src.Window)
}

func mergeFileMetrics(dst *MetricsConfig, src MetricsFileConfig) error {
	if src.ListenAddr != nil {
		dst.ListenAddr = *src.ListenAddr
	}
	return nil
}

func mergeFileTelemetry(dst *TelemetryConfig, src TelemetryFileConfig) error {
	if src.Enabled != nil {
		dst.Enabled = *src.Enabled
	}
	if src.Exporter != "" {
		dst.Exporter = src.Exporter
	}
	if src.Endpoint != "" {
		dst.Endpoint = src.Endpoint
	}
	if src.SamplingRate != nil {
		dst.SamplingRate = *src.SamplingRate
	}
	return nil
}

func mergeDuration(dst *time.Duration, key, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
