// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics holds the Prometheus collectors shared across ubusgw.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultExit     = "exit_status"
	ResultSpawn    = "invocation"
	ResultProtocol = "protocol"
)

var (
	BusCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ubusgw_bus_calls_total",
		Help: "Total number of ubus calls by object, method and result",
	}, []string{"object", "method", "result"})

	BusCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ubusgw_bus_call_duration_seconds",
		Help:    "Duration of ubus calls in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"object", "method"})

	SessionOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ubusgw_session_operations_total",
		Help: "Session manager operations by operation and result",
	}, []string{"op", "result"})

	ControlSocketConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ubusgw_control_socket_connected",
		Help: "1 if the ubus control socket connection is established, 0 otherwise",
	})
)

// ObserveBusCall records the outcome and latency of a single bus call.
func ObserveBusCall(object, method, result string, elapsed time.Duration) {
	if result == "" {
		result = "unknown"
	}
	BusCallsTotal.WithLabelValues(object, method, result).Inc()
	BusCallDuration.WithLabelValues(object, method).Observe(elapsed.Seconds())
}

// IncSessionOperation records a session manager operation.
func IncSessionOperation(op string, ok bool) {
	result := ResultSuccess
	if !ok {
		result = ResultFailure
	}
	SessionOperationsTotal.WithLabelValues(op, result).Inc()
}

// SetControlSocketConnected toggles the control socket gauge.
func SetControlSocketConnected(connected bool) {
	if connected {
		ControlSocketConnected.Set(1)
		return
	}
	ControlSocketConnected.Set(0)
}
