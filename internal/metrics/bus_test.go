// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func histogramCount(t *testing.T, obs prometheus.Observer) uint64 {
	t.Helper()
	m, ok := obs.(prometheus.Metric)
	require.True(t, ok, "observer is not a metric")
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	return out.GetHistogram().GetSampleCount()
}

func TestObserveBusCall(t *testing.T) {
	before := testutil.ToFloat64(BusCallsTotal.WithLabelValues("system", "info", ResultSuccess))
	countBefore := histogramCount(t, BusCallDuration.WithLabelValues("system", "info"))

	ObserveBusCall("system", "info", ResultSuccess, 20*time.Millisecond)

	after := testutil.ToFloat64(BusCallsTotal.WithLabelValues("system", "info", ResultSuccess))
	assert.Equal(t, before+1, after)
	assert.Equal(t, countBefore+1, histogramCount(t, BusCallDuration.WithLabelValues("system", "info")))
}

func TestObserveBusCall_EmptyResult(t *testing.T) {
	before := testutil.ToFloat64(BusCallsTotal.WithLabelValues("session", "get", "unknown"))
	ObserveBusCall("session", "get", "", time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(BusCallsTotal.WithLabelValues("session", "get", "unknown")))
}

func TestIncSessionOperation(t *testing.T) {
	okBefore := testutil.ToFloat64(SessionOperationsTotal.WithLabelValues("login", ResultSuccess))
	failBefore := testutil.ToFloat64(SessionOperationsTotal.WithLabelValues("login", ResultFailure))

	IncSessionOperation("login", true)
	IncSessionOperation("login", false)
	IncSessionOperation("login", false)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(SessionOperationsTotal.WithLabelValues("login", ResultSuccess)))
	assert.Equal(t, failBefore+2, testutil.ToFloat64(SessionOperationsTotal.WithLabelValues("login", ResultFailure)))
}

func TestSetControlSocketConnected(t *testing.T) {
	SetControlSocketConnected(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(ControlSocketConnected))
	SetControlSocketConnected(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(ControlSocketConnected))
}
