// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	BusObjectKey   = "ubus.object"
	BusMethodKey   = "ubus.method"
	BusExitCodeKey = "ubus.exit_code"
	BusStatusKey   = "ubus.status"

	IntentKey = "ubusgw.intent"

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// BusCallAttributes creates span attributes for a ubus call.
func BusCallAttributes(object, method string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(BusObjectKey, object),
		attribute.String(BusMethodKey, method),
	}
}

// BusExitAttributes describes a bus call that ended with a non-zero exit status.
func BusExitAttributes(exitCode int, status string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.Int(BusExitCodeKey, exitCode)}
	if status != "" {
		attrs = append(attrs, attribute.String(BusStatusKey, status))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
