// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestConfigure_LevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "warn", Output: &buf, Version: "v0.0.1-test"})
	t.Cleanup(func() { Configure(Config{}) })

	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("global level = %v, want warn", zerolog.GlobalLevel())
	}

	l := WithComponent("config")
	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line above warn level, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry[FieldService] != "ubusgw" {
		t.Errorf("service = %v, want default ubusgw", entry[FieldService])
	}
	if entry[FieldVersion] != "v0.0.1-test" {
		t.Errorf("version = %v", entry[FieldVersion])
	}
}

func TestConfigure_InvalidLevelFallsBackToInfo(t *testing.T) {
	Configure(Config{Level: "chatty", Output: &bytes.Buffer{}})
	t.Cleanup(func() { Configure(Config{}) })

	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("global level = %v, want info", zerolog.GlobalLevel())
	}
}

func TestMiddleware_LogsWithoutQuery(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("nope"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/login?username=admin&password=hunter2", nil)
	req = req.WithContext(ContextWithRequestID(req.Context(), "rid-1"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Fatalf("access log leaked query string: %s", out)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("unmarshal: %v (%q)", err, out)
	}
	if entry[FieldPath] != "/login" {
		t.Errorf("path = %v", entry[FieldPath])
	}
	if entry[FieldHTTPStatus] != float64(http.StatusUnauthorized) {
		t.Errorf("status = %v", entry[FieldHTTPStatus])
	}
	if entry[FieldRequestID] != "rid-1" {
		t.Errorf("request_id = %v", entry[FieldRequestID])
	}
}
