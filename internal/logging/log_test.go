package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Writer: &buf, Level: "warn"})
	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestNewLoggerBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Writer: &buf, Level: "loud"})
	l.Debug("debug")
	l.Info("info")
	out := buf.String()
	if strings.Contains(out, "debug") || !strings.Contains(out, "info") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Writer: &buf, Level: "info"})
	h := Middleware(l, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	out := buf.String()
	for _, want := range []string{"method=GET", "path=/health", "status=418"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %q", want, out)
		}
	}
}
