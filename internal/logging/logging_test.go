package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddlewareLogsRequest(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	var seenID string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(rec, req)

	if seenID != "abc" {
		t.Errorf("request id in handler = %q, want abc", seenID)
	}
	if rec.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("response X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}

	completed := logs.FilterMessage("request completed").All()
	if len(completed) != 1 {
		t.Fatalf("got %d completion entries", len(completed))
	}
	fields := completed[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["request_id"] != "abc" {
		t.Errorf("fields = %v", fields)
	}
}

func TestMiddlewareGeneratesRequestID(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated request id")
	}
}

func TestInitOff(t *testing.T) {
	if err := Init(Config{OutputPath: "off"}); err != nil {
		t.Fatal(err)
	}
	defer SetLogger(nil)
	if L().Core().Enabled(zap.ErrorLevel) {
		t.Error("logger should be disabled")
	}
}

func TestWithContextFallsBack(t *testing.T) {
	SetLogger(nil)
	if WithContext(context.Background()) == nil {
		t.Error("WithContext returned nil")
	}
}
