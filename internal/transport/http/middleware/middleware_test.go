package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestRequireTokenRejectsBeforeBodyIsRead(t *testing.T) {
	called := false
	handler := RequireToken(UpdateTokenHeader, "s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/payroll/update-status", strings.NewReader(`{"ids":["1"]}`))
	req.Header.Set(UpdateTokenHeader, "wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if called {
		t.Fatal("handler must not run without the token")
	}
	if !strings.Contains(rec.Body.String(), `"code":"unauthorized"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRequireTokenAcceptsMatchAndDisabledGate(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(UpdateTokenHeader, "s3cret")
	rec := httptest.NewRecorder()
	RequireToken(UpdateTokenHeader, "s3cret")(ok).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	RequireToken(UpdateTokenHeader, "")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected open gate, got %d", rec.Code)
	}
}

func TestBodyLimitRejectsDeclaredOversize(t *testing.T) {
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"much":"too long"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatalf("missing headers: %v", rec.Header())
	}
}

type routeRecorder struct {
	method string
	route  string
	status int
}

func (r *routeRecorder) Record(method, route string, status int, _ time.Duration) {
	r.method, r.route, r.status = method, route, status
}

func TestLoggerRecordsRoutePattern(t *testing.T) {
	metrics := &routeRecorder{}
	router := chi.NewRouter()
	router.Use(Logger(metrics))
	router.Get("/payroll/history/{id}/paystub.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payroll/history/123/paystub.pdf", nil))

	if metrics.route != "/payroll/history/{id}/paystub.pdf" || metrics.status != http.StatusNotFound || metrics.method != http.MethodGet {
		t.Fatalf("unexpected observation %+v", metrics)
	}
}
