// AngelaMos | 2026
// security_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/carterperez-dev/beanscore/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func testCORSConfig() config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS(testCORSConfig())(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/v1/coffee-places", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow-origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("allow-methods = %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("credentials header missing")
	}
}

func TestCORS_UnknownOrigin(t *testing.T) {
	h := CORS(testCORSConfig())(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/v1/coffee-places", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin = %q, want none", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	for _, production := range []bool{false, true} {
		rec := httptest.NewRecorder()
		SecurityHeaders(production)(okHandler).ServeHTTP(
			rec,
			httptest.NewRequest(http.MethodGet, "/", nil),
		)

		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Error("nosniff missing")
		}
		hsts := rec.Header().Get("Strict-Transport-Security")
		if production && hsts == "" {
			t.Error("HSTS missing in production")
		}
		if !production && hsts != "" {
			t.Error("HSTS set outside production")
		}
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "trace-123" || rec.Header().Get(RequestIDHeader) != "trace-123" {
		t.Errorf("inbound id not propagated: ctx=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if len(seen) != 36 {
		t.Errorf("oversized id not replaced, got %q", seen)
	}
}
