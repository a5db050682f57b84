package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourorg/roomreserve/internal/security"
	"github.com/yourorg/roomreserve/internal/security/auth"
	"github.com/yourorg/roomreserve/internal/security/ratelimit"
)

var testLogger = slog.Default()

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func bearer(t *testing.T, tm *auth.TokenManager, role string) string {
	t.Helper()
	token, err := tm.GenerateToken("u-1", "user@example.com", role, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func TestJWTMiddlewarePublicPaths(t *testing.T) {
	tm := auth.NewTokenManager("secret", "test")
	h := JWTMiddleware(tm, nil, testLogger)(okHandler())

	public := []struct{ method, path string }{
		{"GET", "/healthz"},
		{"GET", "/api/rooms"},
		{"GET", "/api/rooms/abc"},
		{"GET", "/api/bookings"},
		{"POST", "/api/auth/register"},
		{"POST", "/api/auth/login"},
		{"POST", "/api/bookings"}, // anonymous guest booking
	}
	for _, tc := range public {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s %s: expected 200 without token, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestJWTMiddlewareProtectedPaths(t *testing.T) {
	tm := auth.NewTokenManager("secret", "test")
	h := JWTMiddleware(tm, nil, testLogger)(okHandler())

	protected := []struct{ method, path string }{
		{"GET", "/api/auth/me"},
		{"GET", "/api/user/bookings"},
		{"GET", "/api/admin/stats"},
		{"POST", "/api/auth/logout"},
	}
	for _, tc := range protected {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", tc.method, tc.path, rec.Code)
		}

		var body map[string]string
		json.NewDecoder(rec.Body).Decode(&body)
		if body["detail"] == "" {
			t.Errorf("%s %s: error body must carry a detail field", tc.method, tc.path)
		}
	}

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", bearer(t, tm, "user"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a valid token, got %d", rec.Code)
	}
}

func TestJWTMiddlewareRejectsBadTokens(t *testing.T) {
	tm := auth.NewTokenManager("secret", "test")
	h := JWTMiddleware(tm, nil, testLogger)(okHandler())

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}

	other := auth.NewTokenManager("other-secret", "test")
	req = httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", bearer(t, other, "user"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for token with wrong signature, got %d", rec.Code)
	}
}

func TestAdminMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", "test")
	authz := security.NewAuthorizationService(testLogger)
	h := JWTMiddleware(tm, nil, testLogger)(AdminMiddleware(authz, testLogger)(okHandler()))

	// Regular user is authenticated but not authorized.
	req := httptest.NewRequest("GET", "/api/admin/stats", nil)
	req.Header.Set("Authorization", bearer(t, tm, "user"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/admin/stats", nil)
	req.Header.Set("Authorization", bearer(t, tm, "admin"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}

	// Non-admin paths pass straight through.
	req = httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", bearer(t, tm, "user"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on non-admin path, got %d", rec.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewLimiter(2, time.Minute)
	defer limiter.Stop()
	h := RateLimitMiddleware(limiter, testLogger)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 past the limit, got %d", rec.Code)
	}

	// Non-credential endpoints are never throttled.
	req = httptest.NewRequest("GET", "/api/rooms", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on unthrottled path, got %d", rec.Code)
	}
}
