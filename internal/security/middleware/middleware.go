package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/yourorg/roomreserve/internal/domain"
	"github.com/yourorg/roomreserve/internal/security"
	"github.com/yourorg/roomreserve/internal/security/auth"
	"github.com/yourorg/roomreserve/internal/security/ratelimit"
)

type ClaimsContextKey struct{}

// publicPath reports whether a request needs no token at all. The booking
// creation endpoint is optional-auth: anonymous guests may book, but a
// presented token must still be valid so the booking can be tied to the
// account.
func publicPath(r *http.Request) bool {
	p := r.URL.Path
	switch p {
	case "/", "/healthz", "/readyz", "/metrics",
		"/api/auth/register", "/api/auth/login", "/api/auth/login/json":
		return true
	}
	if strings.HasPrefix(p, "/api/rooms") {
		return true
	}
	if strings.HasPrefix(p, "/api/bookings") {
		// GET listings are public; POST create is optional-auth.
		return r.Method == http.MethodGet || r.Header.Get("Authorization") == ""
	}
	return false
}

// JWTMiddleware validates bearer tokens on protected paths and attaches the
// claims to the request context. Revoked tokens are rejected.
func JWTMiddleware(tm *auth.TokenManager, denylist *auth.Denylist, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPath(r) {
				next.ServeHTTP(w, r)
				return
			}

			var tokenString string
			authHeader := r.Header.Get("Authorization")
			switch {
			case authHeader != "":
				extracted, err := auth.ExtractToken(authHeader)
				if err != nil {
					writeJSONError(w, http.StatusUnauthorized, "invalid authorization header")
					return
				}
				tokenString = extracted
			case strings.HasPrefix(r.URL.Path, "/ws/"):
				// Browsers cannot set headers on WebSocket upgrades.
				tokenString = r.URL.Query().Get("token")
				if tokenString == "" {
					writeJSONError(w, http.StatusUnauthorized, "missing token")
					return
				}
			default:
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				log.Debug("token validation failed", slog.String("error", err.Error()))
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if denylist != nil && denylist.IsRevoked(r.Context(), claims.ID) {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// adminPermission maps an admin path to the permission it needs.
func adminPermission(p string) security.Permission {
	switch {
	case strings.HasPrefix(p, "/api/admin/users"):
		return security.PermManageUsers
	case strings.HasPrefix(p, "/api/admin/stats"):
		return security.PermViewStats
	case strings.HasPrefix(p, "/api/admin/report"):
		return security.PermViewReports
	case strings.HasPrefix(p, "/ws/admin/"):
		return security.PermWatchEvents
	default:
		return security.PermManageBookings
	}
}

// AdminMiddleware gates the admin surface on the role claim.
func AdminMiddleware(authz *security.AuthorizationService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/admin/") && !strings.HasPrefix(r.URL.Path, "/ws/admin/") {
				next.ServeHTTP(w, r)
				return
			}

			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			if err := authz.ValidatePermission(domain.Role(claims.Role), adminPermission(r.URL.Path)); err != nil {
				log.Warn("admin access denied",
					slog.String("user_id", claims.UserID),
					slog.String("role", claims.Role),
					slog.String("path", r.URL.Path),
				)
				writeJSONError(w, http.StatusForbidden, "admin role required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// authEndpoint reports whether the path takes raw credentials.
func authEndpoint(p string) bool {
	return p == "/api/auth/register" || p == "/api/auth/login" || p == "/api/auth/login/json"
}

// RateLimitMiddleware throttles the credential endpoints per client IP.
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(clientIP(r)) {
				log.Warn("rate limit exceeded",
					slog.String("path", r.URL.Path),
					slog.String("remote", r.RemoteAddr),
				)
				writeJSONError(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GetClaimsFromContext returns the token claims attached by JWTMiddleware,
// or nil for anonymous requests.
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		if claims, ok := c.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func writeJSONError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
