package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/inkpost/inkpost-go/internal/crypto"
	"github.com/inkpost/inkpost-go/internal/service"
)

// SessionCookieName is the cookie holding the opaque session token.
const SessionCookieName = "inkpost_session"

type contextKey string

const (
	userIDKey       contextKey = "userID"
	sessionTokenKey contextKey = "sessionToken"
)

// Auth requires an authenticated caller. It resolves the session cookie
// against the session store first, then falls back to a Bearer JWT for
// API clients; anonymous callers get a 401.
func Auth(auth *service.AuthService, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session, err := auth.CurrentUser(r.Context(), cookieToken(r)); err == nil {
				ctx := context.WithValue(r.Context(), userIDKey, session.UserID)
				ctx = context.WithValue(ctx, sessionTokenKey, session.Token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if token := bearerToken(r); token != "" {
				claims, err := crypto.ValidateToken(token, jwtSecret)
				if err != nil {
					writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}
				ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			writeJSONError(w, http.StatusUnauthorized, "authentication required")
		})
	}
}

// RequireAnonymous rejects callers that already hold a live session or a
// valid bearer token. It fronts register, login and the reset flow.
func RequireAnonymous(auth *service.AuthService, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := auth.CurrentUser(r.Context(), cookieToken(r)); err == nil {
				writeJSONError(w, http.StatusForbidden, "already authenticated")
				return
			}
			if token := bearerToken(r); token != "" {
				if _, err := crypto.ValidateToken(token, jwtSecret); err == nil {
					writeJSONError(w, http.StatusForbidden, "already authenticated")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// SessionTokenFromContext extracts the session token, when the caller
// authenticated with a cookie rather than a bearer token.
func SessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionTokenKey).(string)
	return token, ok
}

func cookieToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return ""
	}
	return token
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
