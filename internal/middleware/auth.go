package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserRefKey contextKey = "user_ref"
	RoleKey    contextKey = "role"
)

// TokenAuth validates externally issued HS256 session tokens. Tokens are
// minted by the identity provider, never here; this layer only verifies
// and extracts the user reference and role claims.
type TokenAuth struct {
	secret      []byte
	adminAPIKey string
}

func NewTokenAuth(secret, adminAPIKey string) *TokenAuth {
	return &TokenAuth{secret: []byte(secret), adminAPIKey: adminAPIKey}
}

func (a *TokenAuth) parse(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Middleware requires a valid bearer token and attaches the user reference
// and role to the request context.
func (a *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header", r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
			return
		}

		claims, err := a.parse(parts[1])
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", r)
			} else {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
			}
			return
		}

		userRef, ok := claims["sub"].(string)
		if !ok || userRef == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid user reference in token", r)
			return
		}
		role, _ := claims["role"].(string)

		ctx := context.WithValue(r.Context(), UserRefKey, userRef)
		ctx = context.WithValue(ctx, RoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly gates the admin surface. Either the static X-Admin-Key header or
// a bearer token carrying role=admin is accepted.
func (a *TokenAuth) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("X-Admin-Key"); key != "" && a.adminAPIKey != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(a.adminAPIKey)) == 1 {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Invalid admin key", r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Admin credentials required", r)
			return
		}

		claims, err := a.parse(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
			return
		}
		if role, _ := claims["role"].(string); role != "admin" {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin access required", r)
			return
		}

		userRef, _ := claims["sub"].(string)
		ctx := context.WithValue(r.Context(), UserRefKey, userRef)
		ctx = context.WithValue(ctx, RoleKey, "admin")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserRef extracts the authenticated user reference from the context.
func GetUserRef(ctx context.Context) string {
	ref, _ := ctx.Value(UserRefKey).(string)
	return ref
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
