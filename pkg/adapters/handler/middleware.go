package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/config"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
)

type contextKey string

const adminEmailKey contextKey = "admin_email"

// AdminEmail returns the authenticated admin stored by AuthMiddleware
func AdminEmail(ctx context.Context) string {
	email, _ := ctx.Value(adminEmailKey).(string)
	return email
}

type Middleware struct {
	jwtSecret     []byte
	allowedEmails []string
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{
		jwtSecret:     []byte(cfg.JWTSecret),
		allowedEmails: cfg.AllowedEmails,
	}
}

// AuthMiddleware verifies the JWT token from the cookie
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check for auth_token cookie
		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			m.deny(w, r)
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
			return m.jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid || !emailAllowed(m.allowedEmails, claims.Subject) {
			m.deny(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), adminEmailKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) deny(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	http.Redirect(w, r, "/auth/google/login", http.StatusTemporaryRedirect)
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// emailAllowed is true for every email when the allowlist is empty
func emailAllowed(allowed []string, email string) bool {
	if len(allowed) == 0 {
		return true
	}
	email = strings.ToLower(email)
	for _, a := range allowed {
		if a == email {
			return true
		}
	}
	return false
}

const viewGuardKey contextKey = "view_guard"

// WithViewGuard scopes view deduplication to one request
func WithViewGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), viewGuardKey, domain.NewViewGuard())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func viewGuardFrom(r *http.Request) *domain.ViewGuard {
	if g, ok := r.Context().Value(viewGuardKey).(*domain.ViewGuard); ok {
		return g
	}
	return domain.NewViewGuard()
}
