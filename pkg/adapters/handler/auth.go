package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	authCookieName  = "auth_token"
	stateCookieName = "oauthstate"

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	sessionTTL        = 24 * time.Hour
	stateTTL          = 20 * time.Minute
)

// AuthHandler signs label staff into the admin API with Google. A verified,
// allowlisted email gets a signed session in the auth_token cookie.
type AuthHandler struct {
	oauthConfig   *oauth2.Config
	userInfoURL   string
	jwtSecret     []byte
	frontendURL   string
	allowedEmails []string
	secureCookies bool
}

type googleProfile struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL:   googleUserInfoURL,
		jwtSecret:     []byte(cfg.JWTSecret),
		frontendURL:   cfg.FrontendURL,
		allowedEmails: cfg.AllowedEmails,
		secureCookies: cfg.IsProduction(),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	state := base64.RawURLEncoding.EncodeToString(b)

	http.SetCookie(w, h.cookie(stateCookieName, state, time.Now().Add(stateTTL)))
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state, err := r.Cookie(stateCookieName)
	if err != nil {
		log.Printf("auth: callback without state cookie: %v", err)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}
	// Single use
	http.SetCookie(w, h.cookie(stateCookieName, "", time.Unix(0, 0)))

	if r.FormValue("state") != state.Value {
		log.Printf("auth: state mismatch")
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	profile, err := h.fetchProfile(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Printf("auth: %v", err)
		http.Error(w, "sign-in with Google failed", http.StatusBadGateway)
		return
	}

	switch {
	case !profile.VerifiedEmail:
		log.Printf("auth: rejected unverified email %s", profile.Email)
		http.Error(w, "Access denied: email not verified", http.StatusForbidden)
		return
	case !emailAllowed(h.allowedEmails, profile.Email):
		log.Printf("auth: rejected %s, not in ALLOWED_EMAILS", profile.Email)
		http.Error(w, "Access denied: your email is not in the allowlist", http.StatusForbidden)
		return
	}

	expiresAt := time.Now().Add(sessionTTL)
	session, err := h.signToken(profile.Email, expiresAt)
	if err != nil {
		log.Printf("auth: sign session for %s: %v", profile.Email, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.cookie(authCookieName, session, expiresAt))
	log.Printf("auth: %s signed in", profile.Email)
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie(authCookieName, "", time.Unix(0, 0)))
	http.Redirect(w, r, h.frontendURL+"/login", http.StatusTemporaryRedirect)
}

// fetchProfile exchanges the authorization code and reads the Google profile
func (h *AuthHandler) fetchProfile(ctx context.Context, code string) (*googleProfile, error) {
	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}

	resp, err := h.oauthConfig.Client(ctx, token).Get(h.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info: status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &profile, nil
}

func (h *AuthHandler) signToken(email string, expiresAt time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
