package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/config"
	"golang.org/x/oauth2"
)

// newFakeGoogle serves the token and userinfo endpoints used by Callback
func newFakeGoogle(t *testing.T, email string, verified bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "fake-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fake-access-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(googleProfile{Email: email, VerifiedEmail: verified, Name: "Test"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestAuthHandler(google *httptest.Server, allowed []string) *AuthHandler {
	h := NewAuthHandler(&config.Config{
		GoogleClientID:     "client",
		GoogleClientSecret: "secret",
		GoogleRedirectURL:  "http://localhost/auth/google/callback",
		JWTSecret:          "callback-secret",
		FrontendURL:        "http://localhost/dashboard",
		AllowedEmails:      allowed,
	})
	h.oauthConfig.Endpoint = oauth2.Endpoint{
		AuthURL:  google.URL + "/auth",
		TokenURL: google.URL + "/token",
	}
	h.userInfoURL = google.URL + "/userinfo"
	return h
}

func TestLoginSetsState(t *testing.T) {
	h := newTestAuthHandler(newFakeGoogle(t, "a@label.test", true), nil)

	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest("GET", "/auth/google/login", nil))

	if rr.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rr.Code)
	}
	var state string
	for _, c := range rr.Result().Cookies() {
		if c.Name == stateCookieName {
			state = c.Value
		}
	}
	if state == "" {
		t.Fatal("state cookie not set")
	}
	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	if loc.Query().Get("state") != state {
		t.Errorf("redirect state = %q, want %q", loc.Query().Get("state"), state)
	}
}

func TestCallback(t *testing.T) {
	tests := []struct {
		name           string
		email          string
		verified       bool
		allowed        []string
		queryState     string
		expectedStatus int
		expectSession  bool
	}{
		{
			name:           "Allowlisted",
			email:          "Owner@label.test",
			verified:       true,
			allowed:        []string{"owner@label.test"},
			queryState:     "abc",
			expectedStatus: http.StatusTemporaryRedirect,
			expectSession:  true,
		},
		{
			name:           "Not Allowlisted",
			email:          "stranger@example.com",
			verified:       true,
			allowed:        []string{"owner@label.test"},
			queryState:     "abc",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Unverified",
			email:          "owner@label.test",
			queryState:     "abc",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "State Mismatch",
			email:          "owner@label.test",
			verified:       true,
			queryState:     "forged",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAuthHandler(newFakeGoogle(t, tt.email, tt.verified), tt.allowed)

			req := httptest.NewRequest("GET", "/auth/google/callback?code=xyz&state="+tt.queryState, nil)
			req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "abc"})
			rr := httptest.NewRecorder()
			h.Callback(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body %q)", rr.Code, tt.expectedStatus, rr.Body.String())
			}

			var session string
			for _, c := range rr.Result().Cookies() {
				if c.Name == authCookieName {
					session = c.Value
				}
			}
			if !tt.expectSession {
				if session != "" {
					t.Error("session cookie issued for rejected sign-in")
				}
				return
			}

			claims := &jwt.RegisteredClaims{}
			if _, err := jwt.ParseWithClaims(session, claims, func(*jwt.Token) (interface{}, error) {
				return []byte("callback-secret"), nil
			}); err != nil {
				t.Fatalf("session token invalid: %v", err)
			}
			if claims.Subject != tt.email {
				t.Errorf("subject = %q, want %q", claims.Subject, tt.email)
			}
		})
	}
}

func TestCallbackWithoutStateRedirects(t *testing.T) {
	h := newTestAuthHandler(newFakeGoogle(t, "a@label.test", true), nil)

	rr := httptest.NewRecorder()
	h.Callback(rr, httptest.NewRequest("GET", "/auth/google/callback?code=xyz&state=abc", nil))

	if rr.Code != http.StatusTemporaryRedirect || rr.Header().Get("Location") != "/" {
		t.Errorf("got %d to %q, want redirect to /", rr.Code, rr.Header().Get("Location"))
	}
}
