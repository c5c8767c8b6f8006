package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
)

type stubAnalytics struct {
	scope domain.AnalyticsScope
}

func (s *stubAnalytics) Summary(ctx context.Context, scope domain.AnalyticsScope, limit int) (*domain.ViewStats, error) {
	s.scope = scope
	return &domain.ViewStats{Scope: scope}, nil
}

func TestAnalyticsScopeSelection(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		cookie     string
		wantScope  domain.AnalyticsScope
		wantSecure bool
		production bool
	}{
		{name: "Param Wins", query: "?scope=7", cookie: "90", wantScope: domain.Scope7Days},
		{name: "Cookie Fallback", cookie: "90", wantScope: domain.Scope90Days},
		{name: "Invalid Param Uses Cookie", query: "?scope=14", cookie: "all", wantScope: domain.ScopeAll},
		{name: "Default", query: "?scope=bogus", cookie: "bogus", wantScope: domain.DefaultScope},
		{name: "Secure In Production", query: "?scope=365", wantScope: domain.Scope365Days, production: true, wantSecure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubAnalytics{}
			h := NewAnalyticsHandler(service, tt.production)

			req := httptest.NewRequest("GET", "/api/v1/analytics"+tt.query, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "analytics_scope", Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			h.Summary(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			if service.scope != tt.wantScope {
				t.Errorf("scope = %q, want %q", service.scope, tt.wantScope)
			}

			var written *http.Cookie
			for _, c := range rr.Result().Cookies() {
				if c.Name == "analytics_scope" {
					written = c
				}
			}
			if written == nil {
				t.Fatal("scope cookie not written back")
			}
			if written.Value != string(tt.wantScope) {
				t.Errorf("cookie value = %q, want %q", written.Value, tt.wantScope)
			}
			if written.Secure != tt.wantSecure {
				t.Errorf("cookie Secure = %v, want %v", written.Secure, tt.wantSecure)
			}
		})
	}
}
