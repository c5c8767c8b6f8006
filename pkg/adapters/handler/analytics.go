package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

const scopeCookieName = "analytics_scope"

type AnalyticsHandler struct {
	service      ports.AnalyticsService
	isProduction bool
}

func NewAnalyticsHandler(service ports.AnalyticsService, isProduction bool) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, isProduction: isProduction}
}

// Summary reports view statistics. The scope comes from ?scope=, then the
// analytics_scope cookie, then the default; the result is written back to
// the cookie.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var cookieScope string
	if c, err := r.Cookie(scopeCookieName); err == nil {
		cookieScope = c.Value
	}
	scope := domain.ResolveScope(r.URL.Query().Get("scope"), cookieScope)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	stats, err := h.service.Summary(r.Context(), scope, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     scopeCookieName,
		Value:    string(scope),
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, stats)
}
