package handler

import (
	"fmt"
	"net/http"

	"github.com/ulule/limiter/v3"
	limiterhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/config"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

// Services are the application ports the router dispatches to
type Services struct {
	SmartLinks ports.SmartLinkService
	Catalog    ports.CatalogService
	Content    ports.ContentService
	Analytics  ports.AnalyticsService
	Tracker    ports.ViewTracker
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services) (http.Handler, error) {
	// Initialize Handlers
	ph := NewPublicHandler(svc.SmartLinks, svc.Content, svc.Tracker)
	ch := NewCatalogHandler(svc.Catalog)
	th := NewContentHandler(svc.Content)
	ah := NewAnalyticsHandler(svc.Analytics, cfg.IsProduction())

	// Initialize Middleware
	mw := NewMiddleware(cfg)
	trackLimit, err := newRateLimit(cfg.TrackRateLimit, cfg.IsProduction())
	if err != nil {
		return nil, err
	}

	// Initialize Auth Handler
	authHandler := NewAuthHandler(cfg)

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.Handle("GET /smart-links/{slug}", WithViewGuard(http.HandlerFunc(ph.SmartLink)))
	mux.Handle("POST /track", trackLimit(http.HandlerFunc(ph.Track)))
	mux.HandleFunc("GET /events", ph.Events)
	mux.HandleFunc("GET /updates", ph.Updates)
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes (API)
	protectedMux := http.NewServeMux()

	// Albums and their links
	protectedMux.HandleFunc("POST /api/v1/albums", ch.CreateAlbum)
	protectedMux.HandleFunc("GET /api/v1/albums", ch.ListAlbums)
	protectedMux.HandleFunc("GET /api/v1/albums/{id}", ch.GetAlbum)
	protectedMux.HandleFunc("PUT /api/v1/albums/{id}", ch.UpdateAlbum)
	protectedMux.HandleFunc("POST /api/v1/albums/{id}/links", ch.AddLink)
	protectedMux.HandleFunc("PUT /api/v1/albums/{id}/links/order", ch.ReorderLinks)
	protectedMux.HandleFunc("PUT /api/v1/albums/{id}/links/{linkID}", ch.UpdateLink)
	protectedMux.HandleFunc("DELETE /api/v1/albums/{id}/links/{linkID}", ch.RemoveLink)

	// Reference data
	protectedMux.HandleFunc("GET /api/v1/platforms", ch.ListPlatforms)
	protectedMux.HandleFunc("POST /api/v1/platforms", ch.SavePlatform)
	protectedMux.HandleFunc("PUT /api/v1/platforms/{id}", ch.SavePlatform)
	protectedMux.HandleFunc("DELETE /api/v1/platforms/{id}", ch.DeletePlatform)
	protectedMux.HandleFunc("GET /api/v1/artists", ch.ListArtists)
	protectedMux.HandleFunc("POST /api/v1/artists", ch.SaveArtist)
	protectedMux.HandleFunc("PUT /api/v1/artists/{id}", ch.SaveArtist)
	protectedMux.HandleFunc("DELETE /api/v1/artists/{id}", ch.DeleteArtist)
	protectedMux.HandleFunc("GET /api/v1/labels", ch.ListLabels)
	protectedMux.HandleFunc("POST /api/v1/labels", ch.SaveLabel)
	protectedMux.HandleFunc("PUT /api/v1/labels/{id}", ch.SaveLabel)
	protectedMux.HandleFunc("DELETE /api/v1/labels/{id}", ch.DeleteLabel)

	// Events and updates
	protectedMux.HandleFunc("GET /api/v1/events", th.ListEvents)
	protectedMux.HandleFunc("POST /api/v1/events", th.SaveEvent)
	protectedMux.HandleFunc("PUT /api/v1/events/{id}", th.SaveEvent)
	protectedMux.HandleFunc("GET /api/v1/updates", th.ListUpdates)
	protectedMux.HandleFunc("POST /api/v1/updates", th.SaveUpdate)
	protectedMux.HandleFunc("PUT /api/v1/updates/{id}", th.SaveUpdate)

	protectedMux.HandleFunc("GET /api/v1/analytics", ah.Summary)

	// Protected paths are registered in full on protectedMux, so a prefix
	// match on /api/v1/ is enough to dispatch.
	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return mux, nil
}

// newRateLimit builds a per-IP in-memory limiter from a "<limit>-<period>"
// string such as "120-M".
func newRateLimit(formatted string, trustForwardHeader bool) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("track rate limit %q: %w", formatted, err)
	}
	instance := limiter.New(memory.NewStore(), rate, limiter.WithTrustForwardHeader(trustForwardHeader))
	return limiterhttp.NewMiddleware(instance).Handler, nil
}
