// Package app wires the store, cache, services and router together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/adapters/cache"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/adapters/handler"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/config"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/services"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

// App holds everything that must be closed on shutdown
type App struct {
	Handler http.Handler
	Repo    *sqlite.SQLiteRepository
	Tracker *services.Tracker

	cache *cache.RedisCache
}

// New opens the store (and Redis when configured) and builds the router.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	a := &App{Repo: repo}

	var linkCache ports.SmartLinkCache
	if cfg.RedisURL != "" {
		c, err := cache.Open(ctx, cfg.RedisURL, cfg.SmartLinkCacheTTL)
		if err != nil {
			// The resolver works without a cache
			log.Printf("smart-link cache disabled: %v", err)
		} else {
			a.cache = c
			linkCache = c
		}
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	a.Tracker = services.NewTracker(repo, logger, cfg.TrackerQueueSize, cfg.TrackerWorkers)

	a.Handler, err = handler.NewRouter(cfg, handler.Services{
		SmartLinks: services.NewSmartLinkService(repo, linkCache, logger),
		Catalog:    services.NewCatalogService(repo, linkCache, logger),
		Content:    services.NewContentService(repo),
		Analytics:  services.NewAnalyticsService(repo),
		Tracker:    a.Tracker,
	})
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	return a, nil
}

// Close drains the tracker before closing the store
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Tracker != nil {
		if err := a.Tracker.Close(ctx); err != nil && !errors.Is(err, services.ErrTrackerClosed) {
			errs = append(errs, fmt.Errorf("close tracker: %w", err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if err := a.Repo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
