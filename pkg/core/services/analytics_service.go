package services

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

type AnalyticsService struct {
	repo ports.ViewRepository
	now  func() time.Time
}

func NewAnalyticsService(repo ports.ViewRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo, now: utcNow}
}

// Summary aggregates view events inside scope. Unknown scopes fall back
// to domain.DefaultScope.
func (s *AnalyticsService) Summary(ctx context.Context, scope domain.AnalyticsScope, limit int) (*domain.ViewStats, error) {
	if _, ok := domain.ParseScope(string(scope)); !ok {
		scope = domain.DefaultScope
	}
	if limit < 1 {
		limit = 10
	}

	var since *time.Time
	if at, bounded := scope.Since(s.now()); bounded {
		since = &at
	}

	stats, err := s.repo.GetViewStats(ctx, since, limit)
	if err != nil {
		return nil, err
	}
	stats.Scope = scope
	return stats, nil
}
