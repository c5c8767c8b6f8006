package domain

import (
	"sync"
	"time"
)

// ViewEvent is an append-only analytics record. EntityID is not a foreign
// key; the entity may be gone when the event is read.
type ViewEvent struct {
	ID         string         `json:"id"`
	EventType  string         `json:"event_type"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ViewStats aggregates view events over an analytics scope
type ViewStats struct {
	Scope       AnalyticsScope   `json:"scope"`
	TotalViews  int64            `json:"total_views"`
	TopEntities []EntityViews    `json:"top_entities"`
	EventTypes  map[string]int64 `json:"event_types"`
	DailyViews  []DailyViews     `json:"daily_views"` // timeline
}

type EntityViews struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Views      int64  `json:"views"`
}

type DailyViews struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// MergeContext overlays call-time context on caller metadata. Context keys
// win over caller keys. metadata is not modified.
func MergeContext(metadata map[string]any, path string) map[string]any {
	merged := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		merged[k] = v
	}
	if path != "" {
		merged["path"] = path
	}
	return merged
}

// ViewGuard lets one page lifecycle record at most one view per entity id.
// It is not shared across requests.
type ViewGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewViewGuard() *ViewGuard {
	return &ViewGuard{seen: make(map[string]struct{})}
}

// Once reports true the first time entityID is seen
func (g *ViewGuard) Once(entityID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[entityID]; ok {
		return false
	}
	g.seen[entityID] = struct{}{}
	return true
}
