package domain

import (
	"strings"
	"time"
)

// EntityType names a publishable catalog entity
type EntityType string

const (
	EntityAlbum  EntityType = "album"
	EntityEvent  EntityType = "event"
	EntityUpdate EntityType = "update"
)

// PublishStatus is the stored lifecycle flag of an entity
type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusScheduled PublishStatus = "scheduled"
	StatusPublished PublishStatus = "published"
	StatusArchived  PublishStatus = "archived"
)

// Visibility is the read-time derived visibility of an entity.
// It is never written back to the store.
type Visibility string

const (
	Visible          Visibility = "visible"
	Hidden           Visibility = "hidden"
	PendingScheduled Visibility = "pending_scheduled"
)

// Public reports whether the entity may appear on public surfaces.
// PendingScheduled is hidden publicly but distinct for admin badges.
func (v Visibility) Public() bool {
	return v == Visible
}

// AllowedStatuses returns the closed status set for an entity type.
func AllowedStatuses(t EntityType) []PublishStatus {
	if t == EntityUpdate {
		return []PublishStatus{StatusDraft, StatusPublished}
	}
	return []PublishStatus{StatusDraft, StatusScheduled, StatusPublished, StatusArchived}
}

// ValidStatus reports whether status belongs to the set allowed for t.
func ValidStatus(t EntityType, status PublishStatus) bool {
	for _, s := range AllowedStatuses(t) {
		if s == status {
			return true
		}
	}
	return false
}

// dateLayouts are tried in order; all are interpreted in UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a stored date field. ok is false for empty or
// unparseable input.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// Evaluate derives the effective visibility of an entity from its stored
// status, its relevant date field and the current time. First match wins:
//
//	archived, draft            -> Hidden
//	scheduled, no date         -> Visible
//	scheduled, bad date        -> Hidden
//	scheduled, date > now      -> PendingScheduled
//	scheduled, date <= now     -> Visible
//	published                  -> Visible
//
// Unknown statuses are Hidden.
func Evaluate(status PublishStatus, date string, now time.Time) Visibility {
	switch status {
	case StatusArchived, StatusDraft:
		return Hidden
	case StatusScheduled:
		if strings.TrimSpace(date) == "" {
			return Visible
		}
		at, ok := ParseDate(date)
		if !ok {
			return Hidden
		}
		if at.After(now) {
			return PendingScheduled
		}
		return Visible
	case StatusPublished:
		return Visible
	default:
		return Hidden
	}
}
