package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

// ContentService manages events and updates (news posts)
type ContentService struct {
	repo ports.CatalogRepository
	now  func() time.Time
}

func NewContentService(repo ports.CatalogRepository) *ContentService {
	return &ContentService{repo: repo, now: utcNow}
}

// --- Events ---

func (s *ContentService) UpsertEvent(ctx context.Context, id int64, in ports.EventInput) (*domain.Event, error) {
	now := s.now()

	event := &domain.Event{PublishStatus: domain.StatusDraft, CreatedAt: now}
	if id != 0 {
		existing, err := s.repo.GetEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		event = existing
	}
	oldSlug := event.Slug

	if in.Title != nil {
		event.Title = *in.Title
	}
	if in.Venue != nil {
		event.Venue = *in.Venue
	}
	if in.City != nil {
		event.City = *in.City
	}
	if in.Date != nil {
		event.Date = *in.Date
	}
	if in.TicketURL != nil {
		event.TicketURL = *in.TicketURL
	}
	if in.PublishStatus != nil {
		event.PublishStatus = *in.PublishStatus
	}

	if strings.TrimSpace(event.Title) == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	slug, err := resolveSlug(ctx, s.repo, domain.EntityEvent, event.ID, oldSlug, in.Slug, event.Title, event.FirstPublishedAt)
	if err != nil {
		return nil, err
	}
	event.Slug = slug

	if err := validateStatus(domain.EntityEvent, event.PublishStatus); err != nil {
		return nil, err
	}
	if event.Date, err = normalizeDate("date", event.Date); err != nil {
		return nil, err
	}
	if err := validateStruct(event); err != nil {
		return nil, err
	}

	event.UpdatedAt = now
	if event.FirstPublishedAt == nil && goesPublic(event.PublishStatus) {
		created := event.ID == 0
		if created {
			hidden := *event
			hidden.PublishStatus = domain.StatusDraft
			if err := s.repo.UpsertEvent(ctx, &hidden); err != nil {
				return nil, fmt.Errorf("upsert event: %w", err)
			}
			event.ID = hidden.ID
		}
		if err := claimSlug(ctx, s.repo, domain.EntityEvent, event.Slug, event.ID); err != nil {
			if created {
				if derr := s.repo.DeleteEvent(ctx, event.ID); derr != nil {
					err = errors.Join(err, fmt.Errorf("roll back event %d: %w", event.ID, derr))
				}
			}
			return nil, err
		}
		event.FirstPublishedAt = &now
	}

	if err := s.repo.UpsertEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("upsert event: %w", err)
	}

	event.Visibility = event.VisibilityAt(now)
	return event, nil
}

// ListEvents returns every event with its derived visibility
func (s *ContentService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.ListEvents(ctx, nil)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range events {
		events[i].Visibility = events[i].VisibilityAt(now)
	}
	return events, nil
}

// PublicEvents returns visible events ordered by date
func (s *ContentService) PublicEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.ListEvents(ctx, map[string]interface{}{
		"exclude_status": string(domain.StatusArchived),
	})
	if err != nil {
		return nil, &domain.ResolutionError{Op: "list events", Err: err}
	}

	now := s.now()
	public := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.VisibilityAt(now).Public() {
			e.Visibility = domain.Visible
			public = append(public, e)
		}
	}
	// Rows written before dates were normalized may carry offsets
	sort.SliceStable(public, func(i, j int) bool {
		return dateKey(public[i].Date).Before(dateKey(public[j].Date))
	})
	return public, nil
}

// --- Updates ---

func (s *ContentService) UpsertUpdate(ctx context.Context, id int64, in ports.UpdateInput) (*domain.Update, error) {
	now := s.now()

	update := &domain.Update{PublishStatus: domain.StatusDraft, CreatedAt: now}
	if id != 0 {
		existing, err := s.repo.GetUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		update = existing
	}
	oldSlug := update.Slug

	if in.Title != nil {
		update.Title = *in.Title
	}
	if in.Body != nil {
		update.Body = *in.Body
	}
	if in.PublishedAt != nil {
		update.PublishedAt = *in.PublishedAt
	}
	if in.PublishStatus != nil {
		update.PublishStatus = *in.PublishStatus
	}

	if strings.TrimSpace(update.Title) == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	slug, err := resolveSlug(ctx, s.repo, domain.EntityUpdate, update.ID, oldSlug, in.Slug, update.Title, update.FirstPublishedAt)
	if err != nil {
		return nil, err
	}
	update.Slug = slug

	if err := validateStatus(domain.EntityUpdate, update.PublishStatus); err != nil {
		return nil, err
	}
	if update.PublishedAt, err = normalizeDate("published_at", update.PublishedAt); err != nil {
		return nil, err
	}
	if err := validateStruct(update); err != nil {
		return nil, err
	}

	update.UpdatedAt = now
	if update.FirstPublishedAt == nil && goesPublic(update.PublishStatus) {
		created := update.ID == 0
		if created {
			hidden := *update
			hidden.PublishStatus = domain.StatusDraft
			if err := s.repo.UpsertUpdate(ctx, &hidden); err != nil {
				return nil, fmt.Errorf("upsert update: %w", err)
			}
			update.ID = hidden.ID
		}
		if err := claimSlug(ctx, s.repo, domain.EntityUpdate, update.Slug, update.ID); err != nil {
			if created {
				if derr := s.repo.DeleteUpdate(ctx, update.ID); derr != nil {
					err = errors.Join(err, fmt.Errorf("roll back update %d: %w", update.ID, derr))
				}
			}
			return nil, err
		}
		update.FirstPublishedAt = &now
		if update.PublishedAt == "" {
			update.PublishedAt = now.Format(time.RFC3339)
		}
	}

	if err := s.repo.UpsertUpdate(ctx, update); err != nil {
		return nil, fmt.Errorf("upsert update: %w", err)
	}

	update.Visibility = update.VisibilityAt(now)
	return update, nil
}

func (s *ContentService) ListUpdates(ctx context.Context) ([]domain.Update, error) {
	updates, err := s.repo.ListUpdates(ctx, nil)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range updates {
		updates[i].Visibility = updates[i].VisibilityAt(now)
	}
	return updates, nil
}

// PublicUpdates returns up to limit published updates, newest first.
// limit <= 0 means no limit.
func (s *ContentService) PublicUpdates(ctx context.Context, limit int) ([]domain.Update, error) {
	updates, err := s.repo.ListUpdates(ctx, map[string]interface{}{
		"status": string(domain.StatusPublished),
	})
	if err != nil {
		return nil, &domain.ResolutionError{Op: "list updates", Err: err}
	}

	now := s.now()
	public := make([]domain.Update, 0, len(updates))
	for _, u := range updates {
		if u.VisibilityAt(now).Public() {
			u.Visibility = domain.Visible
			public = append(public, u)
		}
	}
	sort.SliceStable(public, func(i, j int) bool {
		return dateKey(public[i].PublishedAt).After(dateKey(public[j].PublishedAt))
	})
	if limit > 0 && len(public) > limit {
		public = public[:limit]
	}
	return public, nil
}

// dateKey orders missing or unparseable dates first
func dateKey(value string) time.Time {
	at, _ := domain.ParseDate(value)
	return at
}
