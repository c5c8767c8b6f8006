package sqlite

import (
	"context"
	"database/sql"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
)

// --- Events ---

const eventColumns = `id, slug, title, COALESCE(venue, ''), COALESCE(city, ''), COALESCE(date, ''),
	COALESCE(ticket_url, ''), publish_status, first_published_at, created_at, updated_at`

func scanEvent(s scanner) (*domain.Event, error) {
	var e domain.Event
	var status string
	var firstPublishedAt sql.NullTime
	if err := s.Scan(&e.ID, &e.Slug, &e.Title, &e.Venue, &e.City, &e.Date,
		&e.TicketURL, &status, &firstPublishedAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.PublishStatus = domain.PublishStatus(status)
	if firstPublishedAt.Valid {
		e.FirstPublishedAt = &firstPublishedAt.Time
	}
	return &e, nil
}

func (r *SQLiteRepository) UpsertEvent(ctx context.Context, event *domain.Event) error {
	if event.ID == 0 {
		query := `INSERT INTO events (slug, title, venue, city, date, ticket_url, publish_status,
				  first_published_at, created_at, updated_at)
				  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, query, event.Slug, event.Title, event.Venue, event.City, event.Date,
			event.TicketURL, string(event.PublishStatus), nullTime(event.FirstPublishedAt), event.CreatedAt, event.UpdatedAt)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		event.ID = id
		return nil
	}

	query := `INSERT INTO events (id, slug, title, venue, city, date, ticket_url, publish_status,
			  first_published_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				slug = excluded.slug,
				title = excluded.title,
				venue = excluded.venue,
				city = excluded.city,
				date = excluded.date,
				ticket_url = excluded.ticket_url,
				publish_status = excluded.publish_status,
				first_published_at = excluded.first_published_at,
				updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, event.ID, event.Slug, event.Title, event.Venue, event.City, event.Date,
		event.TicketURL, string(event.PublishStatus), nullTime(event.FirstPublishedAt), event.CreatedAt, event.UpdatedAt)
	return err
}

func (r *SQLiteRepository) DeleteEvent(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepository) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return event, err
}

// ListEvents returns events ordered by date ascending. Supported filters:
// "status" (exact) and "exclude_status" (stored status to skip).
func (r *SQLiteRepository) ListEvents(ctx context.Context, filters map[string]interface{}) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1 = 1`
	args := []interface{}{}

	if status, ok := filters["status"].(string); ok && status != "" {
		query += " AND publish_status = ?"
		args = append(args, status)
	}
	if status, ok := filters["exclude_status"].(string); ok && status != "" {
		query += " AND publish_status <> ?"
		args = append(args, status)
	}
	query += " ORDER BY COALESCE(date, '') ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// --- Updates ---

const updateColumns = `id, slug, title, COALESCE(body, ''), COALESCE(published_at, ''),
	publish_status, first_published_at, created_at, updated_at`

func scanUpdate(s scanner) (*domain.Update, error) {
	var u domain.Update
	var status string
	var firstPublishedAt sql.NullTime
	if err := s.Scan(&u.ID, &u.Slug, &u.Title, &u.Body, &u.PublishedAt,
		&status, &firstPublishedAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.PublishStatus = domain.PublishStatus(status)
	if firstPublishedAt.Valid {
		u.FirstPublishedAt = &firstPublishedAt.Time
	}
	return &u, nil
}

func (r *SQLiteRepository) UpsertUpdate(ctx context.Context, update *domain.Update) error {
	if update.ID == 0 {
		query := `INSERT INTO updates (slug, title, body, published_at, publish_status,
				  first_published_at, created_at, updated_at)
				  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, query, update.Slug, update.Title, update.Body, update.PublishedAt,
			string(update.PublishStatus), nullTime(update.FirstPublishedAt), update.CreatedAt, update.UpdatedAt)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		update.ID = id
		return nil
	}

	query := `INSERT INTO updates (id, slug, title, body, published_at, publish_status,
			  first_published_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				slug = excluded.slug,
				title = excluded.title,
				body = excluded.body,
				published_at = excluded.published_at,
				publish_status = excluded.publish_status,
				first_published_at = excluded.first_published_at,
				updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, update.ID, update.Slug, update.Title, update.Body, update.PublishedAt,
		string(update.PublishStatus), nullTime(update.FirstPublishedAt), update.CreatedAt, update.UpdatedAt)
	return err
}

func (r *SQLiteRepository) DeleteUpdate(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM updates WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepository) GetUpdate(ctx context.Context, id int64) (*domain.Update, error) {
	update, err := scanUpdate(r.db.QueryRowContext(ctx, `SELECT `+updateColumns+` FROM updates WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return update, err
}

// ListUpdates returns updates newest first. Supports the "status" filter.
func (r *SQLiteRepository) ListUpdates(ctx context.Context, filters map[string]interface{}) ([]domain.Update, error) {
	query := `SELECT ` + updateColumns + ` FROM updates WHERE 1 = 1`
	args := []interface{}{}

	if status, ok := filters["status"].(string); ok && status != "" {
		query += " AND publish_status = ?"
		args = append(args, status)
	}
	query += " ORDER BY COALESCE(published_at, '') DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []domain.Update
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, err
		}
		updates = append(updates, *u)
	}
	return updates, rows.Err()
}

// --- Slug claims ---

func (r *SQLiteRepository) ClaimSlug(ctx context.Context, claim domain.SlugClaim) (*domain.SlugClaim, error) {
	query := `INSERT INTO slug_claims (entity_type, slug, entity_id) VALUES (?, ?, ?)
			  ON CONFLICT(entity_type, slug) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, string(claim.EntityType), claim.Slug, claim.EntityID); err != nil {
		return nil, err
	}
	return r.GetSlugClaim(ctx, claim.EntityType, claim.Slug)
}

func (r *SQLiteRepository) GetSlugClaim(ctx context.Context, entityType domain.EntityType, slug string) (*domain.SlugClaim, error) {
	query := `SELECT entity_type, slug, entity_id FROM slug_claims WHERE entity_type = ? AND slug = ?`

	var c domain.SlugClaim
	var t string
	err := r.db.QueryRowContext(ctx, query, string(entityType), slug).Scan(&t, &c.Slug, &c.EntityID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.EntityType = domain.EntityType(t)
	return &c, nil
}
