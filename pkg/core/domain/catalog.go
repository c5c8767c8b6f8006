package domain

import "time"

type Artist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=200"`
	Slug      string    `json:"slug" validate:"required,max=200"`
	ImageURL  string    `json:"image_url,omitempty" validate:"omitempty,url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Label struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=200"`
	Slug      string    `json:"slug" validate:"required,max=200"`
	LogoURL   string    `json:"logo_url,omitempty" validate:"omitempty,url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Platform is a streaming or store destination (Spotify, Bandcamp, ...)
type Platform struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" validate:"required,max=100"`
	IconURL         string    `json:"icon_url,omitempty" validate:"omitempty,url"`
	DefaultCTALabel string    `json:"default_cta_label,omitempty" validate:"max=60"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Event is a show or appearance
type Event struct {
	ID               int64         `json:"id"`
	Slug             string        `json:"slug" validate:"required,max=200"`
	Title            string        `json:"title" validate:"required,max=200"`
	Venue            string        `json:"venue,omitempty"`
	City             string        `json:"city,omitempty"`
	Date             string        `json:"date,omitempty"`
	TicketURL        string        `json:"ticket_url,omitempty" validate:"omitempty,url"`
	PublishStatus    PublishStatus `json:"publish_status"`
	FirstPublishedAt *time.Time    `json:"first_published_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Visibility       Visibility    `json:"visibility,omitempty"`
}

func (e *Event) VisibilityAt(now time.Time) Visibility {
	return Evaluate(e.PublishStatus, e.Date, now)
}

// Update is a news-feed post. Only draft and published apply.
type Update struct {
	ID               int64         `json:"id"`
	Slug             string        `json:"slug" validate:"required,max=200"`
	Title            string        `json:"title" validate:"required,max=200"`
	Body             string        `json:"body"`
	PublishedAt      string        `json:"published_at,omitempty"`
	PublishStatus    PublishStatus `json:"publish_status"`
	FirstPublishedAt *time.Time    `json:"first_published_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Visibility       Visibility    `json:"visibility,omitempty"`
}

func (u *Update) VisibilityAt(now time.Time) Visibility {
	return Evaluate(u.PublishStatus, u.PublishedAt, now)
}

// SlugClaim records which entity owns a slug once it has gone public
type SlugClaim struct {
	EntityType EntityType `json:"entity_type"`
	Slug       string     `json:"slug"`
	EntityID   int64      `json:"entity_id"`
}
