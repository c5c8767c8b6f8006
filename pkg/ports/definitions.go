package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
)

// CatalogRepository defines storage operations for catalog entities.
// Lookups return (nil, nil) when the row is absent.
type CatalogRepository interface {
	// Albums
	UpsertAlbum(ctx context.Context, album *domain.Album) error
	GetAlbum(ctx context.Context, id int64) (*domain.Album, error)
	GetAlbumBySlug(ctx context.Context, slug string) (*domain.Album, error)
	ListAlbums(ctx context.Context, limit, offset int, filters map[string]interface{}) ([]domain.Album, error)
	CountAlbums(ctx context.Context, filters map[string]interface{}) (int64, error)
	Dump(ctx context.Context) ([]domain.Album, error) // For migration, links included
	// DeleteAlbum removes the album and its links. Only used to roll back a
	// create whose slug claim was lost; albums are archived, never deleted.
	DeleteAlbum(ctx context.Context, id int64) error

	// Album links, ordered by sort_order then insertion
	UpsertAlbumLink(ctx context.Context, link *domain.AlbumLink) error
	GetAlbumLink(ctx context.Context, id int64) (*domain.AlbumLink, error)
	DeleteAlbumLink(ctx context.Context, albumID, linkID int64) error
	UpdateLinkOrder(ctx context.Context, albumID, linkID int64, newOrder int) error
	GetAlbumLinks(ctx context.Context, albumID int64) ([]domain.AlbumLink, error)

	// Reference data
	UpsertPlatform(ctx context.Context, platform *domain.Platform) error
	GetPlatform(ctx context.Context, id int64) (*domain.Platform, error)
	ListPlatforms(ctx context.Context) ([]domain.Platform, error)
	DeletePlatform(ctx context.Context, id int64) error

	UpsertArtist(ctx context.Context, artist *domain.Artist) error
	GetArtist(ctx context.Context, id int64) (*domain.Artist, error)
	ListArtists(ctx context.Context) ([]domain.Artist, error)
	DeleteArtist(ctx context.Context, id int64) error

	UpsertLabel(ctx context.Context, label *domain.Label) error
	GetLabel(ctx context.Context, id int64) (*domain.Label, error)
	ListLabels(ctx context.Context) ([]domain.Label, error)
	DeleteLabel(ctx context.Context, id int64) error

	// Events and updates
	UpsertEvent(ctx context.Context, event *domain.Event) error
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	ListEvents(ctx context.Context, filters map[string]interface{}) ([]domain.Event, error)
	DeleteEvent(ctx context.Context, id int64) error // create rollback only

	UpsertUpdate(ctx context.Context, update *domain.Update) error
	GetUpdate(ctx context.Context, id int64) (*domain.Update, error)
	ListUpdates(ctx context.Context, filters map[string]interface{}) ([]domain.Update, error)
	DeleteUpdate(ctx context.Context, id int64) error // create rollback only

	// Slug ownership. ClaimSlug is a no-op when the claim already exists
	// and returns the current owner either way.
	ClaimSlug(ctx context.Context, claim domain.SlugClaim) (*domain.SlugClaim, error)
	GetSlugClaim(ctx context.Context, entityType domain.EntityType, slug string) (*domain.SlugClaim, error)
}

// ViewRepository is the append-only analytics store
type ViewRepository interface {
	RecordView(ctx context.Context, event *domain.ViewEvent) error
	GetViewStats(ctx context.Context, since *time.Time, limit int) (*domain.ViewStats, error)
}

// Store is the full entity store
type Store interface {
	CatalogRepository
	ViewRepository
}

// SmartLinkCache holds resolved public payloads. Get returns (nil, nil) on miss.
type SmartLinkCache interface {
	Get(ctx context.Context, slug string) (*domain.SmartLinksPayload, error)
	Set(ctx context.Context, slug string, payload *domain.SmartLinksPayload) error
	Invalidate(ctx context.Context, slug string) error
}

// SmartLinkService resolves public smart-link pages
type SmartLinkService interface {
	Resolve(ctx context.Context, slug string) (*domain.SmartLinksPayload, error)
}

// ViewTracker records analytics events without blocking the caller.
// Only validation errors are returned.
type ViewTracker interface {
	Record(ctx context.Context, event domain.ViewEvent) error
}

// AlbumInput is a partial album write; nil fields keep the stored value
type AlbumInput struct {
	Slug          *string               `json:"slug"`
	Title         *string               `json:"title"`
	ArtistID      *int64                `json:"artist_id"`
	LabelID       *int64                `json:"label_id"`
	CatalogNumber *string               `json:"catalog_number"`
	CoverImageURL *string               `json:"cover_image_url"`
	ReleaseDate   *string               `json:"release_date"`
	PublishStatus *domain.PublishStatus `json:"publish_status"`
}

// AlbumLinkInput is a partial album link write
type AlbumLinkInput struct {
	PlatformID *int64  `json:"platform_id"`
	URL        *string `json:"url"`
	CTALabel   *string `json:"cta_label"`
	LinkType   *string `json:"link_type"`
	SortOrder  *int    `json:"sort_order"`
}

// EventInput is a partial event write
type EventInput struct {
	Slug          *string               `json:"slug"`
	Title         *string               `json:"title"`
	Venue         *string               `json:"venue"`
	City          *string               `json:"city"`
	Date          *string               `json:"date"`
	TicketURL     *string               `json:"ticket_url"`
	PublishStatus *domain.PublishStatus `json:"publish_status"`
}

// UpdateInput is a partial update (news post) write
type UpdateInput struct {
	Slug          *string               `json:"slug"`
	Title         *string               `json:"title"`
	Body          *string               `json:"body"`
	PublishedAt   *string               `json:"published_at"`
	PublishStatus *domain.PublishStatus `json:"publish_status"`
}

// CatalogService defines admin operations on albums and reference data
type CatalogService interface {
	UpsertAlbum(ctx context.Context, id int64, in AlbumInput) (*domain.Album, error)
	GetAlbum(ctx context.Context, id int64) (*domain.Album, error)
	ListAlbums(ctx context.Context, page, limit int, search, status string) ([]domain.Album, int64, error)

	UpsertAlbumLink(ctx context.Context, albumID, linkID int64, in AlbumLinkInput) (*domain.AlbumLink, error)
	DeleteAlbumLink(ctx context.Context, albumID, linkID int64) error
	ReorderLinks(ctx context.Context, albumID int64, linkIDs []int64) error

	UpsertPlatform(ctx context.Context, platform *domain.Platform) (*domain.Platform, error)
	ListPlatforms(ctx context.Context) ([]domain.Platform, error)
	DeletePlatform(ctx context.Context, id int64) error

	UpsertArtist(ctx context.Context, artist *domain.Artist) (*domain.Artist, error)
	ListArtists(ctx context.Context) ([]domain.Artist, error)
	DeleteArtist(ctx context.Context, id int64) error

	UpsertLabel(ctx context.Context, label *domain.Label) (*domain.Label, error)
	ListLabels(ctx context.Context) ([]domain.Label, error)
	DeleteLabel(ctx context.Context, id int64) error
}

// ContentService defines admin and public operations on events and updates
type ContentService interface {
	UpsertEvent(ctx context.Context, id int64, in EventInput) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	PublicEvents(ctx context.Context) ([]domain.Event, error)

	UpsertUpdate(ctx context.Context, id int64, in UpdateInput) (*domain.Update, error)
	ListUpdates(ctx context.Context) ([]domain.Update, error)
	PublicUpdates(ctx context.Context, limit int) ([]domain.Update, error)
}

// AnalyticsService reports view statistics for admin
type AnalyticsService interface {
	Summary(ctx context.Context, scope domain.AnalyticsScope, limit int) (*domain.ViewStats, error)
}
