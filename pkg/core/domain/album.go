package domain

import "time"

// DefaultCTALabel is shown when neither the link nor its platform carries a label
const DefaultCTALabel = "Listen"

// Album is a release with a smart-link landing page
type Album struct {
	ID               int64         `json:"id"`
	Slug             string        `json:"slug" validate:"required,max=200"`
	Title            string        `json:"title" validate:"required,max=200"`
	ArtistID         *int64        `json:"artist_id,omitempty"`
	LabelID          *int64        `json:"label_id,omitempty"`
	CatalogNumber    string        `json:"catalog_number,omitempty" validate:"max=64"`
	CoverImageURL    string        `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	ReleaseDate      string        `json:"release_date,omitempty"` // YYYY-MM-DD or RFC3339, UTC
	PublishStatus    PublishStatus `json:"publish_status"`
	FirstPublishedAt *time.Time    `json:"first_published_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	// Joined on read, empty when the reference is absent or dangling
	ArtistName string `json:"artist_name,omitempty"`
	LabelName  string `json:"label_name,omitempty"`

	Links      []AlbumLink `json:"links,omitempty"`
	Visibility Visibility  `json:"visibility,omitempty"`
}

// VisibilityAt derives the effective visibility from status and release date
func (a *Album) VisibilityAt(now time.Time) Visibility {
	return Evaluate(a.PublishStatus, a.ReleaseDate, now)
}

// AlbumLink is one purchase/stream destination of an album.
// PlatformID is a weak reference: the platform row may be gone.
type AlbumLink struct {
	ID         int64     `json:"id"`
	AlbumID    int64     `json:"album_id"`
	PlatformID *int64    `json:"platform_id,omitempty"`
	URL        string    `json:"url" validate:"required,url"`
	CTALabel   string    `json:"cta_label,omitempty" validate:"max=60"`
	LinkType   string    `json:"link_type,omitempty" validate:"max=32"` // stream, buy, presave, ...
	SortOrder  int       `json:"sort_order" validate:"min=0"`
	CreatedAt  time.Time `json:"created_at"`

	// Left-joined platform, nil when PlatformID is nil or dangling
	Platform *Platform `json:"platform,omitempty"`
}

// DisplayLabel resolves the call-to-action label: explicit override, then
// the platform default, then DefaultCTALabel. Never empty.
func (l *AlbumLink) DisplayLabel() string {
	if l.CTALabel != "" {
		return l.CTALabel
	}
	if l.Platform != nil && l.Platform.DefaultCTALabel != "" {
		return l.Platform.DefaultCTALabel
	}
	return DefaultCTALabel
}
