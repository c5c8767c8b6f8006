package domain

// SmartLinksPayload is the public smart-link page body
type SmartLinksPayload struct {
	Album AlbumSummary    `json:"album"`
	Links []SmartLinkItem `json:"links"`
}

// AlbumSummary omits optional fields entirely rather than sending placeholders
type AlbumSummary struct {
	ID            int64  `json:"id"`
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	ArtistName    string `json:"artistName,omitempty"`
	CatalogNumber string `json:"catalog_number,omitempty"`
	CoverImageURL string `json:"coverImageUrl,omitempty"`
}

type SmartLinkItem struct {
	ID              int64  `json:"id"`
	URL             string `json:"url"`
	PlatformName    string `json:"platformName,omitempty"`
	PlatformIconURL string `json:"platformIconUrl,omitempty"`
	CTALabel        string `json:"ctaLabel"`
	LinkType        string `json:"linkType,omitempty"`
}
