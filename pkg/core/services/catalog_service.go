package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

type CatalogService struct {
	repo   ports.CatalogRepository
	cache  ports.SmartLinkCache // optional
	logger *log.Logger
	now    func() time.Time
}

func NewCatalogService(repo ports.CatalogRepository, cache ports.SmartLinkCache, logger *log.Logger) *CatalogService {
	if logger == nil {
		logger = log.Default()
	}
	return &CatalogService{repo: repo, cache: cache, logger: logger, now: utcNow}
}

// --- Albums ---

// UpsertAlbum creates an album when id is zero, otherwise applies the
// non-nil fields of in to the stored album.
func (s *CatalogService) UpsertAlbum(ctx context.Context, id int64, in ports.AlbumInput) (*domain.Album, error) {
	now := s.now()

	album := &domain.Album{PublishStatus: domain.StatusDraft, CreatedAt: now}
	if id != 0 {
		existing, err := s.repo.GetAlbum(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		album = existing
	}
	oldSlug := album.Slug

	if in.Title != nil {
		album.Title = *in.Title
	}
	if in.ArtistID != nil {
		album.ArtistID = optionalID(*in.ArtistID)
	}
	if in.LabelID != nil {
		album.LabelID = optionalID(*in.LabelID)
	}
	if in.CatalogNumber != nil {
		album.CatalogNumber = *in.CatalogNumber
	}
	if in.CoverImageURL != nil {
		album.CoverImageURL = *in.CoverImageURL
	}
	if in.ReleaseDate != nil {
		album.ReleaseDate = *in.ReleaseDate
	}
	if in.PublishStatus != nil {
		album.PublishStatus = *in.PublishStatus
	}

	if strings.TrimSpace(album.Title) == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	slug, err := resolveSlug(ctx, s.repo, domain.EntityAlbum, album.ID, oldSlug, in.Slug, album.Title, album.FirstPublishedAt)
	if err != nil {
		return nil, err
	}
	album.Slug = slug

	if err := validateStatus(domain.EntityAlbum, album.PublishStatus); err != nil {
		return nil, err
	}
	if album.ReleaseDate, err = normalizeDate("release_date", album.ReleaseDate); err != nil {
		return nil, err
	}
	if err := validateStruct(album); err != nil {
		return nil, err
	}

	if slug != oldSlug {
		other, err := s.repo.GetAlbumBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != album.ID {
			return nil, domain.NewValidationError("slug", "already in use")
		}
	}

	album.UpdatedAt = now
	if album.FirstPublishedAt == nil && goesPublic(album.PublishStatus) {
		// The slug is bound before the public row lands. A new album is
		// stored as a draft first so there is an id to claim with.
		created := album.ID == 0
		if created {
			hidden := *album
			hidden.PublishStatus = domain.StatusDraft
			if err := s.repo.UpsertAlbum(ctx, &hidden); err != nil {
				return nil, fmt.Errorf("upsert album: %w", err)
			}
			album.ID = hidden.ID
		}
		if err := claimSlug(ctx, s.repo, domain.EntityAlbum, album.Slug, album.ID); err != nil {
			if created {
				if derr := s.repo.DeleteAlbum(ctx, album.ID); derr != nil {
					err = errors.Join(err, fmt.Errorf("roll back album %d: %w", album.ID, derr))
				}
			}
			return nil, err
		}
		album.FirstPublishedAt = &now
	}

	if err := s.repo.UpsertAlbum(ctx, album); err != nil {
		return nil, fmt.Errorf("upsert album: %w", err)
	}

	s.invalidate(ctx, oldSlug)
	s.invalidate(ctx, album.Slug)

	return s.GetAlbum(ctx, album.ID)
}

// GetAlbum returns the album with its links and derived visibility
func (s *CatalogService) GetAlbum(ctx context.Context, id int64) (*domain.Album, error) {
	album, err := s.repo.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, domain.ErrNotFound
	}

	links, err := s.repo.GetAlbumLinks(ctx, id)
	if err != nil {
		return nil, err
	}
	album.Links = links
	album.Visibility = album.VisibilityAt(s.now())
	return album, nil
}

func (s *CatalogService) ListAlbums(ctx context.Context, page, limit int, search, status string) ([]domain.Album, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	filters := map[string]interface{}{
		"search": search,
		"status": status,
	}

	albums, err := s.repo.ListAlbums(ctx, limit, offset, filters)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.repo.CountAlbums(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	for i := range albums {
		albums[i].Visibility = albums[i].VisibilityAt(now)
	}
	return albums, count, nil
}

// --- Album links ---

// UpsertAlbumLink creates a link when linkID is zero. New links go to the
// end of the list unless a sort order is given.
func (s *CatalogService) UpsertAlbumLink(ctx context.Context, albumID, linkID int64, in ports.AlbumLinkInput) (*domain.AlbumLink, error) {
	album, err := s.repo.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, domain.ErrNotFound
	}

	link := &domain.AlbumLink{AlbumID: albumID, CreatedAt: s.now()}
	if linkID != 0 {
		existing, err := s.repo.GetAlbumLink(ctx, linkID)
		if err != nil {
			return nil, err
		}
		if existing == nil || existing.AlbumID != albumID {
			return nil, domain.ErrNotFound
		}
		link = existing
	} else if in.SortOrder == nil {
		links, err := s.repo.GetAlbumLinks(ctx, albumID)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			if l.SortOrder >= link.SortOrder {
				link.SortOrder = l.SortOrder + 1
			}
		}
	}

	if in.PlatformID != nil {
		link.PlatformID = optionalID(*in.PlatformID)
		if link.PlatformID != nil {
			platform, err := s.repo.GetPlatform(ctx, *link.PlatformID)
			if err != nil {
				return nil, err
			}
			if platform == nil {
				return nil, domain.NewValidationError("platform_id", "unknown platform")
			}
		}
	}
	if in.URL != nil {
		link.URL = *in.URL
	}
	if in.CTALabel != nil {
		link.CTALabel = *in.CTALabel
	}
	if in.LinkType != nil {
		link.LinkType = *in.LinkType
	}
	if in.SortOrder != nil {
		link.SortOrder = *in.SortOrder
	}
	link.Platform = nil

	if err := validateStruct(link); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertAlbumLink(ctx, link); err != nil {
		return nil, fmt.Errorf("upsert album link: %w", err)
	}
	s.invalidate(ctx, album.Slug)

	return s.repo.GetAlbumLink(ctx, link.ID)
}

func (s *CatalogService) DeleteAlbumLink(ctx context.Context, albumID, linkID int64) error {
	album, err := s.repo.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if album == nil {
		return domain.ErrNotFound
	}
	if err := s.repo.DeleteAlbumLink(ctx, albumID, linkID); err != nil {
		return err
	}
	s.invalidate(ctx, album.Slug)
	return nil
}

// ReorderLinks assigns sort orders 1..n following linkIDs. Every id must
// belong to the album.
func (s *CatalogService) ReorderLinks(ctx context.Context, albumID int64, linkIDs []int64) error {
	album, err := s.repo.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if album == nil {
		return domain.ErrNotFound
	}

	links, err := s.repo.GetAlbumLinks(ctx, albumID)
	if err != nil {
		return err
	}
	owned := make(map[int64]bool, len(links))
	for _, l := range links {
		owned[l.ID] = true
	}
	for _, linkID := range linkIDs {
		if !owned[linkID] {
			return domain.NewValidationError("link_ids", fmt.Sprintf("link %d does not belong to album %d", linkID, albumID))
		}
	}

	for i, linkID := range linkIDs {
		// New order is index + 1
		if err := s.repo.UpdateLinkOrder(ctx, albumID, linkID, i+1); err != nil {
			return err
		}
	}
	s.invalidate(ctx, album.Slug)
	return nil
}

// --- Platforms, artists, labels ---

// Cached payloads pick up platform and artist changes when their TTL expires.

func (s *CatalogService) UpsertPlatform(ctx context.Context, platform *domain.Platform) (*domain.Platform, error) {
	now := s.now()
	if platform.ID != 0 {
		existing, err := s.repo.GetPlatform(ctx, platform.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		platform.CreatedAt = existing.CreatedAt
	} else {
		platform.CreatedAt = now
	}
	platform.UpdatedAt = now

	if err := validateStruct(platform); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertPlatform(ctx, platform); err != nil {
		return nil, fmt.Errorf("upsert platform: %w", err)
	}
	return platform, nil
}

func (s *CatalogService) ListPlatforms(ctx context.Context) ([]domain.Platform, error) {
	return s.repo.ListPlatforms(ctx)
}

// DeletePlatform leaves links pointing at it; they fall back to the default label.
func (s *CatalogService) DeletePlatform(ctx context.Context, id int64) error {
	return s.repo.DeletePlatform(ctx, id)
}

func (s *CatalogService) UpsertArtist(ctx context.Context, artist *domain.Artist) (*domain.Artist, error) {
	now := s.now()
	if artist.ID != 0 {
		existing, err := s.repo.GetArtist(ctx, artist.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		artist.CreatedAt = existing.CreatedAt
	} else {
		artist.CreatedAt = now
	}
	artist.UpdatedAt = now

	if artist.Slug == "" {
		artist.Slug = Slugify(artist.Name)
	}
	if err := validateStruct(artist); err != nil {
		return nil, err
	}
	if err := validateSlug(artist.Slug); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertArtist(ctx, artist); err != nil {
		return nil, fmt.Errorf("upsert artist: %w", err)
	}
	return artist, nil
}

func (s *CatalogService) ListArtists(ctx context.Context) ([]domain.Artist, error) {
	return s.repo.ListArtists(ctx)
}

func (s *CatalogService) DeleteArtist(ctx context.Context, id int64) error {
	return s.repo.DeleteArtist(ctx, id)
}

func (s *CatalogService) UpsertLabel(ctx context.Context, label *domain.Label) (*domain.Label, error) {
	now := s.now()
	if label.ID != 0 {
		existing, err := s.repo.GetLabel(ctx, label.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		label.CreatedAt = existing.CreatedAt
	} else {
		label.CreatedAt = now
	}
	label.UpdatedAt = now

	if label.Slug == "" {
		label.Slug = Slugify(label.Name)
	}
	if err := validateStruct(label); err != nil {
		return nil, err
	}
	if err := validateSlug(label.Slug); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertLabel(ctx, label); err != nil {
		return nil, fmt.Errorf("upsert label: %w", err)
	}
	return label, nil
}

func (s *CatalogService) ListLabels(ctx context.Context) ([]domain.Label, error) {
	return s.repo.ListLabels(ctx)
}

func (s *CatalogService) DeleteLabel(ctx context.Context, id int64) error {
	return s.repo.DeleteLabel(ctx, id)
}

// --- Slugs ---

// resolveSlug decides the slug of a write. An explicit slug wins, then the
// stored one, then one derived from title. Published entities keep their
// slug, and a slug claimed by another entity is rejected.
func resolveSlug(ctx context.Context, repo ports.CatalogRepository, t domain.EntityType, id int64, current string, requested *string, title string, firstPublishedAt *time.Time) (string, error) {
	slug := current
	if requested != nil && *requested != "" {
		slug = *requested
	}
	if slug == "" {
		slug = Slugify(title)
	}

	if slug != current && current != "" && firstPublishedAt != nil {
		return "", domain.NewValidationError("slug", "cannot change after publishing")
	}
	if err := validateSlug(slug); err != nil {
		return "", err
	}

	owner, err := repo.GetSlugClaim(ctx, t, slug)
	if err != nil {
		return "", err
	}
	if owner != nil && owner.EntityID != id {
		return "", domain.NewValidationError("slug", "already in use")
	}
	return slug, nil
}

func goesPublic(status domain.PublishStatus) bool {
	return status == domain.StatusPublished || status == domain.StatusScheduled
}

func claimSlug(ctx context.Context, repo ports.CatalogRepository, t domain.EntityType, slug string, id int64) error {
	owner, err := repo.ClaimSlug(ctx, domain.SlugClaim{EntityType: t, Slug: slug, EntityID: id})
	if err != nil {
		return fmt.Errorf("claim slug: %w", err)
	}
	if owner == nil || owner.EntityID != id {
		return domain.NewValidationError("slug", "already in use")
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil || slug == "" {
		return
	}
	if err := s.cache.Invalidate(ctx, slug); err != nil {
		s.logger.Printf("smartlink cache invalidate %q: %v", slug, err)
	}
}

// optionalID maps a zero or negative id to nil so callers can clear a reference
func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
