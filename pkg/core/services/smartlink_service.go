package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
	"golang.org/x/sync/singleflight"
)

const resolveTimeout = 5 * time.Second

type SmartLinkService struct {
	repo   ports.CatalogRepository
	cache  ports.SmartLinkCache // optional
	logger *log.Logger
	group  singleflight.Group
	now    func() time.Time
}

// NewSmartLinkService creates a resolver. cache may be nil.
func NewSmartLinkService(repo ports.CatalogRepository, cache ports.SmartLinkCache, logger *log.Logger) *SmartLinkService {
	if logger == nil {
		logger = log.Default()
	}
	return &SmartLinkService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    utcNow,
	}
}

// Resolve builds the public payload for an album slug. Absent and hidden
// albums both yield domain.ErrNotFound; store failures yield a
// *domain.ResolutionError.
func (s *SmartLinkService) Resolve(ctx context.Context, slug string) (*domain.SmartLinksPayload, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.NewValidationError("slug", "is required")
	}

	if s.cache != nil {
		payload, err := s.cache.Get(ctx, slug)
		if err != nil {
			s.logger.Printf("smartlink cache get %q: %v", slug, err)
		} else if payload != nil {
			return payload, nil
		}
	}

	// The shared lookup must outlive any single caller; each caller still
	// stops waiting when its own ctx ends.
	ch := s.group.DoChan(slug, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveTimeout)
		defer cancel()
		return s.resolve(lookupCtx, slug)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	payload := res.Val.(*domain.SmartLinksPayload)

	if s.cache != nil {
		if err := s.cache.Set(ctx, slug, payload); err != nil {
			s.logger.Printf("smartlink cache set %q: %v", slug, err)
		}
	}
	return payload, nil
}

func (s *SmartLinkService) resolve(ctx context.Context, slug string) (*domain.SmartLinksPayload, error) {
	album, err := s.repo.GetAlbumBySlug(ctx, slug)
	if err != nil {
		return nil, &domain.ResolutionError{Op: "find album", Err: err}
	}
	if album == nil {
		return nil, domain.ErrNotFound
	}

	claim, err := s.repo.GetSlugClaim(ctx, domain.EntityAlbum, slug)
	if err != nil {
		return nil, &domain.ResolutionError{Op: "find slug claim", Err: err}
	}
	if claim != nil && claim.EntityID != album.ID {
		return nil, domain.ErrNotFound
	}

	if !album.VisibilityAt(s.now()).Public() {
		return nil, domain.ErrNotFound
	}

	links, err := s.repo.GetAlbumLinks(ctx, album.ID)
	if err != nil {
		return nil, &domain.ResolutionError{Op: "load album links", Err: err}
	}

	return buildPayload(album, links), nil
}

// buildPayload orders links by sort_order, keeping store order for ties.
func buildPayload(album *domain.Album, links []domain.AlbumLink) *domain.SmartLinksPayload {
	ordered := make([]domain.AlbumLink, len(links))
	copy(ordered, links)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	artistName := album.ArtistName
	if artistName == "" {
		artistName = album.LabelName
	}

	payload := &domain.SmartLinksPayload{
		Album: domain.AlbumSummary{
			ID:            album.ID,
			Slug:          album.Slug,
			Title:         album.Title,
			ArtistName:    artistName,
			CatalogNumber: album.CatalogNumber,
			CoverImageURL: album.CoverImageURL,
		},
		Links: make([]domain.SmartLinkItem, 0, len(ordered)),
	}

	for i := range ordered {
		link := &ordered[i]
		item := domain.SmartLinkItem{
			ID:       link.ID,
			URL:      link.URL,
			CTALabel: link.DisplayLabel(),
			LinkType: link.LinkType,
		}
		if link.Platform != nil {
			item.PlatformName = link.Platform.Name
			item.PlatformIconURL = link.Platform.IconURL
		}
		payload.Links = append(payload.Links, item)
	}
	return payload
}
