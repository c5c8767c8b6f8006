package sqlite

import (
	"context"
	"database/sql"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
)

const albumColumns = `a.id, a.slug, a.title, a.artist_id, a.label_id,
	COALESCE(a.catalog_number, ''), COALESCE(a.cover_image_url, ''), COALESCE(a.release_date, ''),
	a.publish_status, a.first_published_at, a.created_at, a.updated_at,
	COALESCE(ar.name, ''), COALESCE(lb.name, '')`

const albumFrom = `FROM albums a
	LEFT JOIN artists ar ON ar.id = a.artist_id
	LEFT JOIN labels lb ON lb.id = a.label_id`

func scanAlbum(s scanner) (*domain.Album, error) {
	var a domain.Album
	var artistID, labelID sql.NullInt64
	var firstPublishedAt sql.NullTime
	var status string

	err := s.Scan(
		&a.ID, &a.Slug, &a.Title, &artistID, &labelID,
		&a.CatalogNumber, &a.CoverImageURL, &a.ReleaseDate,
		&status, &firstPublishedAt, &a.CreatedAt, &a.UpdatedAt,
		&a.ArtistName, &a.LabelName,
	)
	if err != nil {
		return nil, err
	}

	a.PublishStatus = domain.PublishStatus(status)
	if artistID.Valid {
		a.ArtistID = &artistID.Int64
	}
	if labelID.Valid {
		a.LabelID = &labelID.Int64
	}
	if firstPublishedAt.Valid {
		a.FirstPublishedAt = &firstPublishedAt.Time
	}
	return &a, nil
}

// UpsertAlbum inserts when album.ID is zero, otherwise writes the whole row
// in a single INSERT ... ON CONFLICT statement.
func (r *SQLiteRepository) UpsertAlbum(ctx context.Context, album *domain.Album) error {
	if album.ID == 0 {
		query := `INSERT INTO albums (slug, title, artist_id, label_id, catalog_number, cover_image_url,
				  release_date, publish_status, first_published_at, created_at, updated_at)
				  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, query,
			album.Slug, album.Title, nullInt(album.ArtistID), nullInt(album.LabelID), album.CatalogNumber, album.CoverImageURL,
			album.ReleaseDate, string(album.PublishStatus), nullTime(album.FirstPublishedAt), album.CreatedAt, album.UpdatedAt,
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		album.ID = id
		return nil
	}

	query := `INSERT INTO albums (id, slug, title, artist_id, label_id, catalog_number, cover_image_url,
			  release_date, publish_status, first_published_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				slug = excluded.slug,
				title = excluded.title,
				artist_id = excluded.artist_id,
				label_id = excluded.label_id,
				catalog_number = excluded.catalog_number,
				cover_image_url = excluded.cover_image_url,
				release_date = excluded.release_date,
				publish_status = excluded.publish_status,
				first_published_at = excluded.first_published_at,
				updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		album.ID, album.Slug, album.Title, nullInt(album.ArtistID), nullInt(album.LabelID), album.CatalogNumber, album.CoverImageURL,
		album.ReleaseDate, string(album.PublishStatus), nullTime(album.FirstPublishedAt), album.CreatedAt, album.UpdatedAt,
	)
	return err
}

func (r *SQLiteRepository) DeleteAlbum(ctx context.Context, id int64) error {
	// foreign keys are not enforced, so links go first
	if _, err := r.db.ExecContext(ctx, `DELETE FROM album_links WHERE album_id = ?`, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepository) GetAlbum(ctx context.Context, id int64) (*domain.Album, error) {
	query := `SELECT ` + albumColumns + ` ` + albumFrom + ` WHERE a.id = ?`
	album, err := scanAlbum(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return album, err
}

func (r *SQLiteRepository) GetAlbumBySlug(ctx context.Context, slug string) (*domain.Album, error) {
	query := `SELECT ` + albumColumns + ` ` + albumFrom + ` WHERE a.slug = ?`
	album, err := scanAlbum(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return album, err
}

func albumFilters(filters map[string]interface{}) (string, []interface{}) {
	where := " WHERE 1 = 1"
	args := []interface{}{}

	if search, ok := filters["search"].(string); ok && search != "" {
		where += " AND (a.title LIKE ? OR a.slug LIKE ? OR a.catalog_number LIKE ?)"
		args = append(args, "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		where += " AND a.publish_status = ?"
		args = append(args, status)
	}
	return where, args
}

func (r *SQLiteRepository) ListAlbums(ctx context.Context, limit, offset int, filters map[string]interface{}) ([]domain.Album, error) {
	where, args := albumFilters(filters)
	query := `SELECT ` + albumColumns + ` ` + albumFrom + where + ` ORDER BY a.created_at DESC, a.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []domain.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, *a)
	}
	return albums, rows.Err()
}

func (r *SQLiteRepository) CountAlbums(ctx context.Context, filters map[string]interface{}) (int64, error) {
	where, args := albumFilters(filters)
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM albums a`+where, args...).Scan(&count)
	return count, err
}

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.Album, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+albumColumns+` `+albumFrom+` ORDER BY a.id ASC`)
	if err != nil {
		return nil, err
	}

	var albums []domain.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		albums = append(albums, *a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range albums {
		links, err := r.GetAlbumLinks(ctx, albums[i].ID)
		if err != nil {
			return nil, err
		}
		albums[i].Links = links
	}
	return albums, nil
}

// --- Album links ---

const linkColumns = `l.id, l.album_id, l.platform_id, l.url, COALESCE(l.cta_label, ''), COALESCE(l.link_type, ''),
	l.sort_order, l.created_at, p.id, p.name, p.icon_url, p.default_cta_label`

func scanAlbumLink(s scanner) (*domain.AlbumLink, error) {
	var l domain.AlbumLink
	var platformRef, platformID sql.NullInt64
	var platformName, platformIcon, platformCTA sql.NullString

	err := s.Scan(
		&l.ID, &l.AlbumID, &platformRef, &l.URL, &l.CTALabel, &l.LinkType,
		&l.SortOrder, &l.CreatedAt, &platformID, &platformName, &platformIcon, &platformCTA,
	)
	if err != nil {
		return nil, err
	}

	if platformRef.Valid {
		l.PlatformID = &platformRef.Int64
	}
	// Dangling references leave the joined columns NULL
	if platformID.Valid {
		l.Platform = &domain.Platform{
			ID:              platformID.Int64,
			Name:            platformName.String,
			IconURL:         platformIcon.String,
			DefaultCTALabel: platformCTA.String,
		}
	}
	return &l, nil
}

func (r *SQLiteRepository) UpsertAlbumLink(ctx context.Context, link *domain.AlbumLink) error {
	if link.ID == 0 {
		query := `INSERT INTO album_links (album_id, platform_id, url, cta_label, link_type, sort_order, created_at)
				  VALUES (?, ?, ?, ?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, query,
			link.AlbumID, nullInt(link.PlatformID), link.URL, link.CTALabel, link.LinkType, link.SortOrder, link.CreatedAt)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		link.ID = id
		return nil
	}

	query := `INSERT INTO album_links (id, album_id, platform_id, url, cta_label, link_type, sort_order, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				platform_id = excluded.platform_id,
				url = excluded.url,
				cta_label = excluded.cta_label,
				link_type = excluded.link_type,
				sort_order = excluded.sort_order`
	_, err := r.db.ExecContext(ctx, query,
		link.ID, link.AlbumID, nullInt(link.PlatformID), link.URL, link.CTALabel, link.LinkType, link.SortOrder, link.CreatedAt)
	return err
}

func (r *SQLiteRepository) GetAlbumLink(ctx context.Context, id int64) (*domain.AlbumLink, error) {
	query := `SELECT ` + linkColumns + `
			  FROM album_links l LEFT JOIN platforms p ON p.id = l.platform_id
			  WHERE l.id = ?`
	link, err := scanAlbumLink(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return link, err
}

func (r *SQLiteRepository) DeleteAlbumLink(ctx context.Context, albumID, linkID int64) error {
	query := `DELETE FROM album_links WHERE album_id = ? AND id = ?`
	_, err := r.db.ExecContext(ctx, query, albumID, linkID)
	return err
}

func (r *SQLiteRepository) UpdateLinkOrder(ctx context.Context, albumID, linkID int64, newOrder int) error {
	query := `UPDATE album_links SET sort_order = ? WHERE album_id = ? AND id = ?`
	_, err := r.db.ExecContext(ctx, query, newOrder, albumID, linkID)
	return err
}

// GetAlbumLinks returns links ordered by sort_order, ties broken by
// insertion order (autoincrement id).
func (r *SQLiteRepository) GetAlbumLinks(ctx context.Context, albumID int64) ([]domain.AlbumLink, error) {
	query := `SELECT ` + linkColumns + `
			  FROM album_links l
			  LEFT JOIN platforms p ON p.id = l.platform_id
			  WHERE l.album_id = ?
			  ORDER BY l.sort_order ASC, l.id ASC`

	rows, err := r.db.QueryContext(ctx, query, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.AlbumLink
	for rows.Next() {
		l, err := scanAlbumLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}
