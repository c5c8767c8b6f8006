package sqlite

import (
	"context"
	"database/sql"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
)

// --- Platforms ---

func (r *SQLiteRepository) UpsertPlatform(ctx context.Context, platform *domain.Platform) error {
	if platform.ID == 0 {
		query := `INSERT INTO platforms (name, icon_url, default_cta_label, created_at, updated_at)
				  VALUES (?, ?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, query, platform.Name, platform.IconURL, platform.DefaultCTALabel, platform.CreatedAt, platform.UpdatedAt)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		platform.ID = id
		return nil
	}

	query := `INSERT INTO platforms (id, name, icon_url, default_cta_label, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				icon_url = excluded.icon_url,
				default_cta_label = excluded.default_cta_label,
				updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, platform.ID, platform.Name, platform.IconURL, platform.DefaultCTALabel, platform.CreatedAt, platform.UpdatedAt)
	return err
}

func (r *SQLiteRepository) GetPlatform(ctx context.Context, id int64) (*domain.Platform, error) {
	query := `SELECT id, name, COALESCE(icon_url, ''), COALESCE(default_cta_label, ''), created_at, updated_at
			  FROM platforms WHERE id = ?`

	var p domain.Platform
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.IconURL, &p.DefaultCTALabel, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) ListPlatforms(ctx context.Context) ([]domain.Platform, error) {
	query := `SELECT id, name, COALESCE(icon_url, ''), COALESCE(default_cta_label, ''), created_at, updated_at
			  FROM platforms ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var platforms []domain.Platform
	for rows.Next() {
		var p domain.Platform
		if err := rows.Scan(&p.ID, &p.Name, &p.IconURL, &p.DefaultCTALabel, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

// DeletePlatform leaves album_links.platform_id dangling; readers tolerate it.
func (r *SQLiteRepository) DeletePlatform(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM platforms WHERE id = ?`, id)
	return err
}

// --- Artists ---

func (r *SQLiteRepository) UpsertArtist(ctx context.Context, artist *domain.Artist) error {
	if artist.ID == 0 {
		query := `INSERT INTO artists (name, slug, image_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, query, artist.Name, artist.Slug, artist.ImageURL, artist.CreatedAt, artist.UpdatedAt)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		artist.ID = id
		return nil
	}

	query := `INSERT INTO artists (id, name, slug, image_url, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				slug = excluded.slug,
				image_url = excluded.image_url,
				updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, artist.ID, artist.Name, artist.Slug, artist.ImageURL, artist.CreatedAt, artist.UpdatedAt)
	return err
}

func (r *SQLiteRepository) GetArtist(ctx context.Context, id int64) (*domain.Artist, error) {
	query := `SELECT id, name, slug, COALESCE(image_url, ''), created_at, updated_at FROM artists WHERE id = ?`

	var a domain.Artist
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Slug, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SQLiteRepository) ListArtists(ctx context.Context) ([]domain.Artist, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, COALESCE(image_url, ''), created_at, updated_at FROM artists ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []domain.Artist
	for rows.Next() {
		var a domain.Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

func (r *SQLiteRepository) DeleteArtist(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	return err
}

// --- Labels ---

func (r *SQLiteRepository) UpsertLabel(ctx context.Context, label *domain.Label) error {
	if label.ID == 0 {
		query := `INSERT INTO labels (name, slug, logo_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, query, label.Name, label.Slug, label.LogoURL, label.CreatedAt, label.UpdatedAt)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		label.ID = id
		return nil
	}

	query := `INSERT INTO labels (id, name, slug, logo_url, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				slug = excluded.slug,
				logo_url = excluded.logo_url,
				updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, label.ID, label.Name, label.Slug, label.LogoURL, label.CreatedAt, label.UpdatedAt)
	return err
}

func (r *SQLiteRepository) GetLabel(ctx context.Context, id int64) (*domain.Label, error) {
	query := `SELECT id, name, slug, COALESCE(logo_url, ''), created_at, updated_at FROM labels WHERE id = ?`

	var l domain.Label
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.Name, &l.Slug, &l.LogoURL, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SQLiteRepository) ListLabels(ctx context.Context) ([]domain.Label, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, COALESCE(logo_url, ''), created_at, updated_at FROM labels ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []domain.Label
	for rows.Next() {
		var l domain.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Slug, &l.LogoURL, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (r *SQLiteRepository) DeleteLabel(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, id)
	return err
}
