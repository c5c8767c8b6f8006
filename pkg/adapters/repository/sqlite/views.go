package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
)

const timestampLayout = "2006-01-02 15:04:05"

// RecordView appends one event. Rows are never updated.
func (r *SQLiteRepository) RecordView(ctx context.Context, event *domain.ViewEvent) error {
	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return err
	}

	query := `INSERT INTO view_events (id, event_type, entity_type, entity_id, metadata, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.EventType, event.EntityType, event.EntityID, string(metadataJSON),
		event.CreatedAt.UTC().Format(timestampLayout),
	)
	return err
}

// GetViewStats aggregates events created at or after since (all time when nil)
func (r *SQLiteRepository) GetViewStats(ctx context.Context, since *time.Time, limit int) (*domain.ViewStats, error) {
	stats := &domain.ViewStats{
		TopEntities: []domain.EntityViews{},
		EventTypes:  make(map[string]int64),
		DailyViews:  []domain.DailyViews{},
	}

	where := " WHERE 1 = 1"
	args := []interface{}{}
	if since != nil {
		where += " AND created_at >= ?"
		args = append(args, since.UTC().Format(timestampLayout))
	}

	// Total Views
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM view_events`+where, args...).Scan(&stats.TotalViews)
	if err != nil {
		return nil, err
	}

	// Top Entities
	topArgs := append(append([]interface{}{}, args...), limit)
	rows, err := r.db.QueryContext(ctx, `
		SELECT entity_type, entity_id, COUNT(*) AS c
		FROM view_events`+where+`
		GROUP BY entity_type, entity_id
		ORDER BY c DESC, entity_type ASC, entity_id ASC
		LIMIT ?`, topArgs...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var ev domain.EntityViews
		if err := rows.Scan(&ev.EntityType, &ev.EntityID, &ev.Views); err != nil {
			rows.Close()
			return nil, err
		}
		stats.TopEntities = append(stats.TopEntities, ev)
	}
	rows.Close()

	// Event Types
	rows2, err := r.db.QueryContext(ctx, `SELECT event_type, COUNT(*) FROM view_events`+where+` GROUP BY event_type`, args...)
	if err != nil {
		return nil, err
	}
	for rows2.Next() {
		var eventType string
		var count int64
		if err := rows2.Scan(&eventType, &count); err != nil {
			rows2.Close()
			return nil, err
		}
		stats.EventTypes[eventType] = count
	}
	rows2.Close()

	// Daily Views
	rows3, err := r.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d', created_at) AS date, COUNT(*)
		FROM view_events`+where+`
		GROUP BY date
		ORDER BY date DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows3.Close()
	for rows3.Next() {
		var dv domain.DailyViews
		if err := rows3.Scan(&dv.Date, &dv.Count); err != nil {
			return nil, err
		}
		stats.DailyViews = append(stats.DailyViews, dv)
	}

	return stats, rows3.Err()
}
