package domain

import (
	"testing"
	"time"
)

func TestEvaluate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status PublishStatus
		date   string
		want   Visibility
	}{
		{"archived without date", StatusArchived, "", Hidden},
		{"archived in the past", StatusArchived, "2020-01-01", Hidden},
		{"archived in the future", StatusArchived, "2030-01-01", Hidden},
		{"draft", StatusDraft, "2020-01-01", Hidden},
		{"published without date", StatusPublished, "", Visible},
		{"published with future date", StatusPublished, "2030-01-01", Visible},
		{"scheduled without date", StatusScheduled, "", Visible},
		{"scheduled blank date", StatusScheduled, "   ", Visible},
		{"scheduled unparseable date", StatusScheduled, "next friday", Hidden},
		{"scheduled one day ahead", StatusScheduled, now.Add(24 * time.Hour).Format(time.RFC3339), PendingScheduled},
		{"scheduled one second ago", StatusScheduled, now.Add(-time.Second).Format(time.RFC3339), Visible},
		{"scheduled exactly now", StatusScheduled, now.Format(time.RFC3339), Visible},
		{"scheduled date only today", StatusScheduled, "2024-06-01", Visible},
		{"scheduled date only tomorrow", StatusScheduled, "2024-06-02", PendingScheduled},
		{"scheduled offset converted to UTC", StatusScheduled, "2024-06-01T13:00:00+02:00", Visible},
		{"unknown status", PublishStatus("deleted"), "", Hidden},
		{"empty status", PublishStatus(""), "", Hidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.status, tt.date, now); got != tt.want {
				t.Errorf("Evaluate(%q, %q) = %q, want %q", tt.status, tt.date, got, tt.want)
			}
		})
	}
}

func TestEvaluateArchivedIgnoresDate(t *testing.T) {
	now := time.Now().UTC()
	for _, offset := range []time.Duration{-365 * 24 * time.Hour, -time.Second, 0, time.Second, 365 * 24 * time.Hour} {
		date := now.Add(offset).Format(time.RFC3339Nano)
		if got := Evaluate(StatusArchived, date, now); got != Hidden {
			t.Errorf("archived with date %s = %q, want hidden", date, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-03-09", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), true},
		{"2024-03-09 10:30:00", time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC), true},
		{"2024-03-09T10:30:00", time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC), true},
		{"2024-03-09T10:30:00Z", time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC), true},
		{"2024-03-09T10:30:00-05:00", time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"09/03/2024", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if ok && got.Location() != time.UTC {
			t.Errorf("ParseDate(%q) location = %v, want UTC", tt.in, got.Location())
		}
	}
}

func TestValidStatus(t *testing.T) {
	tests := []struct {
		entity EntityType
		status PublishStatus
		want   bool
	}{
		{EntityAlbum, StatusScheduled, true},
		{EntityAlbum, StatusArchived, true},
		{EntityEvent, StatusDraft, true},
		{EntityUpdate, StatusPublished, true},
		{EntityUpdate, StatusScheduled, false},
		{EntityUpdate, StatusArchived, false},
		{EntityAlbum, PublishStatus("live"), false},
	}

	for _, tt := range tests {
		if got := ValidStatus(tt.entity, tt.status); got != tt.want {
			t.Errorf("ValidStatus(%s, %s) = %v, want %v", tt.entity, tt.status, got, tt.want)
		}
	}
}

func TestVisibilityPublic(t *testing.T) {
	if !Visible.Public() {
		t.Error("visible should be public")
	}
	if Hidden.Public() || PendingScheduled.Public() {
		t.Error("hidden and pending_scheduled should not be public")
	}
}
