package services

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
)

type recordingViews struct {
	mu      sync.Mutex
	events  []domain.ViewEvent
	err     error
	started chan struct{}
	release chan struct{}
}

func (r *recordingViews) RecordView(ctx context.Context, event *domain.ViewEvent) error {
	if r.started != nil {
		r.started <- struct{}{}
		<-r.release
	}
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *recordingViews) GetViewStats(ctx context.Context, since *time.Time, limit int) (*domain.ViewStats, error) {
	return &domain.ViewStats{}, nil
}

func (r *recordingViews) recorded() []domain.ViewEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ViewEvent(nil), r.events...)
}

func smartLinkView(id string) domain.ViewEvent {
	return domain.ViewEvent{EventType: "smart_link_view", EntityType: "album", EntityID: id}
}

func TestTrackerRecordsEvents(t *testing.T) {
	repo := &recordingViews{}
	tracker := NewTracker(repo, log.New(&bytes.Buffer{}, "", 0), 8, 2)

	for _, id := range []string{"1", "2", "3"} {
		if err := tracker.Record(context.Background(), smartLinkView(id)); err != nil {
			t.Fatalf("Record(%s) failed: %v", id, err)
		}
	}
	if err := tracker.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events := repo.recorded()
	if len(events) != 3 {
		t.Fatalf("recorded %d events, want 3", len(events))
	}
	seen := map[string]bool{}
	for _, e := range events {
		if e.ID == "" || seen[e.ID] {
			t.Errorf("event id %q is empty or duplicated", e.ID)
		}
		seen[e.ID] = true
		if e.CreatedAt.IsZero() || e.CreatedAt.Location() != time.UTC {
			t.Errorf("CreatedAt = %v, want a UTC timestamp", e.CreatedAt)
		}
	}
}

func TestTrackerStoreFailureIsLoggedNotReturned(t *testing.T) {
	var logs bytes.Buffer
	repo := &recordingViews{err: errors.New("disk full")}
	tracker := NewTracker(repo, log.New(&logs, "", 0), 8, 1)

	if err := tracker.Record(context.Background(), smartLinkView("7")); err != nil {
		t.Fatalf("Record returned %v, want nil on store failure", err)
	}
	if err := tracker.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !strings.Contains(logs.String(), "disk full") {
		t.Errorf("expected store failure in log, got %q", logs.String())
	}
}

func TestTrackerValidation(t *testing.T) {
	tracker := NewTracker(&recordingViews{}, log.New(&bytes.Buffer{}, "", 0), 8, 1)
	defer tracker.Close(context.Background())

	tests := []struct {
		name  string
		event domain.ViewEvent
	}{
		{"missing event type", domain.ViewEvent{EntityType: "album", EntityID: "1"}},
		{"missing entity type", domain.ViewEvent{EventType: "view", EntityID: "1"}},
		{"missing entity id", domain.ViewEvent{EventType: "view", EntityType: "album"}},
		{"event type too long", domain.ViewEvent{EventType: strings.Repeat("x", 65), EntityType: "album", EntityID: "1"}},
		{"unserializable metadata", domain.ViewEvent{
			EventType: "view", EntityType: "album", EntityID: "1",
			Metadata: map[string]any{"callback": func() {}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tracker.Record(context.Background(), tt.event)
			if !domain.IsValidation(err) {
				t.Errorf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestTrackerDropsWhenQueueFull(t *testing.T) {
	var logs bytes.Buffer
	repo := &recordingViews{started: make(chan struct{}, 4), release: make(chan struct{})}
	tracker := NewTracker(repo, log.New(&logs, "", 0), 1, 1)

	// First event occupies the only worker
	if err := tracker.Record(context.Background(), smartLinkView("1")); err != nil {
		t.Fatal(err)
	}
	<-repo.started

	// Second fills the queue, third has nowhere to go
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = tracker.Record(context.Background(), smartLinkView("2"))
		_ = tracker.Record(context.Background(), smartLinkView("3"))
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	close(repo.release)
	if err := tracker.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if n := len(repo.recorded()); n != 2 {
		t.Errorf("recorded %d events, want 2", n)
	}
	if !strings.Contains(logs.String(), "queue full") {
		t.Errorf("expected drop in log, got %q", logs.String())
	}
}

func TestTrackerClose(t *testing.T) {
	var logs bytes.Buffer
	repo := &recordingViews{}
	tracker := NewTracker(repo, log.New(&logs, "", 0), 8, 1)

	if err := tracker.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := tracker.Close(context.Background()); err != ErrTrackerClosed {
		t.Errorf("second Close err = %v, want ErrTrackerClosed", err)
	}

	if err := tracker.Record(context.Background(), smartLinkView("1")); err != nil {
		t.Errorf("Record after Close returned %v", err)
	}
	if len(repo.recorded()) != 0 {
		t.Error("event recorded after Close")
	}
	if !strings.Contains(logs.String(), "closed") {
		t.Errorf("expected drop after close in log, got %q", logs.String())
	}
}

func TestTrackerCloseHonoursContext(t *testing.T) {
	repo := &recordingViews{started: make(chan struct{}, 1), release: make(chan struct{})}
	tracker := NewTracker(repo, log.New(&bytes.Buffer{}, "", 0), 1, 1)
	defer close(repo.release)

	_ = tracker.Record(context.Background(), smartLinkView("1"))
	<-repo.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := tracker.Close(ctx); err != context.DeadlineExceeded {
		t.Errorf("Close err = %v, want context.DeadlineExceeded", err)
	}
}
