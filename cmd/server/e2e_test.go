package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/app"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/config"
)

func TestIntegration(t *testing.T) {
	// 1. Setup app on an in-memory database
	cfg := &config.Config{
		DatabaseURL:      "file:e2e_memdb?mode=memory&cache=shared",
		JWTSecret:        "e2e-secret",
		TrackerQueueSize: 16,
		TrackerWorkers:   1,
		TrackRateLimit:   "1000-M",
	}
	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to init app: %v", err)
	}
	defer application.Close(ctx)

	server := httptest.NewServer(application.Handler)
	defer server.Close()

	client := server.Client()
	token := signAdminToken(t, cfg.JWTSecret, "admin@label.test")

	do := func(method, path string, payload interface{}) *http.Response {
		t.Helper()
		var body io.Reader
		if payload != nil {
			data, _ := json.Marshal(payload)
			body = bytes.NewReader(data)
		}
		req, err := http.NewRequest(method, server.URL+path, body)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if strings.HasPrefix(path, "/api/") {
			req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		return resp
	}

	// TEST 1: Admin API requires a session
	resp, err := client.Post(server.URL+"/api/v1/albums", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without session, got %d", resp.StatusCode)
	}

	// TEST 2: Create platform and draft album with links
	resp = do("POST", "/api/v1/platforms", map[string]interface{}{
		"name":              "Spotify",
		"default_cta_label": "Stream",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create platform expected 201, got %d", resp.StatusCode)
	}
	var platform struct {
		ID int64 `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&platform)

	resp = do("POST", "/api/v1/albums", map[string]interface{}{
		"slug":  "midnight",
		"title": "Midnight",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create album expected 201, got %d", resp.StatusCode)
	}
	var album struct {
		ID            int64  `json:"id"`
		PublishStatus string `json:"publish_status"`
	}
	json.NewDecoder(resp.Body).Decode(&album)
	if album.PublishStatus != "draft" {
		t.Errorf("Expected new album to be draft, got %q", album.PublishStatus)
	}

	links := []map[string]interface{}{
		{"url": "https://a", "sort_order": 1, "cta_label": ""},
		{"url": "https://b", "sort_order": 1, "platform_id": platform.ID},
	}
	for _, link := range links {
		resp = do("POST", "/api/v1/albums/"+itoa(album.ID)+"/links", link)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Add link expected 201, got %d", resp.StatusCode)
		}
	}

	// TEST 3: Draft and unknown slugs look the same
	hidden := readBody(t, mustGet(t, client, server.URL+"/smart-links/midnight", http.StatusNotFound))
	absent := readBody(t, mustGet(t, client, server.URL+"/smart-links/nothing-here", http.StatusNotFound))
	if hidden != absent {
		t.Errorf("Draft and absent bodies differ: %q vs %q", hidden, absent)
	}

	// TEST 4: Publish and resolve
	resp = do("PUT", "/api/v1/albums/"+itoa(album.ID), map[string]interface{}{"publish_status": "published"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Publish expected 200, got %d", resp.StatusCode)
	}

	resp = mustGet(t, client, server.URL+"/smart-links/midnight", http.StatusOK)
	var page struct {
		Links []struct {
			URL          string `json:"url"`
			PlatformName string `json:"platformName"`
			CTALabel     string `json:"ctaLabel"`
		} `json:"links"`
	}
	json.NewDecoder(resp.Body).Decode(&page)
	if len(page.Links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(page.Links))
	}
	if page.Links[0].URL != "https://a" || page.Links[0].CTALabel != "Listen" {
		t.Errorf("Expected https://a (Listen) first, got %+v", page.Links[0])
	}
	if page.Links[1].URL != "https://b" || page.Links[1].CTALabel != "Stream" {
		t.Errorf("Expected https://b (Stream) second, got %+v", page.Links[1])
	}

	// Slug is locked once published
	resp = do("PUT", "/api/v1/albums/"+itoa(album.ID), map[string]interface{}{"slug": "after-midnight"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Rename after publish expected 400, got %d", resp.StatusCode)
	}

	// TEST 5: Client-side tracking
	resp, err = client.Post(server.URL+"/track", "application/json",
		strings.NewReader(`{"eventType":"link_click","entityType":"album","entityId":`+itoa(album.ID)+`}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("Track expected 202, got %d", resp.StatusCode)
	}

	resp, err = client.Post(server.URL+"/track", "application/json", strings.NewReader(`{"entityType":"album"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Invalid track expected 400, got %d", resp.StatusCode)
	}

	// TEST 6: Analytics after the tracker drains
	drainCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := application.Tracker.Close(drainCtx); err != nil {
		t.Fatalf("Tracker close: %v", err)
	}

	resp = do("GET", "/api/v1/analytics?scope=all", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Analytics expected 200, got %d", resp.StatusCode)
	}
	var stats struct {
		Scope      string           `json:"scope"`
		TotalViews int64            `json:"total_views"`
		EventTypes map[string]int64 `json:"event_types"`
	}
	json.NewDecoder(resp.Body).Decode(&stats)
	if stats.Scope != "all" {
		t.Errorf("Expected scope all, got %q", stats.Scope)
	}
	if stats.TotalViews != 2 {
		t.Errorf("Expected 2 views, got %d", stats.TotalViews)
	}
	if stats.EventTypes["smart_link_view"] != 1 || stats.EventTypes["link_click"] != 1 {
		t.Errorf("Unexpected event types: %v", stats.EventTypes)
	}
}

func mustGet(t *testing.T, client *http.Client, url string, want int) *http.Response {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != want {
		t.Fatalf("GET %s expected %d, got %d", url, want, resp.StatusCode)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func signAdminToken(t *testing.T, secret, email string) string {
	claims := &jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}
