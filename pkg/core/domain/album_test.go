package domain

import "testing"

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		name string
		link AlbumLink
		want string
	}{
		{"explicit label", AlbumLink{CTALabel: "Buy", Platform: &Platform{DefaultCTALabel: "Stream"}}, "Buy"},
		{"platform default", AlbumLink{Platform: &Platform{Name: "Spotify", DefaultCTALabel: "Stream"}}, "Stream"},
		{"platform without default", AlbumLink{Platform: &Platform{Name: "Bandcamp"}}, DefaultCTALabel},
		{"no platform", AlbumLink{}, DefaultCTALabel},
		{"dangling platform id", AlbumLink{PlatformID: ptr(int64(42))}, DefaultCTALabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.link.DisplayLabel()
			if got != tt.want {
				t.Errorf("DisplayLabel() = %q, want %q", got, tt.want)
			}
			if got == "" {
				t.Error("DisplayLabel() must never be empty")
			}
		})
	}
}

func TestMergeContext(t *testing.T) {
	caller := map[string]any{"path": "/spoofed", "source": "share"}
	merged := MergeContext(caller, "/albums/midnight")

	if merged["path"] != "/albums/midnight" {
		t.Errorf("path = %v, want call-time path", merged["path"])
	}
	if merged["source"] != "share" {
		t.Errorf("source = %v, want caller value", merged["source"])
	}
	if caller["path"] != "/spoofed" {
		t.Error("caller metadata must not be modified")
	}

	if got := MergeContext(nil, ""); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestViewGuard(t *testing.T) {
	g := NewViewGuard()
	if !g.Once("1") {
		t.Fatal("first view of entity 1 should pass")
	}
	if g.Once("1") {
		t.Error("second view of entity 1 should be suppressed")
	}
	if !g.Once("2") {
		t.Error("first view of entity 2 should pass")
	}
}

func ptr[T any](v T) *T {
	return &v
}
