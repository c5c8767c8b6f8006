package handler

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

const (
	smartLinkViewEvent = "smart_link_view"

	// maxTrackBody caps the unauthenticated tracking payload
	maxTrackBody = 64 << 10
)

// PublicHandler serves unauthenticated reads and the tracking endpoint
type PublicHandler struct {
	smartLinks ports.SmartLinkService
	content    ports.ContentService
	tracker    ports.ViewTracker
}

func NewPublicHandler(smartLinks ports.SmartLinkService, content ports.ContentService, tracker ports.ViewTracker) *PublicHandler {
	return &PublicHandler{smartLinks: smartLinks, content: content, tracker: tracker}
}

// SmartLink resolves an album landing page and records one view unless
// no_stat is set.
func (h *PublicHandler) SmartLink(w http.ResponseWriter, r *http.Request) {
	payload, err := h.smartLinks.Resolve(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("no_stat") == "" {
		guard := viewGuardFrom(r)
		entityID := strconv.FormatInt(payload.Album.ID, 10)
		if guard.Once(entityID) {
			event := domain.ViewEvent{
				EventType:  smartLinkViewEvent,
				EntityType: string(domain.EntityAlbum),
				EntityID:   entityID,
				Metadata:   domain.MergeContext(map[string]any{"slug": payload.Album.Slug}, r.URL.Path),
			}
			if err := h.tracker.Record(r.Context(), event); err != nil {
				log.Printf("track smart link view: %v", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, payload)
}

// entityRef accepts an id sent either as a JSON string or number
type entityRef string

func (e *entityRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = entityRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*e = entityRef(n.String())
	return nil
}

type trackRequest struct {
	EventType  string         `json:"eventType"`
	EntityType string         `json:"entityType"`
	EntityID   entityRef      `json:"entityId"`
	Metadata   map[string]any `json:"metadata"`
	Path       string         `json:"path"`
}

// Track accepts a client-side view event. The response does not depend on
// whether the event is eventually stored.
func (h *PublicHandler) Track(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTrackBody)

	var req trackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	path := req.Path
	if path == "" {
		if ref, err := url.Parse(r.Referer()); err == nil {
			path = ref.Path
		}
	}

	event := domain.ViewEvent{
		EventType:  req.EventType,
		EntityType: req.EntityType,
		EntityID:   string(req.EntityID),
		Metadata:   domain.MergeContext(req.Metadata, path),
	}
	if err := h.tracker.Record(r.Context(), event); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *PublicHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.content.PublicEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": events})
}

func (h *PublicHandler) Updates(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	updates, err := h.content.PublicUpdates(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": updates})
}
