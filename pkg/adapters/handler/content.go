package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

// ContentHandler is the admin API for events and updates
type ContentHandler struct {
	service ports.ContentService
}

func NewContentHandler(service ports.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

func (h *ContentHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": events})
}

func (h *ContentHandler) SaveEvent(w http.ResponseWriter, r *http.Request) {
	var req ports.EventInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var id int64
	status, ok := upsertTarget(w, r, &id)
	if !ok {
		return
	}

	event, err := h.service.UpsertEvent(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, event)
}

func (h *ContentHandler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := h.service.ListUpdates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": updates})
}

func (h *ContentHandler) SaveUpdate(w http.ResponseWriter, r *http.Request) {
	var req ports.UpdateInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var id int64
	status, ok := upsertTarget(w, r, &id)
	if !ok {
		return
	}

	update, err := h.service.UpsertUpdate(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, update)
}
