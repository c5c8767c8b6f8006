package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// --- Albums ---

func (h *CatalogHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req ports.AlbumInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	album, err := h.service.UpsertAlbum(r.Context(), 0, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

func (h *CatalogHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	search := r.URL.Query().Get("search")
	status := r.URL.Query().Get("status")

	albums, total, err := h.service.ListAlbums(r.Context(), page, limit, search, status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  albums,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *CatalogHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	album, err := h.service.GetAlbum(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (h *CatalogHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req ports.AlbumInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	album, err := h.service.UpsertAlbum(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// --- Album links ---

func (h *CatalogHandler) AddLink(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req ports.AlbumLinkInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	link, err := h.service.UpsertAlbumLink(r.Context(), albumID, 0, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (h *CatalogHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	linkID, err := pathID(r, "linkID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req ports.AlbumLinkInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	link, err := h.service.UpsertAlbumLink(r.Context(), albumID, linkID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (h *CatalogHandler) RemoveLink(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	linkID, err := pathID(r, "linkID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteAlbumLink(r.Context(), albumID, linkID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderLinksRequest struct {
	LinkIDs []int64 `json:"link_ids"`
}

func (h *CatalogHandler) ReorderLinks(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req reorderLinksRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.ReorderLinks(r.Context(), albumID, req.LinkIDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Platforms ---

func (h *CatalogHandler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.service.ListPlatforms(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": platforms})
}

func (h *CatalogHandler) SavePlatform(w http.ResponseWriter, r *http.Request) {
	var platform domain.Platform
	if err := decodeJSON(r, &platform); err != nil {
		writeError(w, err)
		return
	}
	status, ok := upsertTarget(w, r, &platform.ID)
	if !ok {
		return
	}

	saved, err := h.service.UpsertPlatform(r.Context(), &platform)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, saved)
}

func (h *CatalogHandler) DeletePlatform(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.service.DeletePlatform)
}

// --- Artists ---

func (h *CatalogHandler) ListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.service.ListArtists(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": artists})
}

func (h *CatalogHandler) SaveArtist(w http.ResponseWriter, r *http.Request) {
	var artist domain.Artist
	if err := decodeJSON(r, &artist); err != nil {
		writeError(w, err)
		return
	}
	status, ok := upsertTarget(w, r, &artist.ID)
	if !ok {
		return
	}

	saved, err := h.service.UpsertArtist(r.Context(), &artist)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, saved)
}

func (h *CatalogHandler) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.service.DeleteArtist)
}

// --- Labels ---

func (h *CatalogHandler) ListLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.service.ListLabels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": labels})
}

func (h *CatalogHandler) SaveLabel(w http.ResponseWriter, r *http.Request) {
	var label domain.Label
	if err := decodeJSON(r, &label); err != nil {
		writeError(w, err)
		return
	}
	status, ok := upsertTarget(w, r, &label.ID)
	if !ok {
		return
	}

	saved, err := h.service.UpsertLabel(r.Context(), &label)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, saved)
}

func (h *CatalogHandler) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.service.DeleteLabel)
}

// upsertTarget sets *id from the {id} path value on PUT and zero on POST,
// returning the success status to reply with.
func upsertTarget(w http.ResponseWriter, r *http.Request, id *int64) (int, bool) {
	if r.PathValue("id") == "" {
		*id = 0
		return http.StatusCreated, true
	}
	pid, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return 0, false
	}
	*id = pid
	return http.StatusOK, true
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id int64) error) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
