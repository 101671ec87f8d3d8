package http

import (
	"net/http"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/application"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

func (h *Handler) handleListWikiArticles(w http.ResponseWriter, r *http.Request) {
	query, err := listQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	wq := domain.WikiQuery{ListQuery: query}
	if raw := strings.TrimSpace(r.URL.Query().Get("contentType")); raw != "" {
		contentType, err := domain.ParseContentType(raw)
		if err != nil {
			h.writeError(w, r, domain.Invalid("contentType", "%v", err))
			return
		}
		wq.ContentType = contentType
	}
	list, err := h.service.ListWikiArticles(r.Context(), wq)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleImportWikiArticle answers 201 for a new article and 200 when the
// import matched an existing one.
func (h *Handler) handleImportWikiArticle(w http.ResponseWriter, r *http.Request) {
	var req application.WikiImport
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, created, err := h.service.ImportWikiArticle(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, importStatus(created), v)
}

func (h *Handler) handleImportTyped(contentType domain.ContentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req application.WikiImport
		if err := decodeBody(w, r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
		v, created, err := h.service.ImportTyped(r.Context(), contentType, req)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, importStatus(created), v)
	}
}

func importStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (h *Handler) handleGetWikiArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.GetWikiArticle(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleUpdateWikiArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req application.WikiImport
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.UpdateWikiArticle(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleDeleteWikiArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteWikiArticle(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLinkWikiArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req application.WikiLinkInput
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.LinkWikiArticle(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleUnlinkWikiArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	linkID, err := pathID(r, "linkId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.UnlinkWikiArticle(r.Context(), id, linkID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListMonsters(w http.ResponseWriter, r *http.Request) {
	query, err := listQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.service.ListMonsters(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleListSpells(w http.ResponseWriter, r *http.Request) {
	query, err := listQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.service.ListSpells(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
