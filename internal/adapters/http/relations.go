package http

import (
	"net/http"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/application"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

func (h *Handler) handleListRelations(w http.ResponseWriter, r *http.Request) {
	base, err := listQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	query := domain.RelationQuery{CampaignID: base.CampaignID, Limit: base.Limit}

	rawType := strings.TrimSpace(r.URL.Query().Get("entityType"))
	entityID, err := queryUint(r, "entityId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if rawType != "" || entityID != nil {
		if rawType == "" || entityID == nil {
			h.writeError(w, r, domain.Invalid("entityType", "entityType and entityId go together"))
			return
		}
		entityType, err := domain.ParseEntityType(rawType)
		if err != nil {
			h.writeError(w, r, domain.Invalid("entityType", "%v", err))
			return
		}
		query.Entity = &domain.EntityRef{Type: entityType, ID: *entityID}
	}

	list, err := h.service.ListRelations(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateRelation(w http.ResponseWriter, r *http.Request) {
	var req application.RelationInput
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.CreateRelation(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleGetRelation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.GetRelation(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleUpdateRelation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req application.RelationInput
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.UpdateRelation(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleDeleteRelation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteRelation(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListRelationEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.service.ListRelationEvents(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleAddRelationEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req domain.RelationshipEvent
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.AddRelationEvent(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleDeleteRelationEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	eventID, err := pathID(r, "eventId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteRelationEvent(r.Context(), id, eventID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
