package http

import (
	"net/http"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

func (h *Handler) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	query, err := listQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.service.ListCharacters(r.Context(), domain.CharacterQuery{
		ListQuery:     query,
		CharacterType: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("characterType"))),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req domain.Character
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.CreateCharacter(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.GetCharacter(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleUpdateCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req domain.Character
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.ID = id
	v, err := h.service.UpdateCharacter(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteCharacter(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListLocations(w http.ResponseWriter, r *http.Request) {
	query, err := listQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.service.ListLocations(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req domain.Location
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.CreateLocation(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.GetLocation(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req domain.Location
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.ID = id
	v, err := h.service.UpdateLocation(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteLocation(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListQuests(w http.ResponseWriter, r *http.Request) {
	query, err := listQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.service.ListQuests(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateQuest(w http.ResponseWriter, r *http.Request) {
	var req domain.Quest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.CreateQuest(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleGetQuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.GetQuest(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleUpdateQuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req domain.Quest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.ID = id
	v, err := h.service.UpdateQuest(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleDeleteQuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteQuest(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListDiary(owner domain.EntityType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		list, err := h.service.ListDiary(r.Context(), domain.EntityRef{Type: owner, ID: id})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (h *Handler) handleAddDiaryEntry(owner domain.EntityType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		var req domain.DiaryEntry
		if err := decodeBody(w, r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
		v, err := h.service.AddDiaryEntry(r.Context(), domain.EntityRef{Type: owner, ID: id}, req)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, v)
	}
}

func (h *Handler) handleUpdateDiaryEntry(owner domain.EntityType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		entryID, err := pathID(r, "entryId")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		var req domain.DiaryEntry
		if err := decodeBody(w, r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
		v, err := h.service.UpdateDiaryEntry(r.Context(), domain.EntityRef{Type: owner, ID: id}, entryID, req)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (h *Handler) handleDeleteDiaryEntry(owner domain.EntityType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		entryID, err := pathID(r, "entryId")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if err := h.service.DeleteDiaryEntry(r.Context(), domain.EntityRef{Type: owner, ID: id}, entryID); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
