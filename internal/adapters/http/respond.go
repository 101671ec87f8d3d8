package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/go-chi/chi/v5"
)

const maxJSONBody = 8 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps service errors onto status codes. Anything unrecognised is
// logged and reported as a bare 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if v, ok := domain.AsValidation(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "details": v.Issues})
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
		return
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
		return
	}
	h.log.Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", requestIDFrom(r.Context())).
		Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal server error"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("body", "is required")
		}
		return domain.Invalid("body", "invalid JSON payload: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, domain.Invalid(name, "must be a positive integer")
	}
	return uint(parsed), nil
}

func queryUint(r *http.Request, name string) (*uint, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, domain.Invalid(name, "must be a positive integer")
	}
	v := uint(parsed)
	return &v, nil
}

func listQuery(r *http.Request) (domain.ListQuery, error) {
	query := domain.ListQuery{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Filter: strings.TrimSpace(r.URL.Query().Get("filter")),
	}
	campaignID, err := queryUint(r, "campaignId")
	if err != nil {
		return query, err
	}
	query.CampaignID = campaignID
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return query, domain.Invalid("limit", "must be a non-negative integer")
		}
		query.Limit = limit
	}
	return query, nil
}
