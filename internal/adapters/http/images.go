package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

type imageRequest struct {
	EntityType string `json:"entityType"`
	EntityID   uint   `json:"entityId"`
	URL        string `json:"url"`
	Filename   string `json:"filename"`
}

func (req imageRequest) ref() (domain.EntityRef, error) {
	entityType, err := domain.ParseEntityType(req.EntityType)
	if err != nil {
		return domain.EntityRef{}, domain.Invalid("entityType", "%v", err)
	}
	if req.EntityID == 0 {
		return domain.EntityRef{}, domain.Invalid("entityId", "is required")
	}
	return domain.EntityRef{Type: entityType, ID: req.EntityID}, nil
}

// handleUploadImages accepts one or more "file" parts. Every part is checked
// before anything is written.
func (h *Handler) handleUploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"error": "upload exceeds size limit"})
			return
		}
		h.writeError(w, r, domain.Invalid("body", "invalid multipart form: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	entityID, err := strconv.ParseUint(strings.TrimSpace(r.FormValue("entityId")), 10, 64)
	if err != nil {
		h.writeError(w, r, domain.Invalid("entityId", "must be a positive integer"))
		return
	}
	ref, err := imageRequest{EntityType: r.FormValue("entityType"), EntityID: uint(entityID)}.ref()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		h.writeError(w, r, domain.Invalid("file", "at least one file is required"))
		return
	}
	v := &domain.ValidationError{}
	for _, fh := range files {
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			v.Add("file", "%s is not an image", fh.Filename)
		}
	}
	if err := v.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	uploaded := make([]domain.Image, 0, len(files))
	for _, fh := range files {
		image, err := h.saveUpload(r, ref, fh)
		if err != nil {
			h.rollbackUploads(r, ref, uploaded)
			h.writeError(w, r, err)
			return
		}
		uploaded = append(uploaded, image)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"images": uploaded})
}

// rollbackUploads detaches the parts already stored by a failed request.
func (h *Handler) rollbackUploads(r *http.Request, ref domain.EntityRef, uploaded []domain.Image) {
	for _, image := range uploaded {
		if _, err := h.service.DetachImage(r.Context(), ref, image.URL); err != nil {
			h.log.Warn().Err(err).Str("url", image.URL).Msg("rollback upload")
		}
	}
}

func (h *Handler) saveUpload(r *http.Request, ref domain.EntityRef, fh *multipart.FileHeader) (domain.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.Image{}, err
	}
	defer f.Close()
	return h.service.UploadImage(r.Context(), ref, fh.Filename, f)
}

func (h *Handler) handleAttachImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	ref, err := req.ref()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	images, err := h.service.AttachImage(r.Context(), ref, domain.Image{URL: req.URL, Filename: req.Filename})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"images": images})
}

func (h *Handler) handleDetachImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	ref, err := req.ref()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	images, err := h.service.DetachImage(r.Context(), ref, req.URL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"images": images})
}
