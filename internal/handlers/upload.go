package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/wordcards/internal/images"
	"github.com/lehigh-university-libraries/wordcards/internal/models"
)

const (
	// maxFiles bounds a single selection
	maxFiles = 50
	// multipart overhead allowed on top of the per-file limits
	formOverhead = 1 << 20
)

// HandleSelectImages replaces the session's selection with the uploaded
// files. An upload without files clears the selection.
func (h *Handler) HandleSelectImages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFiles*h.fetcher.MaxBytes+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, "Upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.writeError(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var selection []models.ImageInput
	if r.MultipartForm != nil {
		headers := r.MultipartForm.File["files"]
		if len(headers) > maxFiles {
			h.writeError(w, "Too many files", http.StatusBadRequest)
			return
		}
		for _, fh := range headers {
			img, err := h.fetcher.FromUpload(fh)
			if err != nil {
				code := http.StatusBadRequest
				if errors.Is(err, images.ErrTooLarge) {
					code = http.StatusRequestEntityTooLarge
				}
				h.writeError(w, "Failed to read file: "+err.Error(), code)
				return
			}
			selection = append(selection, img)
		}
	}

	ctrl.SelectImages(selection)
	slog.Info("Images selected", "session_id", id, "images", len(selection))
	h.writeJSON(w, http.StatusOK, h.snapshot(id, ctrl))
}
