package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/wordcards/internal/batch"
	"github.com/lehigh-university-libraries/wordcards/internal/locale"
	"github.com/lehigh-university-libraries/wordcards/internal/models"
)

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	text := locale.For(r.Header.Get("Accept-Language"), h.defaultLocale)
	ctrl := h.newController(h.previewStore, text)
	id := h.sessionStore.Create(ctrl)

	slog.Info("Session created", "session_id", id, "locale", text.Tag.String())
	h.writeJSON(w, http.StatusCreated, h.snapshot(id, ctrl))
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.snapshot(r.PathValue("id"), ctrl))
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessionStore.Delete(r.PathValue("id")) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAnalyze runs the analysis synchronously. Error and Empty outcomes are
// part of the returned snapshot; only rejected starts are HTTP errors.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	_, err := ctrl.StartAnalysis(r.Context())
	switch {
	case errors.Is(err, batch.ErrRunInProgress):
		h.writeError(w, ctrl.Snapshot().Notice, http.StatusConflict)
	case errors.Is(err, batch.ErrSuperseded):
		h.writeError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrValidation):
		h.writeError(w, ctrl.Snapshot().Notice, http.StatusBadRequest)
	case err != nil:
		h.writeError(w, "Analysis failed: "+err.Error(), http.StatusInternalServerError)
	default:
		h.writeJSON(w, http.StatusOK, h.snapshot(id, ctrl))
	}
}
