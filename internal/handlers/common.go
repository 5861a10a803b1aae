package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/wordcards/internal/batch"
	"github.com/lehigh-university-libraries/wordcards/internal/images"
	"github.com/lehigh-university-libraries/wordcards/internal/locale"
	"github.com/lehigh-university-libraries/wordcards/internal/storage"
)

// ControllerFactory builds the controller of a new session.
type ControllerFactory func(previews batch.PreviewRegistry, text locale.Strings) *batch.Controller

type Handler struct {
	sessionStore   *storage.SessionStore
	previewStore   *storage.PreviewStore
	fetcher        *images.Fetcher
	newController  ControllerFactory
	defaultLocale  string
	exportFilename string
}

// Options configure a Handler. Zero values fall back to defaults.
type Options struct {
	MaxUploadBytes int64
	Locale         string
	ExportFilename string
}

func New(newController ControllerFactory, opts Options) *Handler {
	return &Handler{
		sessionStore:   storage.New(),
		previewStore:   storage.NewPreviewStore(),
		fetcher:        images.NewFetcher(opts.MaxUploadBytes),
		newController:  newController,
		defaultLocale:  opts.Locale,
		exportFilename: opts.ExportFilename,
	}
}

// Routes returns the API, preview and static routes.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", h.HandleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", h.HandleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.HandleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/images", h.HandleSelectImages)
	mux.HandleFunc("POST /api/sessions/{id}/analyze", h.HandleAnalyze)
	mux.HandleFunc("GET /api/sessions/{id}/export", h.HandleExport)
	mux.HandleFunc("GET /previews/{handle}", h.HandlePreview)
	mux.HandleFunc("GET /", h.HandleStatic)
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug("Request rejected", "status", code, "message", message)
	}
	h.writeJSON(w, code, errorResponse{Error: message})
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*batch.Controller, bool) {
	ctrl, exists := h.sessionStore.Get(r.PathValue("id"))
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return ctrl, true
}

type sessionResponse struct {
	ID string `json:"session_id"`
	// Done is set once the last run reached a terminal phase.
	Done bool `json:"done"`
	batch.Snapshot
}

func (h *Handler) snapshot(id string, ctrl *batch.Controller) sessionResponse {
	snap := ctrl.Snapshot()
	for i := range snap.Images {
		if snap.Images[i].Preview != "" {
			snap.Images[i].Preview = "/previews/" + snap.Images[i].Preview
		}
	}
	return sessionResponse{ID: id, Done: snap.Phase.Terminal(), Snapshot: snap}
}
