package handlers

import (
	"embed"
	"io"
	"log/slog"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFileFS(w, r, staticFiles, "static/index.html")
}

// HandlePreview serves the bytes of a selected image while its handle is live.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	img, ok := h.previewStore.Get(r.PathValue("handle"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	rc, err := img.Open()
	if err != nil {
		h.writeError(w, "Failed to open image", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	if img.MIMEType != "" {
		w.Header().Set("Content-Type", img.MIMEType)
	}
	w.Header().Set("Cache-Control", "no-store")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Unable to write preview", "err", err)
	}
}
