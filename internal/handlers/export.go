package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/wordcards/internal/export"
)

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := ctrl.Export(&buf, format); err != nil {
		if errors.Is(err, export.ErrEmpty) {
			h.writeError(w, ctrl.Snapshot().Notice, http.StatusBadRequest)
			return
		}
		h.writeError(w, "Export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", contentDisposition(format.Filename(h.exportFilename), format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// contentDisposition names the download with an ASCII filename and an
// RFC 5987 filename* carrying the configured UTF-8 name.
func contentDisposition(name string, format export.Format) string {
	fallback := name
	if !isPrintableASCII(name) {
		fallback = format.Filename(export.DefaultFilename)
	}
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fallback, encodeRFC5987(name))
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] >= 0x7f {
			return false
		}
	}
	return utf8.ValidString(s)
}

// encodeRFC5987 percent-encodes every byte outside attr-char.
func encodeRFC5987(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
