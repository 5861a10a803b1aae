package encoder

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/lehigh-university-libraries/wordcards/internal/models"
)

// ErrRead is returned when an image's content cannot be read.
var ErrRead = errors.New("image read failed")

// Encoded is an image ready to be inlined into an inference request
type Encoded struct {
	MIMEType string
	// Data is the standard base64 encoding of the raw bytes, without a data URI prefix.
	Data string
}

// Encode reads the whole image and base64-encodes it. When the input carries
// no MIME type, one is sniffed from the content.
func Encode(img models.ImageInput) (*Encoded, error) {
	rc, err := img.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, img.Name, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, img.Name, err)
	}

	mimeType := strings.TrimSpace(img.MIMEType)
	if mimeType == "" {
		mimeType = DetectMIMEType(raw)
	}

	return &Encoded{
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// DetectMIMEType sniffs the content type of raw image bytes, without parameters.
func DetectMIMEType(raw []byte) string {
	mt := mimetype.Detect(raw).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}
