package encoder

import (
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/lehigh-university-libraries/wordcards/internal/models"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestEncode(t *testing.T) {
	img := models.NewImageFromBytes("cat.jpg", "image/jpeg", []byte("hello image"))

	enc, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	if enc.MIMEType != "image/jpeg" {
		t.Errorf("Expected MIME type image/jpeg, got %s", enc.MIMEType)
	}

	want := base64.StdEncoding.EncodeToString([]byte("hello image"))
	if enc.Data != want {
		t.Errorf("Expected data %q, got %q", want, enc.Data)
	}
}

func TestEncodeSniffsMissingMIMEType(t *testing.T) {
	img := models.NewImageFromBytes("unknown", "", pngHeader)

	enc, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	if enc.MIMEType != "image/png" {
		t.Errorf("Expected sniffed MIME type image/png, got %s", enc.MIMEType)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestEncodeReadErrors(t *testing.T) {
	tests := []struct {
		name string
		img  models.ImageInput
	}{
		{
			name: "open fails",
			img: models.NewImageInput("a.png", "image/png", func() (io.ReadCloser, error) {
				return nil, errors.New("no such file")
			}),
		},
		{
			name: "read fails",
			img: models.NewImageInput("b.png", "image/png", func() (io.ReadCloser, error) {
				return io.NopCloser(failingReader{}), nil
			}),
		},
		{
			name: "no content source",
			img:  models.ImageInput{Name: "c.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.img)
			if !errors.Is(err, ErrRead) {
				t.Errorf("Expected ErrRead, got %v", err)
			}
		})
	}
}
