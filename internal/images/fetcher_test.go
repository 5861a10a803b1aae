package images

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// smallest valid PNG signature plus IHDR chunk header, enough for sniffing
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func readAll(t *testing.T, open func() (io.ReadCloser, error)) []byte {
	t.Helper()
	rc, err := open()
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return b
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.png")
	if err := os.WriteFile(path, pngBytes, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	f := NewFetcher(0)
	img, err := f.FromPath(path)
	if err != nil {
		t.Fatalf("FromPath returned error: %v", err)
	}
	if img.Name != "page.png" {
		t.Errorf("Expected name page.png, got %s", img.Name)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("Expected image/png, got %s", img.MIMEType)
	}
	if got := readAll(t, img.Open); !bytes.Equal(got, pngBytes) {
		t.Errorf("Unexpected content %v", got)
	}
}

func TestFromPathSniffsWithoutExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan")
	if err := os.WriteFile(path, pngBytes, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	img, err := NewFetcher(0).FromPath(path)
	if err != nil {
		t.Fatalf("FromPath returned error: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("Expected sniffed image/png, got %s", img.MIMEType)
	}
}

func TestFromPathErrors(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.png")
	if err := os.WriteFile(big, make([]byte, 32), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	f := NewFetcher(16)
	if _, err := f.FromPath(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := f.FromPath(dir); err == nil {
		t.Error("Expected error for directory")
	}
	if _, err := f.FromPath(big); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestFromPathReadFailureIsDeferred(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.png")
	if err := os.WriteFile(path, pngBytes, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	img, err := NewFetcher(0).FromPath(path)
	if err != nil {
		t.Fatalf("FromPath returned error: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove fixture: %v", err)
	}
	if _, err := img.Open(); err == nil {
		t.Error("Expected open to fail after the file was removed")
	}
}

func TestFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/typed/cover.jpg":
			w.Header().Set("Content-Type", "image/jpeg; charset=binary")
			_, _ = w.Write([]byte("jpeg-ish"))
		case "/untyped":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(pngBytes)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(0)
	f.HTTPClient = srv.Client()

	tests := []struct {
		name     string
		path     string
		wantName string
		wantMIME string
		wantErr  bool
	}{
		{name: "content type header", path: "/typed/cover.jpg", wantName: "cover.jpg", wantMIME: "image/jpeg"},
		{name: "sniffed", path: "/untyped", wantName: "untyped", wantMIME: "image/png"},
		{name: "not found", path: "/missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := f.Load(context.Background(), srv.URL+tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if img.Name != tt.wantName {
				t.Errorf("Expected name %s, got %s", tt.wantName, img.Name)
			}
			if img.MIMEType != tt.wantMIME {
				t.Errorf("Expected MIME %s, got %s", tt.wantMIME, img.MIMEType)
			}
		})
	}
}

func TestFromURLTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	f := NewFetcher(16)
	f.HTTPClient = srv.Client()
	if _, err := f.FromURL(context.Background(), srv.URL+"/big.png"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestFromUpload(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "photo.png")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	_, _ = part.Write(pngBytes)
	if err := mw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm failed: %v", err)
	}
	fh := req.MultipartForm.File["files"][0]

	img, err := NewFetcher(0).FromUpload(fh)
	if err != nil {
		t.Fatalf("FromUpload returned error: %v", err)
	}
	if img.Name != "photo.png" || img.MIMEType != "image/png" {
		t.Errorf("Unexpected image %s %s", img.Name, img.MIMEType)
	}
	if got := readAll(t, img.Open); !bytes.Equal(got, pngBytes) {
		t.Errorf("Unexpected content %v", got)
	}

	if _, err := NewFetcher(4).FromUpload(fh); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}
