package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/lehigh-university-libraries/wordcards/internal/models"
)

// ErrTooLarge is returned when an image exceeds the fetcher's size limit.
var ErrTooLarge = fmt.Errorf("%w: image too large", models.ErrValidation)

// DefaultMaxBytes bounds downloads and uploads when no limit is configured.
const DefaultMaxBytes int64 = 10 << 20

// Fetcher builds ImageInput values from local files, URLs and uploads
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a new image fetcher
func NewFetcher(maxBytes int64) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: maxBytes,
	}
}

// Load treats http(s) arguments as URLs and everything else as a local path.
func (f *Fetcher) Load(ctx context.Context, arg string) (models.ImageInput, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return f.FromURL(ctx, arg)
	}
	return f.FromPath(arg)
}

// LoadAll loads every argument, stopping at the first failure.
func (f *Fetcher) LoadAll(ctx context.Context, args []string) ([]models.ImageInput, error) {
	out := make([]models.ImageInput, 0, len(args))
	for _, arg := range args {
		img, err := f.Load(ctx, arg)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// FromPath checks that path is a regular file and returns an ImageInput that
// opens it lazily, so read failures surface during analysis.
func (f *Fetcher) FromPath(p string) (models.ImageInput, error) {
	info, err := os.Stat(p)
	if err != nil {
		return models.ImageInput{}, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		return models.ImageInput{}, fmt.Errorf("%s is a directory", p)
	}
	if info.Size() > f.MaxBytes {
		return models.ImageInput{}, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, p, info.Size())
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(p)))
	if mimeType == "" {
		if mt, err := mimetype.DetectFile(p); err == nil {
			mimeType = mt.String()
		}
	}

	return models.NewImageInput(filepath.Base(p), baseType(mimeType), func() (io.ReadCloser, error) {
		return os.Open(p)
	}), nil
}

// FromURL downloads the image into memory.
func (f *Fetcher) FromURL(ctx context.Context, rawURL string) (models.ImageInput, error) {
	slog.Info("Downloading image", "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return models.ImageInput{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return models.ImageInput{}, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ImageInput{}, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	data, err := f.readLimited(resp.Body)
	if err != nil {
		return models.ImageInput{}, err
	}

	mimeType := baseType(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = baseType(mimetype.Detect(data).String())
	}

	return models.NewImageFromBytes(nameFromURL(rawURL), mimeType, data), nil
}

// FromUpload reads a multipart upload into memory. Multipart temp files do
// not outlive the request, so the content is copied before returning.
func (f *Fetcher) FromUpload(fh *multipart.FileHeader) (models.ImageInput, error) {
	if fh.Size > f.MaxBytes {
		return models.ImageInput{}, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, fh.Filename, fh.Size)
	}

	file, err := fh.Open()
	if err != nil {
		return models.ImageInput{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := f.readLimited(file)
	if err != nil {
		return models.ImageInput{}, err
	}

	mimeType := baseType(fh.Header.Get("Content-Type"))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = baseType(mimetype.Detect(data).String())
	}

	return models.NewImageFromBytes(filepath.Base(fh.Filename), mimeType, data), nil
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > f.MaxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.MaxBytes)
	}
	if len(data) == 0 {
		return nil, errors.New("image is empty")
	}
	return data, nil
}

func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		return u.Host
	}
	return name
}

func baseType(ct string) string {
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mt
}
