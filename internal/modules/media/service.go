package media

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/google/uuid"
)

const (
	// MaxImageSize is the largest accepted upload.
	MaxImageSize = 5 << 20
	// ImageFolder is where product images go inside the bucket.
	ImageFolder = "product-images"
)

// ImageTypes are the raster formats UploadImage accepts. Vector and
// scriptable formats such as SVG are refused because the URL is served to
// browsers as is.
var ImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Upload describes a stored object.
type Upload struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type Service interface {
	UploadImage(ctx context.Context, filename string, data []byte) (*Upload, error)
}

type service struct{ store Store }

func NewService(store Store) Service { return &service{store: store} }

// UploadImage checks data really is an image and stores it under a fresh
// random name, keeping the detected extension.
func (s *service) UploadImage(ctx context.Context, filename string, data []byte) (*Upload, error) {
	if len(data) == 0 {
		return nil, apperr.Invalid("file is empty")
	}
	if len(data) > MaxImageSize {
		return nil, apperr.Invalid("file exceeds %d MiB", MaxImageSize>>20)
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), ImageTypes...) {
		return nil, apperr.Invalid("file must be a JPEG, PNG, GIF or WebP image, got %s", mt.String())
	}
	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}

	p := path.Join(ImageFolder, uuid.NewString()+ext)
	url, err := s.store.Put(ctx, p, mt.String(), data)
	if err != nil {
		return nil, err
	}
	return &Upload{Path: p, URL: url, ContentType: mt.String(), Size: len(data)}, nil
}
