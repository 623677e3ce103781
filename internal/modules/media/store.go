package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/guonaihong/gout"
)

// Store persists uploaded objects and says where they can be fetched.
type Store interface {
	// Put writes data under path and returns its public URL.
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
}

// objectStore talks to a Supabase-compatible storage API.
type objectStore struct {
	baseURL string
	key     string
	bucket  string
	timeout time.Duration
}

// NewObjectStore creates a store uploading into bucket at baseURL.
func NewObjectStore(baseURL, key, bucket string) Store {
	return &objectStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		bucket:  bucket,
		timeout: 30 * time.Second,
	}
}

func (s *objectStore) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	var (
		code int
		body string
	)
	err := gout.POST(fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, path)).
		WithContext(ctx).
		SetTimeout(s.timeout).
		SetHeader(gout.H{
			"Authorization": "Bearer " + s.key,
			"apikey":        s.key,
			"Content-Type":  contentType,
			"Cache-Control": "max-age=3600",
			"x-upsert":      "false",
		}).
		SetBody(data).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	if code/100 != 2 {
		if len(body) > 512 {
			body = body[:512]
		}
		return "", fmt.Errorf("upload %s: storage returned %d: %s", path, code, strings.TrimSpace(body))
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path), nil
}

// diskStore writes below a local directory that the API serves itself.
type diskStore struct {
	dir       string
	publicURL string
}

// NewDiskStore creates a store writing under dir, reachable at publicURL.
func NewDiskStore(dir, publicURL string) Store {
	return &diskStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *diskStore) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	full := filepath.Join(s.dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return s.publicURL + "/" + path, nil
}
