// Package storage holds the binary assets behind the site: promo artwork,
// destination photos and the thumbnails derived from them.
//
// Two backends exist. LocalStorage keeps objects under a directory and is
// used in development; R2Storage talks to Cloudflare R2 through the S3 API.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"
)

// Storage is the object store used by the asset service.
type Storage interface {
	// Put writes data under key. Without opts.Overwrite an existing key
	// yields ErrKeyExists.
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get opens the object under key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// URL returns a public URL for key, or a presigned one valid for
	// expires when the backend has no public URL.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)

	Exists(ctx context.Context, key string) (bool, error)
}

type PutOptions struct {
	ContentType string
	// MaxSize of 0 means unlimited.
	MaxSize   int64
	Overwrite bool
	Public    bool
}

type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
}

const (
	ProviderLocal = "local"
	ProviderR2    = "r2"
)

// Config selects and configures a backend.
type Config struct {
	Provider string
	Local    LocalConfig
	R2       R2Config
}

type LocalConfig struct {
	// BasePath is the directory objects live under.
	BasePath string
	// BaseURL prefixes keys in URL, e.g. "http://localhost:8080/assets".
	BaseURL string
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	// PublicURL is the bucket's public domain. Empty means presigned URLs.
	PublicURL string
	// Region defaults to "auto".
	Region string
	// Endpoint overrides the account endpoint, e.g. for a local MinIO.
	Endpoint string
}

// New builds the backend named by cfg.Provider.
func New(cfg Config, logger *slog.Logger) (Storage, error) {
	switch cfg.Provider {
	case ProviderLocal, "":
		return NewLocalStorage(cfg.Local, logger)
	case ProviderR2:
		return NewR2Storage(cfg.R2, logger)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// ValidateKey rejects empty, absolute and parent-relative keys.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

// ThumbnailKey is where the width x height JPEG rendition of key is stored.
//
//	ThumbnailKey("places/han.png", 320, 200) == "thumbs/320x200/places/han.jpg"
func ThumbnailKey(key string, width, height int) string {
	base := strings.TrimSuffix(key, path.Ext(key))
	return fmt.Sprintf("thumbs/%dx%d/%s.jpg", width, height, base)
}
