package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/metrics"
	"github.com/DukeRupert/skybooker/internal/storage"
)

// AssetService serves stored images and their resized renditions.
type AssetService interface {
	// Open returns the stored object. The caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)

	// Thumbnail returns the size rendition of key as JPEG, rendering and
	// storing it on first request.
	Thumbnail(ctx context.Context, key string, size domain.ImageSize) (io.ReadCloser, storage.ObjectInfo, error)

	// ThumbnailURL is the path pages link to for a rendition.
	ThumbnailURL(key string, size domain.ImageSize) string

	// Unrendered returns the keys missing at least one of sizes, in input
	// order. Empty keys are skipped.
	Unrendered(ctx context.Context, keys []string, sizes []domain.ImageSize) ([]string, error)
}

type assetService struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewAssetService creates a new AssetService.
func NewAssetService(store storage.Storage, logger *slog.Logger) AssetService {
	return &assetService{
		storage: store,
		logger:  logger,
	}
}

func (s *assetService) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	const op = "AssetService.Open"

	rc, info, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, storage.ObjectInfo{}, s.storageError(op, key, err)
	}
	return rc, info, nil
}

func (s *assetService) Thumbnail(ctx context.Context, key string, size domain.ImageSize) (io.ReadCloser, storage.ObjectInfo, error) {
	const op = "AssetService.Thumbnail"

	if err := storage.ValidateKey(key); err != nil {
		return nil, storage.ObjectInfo{}, domain.Invalid(op, "Đường dẫn tệp không hợp lệ")
	}

	thumbKey := storage.ThumbnailKey(key, size.Width, size.Height)

	rc, info, err := s.storage.Get(ctx, thumbKey)
	if err == nil {
		return rc, info, nil
	}
	if !storage.IsNotFound(err) {
		return nil, storage.ObjectInfo{}, s.storageError(op, thumbKey, err)
	}

	data, err := s.render(ctx, op, key, size)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}

	// Concurrent first requests may both render; the later write wins.
	if err := s.storage.Put(ctx, thumbKey, bytes.NewReader(data), storage.PutOptions{
		ContentType: "image/jpeg",
		Overwrite:   true,
		Public:      true,
	}); err != nil {
		s.logger.Warn("failed to store thumbnail", "error", err, "key", thumbKey)
	} else {
		metrics.ThumbnailGenerated()
	}

	return io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{
		Key:         thumbKey,
		Size:        int64(len(data)),
		ContentType: "image/jpeg",
	}, nil
}

func (s *assetService) ThumbnailURL(key string, size domain.ImageSize) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("/thumbs/%s/%s", size, key)
}

func (s *assetService) Unrendered(ctx context.Context, keys []string, sizes []domain.ImageSize) ([]string, error) {
	const op = "AssetService.Unrendered"

	var missing []string
	for _, key := range keys {
		if key == "" {
			continue
		}
		for _, size := range sizes {
			thumbKey := storage.ThumbnailKey(key, size.Width, size.Height)
			ok, err := s.storage.Exists(ctx, thumbKey)
			if err != nil {
				return nil, s.storageError(op, thumbKey, err)
			}
			if !ok {
				missing = append(missing, key)
				break
			}
		}
	}
	return missing, nil
}

// render decodes the original and fits it within size, preserving aspect
// ratio.
func (s *assetService) render(ctx context.Context, op, key string, size domain.ImageSize) ([]byte, error) {
	rc, info, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, s.storageError(op, key, err)
	}
	defer rc.Close()

	if !storage.IsRasterImage(info.ContentType) {
		return nil, domain.Invalid(op, "Tệp không phải ảnh có thể thu nhỏ")
	}

	img, err := imaging.Decode(io.LimitReader(rc, domain.MaxSourceImageSize), imaging.AutoOrientation(true))
	if err != nil {
		s.logger.Error("failed to decode image", "error", err, "op", op, "key", key)
		return nil, domain.Invalid(op, "Không đọc được ảnh")
	}

	thumb := imaging.Fit(img, size.Width, size.Height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(domain.ThumbnailJPEGQuality)); err != nil {
		return nil, domain.Internal(err, op, "Failed to encode thumbnail")
	}
	return buf.Bytes(), nil
}

func (s *assetService) storageError(op, key string, err error) error {
	switch {
	case storage.IsNotFound(err):
		return domain.NotFound(op, "asset", key)
	case storage.IsInvalidKey(err):
		return domain.Invalid(op, "Đường dẫn tệp không hợp lệ")
	case storage.IsTooLarge(err):
		return domain.TooLarge(op, "Tệp vượt quá dung lượng cho phép")
	default:
		s.logger.Error("storage failure", "error", err, "op", op, "key", key)
		return domain.Internal(err, op, "Failed to read asset")
	}
}
