// Package jobs holds the background job handlers run by the worker.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/service"
	"github.com/DukeRupert/skybooker/internal/worker"
)

// RenderThumbnailsHandler renders and stores thumbnails ahead of the first
// page view that asks for them.
type RenderThumbnailsHandler struct {
	assets service.AssetService
	logger *slog.Logger
}

// NewRenderThumbnailsHandler creates the handler for render_thumbnails jobs.
func NewRenderThumbnailsHandler(assets service.AssetService, logger *slog.Logger) *RenderThumbnailsHandler {
	return &RenderThumbnailsHandler{
		assets: assets,
		logger: logger.With("job_type", worker.JobTypeRenderThumbnails),
	}
}

// Type returns the job type identifier.
func (h *RenderThumbnailsHandler) Type() string {
	return worker.JobTypeRenderThumbnails
}

// Handle renders every key at every size. Missing or unreadable sources are
// skipped; the job is retried only for errors that may clear up.
func (h *RenderThumbnailsHandler) Handle(ctx context.Context, payload []byte) error {
	var p worker.RenderThumbnailsPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}

	sizes := make([]domain.ImageSize, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		size, err := domain.ParseImageSize(s)
		if err != nil {
			return worker.NewPermanentError(err)
		}
		sizes = append(sizes, size)
	}

	var (
		rendered int
		skipped  int
		retry    []error
	)
	for _, key := range p.Keys {
		for _, size := range sizes {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := h.render(ctx, key, size)
			switch domain.ErrorCode(err) {
			case "":
				rendered++
			case domain.ENOTFOUND, domain.EINVALID:
				skipped++
				h.logger.Warn("Skipping thumbnail", "key", key, "size", size.String(), "error", err)
			default:
				retry = append(retry, fmt.Errorf("%s at %s: %w", key, size, err))
			}
		}
	}

	h.logger.Info("Thumbnails rendered",
		"keys", len(p.Keys),
		"rendered", rendered,
		"skipped", skipped,
		"failed", len(retry),
	)
	return errors.Join(retry...)
}

func (h *RenderThumbnailsHandler) render(ctx context.Context, key string, size domain.ImageSize) error {
	rc, _, err := h.assets.Thumbnail(ctx, key, size)
	if err != nil {
		return err
	}
	return rc.Close()
}

var _ worker.JobHandler = (*RenderThumbnailsHandler)(nil)
