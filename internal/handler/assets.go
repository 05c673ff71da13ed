package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/service"
	"github.com/DukeRupert/skybooker/internal/storage"
)

// Stored keys are never rewritten in place.
const assetCacheControl = "public, max-age=86400"

// AssetHandler streams stored images and their thumbnails.
type AssetHandler struct {
	assets service.AssetService
	logger *slog.Logger
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService service.AssetService, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		assets: assetService,
		logger: logger,
	}
}

// RegisterRoutes registers the asset routes with the provided mux.
//
// Routes:
// - GET /assets/{key...}         -> Original
// - GET /thumbs/{size}/{key...}  -> Thumbnail (size is WxH)
func (h *AssetHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /assets/{key...}", h.Original)
	mux.HandleFunc("GET /thumbs/{size}/{key...}", h.Thumbnail)
}

// Original streams the stored object.
func (h *AssetHandler) Original(w http.ResponseWriter, r *http.Request) {
	rc, info, err := h.assets.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	defer rc.Close()

	h.stream(w, r, rc, info)
}

// Thumbnail streams the requested rendition, rendering it on first use.
func (h *AssetHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	size, err := domain.ParseImageSize(r.PathValue("size"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	rc, info, err := h.assets.Thumbnail(r.Context(), r.PathValue("key"), size)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	defer rc.Close()

	h.stream(w, r, rc, info)
}

func (h *AssetHandler) stream(w http.ResponseWriter, r *http.Request, rc io.Reader, info storage.ObjectInfo) {
	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Cache-Control", assetCacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if info.ETag != "" {
		w.Header().Set("ETag", info.ETag)
	}
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("asset stream interrupted", "error", err, "key", info.Key)
	}
}
