package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ImageSize is a thumbnail rendition, width x height in pixels.
type ImageSize struct {
	Width  int
	Height int
}

// String returns "WxH".
func (s ImageSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Renditions used by the pages. Thumbnails are only produced for these.
var (
	SizeIcon  = ImageSize{Width: 96, Height: 96}
	SizePlace = ImageSize{Width: 320, Height: 200}
	SizeCard  = ImageSize{Width: 640, Height: 400}
	SizePromo = ImageSize{Width: 1280, Height: 800}
)

var ThumbnailSizes = []ImageSize{SizeIcon, SizePlace, SizeCard, SizePromo}

const (
	// MaxSourceImageSize caps the original read when rendering a thumbnail.
	MaxSourceImageSize = 20 * 1024 * 1024

	ThumbnailJPEGQuality = 85
)

// ParseImageSize parses "WxH" and rejects sizes outside ThumbnailSizes.
func ParseImageSize(s string) (ImageSize, error) {
	const op = "ParseImageSize"

	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return ImageSize{}, Invalid(op, "kích thước phải có dạng 320x200")
	}
	width, werr := strconv.Atoi(w)
	height, herr := strconv.Atoi(h)
	if werr != nil || herr != nil {
		return ImageSize{}, Invalid(op, "kích thước phải có dạng 320x200")
	}

	size := ImageSize{Width: width, Height: height}
	for _, allowed := range ThumbnailSizes {
		if allowed == size {
			return size, nil
		}
	}
	return ImageSize{}, Invalid(op, fmt.Sprintf("không hỗ trợ kích thước %s", size))
}
