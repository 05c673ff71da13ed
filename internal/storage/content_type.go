package storage

import (
	"mime"
	"path"
	"strings"
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// ContentTypeForKey guesses a MIME type from the key's extension.
func ContentTypeForKey(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ct, ok := imageTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// IsRasterImage reports whether ct can be decoded for resizing.
func IsRasterImage(ct string) bool {
	base := strings.TrimSpace(strings.ToLower(strings.Split(ct, ";")[0]))
	switch base {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}
