package services

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxImageBytes = 5 << 20

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// SaveBase64Image decodes a (data-URL or bare) base64 image into
// root/subdir and returns the path relative to root, e.g. "avatars/<uuid>.png".
func SaveBase64Image(root, subdir, b64 string) (string, error) {
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return "", fmt.Errorf("%w: image is not valid base64", ErrInvalidInput)
	}
	if len(data) == 0 || len(data) > maxImageBytes {
		return "", fmt.Errorf("%w: image must be between 1 byte and 5 MB", ErrInvalidInput)
	}
	ext, ok := imageExt[http.DetectContentType(data)]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type", ErrInvalidInput)
	}

	if root == "" {
		root = "uploads"
	}
	dir := filepath.Join(root, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}
	filename := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return filepath.ToSlash(filepath.Join(subdir, filename)), nil
}
