package question

import (
	"os"
	"strings"
)

// DefaultImageExtensions are probed in order when looking for a sidecar image.
var DefaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

// FindImage returns the first existing file sharing path's base name with one
// of exts, or "" when none exists.
func FindImage(path string, exts []string) string {
	if len(exts) == 0 {
		exts = DefaultImageExtensions
	}
	base := strings.TrimSuffix(path, ".txt")
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}
