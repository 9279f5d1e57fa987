// Package formats decides which uploads the pipeline accepts
package formats

import (
	"fmt"
	"strings"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
)

var allowed = map[models.MediaClass][]string{
	models.MediaClassVideo: {"mp4", "avi", "mov", "mkv", "flv", "wmv", "webm"},
	models.MediaClassImage: {"jpg", "jpeg", "png", "gif", "webp", "bmp"},
}

// Extension returns the lowercased text after the last dot, or "" when there is none
func Extension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// Allowed returns the accepted extensions for class
func Allowed(class models.MediaClass) []string {
	return allowed[class]
}

// Validate checks filename against the allow-list of class and returns its extension
func Validate(filename string, class models.MediaClass) (string, error) {
	ext := Extension(filename)
	list, ok := allowed[class]
	if !ok {
		return "", models.NewMediaError(models.KindUnsupportedFormat, fmt.Sprintf("Unknown media class %q", class), nil)
	}
	if ext != "" {
		for _, a := range list {
			if a == ext {
				return ext, nil
			}
		}
	}
	return "", models.NewMediaError(
		models.KindUnsupportedFormat,
		fmt.Sprintf("File type .%s not allowed. Allowed: %s", ext, strings.Join(list, ", ")),
		nil,
	)
}

// MimeType returns the video mime type for an extension, or "" when unknown
func MimeType(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "mp4":
		return "video/mp4"
	case "webm":
		return "video/webm"
	case "mov":
		return "video/quicktime"
	case "mkv":
		return "video/x-matroska"
	case "avi":
		return "video/x-msvideo"
	case "flv":
		return "video/x-flv"
	case "wmv":
		return "video/x-ms-wmv"
	default:
		return ""
	}
}
