package media

import (
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// Classify picks the publishing route from the declared name's extension, case-insensitively.
func Classify(name string) Category {
	if _, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return CategoryImage
	}
	return CategoryGeneric
}

// DefaultFileName returns the name used when the platform supplies none.
func DefaultFileName(kind Kind, name string) string {
	name = strings.TrimSpace(name)
	switch kind {
	case KindPhoto:
		return "photo.jpg"
	case KindVideo:
		if name == "" {
			return "video.mp4"
		}
	case KindDocument:
		if name == "" {
			return "document"
		}
	}
	if name == "" {
		return "file"
	}
	return name
}

// MimeFromExtension maps a file extension to a MIME type.
func MimeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
