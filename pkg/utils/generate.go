package utils

import (
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== FILE NAMES ====================

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeFilename reduces a client supplied file name to a safe base name:
// directories are stripped, spaces become underscores and anything outside
// [A-Za-z0-9_.-] is dropped. Leading dots are removed so the result can never
// be "." or "..". An empty result falls back to "file".
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")

	if len(name) > 100 {
		ext := path.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:100-len(ext)] + ext
	}

	if name == "" {
		return "file"
	}
	return name
}

// GenerateBlobKey builds a collision free storage key "<dir>/<uuid>-<safe name>".
func GenerateBlobKey(dir, filename string) string {
	return path.Join(dir, uuid.New().String()+"-"+SanitizeFilename(filename))
}
