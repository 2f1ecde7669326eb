package util

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a regular file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GetExtension returns the lower-cased file extension including the dot
func GetExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// HasExtension reports whether path ends in one of exts (".mp4" or "mp4")
func HasExtension(path string, exts []string) bool {
	ext := GetExtension(path)
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if e == ext {
			return true
		}
	}
	return false
}
