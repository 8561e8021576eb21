package model

import (
	"os"
	"path/filepath"
	"strings"
)

// Extension returns the extension of a file path including its dot, or ""
// when there is none. Both separators are honored so Windows paths analyze
// the same on every host.
func Extension(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i] {
		case '.':
			if i == len(path)-1 {
				return ""
			}
			return path[i:]
		case '/', '\\':
			return ""
		}
	}
	return ""
}

// NormalizeExtension maps "" to the single-dot sentinel used by the
// association tables.
func NormalizeExtension(ext string) string {
	if ext == "" {
		return "."
	}
	return ext
}

// IsDriveRoot reports whether path names a drive root such as C:\.
func IsDriveRoot(path string) bool {
	return strings.HasSuffix(path, `:\`)
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
