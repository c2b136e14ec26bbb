package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// ShaiDir is the per-user state directory, ~/.shai.
func ShaiDir() string {
	return filepath.Join(UserHomeDir(), ".shai")
}

// ExpandPath resolves a leading "~/" against the home directory and cleans
// the result. Empty input stays empty.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return ""
	case path == "~":
		return UserHomeDir()
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(UserHomeDir(), path[2:])
	default:
		return filepath.Clean(path)
	}
}
