package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxNameLength bounds node names so they stay printable in tables and DOT labels.
const maxNameLength = 256

// ValidateNodeName validates a node name read from a graph file.
//
// Names end up in terminal tables, JSON responses and Graphviz labels, so the
// rules are conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidGraph, "node name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidGraph, "node name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node name %q contains control characters", name)
		}
	}

	return nil
}

// ValidateOutputPath validates a path the CLI is about to write to.
// It rejects empty paths, null bytes and paths that resolve to a directory marker.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidPath, "output path contains null byte")
	}
	base := filepath.Base(filepath.Clean(path))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return New(ErrCodeInvalidPath, "output path %q is not a file", path)
	}
	return nil
}
