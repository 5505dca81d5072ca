// Package storage persists media files and markdown notes on the local
// filesystem. Notes are plain files with YAML front matter so the notes
// directory stays git-friendly.
package storage

import (
	"errors"
	"path/filepath"
	"strings"
)

// Sentinel errors shared by the stores.
var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

// resolveWithinRoot joins name onto root and verifies the result stays
// inside root. Rejects traversal attempts like "../../etc/passwd".
func resolveWithinRoot(root, name string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	resolved := filepath.Clean(filepath.Join(absRoot, name))
	if resolved != absRoot && !strings.HasPrefix(resolved, absRoot+string(filepath.Separator)) {
		return "", ErrInvalidName
	}
	if resolved == absRoot {
		return "", ErrInvalidName
	}
	return resolved, nil
}

// safeFilename strips everything outside a conservative character set.
// Returns "" for names that reduce to nothing or to "." / "..".
func safeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "." || s == ".." {
		return ""
	}
	return s
}
