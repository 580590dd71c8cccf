package ioutils

import (
	"os"
	"path/filepath"
)

// FileExists reports whether path names an existing regular file.
//
// Directories and other non-regular entries do not count, so a link whose
// local path happens to be a directory is still attempted (and fails with a
// filesystem error) rather than silently skipped.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// EnsureParentDir creates every missing directory above path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return EnsureDir(dir)
}

// CreateFile creates (or truncates) the file at path, creating missing
// parent directories first.
func CreateFile(path string) (*os.File, error) {
	if err := EnsureParentDir(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}
