package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// File extensions the engine leaves behind for unfinished transfers
var (
	SkippedExtensions = []string{".part", ".ytdl", ".temp"}
)

// ErrNotFound is returned when a downloaded file cannot be located
var ErrNotFound = errors.New("downloaded file not found")

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// ReplaceExtension swaps the extension of path for ext (given without dot)
func ReplaceExtension(path, ext string) string {
	if ext == "" {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}

// ResolveOutputPath finds the file the engine actually produced. The engine's
// prediction is made before post-processing, so the extension is rewritten to
// targetExt first; if that path is missing, the directory is scanned for a
// finished file with the same stem, then for one starting with it.
func ResolveOutputPath(predicted, targetExt string) (string, error) {
	if predicted == "" {
		return "", fmt.Errorf("%w: empty path", ErrNotFound)
	}

	candidate := ReplaceExtension(predicted, targetExt)
	if fileExists(candidate) {
		return candidate, nil
	}
	if fileExists(predicted) {
		return predicted, nil
	}

	dir := filepath.Dir(candidate)
	stem := strings.TrimSuffix(filepath.Base(candidate), filepath.Ext(candidate))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read directory %s: %v", ErrNotFound, dir, err)
	}

	// Exact stem matches win; a prefix match may be an unrelated older file
	var exact, prefixed []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || isPartialFile(name) {
			continue
		}
		switch {
		case strings.TrimSuffix(name, filepath.Ext(name)) == stem:
			exact = append(exact, filepath.Join(dir, name))
		case strings.HasPrefix(name, stem):
			prefixed = append(prefixed, filepath.Join(dir, name))
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = prefixed
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, candidate)
	}

	// Prefer the target extension, then the shortest name (closest to the stem)
	sort.SliceStable(matches, func(i, j int) bool {
		ei := strings.EqualFold(strings.TrimPrefix(filepath.Ext(matches[i]), "."), targetExt)
		ej := strings.EqualFold(strings.TrimPrefix(filepath.Ext(matches[j]), "."), targetExt)
		if ei != ej {
			return ei
		}
		return len(matches[i]) < len(matches[j])
	})
	return matches[0], nil
}

// FileSize returns the size of the file at path
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// RemoveDirQuietly deletes dir with everything inside and ignores every error
func RemoveDirQuietly(dir string) {
	if dir == "" || dir == "." || dir == string(filepath.Separator) {
		return
	}
	_ = os.RemoveAll(dir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isPartialFile(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
