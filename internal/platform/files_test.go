package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestReplaceExtension(t *testing.T) {
	tests := []struct {
		path     string
		ext      string
		expected string
	}{
		{"/dl/Song.webm", "mp3", "/dl/Song.mp3"},
		{"/dl/Clip.mp4", "mp4", "/dl/Clip.mp4"},
		{"/dl/No Ext", "mp3", "/dl/No Ext.mp3"},
		{"/dl/Keep.m4a", "", "/dl/Keep.m4a"},
	}

	for _, test := range tests {
		if got := ReplaceExtension(test.path, test.ext); got != test.expected {
			t.Errorf("ReplaceExtension(%s, %s) = %s, expected %s", test.path, test.ext, got, test.expected)
		}
	}
}

func TestResolveOutputPath_RewritesExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Song.mp3"), 10)

	got, err := ResolveOutputPath(filepath.Join(dir, "Song.webm"), "mp3")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != filepath.Join(dir, "Song.mp3") {
		t.Errorf("Expected Song.mp3, got %s", got)
	}
}

func TestResolveOutputPath_PredictedExists(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Clip.mkv"), 10)

	got, err := ResolveOutputPath(filepath.Join(dir, "Clip.mkv"), "mp4")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != filepath.Join(dir, "Clip.mkv") {
		t.Errorf("Expected Clip.mkv, got %s", got)
	}
}

func TestResolveOutputPath_StemScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Clip.f137.mp4.part"), 10)
	writeFile(t, filepath.Join(dir, "Clip.webm"), 10)
	writeFile(t, filepath.Join(dir, "Other.mp4"), 10)

	got, err := ResolveOutputPath(filepath.Join(dir, "Clip.mp4"), "mp4")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != filepath.Join(dir, "Clip.webm") {
		t.Errorf("Expected stem match Clip.webm, got %s", got)
	}
}

func TestResolveOutputPath_ExactStemWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Clip Extended.mp4"), 10)
	writeFile(t, filepath.Join(dir, "Clip.webm"), 10)

	got, err := ResolveOutputPath(filepath.Join(dir, "Clip.mp4"), "mp4")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if want := filepath.Join(dir, "Clip.webm"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestResolveOutputPath_PrefixFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Clip.f137.mkv"), 10)

	got, err := ResolveOutputPath(filepath.Join(dir, "Clip.mp4"), "mp4")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if want := filepath.Join(dir, "Clip.f137.mkv"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestResolveOutputPath_NotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Other.mp4"), 10)
	writeFile(t, filepath.Join(dir, "Clip.mp4.part"), 10)

	_, err := ResolveOutputPath(filepath.Join(dir, "Clip.mp4"), "mp4")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	_, err = ResolveOutputPath("", "mp4")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for empty path, got %v", err)
	}
}

func TestResolveOutputPath_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Song.mp3"), 10)

	first, err1 := ResolveOutputPath(filepath.Join(dir, "Song.m4a"), "mp3")
	second, err2 := ResolveOutputPath(filepath.Join(dir, "Song.m4a"), "mp3")
	if err1 != nil || err2 != nil || first != second {
		t.Errorf("Expected identical results, got %s (%v) and %s (%v)", first, err1, second, err2)
	}
}

func TestFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.bin")
	writeFile(t, path, 1234)

	size, err := FileSize(path)
	if err != nil || size != 1234 {
		t.Errorf("FileSize() = %d, %v; expected 1234, nil", size, err)
	}
}

func TestRemoveDirQuietly(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "req-1")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "nested", "Clip.mp4"), 3)

	RemoveDirQuietly(dir)
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Expected directory to be removed")
	}

	// Repeated removal and empty path are no-ops
	RemoveDirQuietly(dir)
	RemoveDirQuietly("")
	if _, err := os.Stat(root); err != nil {
		t.Errorf("Expected parent directory to survive, got %v", err)
	}
}
