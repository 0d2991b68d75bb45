package media

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildFFprobeArgs(t *testing.T) {
	args := BuildFFprobeArgs("/in/file.mp3")

	expectedArgs := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		"/in/file.mp3",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d", len(expectedArgs), len(args))
	}
	for i, arg := range args {
		if arg != expectedArgs[i] {
			t.Errorf("Arg %d: expected %s, got %s", i, expectedArgs[i], arg)
		}
	}
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("  212.480000\n")
	if err != nil || d != 212.48 {
		t.Errorf("parseDuration() = %f, %v; expected 212.48, nil", d, err)
	}

	if _, err := parseDuration("N/A"); err == nil {
		t.Error("Expected error for non-numeric duration")
	}
}

func TestCheckTools(t *testing.T) {
	s := NewService()

	s.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	if err := s.CheckTools(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	s.lookPath = func(name string) (string, error) {
		if name == FFprobeCommand {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}
	err := s.CheckTools()
	if err == nil || !strings.Contains(err.Error(), "ffprobe") || strings.Contains(err.Error(), "ffmpeg,") {
		t.Errorf("Expected only ffprobe reported missing, got %v", err)
	}
}

func TestEnsureAndReadTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, []byte("not really audio frames"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	s := NewService()
	if err := s.EnsureTags(path, Tags{Title: "My Song", Artist: "Some Channel"}); err != nil {
		t.Fatalf("EnsureTags failed: %v", err)
	}

	tags, err := s.ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	if tags["title"] != "My Song" || tags["artist"] != "Some Channel" {
		t.Errorf("Unexpected tags: %v", tags)
	}

	// Existing values are kept
	if err := s.EnsureTags(path, Tags{Title: "Other", Artist: "Other"}); err != nil {
		t.Fatalf("EnsureTags failed: %v", err)
	}
	tags, _ = s.ReadTags(path)
	if tags["title"] != "My Song" {
		t.Errorf("Expected title to be kept, got %v", tags)
	}
}

func TestReadTags_MissingFile(t *testing.T) {
	s := NewService()
	if _, err := s.ReadTags(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("Expected error for missing file")
	}
}
