package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	settings, err := NewLoader("").Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.DownloadsDir != DefaultDownloadsDir {
		t.Errorf("Expected downloads dir %s, got %s", DefaultDownloadsDir, settings.DownloadsDir)
	}
	if settings.TempDir != DefaultTempDir {
		t.Errorf("Expected temp dir %s, got %s", DefaultTempDir, settings.TempDir)
	}
	if settings.FilenameTemplate != DefaultFilenameTemplate {
		t.Errorf("Expected template %s, got %s", DefaultFilenameTemplate, settings.FilenameTemplate)
	}
	if settings.Retries != 10 || settings.FragmentRetries != 10 {
		t.Errorf("Expected 10 retries, got %d/%d", settings.Retries, settings.FragmentRetries)
	}
	if settings.ConcurrentFragments != 4 {
		t.Errorf("Expected 4 concurrent fragments, got %d", settings.ConcurrentFragments)
	}
	if settings.SocketTimeout != 300*time.Second {
		t.Errorf("Expected 300s socket timeout, got %v", settings.SocketTimeout)
	}
	if settings.LongVideoThreshold != 1800*time.Second {
		t.Errorf("Expected 1800s threshold, got %v", settings.LongVideoThreshold)
	}
	if settings.BufferSize != "16M" {
		t.Errorf("Expected 16M buffer, got %s", settings.BufferSize)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytgrab.yaml")
	content := `downloads_dir: /data/videos
socket_timeout: 45s
long_video_threshold: 10m
max_jobs: 50
concurrent_fragments: 0
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	loader := NewLoader(path)
	settings, err := loader.Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if loader.ConfigFile() != path {
		t.Errorf("Expected config file %s, got %s", path, loader.ConfigFile())
	}
	if settings.DownloadsDir != "/data/videos" {
		t.Errorf("Expected /data/videos, got %s", settings.DownloadsDir)
	}
	if settings.SocketTimeout != 45*time.Second {
		t.Errorf("Expected 45s, got %v", settings.SocketTimeout)
	}
	if settings.LongVideoThreshold != 10*time.Minute {
		t.Errorf("Expected 10m, got %v", settings.LongVideoThreshold)
	}
	if settings.MaxJobs != 10 {
		t.Errorf("Expected max jobs clamped to 10, got %d", settings.MaxJobs)
	}
	if settings.ConcurrentFragments != 1 {
		t.Errorf("Expected concurrent fragments clamped to 1, got %d", settings.ConcurrentFragments)
	}
	if settings.LogLevel != "debug" {
		t.Errorf("Expected debug log level, got %s", settings.LogLevel)
	}
	// Untouched keys keep defaults
	if settings.TempDir != DefaultTempDir {
		t.Errorf("Expected default temp dir, got %s", settings.TempDir)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	if err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytgrab.yaml")
	if err := os.WriteFile(path, []byte("socket_timeout: [not, a, duration"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for malformed config")
	}
}

func TestNormalize(t *testing.T) {
	s := &Settings{Retries: -1, FragmentRetries: -5, SubmitRate: -1, SubmitBurst: 0}
	s.normalize()

	if s.Retries != 0 || s.FragmentRetries != 0 {
		t.Errorf("Expected retries clamped to 0, got %d/%d", s.Retries, s.FragmentRetries)
	}
	if s.SubmitRate != DefaultSubmitRate || s.SubmitBurst != 1 {
		t.Errorf("Unexpected rate settings: %f/%d", s.SubmitRate, s.SubmitBurst)
	}
	if s.FilenameTemplate != DefaultFilenameTemplate {
		t.Errorf("Expected default template, got %s", s.FilenameTemplate)
	}
	if s.JobTTL != DefaultJobTTL || s.LongVideoThreshold != DefaultLongVideoThreshold {
		t.Errorf("Expected default durations, got %v/%v", s.JobTTL, s.LongVideoThreshold)
	}
}
