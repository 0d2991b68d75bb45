package logging

import (
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"trace", log.TraceLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}

	for _, test := range tests {
		if got := ParseLevel(test.name); got != test.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", test.name, got, test.expected)
		}
	}
}

func TestSetup(t *testing.T) {
	if err := Setup("warn", "", 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if log.GetLevel() != log.WarnLevel {
		t.Errorf("Expected warn level, got %v", log.GetLevel())
	}

	logFile := filepath.Join(t.TempDir(), "ytgrab.log")
	if err := Setup("debug", logFile, 1); err != nil {
		t.Fatalf("Expected no error with log file, got %v", err)
	}
	if log.GetLevel() != log.DebugLevel {
		t.Errorf("Expected debug level, got %v", log.GetLevel())
	}

	log.StandardLogger().ReplaceHooks(make(log.LevelHooks))
	log.SetLevel(log.InfoLevel)
}
