// Package logging configures logrus for both front-ends.
package logging

import (
	"fmt"
	"path"
	"runtime"
	"strings"

	"github.com/orandin/lumberjackrus"
	log "github.com/sirupsen/logrus"
)

// ParseLevel maps a config level name to a logrus level, defaulting to info
func ParseLevel(name string) log.Level {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Setup installs the text formatter, the level and, when logFile is set, a
// rotating JSON file hook.
func Setup(level, logFile string, logFileSize int) error {
	log.SetReportCaller(true)
	log.SetFormatter(&log.TextFormatter{
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := path.Base(f.File)
			fn := f.Function
			if idx := strings.LastIndex(fn, "."); idx >= 0 {
				fn = fn[idx+1:]
			}
			return fmt.Sprintf("%s()", fn), fmt.Sprintf("%s:%d", filename, f.Line)
		},
	})

	lvl := ParseLevel(level)
	log.SetLevel(lvl)

	if logFile == "" {
		return nil
	}

	hook, err := lumberjackrus.NewHook(
		&lumberjackrus.LogFile{
			Filename:   logFile,
			MaxSize:    logFileSize,
			MaxBackups: 1,
			MaxAge:     1,
			Compress:   false,
			LocalTime:  false,
		},
		lvl,
		&log.JSONFormatter{},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to create log file hook: %w", err)
	}

	log.AddHook(hook)
	return nil
}
