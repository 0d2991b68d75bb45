package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// FFmpeg constants
const (
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	DefaultProbeTimeout = 30 * time.Second
)

// Service runs ffprobe and edits tags on finished downloads
type Service struct {
	probeTimeout time.Duration
	lookPath     func(string) (string, error)
}

// NewService creates a new media service
func NewService() *Service {
	return &Service{
		probeTimeout: DefaultProbeTimeout,
		lookPath:     exec.LookPath,
	}
}

// CheckTools reports which of ffmpeg and ffprobe are missing from PATH.
// Merging video with audio and transcoding to MP3 both need ffmpeg.
func (s *Service) CheckTools() error {
	var missing []string
	for _, tool := range []string{FFmpegCommand, FFprobeCommand} {
		if _, err := s.lookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing media tools: %s", strings.Join(missing, ", "))
	}
	return nil
}

// BuildFFprobeArgs builds the ffprobe arguments for a duration query
func BuildFFprobeArgs(path string) []string {
	return []string{
		"-v", FFprobeLogLevel,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		path,
	}
}

// ProbeDuration returns the duration of a media file in seconds
func (s *Service) ProbeDuration(ctx context.Context, path string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, FFprobeCommand, BuildFFprobeArgs(path)...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	return parseDuration(string(output))
}

func parseDuration(output string) (float64, error) {
	durationStr := strings.TrimSpace(output)
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}
