package model

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects what the user wants out of the video
type Mode string

const (
	ModeVideo Mode = "video"
	ModeAudio Mode = "audio"
)

// MP3Extension is the extension audio downloads end up with after transcoding
const MP3Extension = "mp3"

// Request is a single download request, from input to finished file
type Request struct {
	ID           string
	URL          string
	Mode         Mode
	Preference   Preference // explicit resolutions, tried in order
	Ceiling      int        // height ceiling for dashboard presets, 0 if unused
	AudioQuality string     // bitrate in kbps, e.g. "192"
	State        State
	LastError    string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// AudioOptions configures the transcode-to-audio post-processing
type AudioOptions struct {
	Codec         string // e.g. "mp3"
	Quality       string // bitrate in kbps, e.g. "192"
	EmbedMetadata bool
}

// Options is the engine configuration for a single transfer
type Options struct {
	Format              string
	OutputDir           string
	OutputTemplate      string
	NoPlaylist          bool
	Retries             int
	FragmentRetries     int
	ConcurrentFragments int
	SocketTimeout       time.Duration
	BufferSize          string
	MergeOutputFormat   string
	Audio               *AudioOptions
}

// TargetExtension returns the extension the finished file is expected to have
func (o *Options) TargetExtension() string {
	if o.Audio != nil {
		return o.Audio.Codec
	}
	return o.MergeOutputFormat
}

// Thumbnail is a fixed-size reference to the video's preview image
type Thumbnail struct {
	URL   string
	Width int
}

// ThumbnailWidth is the display width used for thumbnails
const ThumbnailWidth = 300

// FileResult describes a finished download
type FileResult struct {
	Path           string
	Name           string
	Size           int64
	Mode           Mode
	MimeType       string
	Title          string
	Duration       float64
	DurationString string
	Uploader       string
	ViewCount      int64
	Thumbnail      Thumbnail
	Tags           map[string]string
	ProcessedAt    time.Time
}

// SizeMB returns the file size in mebibytes
func (r *FileResult) SizeMB() float64 {
	return float64(r.Size) / (1024 * 1024)
}

// GetDurationString returns the engine's duration string, or one computed
// from Duration, or "N/A"
func (r *FileResult) GetDurationString() string {
	if r.DurationString != "" {
		return r.DurationString
	}
	if r.Duration > 0 {
		return ClockString(int(r.Duration))
	}
	return "N/A"
}

// ClockString returns seconds formatted as hh:mm:ss, or mm:ss under an hour.
// Non-positive values yield a dash placeholder.
func ClockString(totalSec int) string {
	if totalSec <= 0 {
		return "—"
	}

	hours := totalSec / 3600
	minutes := (totalSec % 3600) / 60
	seconds := totalSec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (r *FileResult) GetDisplayTitle(url string) string {
	if r.Title != "" && !strings.HasPrefix(r.Title, "http") {
		return r.Title
	}

	if r.Path != "" {
		parts := strings.FieldsFunc(r.Path, func(c rune) bool {
			return c == '/' || c == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return url
}
