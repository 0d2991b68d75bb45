package download

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/ytgrab/internal/config"
	"github.com/ytget/ytgrab/internal/format"
	"github.com/ytget/ytgrab/internal/model"
)

// RequestIDPrefix prefixes every request identifier
const RequestIDPrefix = "req-"

// NewRequest validates the URL and creates an idle request
func NewRequest(url string, mode model.Mode) (*model.Request, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: no URL entered", ErrInput)
	}
	if mode != model.ModeVideo && mode != model.ModeAudio {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInput, mode)
	}

	return &model.Request{
		ID:        generateRequestID(),
		URL:       url,
		Mode:      mode,
		State:     model.StateIdle,
		StartedAt: time.Now(),
	}, nil
}

// NewVideoPresetRequest builds a dashboard video request from a preset label
func NewVideoPresetRequest(url, label string) (*model.Request, error) {
	preset, ok := format.FindVideoPreset(label)
	if !ok {
		return nil, fmt.Errorf("%w: unknown video quality %q", ErrInput, label)
	}
	req, err := NewRequest(url, model.ModeVideo)
	if err != nil {
		return nil, err
	}
	req.Ceiling = preset.Ceiling
	return req, nil
}

// NewAudioRequest builds an audio request from a bitrate label such as "192kbps"
func NewAudioRequest(url, bitrate string) (*model.Request, error) {
	quality, err := format.AudioQuality(bitrate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	req, err := NewRequest(url, model.ModeAudio)
	if err != nil {
		return nil, err
	}
	req.AudioQuality = quality
	return req, nil
}

// BuildOptions creates the engine configuration for one transfer
func BuildOptions(settings *config.Settings, req *model.Request, formatSelector, outputDir string) *model.Options {
	opts := &model.Options{
		Format:              formatSelector,
		OutputDir:           outputDir,
		OutputTemplate:      settings.FilenameTemplate,
		NoPlaylist:          true,
		Retries:             settings.Retries,
		FragmentRetries:     settings.FragmentRetries,
		ConcurrentFragments: settings.ConcurrentFragments,
		SocketTimeout:       settings.SocketTimeout,
		BufferSize:          settings.BufferSize,
	}

	if req.Mode == model.ModeAudio {
		opts.Audio = &model.AudioOptions{
			Codec:         model.MP3Extension,
			Quality:       req.AudioQuality,
			EmbedMetadata: true,
		}
	} else {
		opts.MergeOutputFormat = model.ContainerMP4
	}
	return opts
}

// LongVideoTips accompany the long-video advisory on the dashboard
var LongVideoTips = []string{
	"Choose a lower resolution (720p or below)",
	"Ensure stable internet connection",
	"Don't close the browser during download",
}

// LongVideoWarning returns the advisory headline for a long video
func LongVideoWarning(duration float64) string {
	return fmt.Sprintf("Long Video Warning (%d minutes)", int(duration)/60)
}

// generateRequestID generates a unique, time-ordered request ID
func generateRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(RequestIDPrefix+"%d", time.Now().UnixNano())
	}
	return RequestIDPrefix + id.String()
}
