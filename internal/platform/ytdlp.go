package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"github.com/ytget/ytgrab/internal/model"
)

// Timeout and reporting constants
const (
	DefaultProbeTimeout     = 60 * time.Second
	DefaultProgressInterval = 500 * time.Millisecond
)

// YTDLP drives the yt-dlp executable through go-ytdlp
type YTDLP struct {
	probeTimeout     time.Duration
	progressInterval time.Duration
}

// NewYTDLP creates a new engine adapter
func NewYTDLP() *YTDLP {
	return &YTDLP{
		probeTimeout:     DefaultProbeTimeout,
		progressInterval: DefaultProgressInterval,
	}
}

// SetProbeTimeout sets the timeout for metadata requests
func (y *YTDLP) SetProbeTimeout(timeout time.Duration) {
	y.probeTimeout = timeout
}

// Probe fetches metadata without downloading. The output template is passed
// so the engine's filename prediction matches the later transfer.
func (y *YTDLP) Probe(ctx context.Context, url string, opts *model.Options) (*model.VideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, y.probeTimeout)
	defer cancel()

	dl := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		NoPlaylist()
	if opts != nil {
		dl = dl.Output(outputPattern(opts))
	}

	res, err := dl.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp metadata request failed: %w", err)
	}

	return ParseInfo(res.Stdout)
}

// Fetch downloads url according to opts, reporting progress to onProgress
func (y *YTDLP) Fetch(ctx context.Context, url string, opts *model.Options, onProgress func(model.ProgressEvent)) error {
	dl := y.buildCommand(opts)

	if onProgress != nil {
		dl.ProgressFunc(y.progressInterval, func(update ytdlp.ProgressUpdate) {
			onProgress(convertProgress(&update))
		})
	}

	logrus.WithFields(logrus.Fields{
		"url":    url,
		"format": opts.Format,
		"dir":    opts.OutputDir,
	}).Debug("starting yt-dlp transfer")

	if _, err := dl.Run(ctx, url); err != nil {
		return fmt.Errorf("yt-dlp transfer failed: %w", err)
	}
	return nil
}

// buildCommand maps Options onto yt-dlp flags
func (y *YTDLP) buildCommand(opts *model.Options) *ytdlp.Command {
	dl := ytdlp.New().
		Format(opts.Format).
		Output(outputPattern(opts))

	if opts.NoPlaylist {
		dl = dl.NoPlaylist()
	}
	if opts.Retries > 0 {
		dl = dl.Retries(strconv.Itoa(opts.Retries))
	}
	if opts.FragmentRetries > 0 {
		dl = dl.FragmentRetries(strconv.Itoa(opts.FragmentRetries))
	}
	if opts.ConcurrentFragments > 0 {
		dl = dl.ConcurrentFragments(opts.ConcurrentFragments)
	}
	if opts.SocketTimeout > 0 {
		dl = dl.SocketTimeout(opts.SocketTimeout.Seconds())
	}
	if opts.BufferSize != "" {
		dl = dl.BufferSize(opts.BufferSize)
	}
	if opts.MergeOutputFormat != "" {
		dl = dl.MergeOutputFormat(opts.MergeOutputFormat)
	}
	if opts.Audio != nil {
		dl = dl.ExtractAudio().
			AudioFormat(opts.Audio.Codec).
			AudioQuality(opts.Audio.Quality)
		if opts.Audio.EmbedMetadata {
			dl = dl.EmbedMetadata()
		}
	}
	return dl
}

func outputPattern(opts *model.Options) string {
	return filepath.Join(opts.OutputDir, opts.OutputTemplate)
}

// convertProgress maps a go-ytdlp update onto the engine-neutral event,
// formatting percent, speed and ETA the way the renderers display them
func convertProgress(update *ytdlp.ProgressUpdate) model.ProgressEvent {
	ev := model.ProgressEvent{
		Status:          model.ProgressStatus(update.Status),
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		// Fragmented transfers only know an estimate of their final size
		TotalEstimated: update.FragmentCount > 0,
	}

	if update.TotalBytes > 0 {
		ev.PercentStr = fmt.Sprintf("%.1f%%", update.Percent())
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			bytesPerSecond := float64(update.DownloadedBytes) / elapsed.Seconds()
			ev.SpeedStr = fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
		}
	}

	if eta := update.ETA(); eta > 0 {
		ev.ETAStr = model.ClockString(int(eta.Seconds()))
	}

	return ev
}
