package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/ytgrab/internal/config"
	"github.com/ytget/ytgrab/internal/format"
	"github.com/ytget/ytgrab/internal/media"
	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/platform"
	"github.com/ytget/ytgrab/internal/progress"
)

// Variant selects where files land and who owns them afterwards
type Variant int

const (
	// VariantConsole keeps finished files in the downloads directory
	VariantConsole Variant = iota

	// VariantDashboard works in a per-request temporary directory that is
	// removed once the file has been served
	VariantDashboard
)

// MIME types of finished files
const (
	MimeVideo = "video/mp4"
	MimeAudio = "audio/mp3"
)

// Service handles download operations
type Service struct {
	engine    Engine
	inspector media.Inspector
	settings  *config.Settings
	variant   Variant
	baseDir   string
}

// NewService creates a new download service. baseDir is the downloads
// directory for the console variant and the temporary root for the dashboard.
func NewService(engine Engine, settings *config.Settings, variant Variant, baseDir string) *Service {
	return &Service{
		engine:   engine,
		settings: settings,
		variant:  variant,
		baseDir:  baseDir,
	}
}

// SetInspector sets the media inspector used for tags and duration probing
func (s *Service) SetInspector(inspector media.Inspector) {
	s.inspector = inspector
}

// Download runs a request from metadata to finished file
func (s *Service) Download(ctx context.Context, req *model.Request, renderer progress.Renderer, hooks Hooks) (*model.FileResult, error) {
	info, err := s.Probe(ctx, req, hooks)
	if err != nil {
		return nil, err
	}
	return s.Transfer(ctx, req, info, renderer, hooks)
}

// Probe requests metadata only. A long video produces an advisory warning
// but does not stop the request.
func (s *Service) Probe(ctx context.Context, req *model.Request, hooks Hooks) (*model.VideoInfo, error) {
	dir := s.requestDir(req)
	opts := &model.Options{OutputDir: dir, OutputTemplate: s.settings.FilenameTemplate}

	info, err := s.engine.Probe(ctx, req.URL, opts)
	if err != nil {
		return nil, s.fail(req, hooks, wrap(ErrExtraction, err))
	}
	if info == nil {
		return nil, s.fail(req, hooks, fmt.Errorf("%w: empty metadata", ErrExtraction))
	}

	s.setState(req, hooks, model.StateMetadataFetched)

	if threshold := s.settings.LongVideoThreshold.Seconds(); threshold > 0 && info.Duration > threshold {
		msg := LongVideoWarning(info.Duration)
		log.WithFields(log.Fields{"request": req.ID, "duration": info.Duration}).Warn(msg)
		hooks.warning(msg)
	}

	return info, nil
}

// Transfer resolves the format, runs the engine and locates the output file
func (s *Service) Transfer(ctx context.Context, req *model.Request, info *model.VideoInfo, renderer progress.Renderer, hooks Hooks) (*model.FileResult, error) {
	selector, descriptor, err := s.resolveFormat(req, info)
	if err != nil {
		return nil, s.fail(req, hooks, err)
	}
	s.setState(req, hooks, model.StateFormatResolved)
	hooks.resolved(info, descriptor)

	dir := s.requestDir(req)
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return nil, s.fail(req, hooks, wrap(ErrTransfer, err))
	}

	opts := BuildOptions(s.settings, req, selector, dir)
	reporter := progress.NewReporter(renderer, req.StartedAt)

	s.setState(req, hooks, model.StateTransferring)
	if err := s.engine.Fetch(ctx, req.URL, opts, reporter.Handle); err != nil {
		s.discardPartial(req)
		return nil, s.fail(req, hooks, wrap(ErrTransfer, err))
	}

	path, err := platform.ResolveOutputPath(s.predictedPath(info, opts), opts.TargetExtension())
	if err != nil {
		s.discardPartial(req)
		return nil, s.fail(req, hooks, wrap(ErrFileNotFound, err))
	}

	result, err := s.buildResult(ctx, req, info, path)
	if err != nil {
		s.discardPartial(req)
		return nil, s.fail(req, hooks, wrap(ErrFileNotFound, err))
	}

	req.FinishedAt = time.Now()
	s.setState(req, hooks, model.StateCompleted)
	return result, nil
}

// Cleanup removes the temporary directory of a dashboard request. It ignores
// every error, including a directory that is already gone.
func (s *Service) Cleanup(req *model.Request) {
	if s.variant != VariantDashboard || req == nil || req.ID == "" {
		return
	}
	platform.RemoveDirQuietly(s.requestDir(req))
}

// resolveFormat picks the engine format selector for the request. Explicit
// preferences resolve to one descriptor, widening to every listed quality;
// dashboard ceilings and audio requests use selector expressions.
func (s *Service) resolveFormat(req *model.Request, info *model.VideoInfo) (string, *model.Descriptor, error) {
	if len(info.Formats) == 0 {
		return "", nil, fmt.Errorf("%w: no downloadable formats found", ErrFormatUnavailable)
	}

	if req.Mode == model.ModeAudio {
		return format.AudioSelector, nil, nil
	}

	if req.Ceiling > 0 {
		return format.SelectorExpression(req.Ceiling), nil, nil
	}

	pref := req.Preference
	if len(pref) == 0 {
		pref = model.DefaultPreference
	}

	d := format.Select(info.Formats, pref, model.ContainerMP4)
	if d == nil {
		qualities := format.ListQualities(info.Formats, model.ContainerMP4)
		log.WithFields(log.Fields{"request": req.ID, "requested": pref, "available": qualities}).
			Info("requested quality not available, trying best available")
		d = format.Select(info.Formats, qualities, model.ContainerMP4)
	}
	if d == nil {
		return "", nil, ErrFormatUnavailable
	}
	return d.FormatID, d, nil
}

// predictedPath returns the engine's filename prediction, or one built from
// the title when the engine gave none
func (s *Service) predictedPath(info *model.VideoInfo, opts *model.Options) string {
	if info.Filename != "" {
		if filepath.IsAbs(info.Filename) || filepath.Dir(info.Filename) != "." {
			return info.Filename
		}
		return filepath.Join(opts.OutputDir, info.Filename)
	}

	ext := info.Extension
	if ext == "" {
		ext = opts.TargetExtension()
	}
	return filepath.Join(opts.OutputDir, info.Title+"."+ext)
}

func (s *Service) buildResult(ctx context.Context, req *model.Request, info *model.VideoInfo, path string) (*model.FileResult, error) {
	size, err := platform.FileSize(path)
	if err != nil {
		return nil, err
	}

	result := &model.FileResult{
		Path:           path,
		Name:           filepath.Base(path),
		Size:           size,
		Mode:           req.Mode,
		MimeType:       MimeVideo,
		Title:          info.Title,
		Duration:       info.Duration,
		DurationString: info.DurationString,
		Uploader:       info.Uploader,
		ViewCount:      info.ViewCount,
		Thumbnail:      model.Thumbnail{URL: info.Thumbnail, Width: model.ThumbnailWidth},
		ProcessedAt:    time.Now(),
	}
	if req.Mode == model.ModeAudio {
		result.MimeType = MimeAudio
	}

	if s.inspector == nil {
		return result, nil
	}

	logger := log.WithFields(log.Fields{"request": req.ID, "path": path})

	if result.Duration <= 0 {
		if d, err := s.inspector.ProbeDuration(ctx, path); err == nil {
			result.Duration = d
		} else {
			logger.WithError(err).Debug("duration probe failed")
		}
	}

	if req.Mode == model.ModeAudio && strings.EqualFold(filepath.Ext(path), "."+model.MP3Extension) {
		if err := s.inspector.EnsureTags(path, media.Tags{Title: info.Title, Artist: info.Uploader}); err != nil {
			logger.WithError(err).Warn("failed to fill missing tags")
		}
		tags, err := s.inspector.ReadTags(path)
		if err != nil {
			logger.WithError(err).Warn("failed to read tags")
		} else {
			result.Tags = tags
		}
		// Tag edits may change the file size
		if size, err := platform.FileSize(path); err == nil {
			result.Size = size
		}
	}

	return result, nil
}

// discardPartial removes what a failed dashboard transfer left behind.
// Console downloads keep partial files in place.
func (s *Service) discardPartial(req *model.Request) {
	if s.variant == VariantDashboard {
		s.Cleanup(req)
	}
}

func (s *Service) requestDir(req *model.Request) string {
	if s.variant == VariantDashboard {
		return filepath.Join(s.baseDir, req.ID)
	}
	return s.baseDir
}

func (s *Service) setState(req *model.Request, hooks Hooks, state model.State) {
	req.State = state
	log.WithFields(log.Fields{"request": req.ID, "state": state}).Debug("request state changed")
	hooks.state(req)
}

func (s *Service) fail(req *model.Request, hooks Hooks, err error) error {
	req.LastError = err.Error()
	req.FinishedAt = time.Now()
	s.setState(req, hooks, model.StateFailed)

	level := log.ErrorLevel
	if errors.Is(err, ErrInput) || errors.Is(err, ErrFormatUnavailable) {
		level = log.WarnLevel
	}
	log.WithFields(log.Fields{"request": req.ID, "url": req.URL}).WithError(err).Log(level, "request failed")
	return err
}
