package download

import (
	"context"

	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/progress"
)

// Engine is the media-extraction engine the service delegates to
type Engine interface {
	Probe(ctx context.Context, url string, opts *model.Options) (*model.VideoInfo, error)
	Fetch(ctx context.Context, url string, opts *model.Options, onProgress func(model.ProgressEvent)) error
}

// Downloader defines the interface front-ends use to run requests
type Downloader interface {
	// Probe fetches metadata and surfaces the long-video advisory
	Probe(ctx context.Context, req *model.Request, hooks Hooks) (*model.VideoInfo, error)

	// Transfer resolves the format, downloads and locates the output file
	Transfer(ctx context.Context, req *model.Request, info *model.VideoInfo, renderer progress.Renderer, hooks Hooks) (*model.FileResult, error)

	// Download runs Probe followed by Transfer
	Download(ctx context.Context, req *model.Request, renderer progress.Renderer, hooks Hooks) (*model.FileResult, error)

	// Cleanup removes temporary files of a request; it never fails
	Cleanup(req *model.Request)
}

// Hooks receive notifications while a request runs. Every field is optional.
type Hooks struct {
	OnState    func(req *model.Request)
	OnWarning  func(msg string)
	OnResolved func(info *model.VideoInfo, d *model.Descriptor)
}

func (h Hooks) state(req *model.Request) {
	if h.OnState != nil {
		h.OnState(req)
	}
}

func (h Hooks) warning(msg string) {
	if h.OnWarning != nil {
		h.OnWarning(msg)
	}
}

func (h Hooks) resolved(info *model.VideoInfo, d *model.Descriptor) {
	if h.OnResolved != nil {
		h.OnResolved(info, d)
	}
}
