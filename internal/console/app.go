// Package console implements the interactive command-line front-end.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/ytgrab/internal/download"
	"github.com/ytget/ytgrab/internal/format"
	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/progress"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Console messages
const (
	Banner          = "YouTube Video Downloader (yt-dlp)"
	PromptURL       = "Enter YouTube video URL: "
	PromptQuality   = "Select quality (enter number): "
	BestAvailable   = "  0. Best available (default: 1080p > 720p > 360p)"
	MsgNoURL        = "No URL entered. Exiting."
	MsgInfoFailed   = "Failed to retrieve video info. Exiting."
	MsgNoFormats    = "No downloadable formats found."
	MsgNoQualities  = "No suitable video qualities found."
	MsgInvalid      = "Invalid choice. Using default."
	MsgWidened      = "Requested quality not available. Trying best available..."
	MsgNoFormat     = "No suitable format found. Exiting."
	MsgFailed       = "Download failed."
	MsgSavedTo      = "Saved to: %s"
	MsgLongVideoTip = "The download may take several minutes to complete."
)

// App runs one console download
type App struct {
	in         *bufio.Reader
	out        io.Writer
	downloader download.Downloader
	renderer   progress.Renderer
	dir        string
}

// NewApp creates a console app reading answers from in and writing to out.
// dir is shown as the destination on success.
func NewApp(in io.Reader, out io.Writer, downloader download.Downloader, renderer progress.Renderer, dir string) *App {
	return &App{
		in:         bufio.NewReader(in),
		out:        out,
		downloader: downloader,
		renderer:   renderer,
		dir:        dir,
	}
}

// Run executes the prompt flow and returns the process exit code
func (a *App) Run(ctx context.Context, args Args) int {
	a.println(Banner)

	url := strings.TrimSpace(args.URL)
	if url == "" {
		url = a.prompt(PromptURL)
	}

	var (
		req *model.Request
		err error
	)
	if args.Audio {
		req, err = download.NewAudioRequest(url, args.Bitrate)
	} else {
		req, err = download.NewRequest(url, model.ModeVideo)
	}
	if err != nil {
		if url == "" {
			a.println(MsgNoURL)
		} else {
			a.printf("Error: %v\n", err)
		}
		return ExitFailure
	}

	hooks := download.Hooks{
		OnWarning: func(msg string) {
			a.printf("\nWarning: %s\n%s\n", msg, MsgLongVideoTip)
		},
	}

	info, err := a.downloader.Probe(ctx, req, hooks)
	if err != nil {
		a.printf("Error: %v\n", err)
		a.println(MsgInfoFailed)
		return ExitFailure
	}

	if len(info.Formats) == 0 {
		a.println(MsgNoFormats)
		return ExitFailure
	}

	var label string
	if req.Mode == model.ModeVideo {
		d, code, ok := a.chooseFormat(info, args.Quality)
		if !ok {
			return code
		}
		req.Preference = model.Preference{d.Height}
		label = fmt.Sprintf("%dp", d.Height)
	} else {
		label = req.AudioQuality + "kbps mp3"
	}

	a.printf("\nDownloading: %s [%s]\n", info.Title, label)

	result, err := a.downloader.Transfer(ctx, req, info, a.renderer, download.Hooks{})
	if err != nil {
		a.printf("Download failed: %v\n", err)
		a.println(MsgFailed)
		return ExitOK
	}

	log.WithFields(log.Fields{"title": result.GetDisplayTitle(req.URL), "path": result.Path, "size": result.Size}).
		Debug("download saved")
	a.printf("\n"+MsgSavedTo+"\n", a.dir)
	return ExitOK
}

// chooseFormat shows the quality menu and resolves the selection
func (a *App) chooseFormat(info *model.VideoInfo, preset *int) (*model.Descriptor, int, bool) {
	qualities := format.ListQualities(info.Formats, model.ContainerMP4)
	if len(qualities) == 0 {
		a.println(MsgNoQualities)
		return nil, ExitFailure, false
	}

	a.println("\nAvailable qualities:")
	for i, q := range qualities {
		a.printf("  %d. %dp\n", i+1, q)
	}
	a.println(BestAvailable)

	var choice int
	if preset != nil {
		choice = *preset
	} else {
		choice = parseChoice(a.prompt(PromptQuality))
	}

	result := format.Choose(info.Formats, choice, qualities)
	if result.Invalid {
		a.println(MsgInvalid)
	}
	if result.Widened {
		a.println(MsgWidened)
	}
	if result.Descriptor == nil {
		a.println(MsgNoFormat)
		return nil, ExitFailure, false
	}
	return result.Descriptor, ExitOK, true
}

// parseChoice converts a menu answer to a number; anything non-numeric is 0
func parseChoice(answer string) int {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0
	}
	return n
}

func (a *App) prompt(question string) string {
	fmt.Fprint(a.out, question)
	line, err := a.in.ReadString('\n')
	if err != nil && err != io.EOF {
		log.WithError(err).Debug("failed to read answer")
	}
	return strings.TrimSpace(line)
}

func (a *App) println(msg string) {
	fmt.Fprintln(a.out, msg)
}

func (a *App) printf(layout string, args ...any) {
	fmt.Fprintf(a.out, layout, args...)
}
