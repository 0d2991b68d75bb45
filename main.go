package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alexflint/go-arg"
	log "github.com/sirupsen/logrus"

	"github.com/ytget/ytgrab/internal/config"
	"github.com/ytget/ytgrab/internal/console"
	"github.com/ytget/ytgrab/internal/download"
	"github.com/ytget/ytgrab/internal/logging"
	"github.com/ytget/ytgrab/internal/media"
	"github.com/ytget/ytgrab/internal/platform"
	"github.com/ytget/ytgrab/internal/progress"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	console.BuildVersion = version

	var args console.Args
	arg.MustParse(&args)

	settings, err := config.NewLoader(args.Config).Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return console.ExitFailure
	}

	level := settings.LogLevel
	if args.Verbose {
		level = "debug"
	}
	if err := logging.Setup(level, settings.LogFile, settings.LogFileSize); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return console.ExitFailure
	}

	downloadsDir, err := resolveDownloadsDir(args.Dir, settings.DownloadsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to ensure downloads dir: %v\n", err)
		return console.ExitFailure
	}

	tools := media.NewService()
	if err := tools.CheckTools(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	svc := download.NewService(platform.NewYTDLP(), settings, download.VariantConsole, downloadsDir)
	svc.SetInspector(tools)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := console.NewApp(os.Stdin, os.Stdout, svc, progress.NewTerminalRenderer(os.Stdout), downloadsDir)
	code := app.Run(ctx, args)
	log.WithField("code", code).Debug("exiting")
	return code
}

// resolveDownloadsDir makes the downloads directory absolute against the
// working directory and creates it if absent
func resolveDownloadsDir(flagDir, configDir string) (string, error) {
	dir := flagDir
	if dir == "" {
		dir = configDir
	}
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cwd, dir)
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", err
	}
	return dir, nil
}
