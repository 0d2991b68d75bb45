package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/ytgrab/internal/config"
	"github.com/ytget/ytgrab/internal/download"
	"github.com/ytget/ytgrab/internal/logging"
	"github.com/ytget/ytgrab/internal/media"
	"github.com/ytget/ytgrab/internal/platform"
	"github.com/ytget/ytgrab/internal/web"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const shutdownTimeout = 10 * time.Second

type args struct {
	Config string `arg:"-c,--config" help:"path to a ytgrab config file"`
}

func (args) Version() string {
	return "ytgrab-dashboard " + version
}

func main() {
	var a args
	arg.MustParse(&a)

	if err := run(a.Config); err != nil {
		log.WithError(err).Error("dashboard stopped")
		os.Exit(1)
	}
}

func run(configPath string) error {
	loader := config.NewLoader(configPath)
	settings, err := loader.Load()
	if err != nil {
		return err
	}
	if err := logging.Setup(settings.LogLevel, settings.LogFile, settings.LogFileSize); err != nil {
		return err
	}
	log.WithFields(log.Fields{"version": version, "config": loader.ConfigFile()}).Info("ytgrab dashboard starting")

	loader.Watch(func(s *config.Settings) {
		log.SetLevel(logging.ParseLevel(s.LogLevel))
		log.WithField("level", s.LogLevel).Info("config reloaded")
	}, func(err error) {
		log.WithError(err).Warn("ignoring invalid config change")
	})

	tempDir, err := filepath.Abs(settings.TempDir)
	if err != nil {
		return err
	}
	if err := platform.CreateDirectoryIfNotExists(tempDir); err != nil {
		return fmt.Errorf("failed to ensure temp dir: %w", err)
	}

	tools := media.NewService()
	if err := tools.CheckTools(); err != nil {
		log.WithError(err).Warn("media tools missing, merging and audio extraction will fail")
	}

	svc := download.NewService(platform.NewYTDLP(), settings, download.VariantDashboard, tempDir)
	svc.SetInspector(tools)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	web.Version = version
	dashboard, err := web.NewServer(ctx, svc, settings)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              settings.ListenAddr,
		Handler:           dashboard.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", settings.ListenAddr).Info("dashboard listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		dashboard.Close()
		return err
	})

	return g.Wait()
}
