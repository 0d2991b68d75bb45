// Package web implements the browser dashboard.
//
// Every submission becomes an independent job: the orchestrator runs it in
// the background inside its own temporary directory, the job page polls its
// status, and the finished file is deleted as soon as it has been served or
// the job expires.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/ytget/ytgrab/internal/config"
	"github.com/ytget/ytgrab/internal/download"
	"github.com/ytget/ytgrab/internal/format"
	"github.com/ytget/ytgrab/internal/model"
)

// Form values
const (
	FormURL     = "url"
	FormType    = "type"
	FormQuality = "quality"
	FormBitrate = "bitrate"
	TypeAudioID = "audio"
)

// User-facing messages
const (
	MsgEmptyURL    = "Please enter a valid YouTube URL"
	MsgRateLimited = "Too many downloads started, please wait a moment and try again"
	MsgJobNotFound = "Job not found or expired"
	MsgFileMissing = "File not available"
)

//go:embed templates/*.html
var templateFS embed.FS

// Version is shown in the page footer
var Version = "dev"

// Server is the dashboard HTTP handler
type Server struct {
	ctx        context.Context
	downloader download.Downloader
	jobs       *JobStore
	limiter    *rate.Limiter
	slots      *semaphore.Weighted
	tmpl       *template.Template
	wg         sync.WaitGroup
}

// NewServer creates the dashboard. Jobs run under ctx; cancelling it aborts
// jobs still waiting for a slot.
func NewServer(ctx context.Context, downloader download.Downloader, settings *config.Settings) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		ctx:        ctx,
		downloader: downloader,
		limiter:    rate.NewLimiter(rate.Limit(settings.SubmitRate), settings.SubmitBurst),
		slots:      semaphore.NewWeighted(int64(settings.MaxJobs)),
		tmpl:       tmpl,
	}
	s.jobs = NewJobStore(settings.JobTTL, s.evict)
	return s, nil
}

// Handler returns the routes of the dashboard
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /jobs", s.handleSubmit)
	mux.HandleFunc("GET /jobs/{id}", s.handleJob)
	mux.HandleFunc("GET /jobs/{id}/status", s.handleStatus)
	mux.HandleFunc("GET /jobs/{id}/file", s.handleFile)
	return logRequests(mux)
}

// Wait blocks until every background job has returned
func (s *Server) Wait() {
	s.wg.Wait()
}

// Close waits for running jobs and removes the files of every stored job
func (s *Server) Close() {
	s.Wait()
	s.jobs.Flush()
}

type indexPage struct {
	Title             string
	Year              int
	Version           string
	URL               string
	Type              string
	Warning           string
	Error             string
	VideoPresets      []format.VideoPreset
	AudioPresets      []string
	AudioSizeEstimate string
}

type jobPage struct {
	Title   string
	Year    int
	Version string
	Job     *Job
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, http.StatusOK, indexPage{})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderIndex(w, http.StatusBadRequest, indexPage{Error: err.Error()})
		return
	}

	url := strings.TrimSpace(r.PostForm.Get(FormURL))
	typ := r.PostForm.Get(FormType)
	page := indexPage{URL: url, Type: typ}

	if url == "" {
		page.Warning = MsgEmptyURL
		s.renderIndex(w, http.StatusBadRequest, page)
		return
	}

	if !s.limiter.Allow() {
		page.Warning = MsgRateLimited
		s.renderIndex(w, http.StatusTooManyRequests, page)
		return
	}

	var (
		req     *model.Request
		quality string
		err     error
	)
	if typ == TypeAudioID {
		quality = r.PostForm.Get(FormBitrate)
		req, err = download.NewAudioRequest(url, quality)
	} else {
		quality = r.PostForm.Get(FormQuality)
		if quality == "" {
			quality = format.VideoPresets[0].Label
		}
		req, err = download.NewVideoPresetRequest(url, quality)
	}
	if err != nil {
		page.Error = err.Error()
		s.renderIndex(w, http.StatusBadRequest, page)
		return
	}

	job := newJob(req, quality)
	s.jobs.Add(job)

	s.wg.Add(1)
	go s.run(job)

	log.WithFields(log.Fields{
		"job":     job.ID,
		"url":     url,
		"type":    job.Type,
		"quality": quality,
		"stored":  s.jobs.Count(),
	}).Info("job submitted")
	http.Redirect(w, r, "/jobs/"+job.ID, http.StatusSeeOther)
}

// run executes one job once a slot is free
func (s *Server) run(job *Job) {
	defer s.wg.Done()
	logger := log.WithField("job", job.ID)

	if err := s.slots.Acquire(s.ctx, 1); err != nil {
		job.fail(fmt.Errorf("job cancelled: %w", err))
		return
	}
	defer s.slots.Release(1)

	result, err := s.downloader.Download(s.ctx, job.Request, &job.progress, job.hooks())
	if err != nil {
		logger.WithError(err).Warn("job failed")
		job.fail(err)
	} else {
		logger.WithFields(log.Fields{"file": result.Name, "size": result.Size}).Info("job completed")
		job.complete(result)
	}

	// The job expired while running; nobody can retrieve the file anymore
	if job.isEvicted() {
		s.downloader.Cleanup(job.Request)
	}
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, MsgJobNotFound, http.StatusNotFound)
		return
	}
	s.render(w, http.StatusOK, "job", jobPage{
		Title:   "Download " + job.Type,
		Year:    time.Now().Year(),
		Version: Version,
		Job:     job,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, MsgJobNotFound, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(job.Status()); err != nil {
		log.WithError(err).Debug("failed to write status")
	}
}

// handleFile serves the finished file once, then removes it whatever the
// outcome of the transfer to the browser
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, MsgJobNotFound, http.StatusNotFound)
		return
	}

	result, ok := job.takeResult()
	if !ok {
		http.Error(w, MsgFileMissing, http.StatusGone)
		return
	}
	defer s.downloader.Cleanup(job.Request)

	f, err := os.Open(result.Path)
	if err != nil {
		log.WithError(err).WithField("job", job.ID).Error("failed to open result")
		http.Error(w, MsgFileMissing, http.StatusGone)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", contentDisposition(result.Name))
	http.ServeContent(w, r, result.Name, result.ProcessedAt, f)

	log.WithFields(log.Fields{"job": job.ID, "file": result.Name}).Info("file served")
}

func (s *Server) evict(job *Job) {
	if job.markEvicted() {
		s.downloader.Cleanup(job.Request)
	}
	log.WithField("job", job.ID).Debug("job expired")
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, page indexPage) {
	page.Title = "YouTube Downloader"
	page.Year = time.Now().Year()
	page.Version = Version
	page.VideoPresets = format.VideoPresets
	page.AudioPresets = format.AudioPresets
	page.AudioSizeEstimate = format.AudioSizeEstimate
	s.render(w, status, "index", page)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.WithError(err).WithField("template", name).Error("failed to render page")
	}
}

// contentDisposition builds an attachment header; non-ASCII names use the
// RFC 2231 extended form
func contentDisposition(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}

// logRequests logs every request at debug level
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("request")
	})
}
