package web

import (
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ytget/ytgrab/internal/download"
	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/progress"
)

// Display labels of the two download types
const (
	TypeVideo = "Video"
	TypeAudio = "MP3 Audio"
)

// ProcessedLayout formats the processed timestamp in the metadata panel
const ProcessedLayout = "2006-01-02 15:04:05"

// NotAvailable is shown for missing metadata fields
const NotAvailable = "N/A"

// Job is one dashboard submission. The request is owned by the orchestrator
// while it runs; every field read by handlers is copied here under mu.
type Job struct {
	ID      string
	Request *model.Request
	Type    string
	Quality string
	Created time.Time

	progress progress.SnapshotStore

	mu      sync.RWMutex
	state   model.State
	warning string
	err     string
	result  *model.FileResult
	served  bool
	evicted bool
}

func newJob(req *model.Request, quality string) *Job {
	typ := TypeVideo
	if req.Mode == model.ModeAudio {
		typ = TypeAudio
	}
	return &Job{
		ID:      req.ID,
		Request: req,
		Type:    typ,
		Quality: quality,
		Created: time.Now(),
		state:   model.StateIdle,
	}
}

func (j *Job) hooks() download.Hooks {
	return download.Hooks{
		OnState: func(req *model.Request) {
			j.mu.Lock()
			j.state = req.State
			j.mu.Unlock()
		},
		OnWarning: func(msg string) {
			j.mu.Lock()
			j.warning = msg
			j.mu.Unlock()
		},
	}
}

func (j *Job) fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = model.StateFailed
	j.err = err.Error()
}

func (j *Job) complete(result *model.FileResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = model.StateCompleted
	j.result = result
}

// takeResult hands the finished file to exactly one caller
func (j *Job) takeResult() (*model.FileResult, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result == nil || j.served {
		return nil, false
	}
	j.served = true
	return j.result, true
}

// markEvicted records the cache eviction and reports whether the job is
// finished, in which case its files can be removed right away.
func (j *Job) markEvicted() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.evicted = true
	return !j.state.IsActive() && j.state != model.StateIdle
}

func (j *Job) isEvicted() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.evicted
}

// Status is the JSON view polled by the job page
type Status struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Quality  string    `json:"quality"`
	State    string    `json:"state"`
	Active   bool      `json:"active"`
	Finished bool      `json:"finished"`
	Progress float64   `json:"progress"`
	Percent  string    `json:"percent"`
	Speed    string    `json:"speed"`
	ETA      string    `json:"eta"`
	Elapsed  string    `json:"elapsed"`
	Done     bool      `json:"transfer_done"`
	Warning  string    `json:"warning,omitempty"`
	Tips     []string  `json:"tips,omitempty"`
	Error    string    `json:"error,omitempty"`
	Served   bool      `json:"served"`
	File     *FileInfo `json:"file,omitempty"`
}

// FileInfo is the metadata panel of a finished job
type FileInfo struct {
	Name           string            `json:"name"`
	Type           string            `json:"type"`
	Size           string            `json:"size"`
	SizeHuman      string            `json:"size_human"`
	Processed      string            `json:"processed"`
	Title          string            `json:"title"`
	DisplayTitle   string            `json:"display_title"`
	Duration       string            `json:"duration"`
	Views          string            `json:"views"`
	Uploader       string            `json:"uploader"`
	Thumbnail      string            `json:"thumbnail,omitempty"`
	ThumbnailWidth int               `json:"thumbnail_width"`
	Tags           map[string]string `json:"tags,omitempty"`
	ButtonLabel    string            `json:"button_label"`
	DownloadURL    string            `json:"download_url"`
}

// Status returns a consistent snapshot of the job
func (j *Job) Status() Status {
	snap := j.progress.Latest()

	j.mu.RLock()
	defer j.mu.RUnlock()

	st := Status{
		ID:       j.ID,
		Type:     j.Type,
		Quality:  j.Quality,
		State:    j.state.String(),
		Active:   j.state.IsActive(),
		Finished: j.state.IsFinished(),
		Progress: snap.Fraction,
		Percent:  snap.PercentStr,
		Speed:    snap.SpeedStr,
		ETA:      snap.ETAStr,
		Elapsed:  snap.ElapsedString(),
		Done:     snap.Done,
		Warning:  j.warning,
		Error:    j.err,
		Served:   j.served,
	}
	if st.Percent == "" && snap.Started {
		st.Percent = fmt.Sprintf("%.1f%%", snap.Fraction*100)
	}
	if j.warning != "" {
		st.Tips = download.LongVideoTips
	}
	if j.result != nil {
		st.File = j.fileInfo(j.result)
	}
	return st
}

func (j *Job) fileInfo(r *model.FileResult) *FileInfo {
	info := &FileInfo{
		Name:           r.Name,
		Type:           j.Type,
		Size:           fmt.Sprintf("%.2f MB", r.SizeMB()),
		SizeHuman:      humanize.IBytes(uint64(r.Size)),
		Processed:      r.ProcessedAt.Format(ProcessedLayout),
		Title:          orNA(r.Title),
		DisplayTitle:   r.GetDisplayTitle(j.Request.URL),
		Duration:       r.GetDurationString(),
		Views:          NotAvailable,
		Uploader:       orNA(r.Uploader),
		Thumbnail:      r.Thumbnail.URL,
		ThumbnailWidth: r.Thumbnail.Width,
		Tags:           r.Tags,
		ButtonLabel:    fmt.Sprintf("Download %s (%.1fMB)", j.Type, r.SizeMB()),
		DownloadURL:    fmt.Sprintf("/jobs/%s/file", j.ID),
	}
	if r.ViewCount > 0 {
		info.Views = humanize.Comma(r.ViewCount)
	}
	return info
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
