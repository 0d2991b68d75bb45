// Package progress turns engine progress events into display state.
//
// A Reporter is a message handler: the engine calls Handle from whatever
// goroutine it uses, every call is one atomic state update, and the resulting
// Snapshot is pushed to a Renderer. Rendering failures are logged and never
// reach the engine.
package progress

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/ytgrab/internal/model"
)

// Snapshot is the display state after one progress event
type Snapshot struct {
	Started        bool
	Done           bool
	Downloaded     int64
	Total          int64
	TotalEstimated bool
	Fraction       float64 // 0.0 to 1.0, 0 when total is unknown
	PercentStr     string
	SpeedStr       string
	ETAStr         string
	Elapsed        time.Duration
}

// ElapsedString returns the elapsed time as hh:mm:ss
func (s Snapshot) ElapsedString() string {
	sec := int(s.Elapsed.Seconds())
	return time.Unix(int64(sec), 0).UTC().Format("15:04:05")
}

// Renderer displays snapshots. Render must be cheap and must not block.
type Renderer interface {
	Render(s Snapshot)
}

// Reporter tracks one transfer and renders every event it receives
type Reporter struct {
	mu       sync.Mutex
	renderer Renderer
	start    time.Time
	now      func() time.Time
	state    Snapshot
}

// NewReporter creates a reporter; elapsed time is measured from start
func NewReporter(renderer Renderer, start time.Time) *Reporter {
	return &Reporter{
		renderer: renderer,
		start:    start,
		now:      time.Now,
	}
}

// Handle applies one progress event. It is safe for concurrent use and never
// panics.
func (r *Reporter) Handle(ev model.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			logrus.WithField("panic", rec).Warn("progress rendering failed")
		}
	}()

	switch ev.Status {
	case model.ProgressDownloading:
		r.downloading(ev)
	case model.ProgressFinished:
		r.finished()
	default:
		return
	}

	r.state.Elapsed = r.now().Sub(r.start)
	if r.renderer != nil {
		r.renderer.Render(r.state)
	}
}

// Snapshot returns the current display state
func (r *Reporter) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Reporter) downloading(ev model.ProgressEvent) {
	// The engine fetches video and audio streams one after another; a new
	// stream after a finished one starts a fresh indicator.
	if !r.state.Started || r.state.Done {
		r.state = Snapshot{
			Started:        true,
			Total:          ev.TotalBytes,
			TotalEstimated: ev.TotalEstimated,
		}
	}

	if ev.DownloadedBytes > r.state.Downloaded {
		r.state.Downloaded = ev.DownloadedBytes
	}
	if ev.TotalBytes > 0 {
		r.state.Total = ev.TotalBytes
		r.state.TotalEstimated = ev.TotalEstimated
	}
	if r.state.Total > 0 && r.state.Downloaded > r.state.Total {
		r.state.Total = r.state.Downloaded
	}

	if r.state.Total > 0 {
		r.state.Fraction = float64(r.state.Downloaded) / float64(r.state.Total)
	}

	r.state.PercentStr = ev.PercentStr
	r.state.SpeedStr = ev.SpeedStr
	r.state.ETAStr = ev.ETAStr
}

func (r *Reporter) finished() {
	r.state.Started = true
	r.state.Done = true
	r.state.Fraction = 1.0
	if r.state.Total > 0 {
		r.state.Downloaded = r.state.Total
	}
	r.state.PercentStr = "100%"
	r.state.ETAStr = ""
}
