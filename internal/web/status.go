package web

import (
	"sync/atomic"
	"time"

	"gnssview/internal/plot"
	"gnssview/internal/pps"
	"gnssview/internal/stream"
)

// Controller exposes the running pipeline to the HTTP handlers.
// Implementations must be safe to call concurrently.
type Controller interface {
	ReaderSnapshot() stream.Snapshot
	PlotInfo() []plot.Info
	PlotSnapshots() map[string]any
	Wait() time.Duration
	PPSSnapshot() pps.Snapshot
	// Rewind requests a replay restart. Returns stream.ErrNotFile when
	// the input is not a file.
	Rewind() error
}

type Status struct {
	startUnixNano int64
	captureDir    string
	ctl           Controller
}

// NewStatus builds the status source. captureDir, when non-empty, names
// the directory whose filesystem the system snapshot measures.
func NewStatus(ctl Controller, captureDir string) *Status {
	s := &Status{captureDir: captureDir, ctl: ctl}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	return s
}

func (s *Status) Uptime(nowUTC time.Time) time.Duration {
	if s == nil {
		return 0
	}
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()
	return nowUTC.Sub(start)
}

type StatusSnapshot struct {
	Service   string          `json:"service"`
	NowUTC    string          `json:"now_utc"`
	UptimeSec int64           `json:"uptime_sec"`
	Wait      string          `json:"wait"`
	Reader    stream.Snapshot `json:"reader"`
	Plots     []plot.Info     `json:"plots"`
	PPS       pps.Snapshot    `json:"pps"`

	System *SystemSnapshot `json:"system,omitempty"`
}

func (s *Status) Snapshot(nowUTC time.Time) StatusSnapshot {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	snap := StatusSnapshot{
		Service: "gnssview",
		NowUTC:  nowUTC.UTC().Format(time.RFC3339Nano),
	}
	if s == nil {
		snap.System = snapshotSystem("")
		return snap
	}
	snap.System = snapshotSystem(s.captureDir)
	snap.UptimeSec = int64(s.Uptime(nowUTC).Seconds())
	if s.ctl != nil {
		snap.Wait = s.ctl.Wait().String()
		snap.Reader = s.ctl.ReaderSnapshot()
		snap.Plots = s.ctl.PlotInfo()
		snap.PPS = s.ctl.PPSSnapshot()
	}
	return snap
}
