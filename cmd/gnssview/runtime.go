package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"gnssview/internal/config"
	"gnssview/internal/plot"
	"gnssview/internal/pps"
	"gnssview/internal/stream"
	"gnssview/internal/ubx"
	"gnssview/internal/web"
)

// runtime owns the streaming pipeline: it is the reader's Consumer and
// the web package's Controller, and applies live settings changes.
type runtime struct {
	registry *plot.Registry
	ppsSvc   *pps.Service
	events   *web.Broadcaster
	reader   *stream.Reader

	waitNanos atomic.Int64

	capture *os.File

	mu      sync.Mutex
	cfg     config.Config
	reading bool
}

func newRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	c := cfg
	if err := config.DefaultAndValidate(&c); err != nil {
		return nil, err
	}

	rt := &runtime{
		registry: plot.NewRegistry(plot.NewPositionMap(), plot.NewSignalLevels()),
		events:   web.NewBroadcaster(),
		cfg:      c,
	}
	if err := rt.registry.SetEnabled(c.Plots.Enabled); err != nil {
		return nil, err
	}
	rt.waitNanos.Store(int64(c.Wait.Std()))

	rt.reader = stream.NewReader(c.Input, rt)

	if c.Capture.Enable {
		f, err := os.OpenFile(c.Capture.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open capture file: %w", err)
		}
		rt.capture = f
		rt.reader.Capture = f
		log.Printf("capturing raw device bytes to %s", c.Capture.Path)
	}

	rt.ppsSvc = pps.New(pps.Config{
		Enable: c.PPS.Enable,
		Chip:   c.PPS.Chip,
		Line:   c.PPS.Line,
	})
	if err := rt.ppsSvc.Start(ctx); err != nil {
		// Keep gnssview running even if PPS fails to init; the status
		// page reports the error.
		log.Printf("pps init failed: %v", err)
	}

	return rt, nil
}

func (rt *runtime) Close() {
	if rt == nil {
		return
	}
	if rt.ppsSvc != nil {
		rt.ppsSvc.Close()
	}
	if rt.capture != nil {
		_ = rt.capture.Sync()
		_ = rt.capture.Close()
		rt.capture = nil
	}
}

// startReader launches the decode loop unless one is already running.
// File sources return at EOF; device sources retry forever.
func (rt *runtime) startReader() {
	rt.mu.Lock()
	if rt.reading {
		rt.mu.Unlock()
		return
	}
	rt.reading = true
	path := rt.cfg.Input
	rt.mu.Unlock()

	go func() {
		if err := rt.reader.Read(false); err != nil {
			log.Printf("reader stopped: %v", err)
		} else {
			log.Printf("input finished path=%s", path)
		}
		rt.mu.Lock()
		rt.reading = false
		rt.mu.Unlock()
	}()
}

// Process implements stream.Consumer. It runs on the read goroutine, so
// everything here must stay non-blocking.
func (rt *runtime) Process(msg *ubx.Message, identity string) {
	rt.registry.Dispatch(msg, identity)
	if identity != stream.EpochIdentity {
		return
	}
	rt.events.Publish(web.Event{
		NowUTC: time.Now().UTC().Format(time.RFC3339Nano),
		Reader: rt.reader.Snapshot(),
		Plots:  rt.registry.Snapshots(),
	})
}

func (rt *runtime) RequiredTypes() map[string]struct{} {
	return rt.registry.RequiredTypes()
}

func (rt *runtime) WaitTime() time.Duration {
	return time.Duration(rt.waitNanos.Load())
}

func (rt *runtime) ReaderSnapshot() stream.Snapshot {
	return rt.reader.Snapshot()
}

func (rt *runtime) PlotInfo() []plot.Info {
	return rt.registry.Available()
}

func (rt *runtime) PlotSnapshots() map[string]any {
	return rt.registry.Snapshots()
}

func (rt *runtime) Wait() time.Duration {
	return time.Duration(rt.waitNanos.Load())
}

func (rt *runtime) PPSSnapshot() pps.Snapshot {
	return rt.ppsSvc.Snapshot()
}

// Rewind restarts file replay from the top. When the previous pass
// already finished, a fresh read loop is launched instead of flagging
// the old one.
func (rt *runtime) Rewind() error {
	snap := rt.reader.Snapshot()
	if snap.Kind != "file" {
		return fmt.Errorf("%w: %s", stream.ErrNotFile, snap.Path)
	}

	rt.mu.Lock()
	running := rt.reading
	rt.mu.Unlock()
	if running {
		rt.reader.RewindFile()
		return nil
	}
	rt.startReader()
	return nil
}

// Apply makes a validated settings change effective. It is the
// SettingsStore callback.
func (rt *runtime) Apply(next config.Config) error {
	if rt == nil {
		return fmt.Errorf("runtime is nil")
	}
	c := next
	if err := config.DefaultAndValidate(&c); err != nil {
		return err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	// Keep live scope intentionally small/safe.
	if c.Input != rt.cfg.Input {
		return fmt.Errorf("input requires restart")
	}
	if c.Web.Listen != rt.cfg.Web.Listen {
		return fmt.Errorf("web.listen requires restart")
	}
	if c.Capture.Enable != rt.cfg.Capture.Enable || c.Capture.Path != rt.cfg.Capture.Path {
		return fmt.Errorf("capture settings require restart")
	}
	if c.PPS.Enable != rt.cfg.PPS.Enable || c.PPS.Chip != rt.cfg.PPS.Chip || c.PPS.Line != rt.cfg.PPS.Line {
		return fmt.Errorf("pps settings require restart")
	}

	if err := rt.registry.SetEnabled(c.Plots.Enabled); err != nil {
		return err
	}
	rt.waitNanos.Store(int64(c.Wait.Std()))
	rt.cfg = c
	return nil
}
