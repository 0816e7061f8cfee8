// Package pps watches a pulse-per-second GPIO line from the receiver
// and keeps simple pulse statistics for the dashboard.
package pps

import (
	"context"
	"errors"
	"sync"
	"time"
)

type Config struct {
	Enable bool

	// Chip is the GPIO character device, by name or path.
	Chip string
	// Line is the line offset the PPS output is wired to.
	Line int
}

type Snapshot struct {
	Enabled   bool `json:"enabled"`
	Available bool `json:"available"`

	Pulses       uint64  `json:"pulses"`
	LastPulseUTC string  `json:"last_pulse_utc,omitempty"`
	IntervalMs   float64 `json:"interval_ms,omitempty"`

	LastError string `json:"last_error,omitempty"`
}

type Service struct {
	cfg Config

	mu        sync.RWMutex
	snap      Snapshot
	lastPulse time.Time

	lineMu sync.Mutex
	line   ppsLine

	stopOnce sync.Once
	stopCh   chan struct{}
}

func New(cfg Config) *Service {
	if cfg.Chip == "" {
		cfg.Chip = "gpiochip0"
	}
	return &Service{cfg: cfg, stopCh: make(chan struct{})}
}

// Start requests the PPS line and begins counting pulses. It does not
// block; pulse events arrive on the driver's goroutine. Start is a no-op
// when the monitor is disabled.
func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return errors.New("pps: service is nil")
	}
	if !s.cfg.Enable {
		return nil
	}

	s.setState(func(sn *Snapshot) { sn.Enabled = true })

	line, err := openLineFn(s.cfg.Chip, s.cfg.Line, s.onPulse)
	if err != nil {
		s.setState(func(sn *Snapshot) { sn.LastError = err.Error() })
		return err
	}
	s.lineMu.Lock()
	s.line = line
	s.lineMu.Unlock()

	s.setState(func(sn *Snapshot) { sn.Available = true })

	go func() {
		select {
		case <-ctx.Done():
		case <-s.stopCh:
		}
		s.Close()
	}()
	return nil
}

// Close releases the GPIO line. Safe to call more than once.
func (s *Service) Close() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})

	s.lineMu.Lock()
	line := s.line
	s.line = nil
	s.lineMu.Unlock()
	if line != nil {
		_ = line.Close()
	}
}

func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Service) onPulse(ts time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Pulses++
	if !s.lastPulse.IsZero() {
		s.snap.IntervalMs = float64(ts.Sub(s.lastPulse).Microseconds()) / 1000.0
	}
	s.lastPulse = ts
	s.snap.LastPulseUTC = ts.UTC().Format(time.RFC3339Nano)
}

func (s *Service) setState(update func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.snap)
}
