// Package plot holds the live visualization state built from decoded
// receiver messages. Each plot declares the message identities it needs
// and folds matching messages into a snapshot the dashboard can render.
package plot

import (
	"fmt"
	"sync"

	"gnssview/internal/ubx"
)

// Plot folds receiver messages into dashboard-ready state.
//
// Implementations are not safe for concurrent use on their own; the
// Registry serializes Update against Snapshot.
type Plot interface {
	// Name is the stable key used in config and the HTTP API.
	Name() string
	// Title is the heading shown on the dashboard.
	Title() string
	// RequiredMessages lists the message identities the plot consumes.
	RequiredMessages() []string
	// Update folds one message into the plot state.
	Update(msg *ubx.Message)
	// Snapshot returns the current state as a JSON-marshalable value.
	Snapshot() any
}

// Info describes one registered plot.
type Info struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Enabled bool   `json:"enabled"`
}

// Registry holds the available plots in presentation order and tracks
// which of them are enabled. Enabling and disabling is cheap and the
// enabled set may change between any two messages.
type Registry struct {
	mu      sync.RWMutex
	plots   []Plot
	byName  map[string]Plot
	enabled map[string]bool
}

// NewRegistry builds a registry over plots in presentation order.
// Every plot starts disabled.
func NewRegistry(plots ...Plot) *Registry {
	r := &Registry{
		byName:  make(map[string]Plot, len(plots)),
		enabled: make(map[string]bool, len(plots)),
	}
	for _, p := range plots {
		if p == nil {
			continue
		}
		if _, dup := r.byName[p.Name()]; dup {
			continue
		}
		r.plots = append(r.plots, p)
		r.byName[p.Name()] = p
	}
	return r
}

// SetEnabled replaces the enabled set. An unknown name rejects the whole
// update and leaves the current set unchanged.
func (r *Registry) SetEnabled(names []string) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := r.byName[name]; !ok {
			return fmt.Errorf("unknown plot %q", name)
		}
		next[name] = true
	}
	r.enabled = next
	return nil
}

// Enabled returns the enabled plot names in presentation order.
func (r *Registry) Enabled() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.enabled))
	for _, p := range r.plots {
		if r.enabled[p.Name()] {
			out = append(out, p.Name())
		}
	}
	return out
}

// Available lists every registered plot and whether it is enabled.
func (r *Registry) Available() []Info {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.plots))
	for _, p := range r.plots {
		out = append(out, Info{
			Name:    p.Name(),
			Title:   p.Title(),
			Enabled: r.enabled[p.Name()],
		})
	}
	return out
}

// RequiredTypes returns the union of message identities the enabled
// plots consume.
func (r *Registry) RequiredTypes() map[string]struct{} {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{})
	for _, p := range r.plots {
		if !r.enabled[p.Name()] {
			continue
		}
		for _, id := range p.RequiredMessages() {
			out[id] = struct{}{}
		}
	}
	return out
}

// Dispatch hands msg to every enabled plot that consumes identity.
func (r *Registry) Dispatch(msg *ubx.Message, identity string) {
	if r == nil || msg == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.plots {
		if !r.enabled[p.Name()] {
			continue
		}
		for _, id := range p.RequiredMessages() {
			if id == identity {
				p.Update(msg)
				break
			}
		}
	}
}

// Snapshots returns name to snapshot for the enabled plots.
func (r *Registry) Snapshots() map[string]any {
	if r == nil {
		return map[string]any{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]any, len(r.enabled))
	for _, p := range r.plots {
		if r.enabled[p.Name()] {
			out[p.Name()] = p.Snapshot()
		}
	}
	return out
}
