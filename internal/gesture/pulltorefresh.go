// Package gesture implements the pull-to-refresh recognizer as a finite
// state machine driven by discrete touch events, independent of any event
// dispatch mechanism. Touch-only; no keyboard or mouse equivalent.
package gesture

import (
	"math"
	"sync"
)

// State enumerates the recognizer's phases.
type State int

const (
	// Idle means no gesture is in progress.
	Idle State = iota
	// Tracking means a touch started at the top of the region and vertical
	// movement is being measured.
	Tracking
	// Refreshing means the threshold was crossed and the refresh callback
	// is running.
	Refreshing
)

// Defaults, matching the feed list's refresh indicator.
const (
	DefaultThreshold  = 80.0
	DefaultResistance = 2.5
)

// Config configures a recognizer. Zero Threshold or Resistance fall back to
// the defaults.
type Config struct {
	Threshold  float64
	Resistance float64
	// OnRefresh runs when a released pull reaches the threshold. The
	// indicator holds at the threshold distance until it returns.
	OnRefresh func()
}

// PullToRefresh detects a downward drag from the top of a scrollable region
// and triggers a refresh callback.
type PullToRefresh struct {
	mu       sync.Mutex
	cfg      Config
	state    State
	startY   float64
	distance float64
}

// New creates a recognizer in the Idle state.
func New(cfg Config) *PullToRefresh {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Resistance <= 0 {
		cfg.Resistance = DefaultResistance
	}
	return &PullToRefresh{cfg: cfg}
}

// TouchStart arms tracking, but only when the region is scrolled to the
// top. Ignored while a refresh is in progress.
func (p *PullToRefresh) TouchStart(y, scrollTop float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Idle || scrollTop > 0 {
		return
	}
	p.state = Tracking
	p.startY = y
}

// TouchMove updates the damped pull distance
// min(delta/resistance, 1.5*threshold). Ignored unless tracking.
func (p *PullToRefresh) TouchMove(y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Tracking {
		return
	}
	delta := y - p.startY
	if delta <= 0 {
		p.distance = 0
		return
	}
	p.distance = math.Min(delta/p.cfg.Resistance, p.cfg.Threshold*1.5)
}

// TouchEnd resolves the gesture. At or past the threshold the indicator
// holds at the threshold distance while the refresh callback runs, then
// everything resets. Short of the threshold it snaps back without
// refreshing.
func (p *PullToRefresh) TouchEnd() {
	p.mu.Lock()
	if p.state != Tracking {
		p.mu.Unlock()
		return
	}
	if p.distance < p.cfg.Threshold {
		p.state = Idle
		p.distance = 0
		p.mu.Unlock()
		return
	}
	p.state = Refreshing
	p.distance = p.cfg.Threshold
	cb := p.cfg.OnRefresh
	p.mu.Unlock()

	if cb != nil {
		cb()
	}

	p.mu.Lock()
	p.state = Idle
	p.distance = 0
	p.mu.Unlock()
}

// State returns the recognizer's current phase.
func (p *PullToRefresh) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// PullDistance returns the current damped pull distance.
func (p *PullToRefresh) PullDistance() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.distance
}
