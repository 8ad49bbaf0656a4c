// Package engine provides the fixed-timestep driver that advances a
// simulation in constant-size increments regardless of real frame timing.
// Fixed steps are the precondition for deterministic physics: the same
// input sequence produces byte-identical component state no matter how the
// wall clock jitters between calls.
package engine

import (
	"time"

	"github.com/charmbracelet/log"
)

// Simulation is one tickable world: a full pipeline dispatch followed by
// the maintain point. The loop never calls Tick concurrently.
type Simulation interface {
	Tick()
}

// Default loop timing: 60 simulation steps per second, and no more than
// 100ms of wall time consumed per advance so a stall (debugger pause, OS
// suspend) cannot trigger a spiral of death.
const (
	DefaultTickRate = 60
	DefaultMaxDelta = 100 * time.Millisecond
)

// Config holds loop timing parameters.
type Config struct {
	TickRate int           // Fixed steps per second
	MaxDelta time.Duration // Clamp for a single wall-clock delta
}

// DefaultConfig returns the standard 60Hz configuration.
func DefaultConfig() Config {
	return Config{TickRate: DefaultTickRate, MaxDelta: DefaultMaxDelta}
}

// Loop accumulates wall-clock time and advances the simulation by whole
// fixed steps. The remainder carries over, so simulation speed is
// independent of how often Advance is called.
type Loop struct {
	sim      Simulation
	step     time.Duration
	maxDelta time.Duration
	acc      time.Duration
	last     time.Time
	started  bool
	ticks    uint64
	logger   *log.Logger
}

// NewLoop creates a driver for the given simulation. Zero config fields
// fall back to defaults.
func NewLoop(sim Simulation, cfg Config, logger *log.Logger) *Loop {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.MaxDelta <= 0 {
		cfg.MaxDelta = DefaultMaxDelta
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{
		sim:      sim,
		step:     time.Second / time.Duration(cfg.TickRate),
		maxDelta: cfg.MaxDelta,
		logger:   logger,
	}
}

// Step returns the fixed step size.
func (l *Loop) Step() time.Duration {
	return l.step
}

// StepSeconds returns the fixed step size in seconds, the dt every
// dispatch receives.
func (l *Loop) StepSeconds() float64 {
	return l.step.Seconds()
}

// Advance consumes the wall-clock time since the previous call and runs
// zero or more fixed simulation steps. Returns how many steps ran. The
// first call only arms the clock.
func (l *Loop) Advance(now time.Time) int {
	if !l.started {
		l.started = true
		l.last = now
		return 0
	}
	delta := now.Sub(l.last)
	l.last = now
	if delta < 0 {
		delta = 0
	}
	if delta > l.maxDelta {
		l.logger.Debug("clamping frame delta", "delta", delta, "max", l.maxDelta)
		delta = l.maxDelta
	}
	l.acc += delta

	steps := 0
	for l.acc >= l.step {
		l.sim.Tick()
		l.acc -= l.step
		l.ticks++
		steps++
	}
	return steps
}

// Ticks returns how many fixed steps have run since construction.
func (l *Loop) Ticks() uint64 {
	return l.ticks
}

// Alpha returns the fraction of a step sitting in the carry buffer, in
// [0, 1). Renderers may use it to interpolate between simulation states;
// it never affects simulation correctness.
func (l *Loop) Alpha() float64 {
	return float64(l.acc) / float64(l.step)
}

// Reset drops the accumulated carry and re-arms the clock on the next
// Advance. Use after a pause so the backlog is not replayed.
func (l *Loop) Reset() {
	l.acc = 0
	l.started = false
}

// Run drives the simulation in real time until the quit channel closes.
// Quit is checked only between dispatches; a dispatch always runs to
// completion.
func (l *Loop) Run(quit <-chan struct{}) {
	ticker := time.NewTicker(l.step)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case now := <-ticker.C:
			l.Advance(now)
		}
	}
}
