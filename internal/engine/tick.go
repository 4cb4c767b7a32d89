// Package engine provides the wall-clock loop that drives the scenario.
// See design doc Section 5.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Speed multiplier bounds. 1.0 runs one cycle per base interval.
const (
	MinSpeed = 0.25
	MaxSpeed = 4.0
)

// pausePoll is how often a paused loop rechecks its state.
const pausePoll = 100 * time.Millisecond

// Engine drives the scenario forward. Pause, speed, and single-step are
// mutable at runtime; the base interval is fixed at construction.
type Engine struct {
	// OnCycle runs once per cycle. Populate during setup, before Run.
	OnCycle func()

	mu       sync.Mutex
	interval time.Duration
	speed    float64
	paused   bool
	running  bool
	ticks    uint64
}

// New creates an engine at speed 1.0, unpaused.
func New(interval time.Duration) *Engine {
	if interval <= 0 {
		interval = time.Second
	}
	return &Engine{interval: interval, speed: 1.0}
}

// Run starts the loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	slog.Info("engine started", "interval", e.interval, "speed", e.Speed())

	for e.Running() {
		if e.Paused() {
			time.Sleep(pausePoll)
			continue
		}

		start := time.Now()

		e.step()

		// Sleep for the remainder of the cycle interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.interval) / e.Speed())
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("engine stopped", "ticks", e.Ticks())
}

// Stop halts the loop. The current cycle finishes first.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

// Running reports whether the loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Pause suspends cycling without stopping the loop.
func (e *Engine) Pause() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()
}

// Resume lifts a pause.
func (e *Engine) Resume() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()
}

// Paused reports whether cycling is suspended.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// SetSpeed adjusts the cycle rate multiplier within [MinSpeed, MaxSpeed].
func (e *Engine) SetSpeed(speed float64) error {
	if speed < MinSpeed || speed > MaxSpeed {
		return fmt.Errorf("engine: speed %.2f out of range [%.2f, %.2f]", speed, MinSpeed, MaxSpeed)
	}
	e.mu.Lock()
	e.speed = speed
	e.mu.Unlock()
	return nil
}

// Speed returns the current multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// Interval returns the base cycle interval.
func (e *Engine) Interval() time.Duration {
	return e.interval
}

// Ticks returns the number of completed cycles.
func (e *Engine) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// Step advances exactly one cycle, whether or not the loop is paused.
func (e *Engine) Step() {
	e.step()
}

func (e *Engine) step() {
	e.mu.Lock()
	e.ticks++
	e.mu.Unlock()

	if e.OnCycle != nil {
		e.OnCycle()
	}
}
