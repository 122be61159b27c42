// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package timestep converts elapsed wall-clock time into a whole number of
// fixed-size simulation steps.
//
// Time is kept as integer nanoseconds, so the remainder carried between calls
// is exact: over any sequence of calls, steps*interval plus dropped
// steps*interval plus the leftover equals the total elapsed time.
package timestep

import "time"

// Default timings.
const (
	// DefaultInterval is one step at 60 Hz.
	DefaultInterval = time.Second / 60

	// DefaultMaxSteps bounds catch-up after a stall.
	DefaultMaxSteps = 5
)

// Accumulator is a fixed timestep accumulator with a catch-up clamp.
//
// When more than MaxSteps whole intervals are due in a single call, only
// MaxSteps are returned and the surplus whole intervals are discarded: the
// leftover keeps just the fraction of an interval. Discarded steps are
// counted by Dropped and never replayed.
//
// Accumulator is NOT safe for concurrent use; it belongs to the render worker.
type Accumulator struct {
	interval time.Duration
	maxSteps int

	last     time.Time
	leftover time.Duration
	dropped  uint64
	started  bool
}

// New creates an Accumulator. A non-positive interval selects DefaultInterval,
// a non-positive maxSteps selects DefaultMaxSteps.
func New(interval time.Duration, maxSteps int) *Accumulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Accumulator{
		interval: interval,
		maxSteps: maxSteps,
	}
}

// Reset clears the leftover and starts measuring from now.
// Time before now never produces steps.
func (a *Accumulator) Reset(now time.Time) {
	a.last = now
	a.leftover = 0
	a.started = true
}

// Steps returns how many whole intervals are due at now and consumes them.
//
// If Reset was never called, the first call only records now and returns 0.
// A clock reading earlier than the previous one counts as zero elapsed time.
func (a *Accumulator) Steps(now time.Time) int {
	if !a.started {
		a.Reset(now)
		return 0
	}

	elapsed := now.Sub(a.last)
	if elapsed > 0 {
		a.last = now
		a.leftover += elapsed
	}

	n := a.leftover / a.interval
	a.leftover -= n * a.interval

	if n > time.Duration(a.maxSteps) {
		a.dropped += uint64(n) - uint64(a.maxSteps)
		n = time.Duration(a.maxSteps)
	}
	return int(n)
}

// Interval returns the fixed step size.
func (a *Accumulator) Interval() time.Duration {
	return a.interval
}

// MaxSteps returns the catch-up clamp.
func (a *Accumulator) MaxSteps() int {
	return a.maxSteps
}

// Leftover returns the time carried to the next call, always < Interval.
func (a *Accumulator) Leftover() time.Duration {
	return a.leftover
}

// Alpha returns Leftover as a fraction of Interval in [0, 1).
// Renderers that interpolate between steps use it as the blend factor.
func (a *Accumulator) Alpha() float64 {
	return float64(a.leftover) / float64(a.interval)
}

// Dropped returns the total number of steps discarded by the clamp.
func (a *Accumulator) Dropped() uint64 {
	return a.dropped
}
