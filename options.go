// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacer

import (
	"time"

	"github.com/gogpu/pacer/timestep"
)

// Default loop timings.
const (
	// DefaultYield is how long the worker sleeps between iterations.
	DefaultYield = 8 * time.Millisecond

	// DefaultStopTimeout bounds how long Stop waits for the worker.
	DefaultStopTimeout = 2 * time.Second
)

// Clock supplies the time samples the loop feeds to its accumulator.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the monotonic wall clock used by default.
func SystemClock() Clock { return systemClock{} }

// LoopOption configures a Loop during creation.
//
// Example:
//
//	loop := pacer.NewLoop(r, state,
//	    pacer.WithInterval(time.Second/120),
//	    pacer.WithMaxSteps(8),
//	)
type LoopOption func(*loopOptions)

type loopOptions struct {
	interval     time.Duration
	maxSteps     int
	yield        time.Duration
	stopTimeout  time.Duration
	clock        Clock
	onError      func(error)
	lockOSThread bool
}

func defaultLoopOptions() loopOptions {
	return loopOptions{
		interval:     timestep.DefaultInterval,
		maxSteps:     timestep.DefaultMaxSteps,
		yield:        DefaultYield,
		stopTimeout:  DefaultStopTimeout,
		clock:        systemClock{},
		lockOSThread: true,
	}
}

// WithInterval sets the fixed step size passed to Renderer.Step.
// Non-positive values keep the 60 Hz default.
func WithInterval(d time.Duration) LoopOption {
	return func(o *loopOptions) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithRate sets the fixed step size from a frequency in Hz.
func WithRate(hz float64) LoopOption {
	return func(o *loopOptions) {
		if hz > 0 {
			o.interval = time.Duration(float64(time.Second) / hz)
		}
	}
}

// WithMaxSteps sets the catch-up clamp: the most steps rendered per
// iteration. Surplus due steps are dropped, not queued.
func WithMaxSteps(n int) LoopOption {
	return func(o *loopOptions) {
		if n > 0 {
			o.maxSteps = n
		}
	}
}

// WithYield sets the sleep between worker iterations.
// Zero still yields the goroutine once per iteration.
func WithYield(d time.Duration) LoopOption {
	return func(o *loopOptions) {
		if d >= 0 {
			o.yield = d
		}
	}
}

// WithStopTimeout bounds how long Stop waits for the worker to exit.
func WithStopTimeout(d time.Duration) LoopOption {
	return func(o *loopOptions) {
		if d > 0 {
			o.stopTimeout = d
		}
	}
}

// WithClock replaces the time source. Tests use a manual clock to control
// exactly how many steps are due.
func WithClock(c Clock) LoopOption {
	return func(o *loopOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithErrorHandler registers fn to receive the error of a renderer failure
// that stopped the loop. fn runs on the worker goroutine after it has
// released the loop, so it may call Start or Stop.
func WithErrorHandler(fn func(error)) LoopOption {
	return func(o *loopOptions) {
		o.onError = fn
	}
}

// WithLockOSThread controls whether the worker locks itself to an OS thread.
// Enabled by default for native renderers with thread affinity.
//
// The lock covers Renderer.Step only. Renderer.Init and Renderer.Shutdown run
// on the goroutine that calls the Host lifecycle methods, or on a timer
// goroutine when WithInitDelay is set. A renderer whose init and shutdown
// must share the render thread has to marshal that work itself.
func WithLockOSThread(lock bool) LoopOption {
	return func(o *loopOptions) {
		o.lockOSThread = lock
	}
}

// HostOption configures a Host during creation.
type HostOption func(*hostOptions)

type hostOptions struct {
	initDelay time.Duration
	loop      []LoopOption
}

// WithInitDelay defers renderer initialization by d after the surface
// becomes ready. Some drivers need the surface to settle first.
func WithInitDelay(d time.Duration) HostOption {
	return func(o *hostOptions) {
		if d > 0 {
			o.initDelay = d
		}
	}
}

// WithLoopOptions passes options to the Loop the Host creates.
func WithLoopOptions(opts ...LoopOption) HostOption {
	return func(o *hostOptions) {
		o.loop = append(o.loop, opts...)
	}
}
