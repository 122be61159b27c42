// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/pacer/input"
	"github.com/gogpu/pacer/timestep"
)

// LoopState is the lifecycle state of a Loop.
type LoopState int32

const (
	// LoopIdle has no worker.
	LoopIdle LoopState = iota

	// LoopRunning has exactly one worker rendering steps.
	LoopRunning

	// LoopStopping has a worker that was told to exit and has not yet.
	LoopStopping
)

// String returns the state name for debugging.
func (s LoopState) String() string {
	switch s {
	case LoopIdle:
		return "Idle"
	case LoopRunning:
		return "Running"
	case LoopStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// Stats are cumulative counters over the lifetime of a Loop.
type Stats struct {
	// Steps is the number of Renderer.Step calls that returned nil.
	Steps uint64

	// Dropped is the number of due steps discarded by the catch-up clamp.
	Dropped uint64

	// Iterations is the number of worker iterations.
	Iterations uint64
}

// Loop owns the render worker. Each iteration it samples the clock, asks a
// fixed timestep accumulator how many steps are due, and for every due step
// loads the latest pointer snapshot and calls Renderer.Step with the fixed
// interval. Between iterations the worker sleeps for the yield duration.
//
// Start spawns the worker; Stop signals it and joins. At most one worker
// exists at any time. Start on a running loop returns ErrAlreadyRunning and
// leaves the running worker untouched. Stop on an idle loop is a no-op.
//
// Thread safety: Loop is safe for concurrent use. Renderer calls are made
// from the worker goroutine only.
type Loop struct {
	renderer Renderer
	input    *input.State
	opts     loopOptions

	mu    sync.Mutex
	state LoopState
	stop  chan struct{} // closed to ask the current worker to exit
	done  chan struct{} // closed by the current worker on exit
	err   error         // last renderer failure

	steps      atomic.Uint64
	dropped    atomic.Uint64
	iterations atomic.Uint64
}

// NewLoop creates an idle Loop that drives r with snapshots from state.
// A nil state gets a fresh input.State.
func NewLoop(r Renderer, state *input.State, opts ...LoopOption) *Loop {
	o := defaultLoopOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if state == nil {
		state = input.NewState()
	}
	return &Loop{
		renderer: r,
		input:    state,
		opts:     o,
	}
}

// Input returns the shared pointer state read by the worker.
func (l *Loop) Input() *input.State {
	return l.input
}

// Interval returns the fixed step size.
func (l *Loop) Interval() time.Duration {
	return l.opts.interval
}

// State returns the current lifecycle state.
func (l *Loop) State() LoopState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the renderer failure that ended the most recent run, or nil.
// A stop requested with ErrStopLoop is not a failure. Start clears it.
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Stats returns a snapshot of the loop counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Steps:      l.steps.Load(),
		Dropped:    l.dropped.Load(),
		Iterations: l.iterations.Load(),
	}
}

// Start spawns the render worker.
//
// Returns ErrAlreadyRunning if a worker is running, ErrStopping if the
// previous worker has not finished exiting, and ErrNilRenderer if the loop
// has no renderer.
func (l *Loop) Start() error {
	if l.renderer == nil {
		return ErrNilRenderer
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case LoopRunning:
		return ErrAlreadyRunning
	case LoopStopping:
		return ErrStopping
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	l.stop, l.done = stop, done
	l.err = nil
	l.state = LoopRunning

	// The baseline is taken before the worker exists, so clock time that
	// passes while it is being scheduled is still due.
	acc := timestep.New(l.opts.interval, l.opts.maxSteps)
	acc.Reset(l.opts.clock.Now())
	go l.run(acc, stop, done)

	Logger().Info("pacer: loop started",
		"interval", l.opts.interval,
		"maxSteps", l.opts.maxSteps,
		"yield", l.opts.yield)
	return nil
}

// Stop signals the worker to exit and waits until it has.
//
// When Stop returns nil the worker is gone and Renderer.Step will not be
// called again until the next Start. If the worker does not exit within the
// stop timeout, Stop returns ErrStopTimeout; the loop stays in LoopStopping
// and a later Stop waits again. Stop on an idle loop returns nil at once.
// Concurrent Stop calls all wait for the same worker.
func (l *Loop) Stop() error {
	l.mu.Lock()
	switch l.state {
	case LoopIdle:
		l.mu.Unlock()
		return nil
	case LoopRunning:
		l.state = LoopStopping
		close(l.stop)
	}
	done := l.done
	l.mu.Unlock()

	timer := time.NewTimer(l.opts.stopTimeout)
	defer timer.Stop()

	select {
	case <-done:
		Logger().Info("pacer: loop stopped", "steps", l.steps.Load())
		return nil
	case <-timer.C:
		Logger().Warn("pacer: render worker did not exit", "timeout", l.opts.stopTimeout)
		return fmt.Errorf("%w after %v", ErrStopTimeout, l.opts.stopTimeout)
	}
}

// Done returns a channel closed when the current worker exits, or nil when
// the loop is idle. Hosts use it to notice a renderer-initiated stop.
func (l *Loop) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == LoopIdle {
		return nil
	}
	return l.done
}

// run is the worker goroutine.
func (l *Loop) run(acc *timestep.Accumulator, stop, done chan struct{}) {
	if l.opts.lockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	err := l.loop(acc, stop)

	var failure error
	if err != nil && !errors.Is(err, ErrStopLoop) {
		failure = err
		Logger().Error("pacer: renderer failed, loop stopped", "err", err)
	} else if err != nil {
		Logger().Info("pacer: renderer requested stop", "reason", err)
	}

	l.mu.Lock()
	l.err = failure
	l.state = LoopIdle
	l.mu.Unlock()
	close(done)

	if failure != nil && l.opts.onError != nil {
		l.opts.onError(failure)
	}
}

// loop runs iterations until stop is closed or the renderer returns an error.
// acc must already be reset to the start time.
func (l *Loop) loop(acc *timestep.Accumulator, stop <-chan struct{}) error {
	interval := acc.Interval()

	timer := time.NewTimer(l.opts.yield)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return nil
		default:
		}
		l.iterations.Add(1)

		before := acc.Dropped()
		n := acc.Steps(l.opts.clock.Now())
		if d := acc.Dropped() - before; d > 0 {
			l.dropped.Add(d)
			Logger().Warn("pacer: dropped catch-up steps", "dropped", d, "rendered", n)
		}

		for range n {
			select {
			case <-stop:
				return nil
			default:
			}
			ts := l.input.Load()
			Logger().Debug("pacer: step", "delta", interval, "touch", ts)
			if err := l.renderer.Step(interval, ts.X, ts.Y, ts.Touching); err != nil {
				return err
			}
			l.steps.Add(1)
		}

		timer.Reset(l.opts.yield)
		select {
		case <-stop:
			return nil
		case <-timer.C:
		}
	}
}
