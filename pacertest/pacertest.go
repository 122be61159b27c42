// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pacertest provides test doubles for code built on pacer:
// a Recorder renderer that timestamps every call and a manually advanced
// Clock.
package pacertest

import (
	"errors"
	"sync"
	"time"

	"github.com/gogpu/pacer"
)

// Call is one recorded Renderer.Step invocation.
type Call struct {
	Delta    time.Duration
	X, Y     float32
	Touching bool
	At       time.Time
}

// Recorder is a pacer.Renderer that records every call.
//
// It also checks the single-threaded contract: if two calls overlap, the
// overlap is counted and reported by Overlaps.
type Recorder struct {
	mu        sync.Mutex
	calls     []Call
	inits     []pacer.Surface
	shutdowns int
	active    int
	overlaps  int

	// StepErr, when set, is returned by Step once the recorder has seen
	// FailAfter successful steps.
	StepErr   error
	FailAfter int

	// InitErr is returned by Init when set.
	InitErr error

	// StepDelay makes every Step block for the given duration.
	StepDelay time.Duration

	// OnStep, if set, runs inside every Step before it returns.
	OnStep func(Call)
}

var _ pacer.Renderer = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) enter() {
	r.mu.Lock()
	r.active++
	if r.active > 1 {
		r.overlaps++
	}
	r.mu.Unlock()
}

func (r *Recorder) leave() {
	r.mu.Lock()
	r.active--
	r.mu.Unlock()
}

// Init records the surface.
func (r *Recorder) Init(s pacer.Surface) error {
	r.enter()
	defer r.leave()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.InitErr != nil {
		return r.InitErr
	}
	r.inits = append(r.inits, s)
	return nil
}

// Step records the call with the current wall-clock time.
func (r *Recorder) Step(delta time.Duration, x, y float32, touching bool) error {
	r.enter()
	defer r.leave()

	if r.StepDelay > 0 {
		time.Sleep(r.StepDelay)
	}

	c := Call{Delta: delta, X: x, Y: y, Touching: touching, At: time.Now()}

	r.mu.Lock()
	if r.StepErr != nil && len(r.calls) >= r.FailAfter {
		err := r.StepErr
		r.mu.Unlock()
		return err
	}
	r.calls = append(r.calls, c)
	onStep := r.OnStep
	r.mu.Unlock()

	if onStep != nil {
		onStep(c)
	}
	return nil
}

// Shutdown counts the call.
func (r *Recorder) Shutdown() error {
	r.enter()
	defer r.leave()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdowns++
	return nil
}

// Calls returns a copy of the recorded steps.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// StepCount returns the number of recorded steps.
func (r *Recorder) StepCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Inits returns the surfaces passed to Init.
func (r *Recorder) Inits() []pacer.Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pacer.Surface(nil), r.inits...)
}

// Shutdowns returns the number of Shutdown calls.
func (r *Recorder) Shutdowns() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shutdowns
}

// Overlaps returns how many calls started while another was in progress.
func (r *Recorder) Overlaps() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlaps
}

// WaitSteps blocks until at least n steps are recorded or timeout elapses.
// It reports whether n was reached.
func (r *Recorder) WaitSteps(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if r.StepCount() >= n {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return r.StepCount() >= n
}

// ErrInjected is a ready-made renderer failure for tests.
var ErrInjected = errors.New("pacertest: injected renderer failure")

// Clock is a pacer.Clock that only moves when told to.
//
// Thread safety: Clock is safe for concurrent use.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

var _ pacer.Clock = (*Clock)(nil)

// NewClock returns a Clock reading start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current reading.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
