// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacer

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/pacer/input"
)

// surfaceRef boxes a Surface so it can live in an atomic.Pointer.
type surfaceRef struct {
	s Surface
}

// Host is the boundary the platform glue calls into. It turns pointer
// callbacks into input snapshots and surface/activity lifecycle callbacks
// into renderer init/shutdown and loop start/stop.
//
// Renderer.Init and Renderer.Shutdown run only while the loop has no worker,
// so they never overlap a Step. Pointer handling never takes the lifecycle
// lock.
//
// Typical wiring:
//
//	host := pacer.NewHost(renderer)
//	host.Attach(window)             // gpucontext.PointerEventSource
//	host.OnSurfaceReady(window)     // surface created
//	host.OnForeground()             // resumed
//	...
//	host.OnBackground()             // paused
//	host.OnSurfaceLost()            // surface destroyed
type Host struct {
	renderer Renderer
	loop     *Loop
	input    *input.State
	opts     hostOptions

	surface atomic.Pointer[surfaceRef]

	mu          sync.Mutex
	initialized bool
	foreground  bool
	pending     *time.Timer // deferred init
	generation  uint64      // bumped on every surface change
}

// NewHost creates a Host driving r. The loop it owns is configured with the
// options passed through WithLoopOptions.
func NewHost(r Renderer, opts ...HostOption) *Host {
	var o hostOptions
	for _, opt := range opts {
		opt(&o)
	}
	state := input.NewState()
	return &Host{
		renderer: r,
		loop:     NewLoop(r, state, o.loop...),
		input:    state,
		opts:     o,
	}
}

// Loop returns the render loop owned by the host.
func (h *Host) Loop() *Loop {
	return h.loop
}

// Input returns the shared pointer state.
func (h *Host) Input() *input.State {
	return h.input
}

// Initialized reports whether the renderer is initialized with a surface.
func (h *Host) Initialized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.initialized
}

// Attach registers the host as the pointer handler of src.
func (h *Host) Attach(src gpucontext.PointerEventSource) {
	if src == nil {
		return
	}
	src.OnPointer(h.HandlePointer)
}

// HandlePointer publishes a W3C pointer event as the current touch state.
//
// Only the primary pointer is tracked. Enter and Leave carry no contact
// change and are ignored. A mouse move with no button held is a hover and
// publishes the position with touching=false.
func (h *Host) HandlePointer(ev gpucontext.PointerEvent) {
	if !ev.IsPrimary {
		return
	}
	switch ev.Type {
	case gpucontext.PointerDown:
		h.HandlePointerRaw(ev.X, ev.Y, input.PhaseDown)
	case gpucontext.PointerMove:
		if ev.PointerType == gpucontext.PointerTypeMouse && ev.Buttons == gpucontext.ButtonsNone {
			h.HandlePointerRaw(ev.X, ev.Y, input.PhaseUp)
			return
		}
		h.HandlePointerRaw(ev.X, ev.Y, input.PhaseMove)
	case gpucontext.PointerUp:
		h.HandlePointerRaw(ev.X, ev.Y, input.PhaseUp)
	case gpucontext.PointerCancel:
		h.HandlePointerRaw(ev.X, ev.Y, input.PhaseCancel)
	}
}

// HandlePointerRaw normalizes raw surface coordinates by the current surface
// size and publishes them. Events arriving without a sized surface are dropped.
func (h *Host) HandlePointerRaw(xRaw, yRaw float64, phase input.Phase) {
	ref := h.surface.Load()
	if ref == nil {
		Logger().Debug("pacer: pointer event without surface dropped", "phase", phase)
		return
	}
	w, ht := ref.s.Size()
	x, y, ok := input.Normalize(xRaw, yRaw, w, ht)
	if !ok {
		Logger().Warn("pacer: pointer event on empty surface dropped", "width", w, "height", ht)
		return
	}
	h.input.Update(x, y, phase.Touching())
}

// OnSurfaceReady initializes the renderer with s. With WithInitDelay the
// initialization is deferred; a surface loss before it fires cancels it.
// If the host is in the foreground, the loop starts once init succeeds.
func (h *Host) OnSurfaceReady(s Surface) error {
	if s == nil {
		return ErrNoSurface
	}
	if h.renderer == nil {
		return ErrNilRenderer
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.cancelPendingLocked()
	h.generation++
	h.surface.Store(&surfaceRef{s: s})

	if h.opts.initDelay > 0 {
		gen := h.generation
		h.pending = time.AfterFunc(h.opts.initDelay, func() {
			if err := h.deferredInit(gen); err != nil {
				Logger().Error("pacer: deferred renderer init failed", "err", err)
			}
		})
		Logger().Info("pacer: renderer init deferred", "delay", h.opts.initDelay)
		return nil
	}
	return h.initLocked(s)
}

func (h *Host) deferredInit(gen uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if gen != h.generation {
		// Surface changed or was lost while the timer was pending.
		return nil
	}
	h.pending = nil
	ref := h.surface.Load()
	if ref == nil {
		return ErrNoSurface
	}
	return h.initLocked(ref.s)
}

// initLocked re-initializes the renderer for s and starts the loop when in
// the foreground. h.mu must be held.
func (h *Host) initLocked(s Surface) error {
	if h.initialized {
		// A new surface replaces the old one: tear down first.
		if err := h.shutdownLocked(); err != nil {
			return err
		}
	}
	if err := h.renderer.Init(s); err != nil {
		return fmt.Errorf("pacer: renderer init: %w", err)
	}
	h.initialized = true
	w, ht := s.Size()
	Logger().Info("pacer: renderer initialized", "width", w, "height", ht, "scale", s.ScaleFactor())

	if h.foreground {
		return h.startLocked()
	}
	return nil
}

// OnSurfaceLost stops the loop, shuts the renderer down and forgets the
// surface. Shutdown is skipped, and the error returned, if the worker does
// not exit in time.
func (h *Host) OnSurfaceLost() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cancelPendingLocked()
	h.generation++
	h.surface.Store(nil)
	h.input.Reset()

	if !h.initialized {
		return nil
	}
	return h.shutdownLocked()
}

// shutdownLocked joins the worker and shuts the renderer down. h.mu must be held.
func (h *Host) shutdownLocked() error {
	if err := h.loop.Stop(); err != nil {
		return err
	}
	h.initialized = false
	if err := h.renderer.Shutdown(); err != nil {
		return fmt.Errorf("pacer: renderer shutdown: %w", err)
	}
	Logger().Info("pacer: renderer shut down")
	return nil
}

// OnForeground starts the loop if the renderer is initialized. Calling it
// while already running is not an error.
func (h *Host) OnForeground() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.foreground = true
	if !h.initialized {
		Logger().Debug("pacer: foreground before renderer init, loop start deferred")
		return nil
	}
	return h.startLocked()
}

func (h *Host) startLocked() error {
	err := h.loop.Start()
	if errors.Is(err, ErrAlreadyRunning) {
		return nil
	}
	return err
}

// OnBackground stops the loop and waits for the worker to exit.
func (h *Host) OnBackground() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.foreground = false
	return h.loop.Stop()
}

// Close backgrounds the host and releases the surface.
func (h *Host) Close() error {
	return errors.Join(h.OnBackground(), h.OnSurfaceLost())
}

func (h *Host) cancelPendingLocked() {
	if h.pending != nil {
		h.pending.Stop()
		h.pending = nil
	}
}
