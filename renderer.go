// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacer

import (
	"time"

	"github.com/gogpu/gpucontext"
)

// Surface is the host window surface handed to the renderer at init.
// Its Size is also what pointer coordinates are normalized against.
//
// Surface is an alias for gpucontext.WindowProvider so any gogpu host
// window can be passed directly.
type Surface = gpucontext.WindowProvider

// Renderer is the native rendering backend driven by the loop.
//
// Implementations are NOT assumed to be thread-safe. Pacer guarantees that
// Init, Step and Shutdown never overlap: Step is only called from the single
// render worker, and Init/Shutdown only while no worker is running.
//
// The calls are serialized but not pinned to one OS thread. Step runs on
// the locked worker thread (see WithLockOSThread). Init and Shutdown run on
// the lifecycle caller's goroutine or, with WithInitDelay, on a timer
// goroutine.
//
// Step receives the configured fixed interval as delta, never the measured
// wall-clock time, together with the latest pointer snapshot.
// Returning an error stops the loop. Wrap ErrStopLoop to request a clean
// stop; any other error is reported as a renderer failure.
type Renderer interface {
	// Init prepares the renderer to draw into surface.
	Init(surface Surface) error

	// Step advances and draws one fixed step.
	Step(delta time.Duration, x, y float32, touching bool) error

	// Shutdown releases everything Init acquired.
	Shutdown() error
}

// RendererFuncs adapts plain functions to the Renderer interface.
// Nil fields are no-ops.
type RendererFuncs struct {
	InitFunc     func(surface Surface) error
	StepFunc     func(delta time.Duration, x, y float32, touching bool) error
	ShutdownFunc func() error
}

// Init calls InitFunc.
func (f RendererFuncs) Init(surface Surface) error {
	if f.InitFunc == nil {
		return nil
	}
	return f.InitFunc(surface)
}

// Step calls StepFunc.
func (f RendererFuncs) Step(delta time.Duration, x, y float32, touching bool) error {
	if f.StepFunc == nil {
		return nil
	}
	return f.StepFunc(delta, x, y, touching)
}

// Shutdown calls ShutdownFunc.
func (f RendererFuncs) Shutdown() error {
	if f.ShutdownFunc == nil {
		return nil
	}
	return f.ShutdownFunc()
}

var _ Renderer = RendererFuncs{}
