// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pacer drives a native renderer from a windowed application with a
// fixed timestep on a dedicated render worker.
//
// # Overview
//
// Two goroutines meet in pacer. The host's input callbacks publish the
// current pointer position into an [input.State]; the render worker owned by
// a [Loop] samples the clock, asks a [timestep.Accumulator] how many fixed
// steps are due and, for each one, calls [Renderer.Step] with the fixed
// interval and the latest pointer snapshot.
//
//	pointer events ──► Host ──► input.State ◄── Loop worker ──► Renderer.Step
//	                                             ▲
//	                                timestep.Accumulator
//
// # Quick Start
//
//	host := pacer.NewHost(renderer,
//	    pacer.WithLoopOptions(pacer.WithRate(60), pacer.WithMaxSteps(5)),
//	)
//	host.Attach(window)              // gpucontext.PointerEventSource
//	_ = host.OnSurfaceReady(window)  // Renderer.Init
//	_ = host.OnForeground()          // Loop.Start
//	...
//	_ = host.OnBackground()          // Loop.Stop (joins the worker)
//	_ = host.OnSurfaceLost()         // Renderer.Shutdown
//
// # Guarantees
//
//   - Step always receives the configured interval, never measured time.
//   - At most one worker per Loop; Start on a running loop is rejected with
//     ErrAlreadyRunning.
//   - Stop joins the worker: once it returns nil, Step is not called again.
//   - Init and Shutdown never overlap a Step.
//   - After a stall, at most MaxSteps steps run per iteration; the rest of the
//     backlog is dropped and counted in [Stats].
//   - A renderer error stops the loop. Wrap [ErrStopLoop] for a clean stop.
//
// # Logging
//
// pacer is silent by default. See [SetLogger].
package pacer
