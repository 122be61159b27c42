// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacer

import "errors"

// Lifecycle errors.
var (
	// ErrAlreadyRunning is returned by Start when the loop already has a worker.
	ErrAlreadyRunning = errors.New("pacer: loop is already running")

	// ErrStopping is returned by Start while a previous worker is still exiting.
	ErrStopping = errors.New("pacer: loop is stopping")

	// ErrStopTimeout is returned by Stop when the worker did not exit within
	// the stop timeout. The loop stays in LoopStopping until it does.
	ErrStopTimeout = errors.New("pacer: timed out waiting for render worker to exit")

	// ErrNilRenderer is returned when a loop or host has no renderer.
	ErrNilRenderer = errors.New("pacer: nil renderer")

	// ErrStopLoop is returned (bare or wrapped) by Renderer.Step to end the
	// loop without it being reported as a failure.
	ErrStopLoop = errors.New("pacer: renderer requested loop stop")

	// ErrNoSurface is returned when an operation needs a surface and none is ready.
	ErrNoSurface = errors.New("pacer: no surface")

	// ErrNotInitialized is returned when the renderer has not been initialized.
	ErrNotInitialized = errors.New("pacer: renderer not initialized")
)
