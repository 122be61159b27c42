// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render provides a software binding of the pacer.Renderer
// interface, for headless runs, demos and tests on machines without the
// native GPU backend.
//
// # Components
//
//   - Surface: a headless window surface (gpucontext.WindowProvider)
//   - Target: a CPU pixel buffer holding a rendered frame
//   - SmokeRenderer: a finger-smoke particle renderer drawn with gg
//
// # Example
//
//	surface := render.NewSurface(800, 600, 1)
//	smoke := render.NewSmokeRenderer()
//	host := pacer.NewHost(smoke)
//	_ = host.OnSurfaceReady(surface)
//	_ = host.OnForeground()
//	...
//	_ = host.OnBackground()
//	_ = smoke.SavePNG("smoke.png")
//	_ = host.OnSurfaceLost()
package render
