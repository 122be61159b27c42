// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
)

// Surface is a headless window surface. It reports a logical size and scale
// factor like a real window and counts redraw requests.
//
// Thread safety: Surface is safe for concurrent use.
type Surface struct {
	mu     sync.RWMutex
	width  int
	height int
	scale  float64

	redraws atomic.Uint64
}

var _ gpucontext.WindowProvider = (*Surface)(nil)

// NewSurface creates a surface of width x height logical points.
// A non-positive scale is treated as 1.
func NewSurface(width, height int, scale float64) *Surface {
	if scale <= 0 {
		scale = 1
	}
	return &Surface{width: width, height: height, scale: scale}
}

// Size returns the logical size.
func (s *Surface) Size() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// ScaleFactor returns the DPI scale factor.
func (s *Surface) ScaleFactor() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scale
}

// PhysicalSize returns the size in device pixels.
func (s *Surface) PhysicalSize() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int(float64(s.width) * s.scale), int(float64(s.height) * s.scale)
}

// Resize changes the logical size, as a rotation or window resize would.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// RequestRedraw counts the request.
func (s *Surface) RequestRedraw() {
	s.redraws.Add(1)
}

// Redraws returns the number of redraw requests.
func (s *Surface) Redraws() uint64 {
	return s.redraws.Load()
}
