// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package input

import "sync/atomic"

// zero is the snapshot returned before the first update.
var zero = &TouchState{}

// State is the shared, last-write-wins holder of the current TouchState.
//
// Writers publish a freshly allocated snapshot with a single atomic pointer
// store; readers load the pointer and copy the value. Neither side blocks
// the other and no lock is ever held across a render call.
//
// The zero value is ready to use and reads as {0, 0, false}.
//
// Thread safety: State is safe for concurrent use.
type State struct {
	cur atomic.Pointer[TouchState]

	// updates counts published snapshots.
	updates atomic.Uint64
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// Update replaces the current snapshot with (x, y, touching).
func (s *State) Update(x, y float32, touching bool) {
	s.Store(TouchState{X: x, Y: y, Touching: touching})
}

// Store replaces the current snapshot with ts.
func (s *State) Store(ts TouchState) {
	s.cur.Store(&ts)
	s.updates.Add(1)
}

// Load returns a copy of the most recently published snapshot.
func (s *State) Load() TouchState {
	if p := s.cur.Load(); p != nil {
		return *p
	}
	return *zero
}

// Reset restores the default snapshot {0, 0, false}.
func (s *State) Reset() {
	s.cur.Store(nil)
}

// Updates returns the number of snapshots published since creation.
func (s *State) Updates() uint64 {
	return s.updates.Load()
}
