// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package input

import "fmt"

// TouchState is a point-in-time copy of the pointer position and contact
// state. X and Y are normalized to [0, 1] relative to the surface size at
// capture time, origin at the top-left corner.
type TouchState struct {
	X        float32
	Y        float32
	Touching bool
}

// String returns a compact representation for logging.
func (s TouchState) String() string {
	return fmt.Sprintf("(%.3f, %.3f touching=%t)", s.X, s.Y, s.Touching)
}

// Phase is the stage of a pointer contact as reported by the host.
type Phase uint8

const (
	// PhaseDown starts a contact.
	PhaseDown Phase = iota

	// PhaseMove moves an active contact.
	PhaseMove

	// PhaseUp ends a contact.
	PhaseUp

	// PhaseCancel ends a contact that the system took away.
	PhaseCancel
)

// Touching reports whether a contact is active after an event of this phase.
func (p Phase) Touching() bool {
	return p == PhaseDown || p == PhaseMove
}

// String returns the phase name for debugging.
func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "Down"
	case PhaseMove:
		return "Move"
	case PhaseUp:
		return "Up"
	case PhaseCancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

// Normalize maps raw surface coordinates to [0, 1] using the surface size.
// Coordinates outside the surface are clamped to the nearest edge.
// ok is false when the size is not positive, in which case the event
// cannot be placed and should be dropped.
func Normalize(xRaw, yRaw float64, width, height int) (x, y float32, ok bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return clamp01(xRaw / float64(width)), clamp01(yRaw / float64(height)), true
}

func clamp01(v float64) float32 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return float32(v)
}
