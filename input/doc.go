// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package input holds the pointer state shared between the goroutine that
// receives input events and the render worker.
//
// The state is a single immutable [TouchState] value. Producers replace it as
// a whole with [State.Update]; the render worker reads a copy with
// [State.Load]. A reader never sees X from one update and Touching from
// another.
//
// The state models the current finger position, not an event stream: updates
// made between two loads are overwritten (last write wins).
package input
