// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package timestep

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return epoch.Add(d) }

func TestNew_Defaults(t *testing.T) {
	a := New(0, 0)
	assert.Equal(t, DefaultInterval, a.Interval())
	assert.Equal(t, DefaultMaxSteps, a.MaxSteps())

	a = New(-time.Second, -3)
	assert.Equal(t, DefaultInterval, a.Interval())
	assert.Equal(t, DefaultMaxSteps, a.MaxSteps())

	a = New(10*time.Millisecond, 8)
	assert.Equal(t, 10*time.Millisecond, a.Interval())
	assert.Equal(t, 8, a.MaxSteps())
}

func TestSteps_Scenario60Hz(t *testing.T) {
	a := New(time.Second/60, 5)
	a.Reset(at(0))

	assert.Equal(t, 0, a.Steps(at(0)))

	assert.Equal(t, 1, a.Steps(at(33*time.Millisecond)))
	assert.Equal(t, 33*time.Millisecond-a.Interval(), a.Leftover())

	assert.Equal(t, 1, a.Steps(at(49*time.Millisecond)))
	assert.Equal(t, 49*time.Millisecond-2*a.Interval(), a.Leftover())
}

func TestSteps_NoSpuriousStepsAfterReset(t *testing.T) {
	a := New(10*time.Millisecond, 5)

	// Initialization took a long time before the loop started.
	a.Reset(at(5 * time.Second))
	assert.Equal(t, 0, a.Steps(at(5*time.Second+9*time.Millisecond)))
	assert.Equal(t, uint64(0), a.Dropped())
}

func TestSteps_FirstCallWithoutReset(t *testing.T) {
	a := New(10*time.Millisecond, 5)
	assert.Equal(t, 0, a.Steps(at(time.Hour)))
	assert.Equal(t, 1, a.Steps(at(time.Hour+10*time.Millisecond)))
}

func TestSteps_ResetClearsLeftover(t *testing.T) {
	a := New(10*time.Millisecond, 5)
	a.Reset(at(0))
	a.Steps(at(17 * time.Millisecond))
	require.Equal(t, 7*time.Millisecond, a.Leftover())

	a.Reset(at(time.Second))
	assert.Zero(t, a.Leftover())
	assert.Equal(t, 0, a.Steps(at(time.Second+5*time.Millisecond)))
}

func TestSteps_ClockGoingBackwards(t *testing.T) {
	a := New(10*time.Millisecond, 5)
	a.Reset(at(100 * time.Millisecond))
	assert.Equal(t, 0, a.Steps(at(50*time.Millisecond)))
	assert.Zero(t, a.Leftover())

	// Measurement resumes from the latest reading, not the earlier one.
	assert.Equal(t, 1, a.Steps(at(110*time.Millisecond)))
}

func TestSteps_Conservation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for _, interval := range []time.Duration{time.Second / 60, 7 * time.Millisecond, time.Second / 144} {
		a := New(interval, 1000)
		a.Reset(at(0))

		var now, total time.Duration
		for range 5000 {
			now += time.Duration(rng.Int64N(int64(40 * time.Millisecond)))
			total += time.Duration(a.Steps(at(now))) * interval
		}

		assert.Equal(t, uint64(0), a.Dropped())
		assert.Equal(t, now, total+a.Leftover(), "interval %v", interval)
		assert.Less(t, a.Leftover(), interval)
	}
}

func TestSteps_CatchUpClamp(t *testing.T) {
	interval := 10 * time.Millisecond
	a := New(interval, 4)
	a.Reset(at(0))

	// A 2.5s stall is 250 due steps; only 4 run, 246 are discarded.
	n := a.Steps(at(2505 * time.Millisecond))
	assert.Equal(t, 4, n)
	assert.Equal(t, uint64(246), a.Dropped())
	assert.Equal(t, 5*time.Millisecond, a.Leftover(), "backlog must not be kept in leftover")

	// The next call does not replay the backlog.
	assert.Equal(t, 1, a.Steps(at(2515*time.Millisecond)))
	assert.Equal(t, uint64(246), a.Dropped())
}

func TestSteps_ClampConservationIncludesDropped(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	interval := 5 * time.Millisecond
	a := New(interval, 3)
	a.Reset(at(0))

	var now, ran time.Duration
	for range 2000 {
		now += time.Duration(rng.Int64N(int64(60 * time.Millisecond)))
		n := a.Steps(at(now))
		require.LessOrEqual(t, n, 3)
		ran += time.Duration(n) * interval
	}

	dropped := time.Duration(a.Dropped()) * interval
	assert.Equal(t, now, ran+dropped+a.Leftover())
}

func TestSteps_ExactlyAtClamp(t *testing.T) {
	a := New(10*time.Millisecond, 3)
	a.Reset(at(0))
	assert.Equal(t, 3, a.Steps(at(30*time.Millisecond)))
	assert.Equal(t, uint64(0), a.Dropped())
}

func TestAlpha(t *testing.T) {
	a := New(10*time.Millisecond, 5)
	a.Reset(at(0))
	a.Steps(at(25 * time.Millisecond))
	assert.InDelta(t, 0.5, a.Alpha(), 1e-9)
}
