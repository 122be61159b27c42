// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pacer"
	"github.com/gogpu/pacer/input"
)

const step = time.Second / 60

func newInitialized(t *testing.T, w, h int) *SmokeRenderer {
	t.Helper()
	r := NewSmokeRenderer()
	require.NoError(t, r.Init(NewSurface(w, h, 1)))
	t.Cleanup(func() { _ = r.Shutdown() })
	return r
}

// =============================================================================
// Lifecycle
// =============================================================================

func TestSmoke_InitInvalidSurface(t *testing.T) {
	r := NewSmokeRenderer()
	err := r.Init(NewSurface(0, 100, 1))
	assert.ErrorIs(t, err, ErrInvalidSurface)
}

func TestSmoke_StepBeforeInit(t *testing.T) {
	r := NewSmokeRenderer()
	err := r.Step(step, 0.5, 0.5, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, pacer.ErrStopLoop)
	assert.ErrorIs(t, err, pacer.ErrNotInitialized)
}

func TestSmoke_ShutdownReleases(t *testing.T) {
	r := NewSmokeRenderer()
	require.NoError(t, r.Init(NewSurface(64, 64, 1)))
	require.NoError(t, r.Step(step, 0.5, 0.5, true))

	require.NoError(t, r.Shutdown())
	require.NoError(t, r.Shutdown(), "second shutdown is a no-op")

	_, err := r.Frame()
	assert.ErrorIs(t, err, pacer.ErrNotInitialized)
	assert.ErrorIs(t, r.Step(step, 0, 0, false), pacer.ErrStopLoop)
	assert.Zero(t, r.Particles())
}

func TestSmoke_InitUsesPhysicalSize(t *testing.T) {
	r := NewSmokeRenderer()
	require.NoError(t, r.Init(NewSurface(40, 30, 2)))
	defer r.Shutdown()

	f, err := r.Frame()
	require.NoError(t, err)
	assert.Equal(t, 80, f.Width())
	assert.Equal(t, 60, f.Height())
}

func TestSmoke_ReinitReleasesPreviousBuffer(t *testing.T) {
	var logs bytes.Buffer
	pacer.SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { pacer.SetLogger(nil) })

	r := NewSmokeRenderer()
	require.NoError(t, r.Init(NewSurface(32, 32, 1)))
	require.NoError(t, r.Step(step, 0.5, 0.5, true))
	require.Positive(t, r.Particles())

	require.NoError(t, r.Init(NewSurface(50, 20, 1)))
	defer r.Shutdown()

	f, err := r.Frame()
	require.NoError(t, err)
	assert.Equal(t, 50, f.Width())
	assert.Equal(t, 20, f.Height())
	assert.Zero(t, r.Particles(), "re-init starts a fresh simulation")
	assert.NotContains(t, logs.String(), "releasing previous frame buffer")
}

// =============================================================================
// Simulation
// =============================================================================

func TestSmoke_EmitsOnlyWhileTouching(t *testing.T) {
	r := newInitialized(t, 64, 64)

	require.NoError(t, r.Step(step, 0.5, 0.5, false))
	assert.Zero(t, r.Particles())

	require.NoError(t, r.Step(step, 0.5, 0.5, true))
	assert.Equal(t, DefaultSmokeOptions().EmitPerStep, r.Particles())

	n, simulated := r.Steps()
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, 2*step, simulated)
}

func TestSmoke_ParticlesExpire(t *testing.T) {
	r := newInitialized(t, 64, 64)
	require.NoError(t, r.Step(step, 0.5, 0.5, true))

	steps := int(DefaultSmokeOptions().Lifetime/step.Seconds()) + 2
	for range steps {
		require.NoError(t, r.Step(step, 0.5, 0.5, false))
	}
	assert.Zero(t, r.Particles())
}

func TestSmoke_MaxParticles(t *testing.T) {
	opts := DefaultSmokeOptions()
	opts.MaxParticles = 10
	opts.EmitPerStep = 4
	r := NewSmokeRendererWithOptions(opts)
	require.NoError(t, r.Init(NewSurface(32, 32, 1)))
	defer r.Shutdown()

	for range 20 {
		require.NoError(t, r.Step(step, 0.5, 0.5, true))
	}
	assert.Equal(t, 10, r.Particles())
}

func TestSmoke_DrawsNearTouch(t *testing.T) {
	r := newInitialized(t, 100, 100)
	for range 5 {
		require.NoError(t, r.Step(step, 0.25, 0.75, true))
	}

	f, err := r.Frame()
	require.NoError(t, err)

	far := f.At(90, 10)
	near := f.At(25, 74)
	assert.Greater(t, int(near.R)+int(near.G)+int(near.B), int(far.R)+int(far.G)+int(far.B),
		"smoke should brighten the touch area")
}

func TestSmoke_Deterministic(t *testing.T) {
	path := []input.TouchState{
		{X: 0.1, Y: 0.9, Touching: true},
		{X: 0.2, Y: 0.8, Touching: true},
		{X: 0.3, Y: 0.7, Touching: true},
		{X: 0.3, Y: 0.7, Touching: false},
	}
	run := func() []byte {
		r := NewSmokeRenderer()
		require.NoError(t, r.Init(NewSurface(48, 48, 1)))
		defer r.Shutdown()
		for _, ts := range path {
			require.NoError(t, r.Step(step, ts.X, ts.Y, ts.Touching))
		}
		f, err := r.Frame()
		require.NoError(t, err)
		return f.Pixels()
	}
	assert.True(t, bytes.Equal(run(), run()), "same inputs must render the same frame")
}

func TestSmoke_SavePNG(t *testing.T) {
	r := newInitialized(t, 32, 32)
	require.NoError(t, r.Step(step, 0.5, 0.5, true))

	out := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, r.SavePNG(out))
	assert.FileExists(t, out)
}

// =============================================================================
// Driven by pacer
// =============================================================================

func TestSmoke_DrivenByHost(t *testing.T) {
	smoke := NewSmokeRenderer()
	host := pacer.NewHost(smoke, pacer.WithLoopOptions(
		pacer.WithInterval(2*time.Millisecond),
		pacer.WithYield(time.Millisecond),
	))

	require.NoError(t, host.OnSurfaceReady(NewSurface(64, 64, 1)))
	host.HandlePointerRaw(32, 32, input.PhaseDown)
	require.NoError(t, host.OnForeground())

	require.Eventually(t, func() bool {
		n, _ := smoke.Steps()
		return n >= 5
	}, 2*time.Second, time.Millisecond)

	require.NoError(t, host.OnBackground())
	assert.Positive(t, smoke.Particles())
	n, simulated := smoke.Steps()
	assert.Equal(t, time.Duration(n)*2*time.Millisecond, simulated)

	require.NoError(t, host.OnSurfaceLost())
	assert.Zero(t, smoke.Particles())
	assert.NoError(t, host.Loop().Err())
}
