// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/pacer"
)

// Errors returned by SmokeRenderer.
var (
	// ErrInvalidSurface is returned by Init for a surface without area.
	ErrInvalidSurface = errors.New("render: surface has no area")

	// errNotReady is returned by Step before Init or after Shutdown. It wraps
	// pacer.ErrStopLoop so the loop stops instead of failing every step.
	errNotReady = fmt.Errorf("render: %w: %w", pacer.ErrStopLoop, pacer.ErrNotInitialized)
)

// SmokeOptions tune the particle system. Distances are in logical points,
// times in seconds of simulated time.
type SmokeOptions struct {
	// EmitPerStep is the number of puffs emitted per step while touching.
	EmitPerStep int

	// MaxParticles caps the live particle count; the oldest are recycled.
	MaxParticles int

	// Lifetime is how long a puff lives.
	Lifetime float64

	// Rise is the upward drift speed.
	Rise float64

	// Spread is the random initial speed.
	Spread float64

	// Radius is the initial puff radius; puffs grow to 4x over their life.
	Radius float64

	// Color is the smoke color; alpha is the peak opacity.
	Color gg.RGBA

	// Background clears every frame.
	Background gg.RGBA

	// Seed makes runs reproducible.
	Seed uint64
}

// DefaultSmokeOptions returns the options used by NewSmokeRenderer.
func DefaultSmokeOptions() SmokeOptions {
	return SmokeOptions{
		EmitPerStep:  3,
		MaxParticles: 600,
		Lifetime:     2.5,
		Rise:         40,
		Spread:       25,
		Radius:       6,
		Color:        gg.RGBA2(0.85, 0.88, 0.95, 0.35),
		Background:   gg.RGB(0.04, 0.04, 0.07),
		Seed:         1,
	}
}

type particle struct {
	x, y   float64 // physical pixels
	vx, vy float64 // physical pixels per second
	age    float64
}

// SmokeRenderer is a software pacer.Renderer that leaves a trail of rising
// smoke puffs wherever the pointer touches.
//
// Each Step advances the simulation by exactly delta, so a run with the same
// seed and the same pointer sequence produces the same frames regardless of
// scheduling jitter.
//
// Thread safety: Step, Init and Shutdown are called from one goroutine at a
// time by pacer. Frame, SavePNG and Particles may be called from any
// goroutine.
type SmokeRenderer struct {
	opts SmokeOptions

	mu        sync.Mutex
	dc        *gg.Context
	scale     float64
	width     int // physical
	height    int // physical
	particles []particle
	rng       *rand.Rand
	steps     uint64
	simulated time.Duration
}

var _ pacer.Renderer = (*SmokeRenderer)(nil)

// NewSmokeRenderer creates a renderer with DefaultSmokeOptions.
func NewSmokeRenderer() *SmokeRenderer {
	return NewSmokeRendererWithOptions(DefaultSmokeOptions())
}

// NewSmokeRendererWithOptions creates a renderer with opts. Zero fields fall
// back to the defaults.
func NewSmokeRendererWithOptions(opts SmokeOptions) *SmokeRenderer {
	def := DefaultSmokeOptions()
	if opts.EmitPerStep <= 0 {
		opts.EmitPerStep = def.EmitPerStep
	}
	if opts.MaxParticles <= 0 {
		opts.MaxParticles = def.MaxParticles
	}
	if opts.Lifetime <= 0 {
		opts.Lifetime = def.Lifetime
	}
	if opts.Radius <= 0 {
		opts.Radius = def.Radius
	}
	if opts.Color == (gg.RGBA{}) {
		opts.Color = def.Color
	}
	return &SmokeRenderer{opts: opts}
}

// Init allocates a frame buffer matching the surface's physical size.
func (r *SmokeRenderer) Init(s pacer.Surface) error {
	w, h := s.Size()
	scale := s.ScaleFactor()
	pw, ph := int(float64(w)*scale), int(float64(h)*scale)
	if pw <= 0 || ph <= 0 {
		return fmt.Errorf("%w: %dx%d at scale %.2f", ErrInvalidSurface, w, h, scale)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dc != nil {
		if err := r.dc.Close(); err != nil {
			pacer.Logger().Warn("render: releasing previous frame buffer", "err", err)
		}
	}
	r.dc = gg.NewContext(pw, ph)
	r.dc.ClearWithColor(r.opts.Background)
	r.scale = scale
	r.width, r.height = pw, ph
	r.particles = make([]particle, 0, r.opts.MaxParticles)
	r.rng = rand.New(rand.NewPCG(r.opts.Seed, uint64(pw)<<32|uint64(ph)))

	pacer.Logger().Info("render: smoke renderer initialized", "width", pw, "height", ph)
	return nil
}

// Step advances the particles by delta and redraws the frame.
func (r *SmokeRenderer) Step(delta time.Duration, x, y float32, touching bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dc == nil {
		return errNotReady
	}

	dt := delta.Seconds()
	if touching {
		r.emit(float64(x)*float64(r.width), float64(y)*float64(r.height))
	}
	r.advance(dt)
	r.steps++
	r.simulated += delta

	return r.draw()
}

// emit adds EmitPerStep puffs at (px, py), recycling the oldest when full.
func (r *SmokeRenderer) emit(px, py float64) {
	spread := r.opts.Spread * r.scale
	for range r.opts.EmitPerStep {
		angle := r.rng.Float64() * 2 * math.Pi
		speed := r.rng.Float64() * spread
		p := particle{
			x:  px,
			y:  py,
			vx: math.Cos(angle) * speed,
			vy: math.Sin(angle)*speed - r.opts.Rise*r.scale,
		}
		if len(r.particles) < r.opts.MaxParticles {
			r.particles = append(r.particles, p)
			continue
		}
		oldest := 0
		for i := range r.particles {
			if r.particles[i].age > r.particles[oldest].age {
				oldest = i
			}
		}
		r.particles[oldest] = p
	}
}

// advance ages and moves particles, dropping the expired ones in place.
func (r *SmokeRenderer) advance(dt float64) {
	const drag = 0.98
	live := r.particles[:0]
	for _, p := range r.particles {
		p.age += dt
		if p.age >= r.opts.Lifetime {
			continue
		}
		p.x += p.vx * dt
		p.y += p.vy * dt
		p.vx *= drag
		live = append(live, p)
	}
	r.particles = live
}

func (r *SmokeRenderer) draw() error {
	dc := r.dc
	dc.ClearWithColor(r.opts.Background)

	c := r.opts.Color
	base := r.opts.Radius * r.scale
	for _, p := range r.particles {
		life := p.age / r.opts.Lifetime
		radius := base * (1 + 3*life)
		alpha := c.A * (1 - life)

		brush := gg.NewRadialGradientBrush(p.x, p.y, 0, radius).
			AddColorStop(0, gg.RGBA2(c.R, c.G, c.B, alpha)).
			AddColorStop(1, gg.RGBA2(c.R, c.G, c.B, 0))
		dc.SetFillBrush(brush)
		dc.DrawCircle(p.x, p.y, radius)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("render: fill puff: %w", err)
		}
	}
	return nil
}

// Shutdown releases the frame buffer. Steps after Shutdown stop the loop.
func (r *SmokeRenderer) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dc == nil {
		return nil
	}
	err := r.dc.Close()
	r.dc = nil
	r.particles = nil
	pacer.Logger().Info("render: smoke renderer shut down", "steps", r.steps, "simulated", r.simulated)
	return err
}

// Particles returns the number of live puffs.
func (r *SmokeRenderer) Particles() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.particles)
}

// Steps returns the number of steps rendered and the simulated time they cover.
func (r *SmokeRenderer) Steps() (uint64, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.steps, r.simulated
}

// Frame returns a copy of the last rendered frame.
func (r *SmokeRenderer) Frame() (*Target, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dc == nil {
		return nil, pacer.ErrNotInitialized
	}
	return NewTargetFromImage(r.dc.Image()), nil
}

// SavePNG writes the last rendered frame to path.
func (r *SmokeRenderer) SavePNG(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dc == nil {
		return pacer.ErrNotInitialized
	}
	return r.dc.SavePNG(path)
}
