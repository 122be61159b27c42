// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command smokedemo drives the smoke renderer headlessly.
//
// It creates an offscreen surface, brings a pacer.Host through its lifecycle
// and plays a scripted touch gesture while the loop runs. The last frame is
// saved as a PNG.
//
//	smokedemo -duration 3s -output smoke.png -thumb thumb.png -v
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/pacer"
	"github.com/gogpu/pacer/config"
	"github.com/gogpu/pacer/render"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "TOML or YAML config file")
		duration = flag.Duration("duration", 3*time.Second, "how long to run the gesture")
		width    = flag.Int("width", 0, "surface width in points (overrides config)")
		height   = flag.Int("height", 0, "surface height in points (overrides config)")
		output   = flag.String("output", "smoke.png", "output file")
		thumb    = flag.String("thumb", "", "optional thumbnail output file")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	pacer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *width > 0 {
		cfg.Surface.Width = *width
	}
	if *height > 0 {
		cfg.Surface.Height = *height
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *duration, *output, *thumb); err != nil {
		log.Fatalf("smokedemo: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, duration time.Duration, output, thumb string) error {
	smoke := render.NewSmokeRenderer()
	host := pacer.NewHost(smoke, cfg.HostOptions()...)
	defer host.Close()

	src := &scriptedSource{}
	host.Attach(src)

	scale := cfg.Surface.Scale
	if scale <= 0 {
		scale = 1
	}
	surface := render.NewSurface(cfg.Surface.Width, cfg.Surface.Height, scale)

	if err := host.OnForeground(); err != nil {
		return fmt.Errorf("foreground: %w", err)
	}
	if err := host.OnSurfaceReady(surface); err != nil {
		return fmt.Errorf("surface ready: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	pctx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return src.play(pctx, surface, duration)
	})
	g.Go(func() error {
		// Ends the gesture early if the renderer fails while it plays.
		// Done is nil while the loop is idle, leaving only pctx.
		select {
		case <-pctx.Done():
			return nil
		case <-host.Loop().Done():
			return host.Loop().Err()
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := host.Loop().Err(); err != nil {
		return err
	}

	if err := host.OnBackground(); err != nil {
		return fmt.Errorf("background: %w", err)
	}

	steps, simulated := smoke.Steps()
	st := host.Loop().Stats()
	log.Printf("Rendered %d steps (%v simulated, %d dropped, %d particles live)",
		steps, simulated, st.Dropped, smoke.Particles())

	if err := smoke.SavePNG(output); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	log.Printf("Frame saved to %s", output)

	if thumb != "" {
		if err := saveThumbnail(smoke, thumb); err != nil {
			return err
		}
		log.Printf("Thumbnail saved to %s", thumb)
	}

	return host.OnSurfaceLost()
}

func saveThumbnail(smoke *render.SmokeRenderer, path string) error {
	frame, err := smoke.Frame()
	if err != nil {
		return fmt.Errorf("thumbnail: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("thumbnail: %w", err)
	}
	if err := png.Encode(f, frame.Thumbnail(128).Image()); err != nil {
		_ = f.Close()
		return fmt.Errorf("thumbnail: %w", err)
	}
	return f.Close()
}

// scriptedSource is a gpucontext.PointerEventSource that replays a figure
// eight drawn with one finger.
type scriptedSource struct {
	mu sync.Mutex
	fn func(gpucontext.PointerEvent)
}

var _ gpucontext.PointerEventSource = (*scriptedSource)(nil)

func (s *scriptedSource) OnPointer(fn func(gpucontext.PointerEvent)) {
	s.mu.Lock()
	s.fn = fn
	s.mu.Unlock()
}

func (s *scriptedSource) emit(typ gpucontext.PointerEventType, x, y float64) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn == nil {
		return
	}
	ev := gpucontext.PointerEvent{
		Type:        typ,
		PointerID:   1,
		X:           x,
		Y:           y,
		Pressure:    0.5,
		PointerType: gpucontext.PointerTypeTouch,
		IsPrimary:   true,
		Buttons:     gpucontext.ButtonsLeft,
	}
	if typ == gpucontext.PointerUp {
		ev.Pressure = 0
		ev.Buttons = gpucontext.ButtonsNone
	}
	fn(ev)
}

func (s *scriptedSource) play(ctx context.Context, surface *render.Surface, duration time.Duration) error {
	w, h := surface.Size()
	cx, cy := float64(w)/2, float64(h)*0.6
	rx, ry := float64(w)*0.3, float64(h)*0.2
	at := func(t float64) (float64, float64) {
		a := t * 2 * math.Pi
		return cx + rx*math.Sin(a), cy + ry*math.Sin(2*a)
	}

	x, y := at(0)
	s.emit(gpucontext.PointerDown, x, y)

	const period = 10 * time.Millisecond
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.emit(gpucontext.PointerUp, x, y)
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(start)
			if elapsed >= duration {
				s.emit(gpucontext.PointerUp, x, y)
				return nil
			}
			x, y = at(elapsed.Seconds() / duration.Seconds())
			s.emit(gpucontext.PointerMove, x, y)
		}
	}
}
