// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render_test

import (
	"fmt"
	"time"

	"github.com/gogpu/pacer/render"
)

// ExampleSmokeRenderer steps the renderer by hand, the way pacer.Loop would.
func ExampleSmokeRenderer() {
	smoke := render.NewSmokeRenderer()
	if err := smoke.Init(render.NewSurface(64, 48, 1)); err != nil {
		fmt.Println("init:", err)
		return
	}
	defer smoke.Shutdown()

	step := time.Second / 60
	for range 4 {
		_ = smoke.Step(step, 0.5, 0.5, true)
	}
	_ = smoke.Step(step, 0.5, 0.5, false)

	steps, simulated := smoke.Steps()
	frame, _ := smoke.Frame()
	fmt.Println(steps, simulated.Round(time.Millisecond), smoke.Particles())
	fmt.Println(frame.Width(), frame.Height())
	// Output:
	// 5 83ms 12
	// 64 48
}
