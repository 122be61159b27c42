// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

// Target is a CPU-backed frame buffer using *image.RGBA.
//
// Example:
//
//	target := render.NewTarget(800, 600)
//	target.Clear(color.Black)
//	img := target.Image()
type Target struct {
	img *image.RGBA
}

// NewTarget creates a cleared target of the given size.
func NewTarget(width, height int) *Target {
	return &Target{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewTargetFromImage copies src into a new target.
func NewTargetFromImage(src image.Image) *Target {
	b := src.Bounds()
	t := NewTarget(b.Dx(), b.Dy())
	xdraw.Copy(t.img, image.Point{}, src, b, xdraw.Src, nil)
	return t
}

// Width returns the target width in pixels.
func (t *Target) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *Target) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *Target) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data, 4 bytes per pixel.
func (t *Target) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *Target) Stride() int {
	return t.img.Stride
}

// Image returns the underlying image. It shares memory with the target.
func (t *Target) Image() *image.RGBA {
	return t.img
}

// At returns the color of the pixel at (x, y).
func (t *Target) At(x, y int) color.RGBA {
	return t.img.RGBAAt(x, y)
}

// Clear fills the entire target with c.
func (t *Target) Clear(c color.Color) {
	xdraw.Draw(t.img, t.img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
}

// Thumbnail returns a copy of the target scaled so that its longer side is
// maxSide pixels, using Catmull-Rom resampling. Targets already within the
// limit are copied unscaled.
func (t *Target) Thumbnail(maxSide int) *Target {
	w, h := t.Width(), t.Height()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return NewTargetFromImage(t.img)
	}
	tw, th := maxSide, maxSide
	if w >= h {
		th = max(1, h*maxSide/w)
	} else {
		tw = max(1, w*maxSide/h)
	}
	dst := NewTarget(tw, th)
	xdraw.CatmullRom.Scale(dst.img, dst.img.Bounds(), t.img, t.img.Bounds(), xdraw.Src, nil)
	return dst
}
