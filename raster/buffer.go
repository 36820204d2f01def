// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package raster

import (
	"image"

	"github.com/chewxy/math32"

	"github.com/gviegas/backdrop/linear"
)

// FrameBuffer holds the rendering target as flat
// slices. Color is linear RGB, unclamped.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []linear.V3
	Depth  []float32
}

// NewFrameBuffer allocates a frame buffer cleared to
// black and infinite depth.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]linear.V3, w*h),
		Depth:  make([]float32, w*h),
	}
	fb.Clear(linear.V3{})
	return fb
}

// Clear sets every pixel to c at infinite depth.
func (fb *FrameBuffer) Clear(c linear.V3) {
	for i := range fb.Color {
		fb.Color[i] = c
		fb.Depth[i] = math32.Inf(1)
	}
}

// blend writes c with coverage alpha at (x, y) if z
// passes the depth test. Additive writes add to the
// destination and never write depth.
func (fb *FrameBuffer) blend(x, y int, z float32, c linear.V3, alpha float32, additive, write bool) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	i := y*fb.Width + x
	if z >= fb.Depth[i] {
		return
	}
	d := &fb.Color[i]
	switch {
	case additive:
		for k := range d {
			d[k] += c[k] * alpha
		}
	case alpha >= 1:
		*d = c
	default:
		d.Lerp(d, &c, alpha)
	}
	if write && !additive {
		fb.Depth[i] = z
	}
}

// Image converts fb to an RGBA image.
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, c := range fb.Color {
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0] = to8(c[0])
		p[1] = to8(c[1])
		p[2] = to8(c[2])
		p[3] = 255
	}
	return img
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
