// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package raster implements a software renderer that
// splats scene graphs onto a wsi.Surface.
package raster

import (
	"errors"
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
	"github.com/gviegas/backdrop/wsi"
)

func newErr(s string) error { return errors.New("raster: " + s) }

var errNilSurface = newErr("nil wsi.Surface")

// MaxSupersample is the largest supersampling factor
// honored by New.
const MaxSupersample = 2

// Options configures a Renderer.
type Options struct {
	// Vertical field of view in degrees.
	FOV  float32
	Near float32
	Far  float32
	// Clear color, also used as the fog color.
	Background linear.V3
	// Exponential squared fog density.
	// Zero disables fog.
	Fog float32
	// Supersampling factor, clamped to
	// [1, MaxSupersample].
	Supersample int
}

// DefaultOptions returns the options used by the
// backdrop.
func DefaultOptions() Options {
	return Options{
		FOV:         70,
		Near:        0.1,
		Far:         100,
		Background:  linear.V3{0x02 / 255.0, 0x02 / 255.0, 0x05 / 255.0},
		Fog:         0.04,
		Supersample: MaxSupersample,
	}
}

// Renderer draws scene graphs onto a surface.
// It is not safe for concurrent use.
type Renderer struct {
	surf   wsi.Surface
	opts   Options
	width  int
	height int

	eye    linear.V3
	center linear.V3

	fb  *FrameBuffer
	out *image.RGBA

	lights []light
	cards  []card
}

// New creates a renderer targeting surf.
// Its initial size is that of surf.
func New(surf wsi.Surface, opts Options) (*Renderer, error) {
	if surf == nil {
		return nil, errNilSurface
	}
	opts.Supersample = max(1, min(MaxSupersample, opts.Supersample))
	if opts.FOV <= 0 {
		opts.FOV = 70
	}
	if opts.Near <= 0 {
		opts.Near = 0.1
	}
	if opts.Far <= opts.Near {
		opts.Far = opts.Near + 100
	}
	r := &Renderer{
		surf:   surf,
		opts:   opts,
		center: linear.V3{0, 0, -1},
	}
	r.Resize(surf.Width(), surf.Height())
	return r, nil
}

// Surface returns the surface r draws onto.
func (r *Renderer) Surface() wsi.Surface { return r.surf }

// Size returns the output dimensions in pixels.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// Resize sets the output dimensions.
// Non-positive values are treated as 1.
func (r *Renderer) Resize(width, height int) {
	width, height = max(1, width), max(1, height)
	if width == r.width && height == r.height && r.fb != nil {
		return
	}
	r.width, r.height = width, height
	ss := r.opts.Supersample
	r.fb = NewFrameBuffer(width*ss, height*ss)
	if ss > 1 {
		r.out = image.NewRGBA(image.Rect(0, 0, width, height))
	} else {
		r.out = nil
	}
}

// SetCamera places the camera at eye, looking at
// center, with +Y up.
func (r *Renderer) SetCamera(eye, center linear.V3) {
	r.eye, r.center = eye, center
}

// SetOpacity sets the opacity of the surface.
func (r *Renderer) SetOpacity(alpha float32) {
	r.surf.SetOpacity(math32.Max(0, math32.Min(1, alpha)))
}

// Render draws the graph rooted at root and presents
// the result.
func (r *Renderer) Render(root *node.Node) error {
	if root == nil {
		return newErr("nil root node")
	}
	vp := r.viewProj()
	r.fb.Clear(r.opts.Background)
	r.lights = r.lights[:0]
	r.cards = r.cards[:0]

	var id linear.M4
	id.I()
	root.Walk(&id, r.gather)
	root.Walk(&id, func(n *node.Node, world *linear.M4) {
		var mvp linear.M4
		mvp.Mul(&vp, world)
		switch n.Kind() {
		case node.Points:
			r.points(n.Cloud, &mvp)
		case node.Mesh:
			r.mesh(n.Shape, world, &mvp)
		case node.Card:
			r.queueCard(n.Label, &mvp)
		}
	})

	img := r.fb.Image()
	r.drawCards(img)
	if r.out != nil {
		draw.CatmullRom.Scale(r.out, r.out.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = r.out
	}
	return r.surf.Present(img)
}

func (r *Renderer) viewProj() (vp linear.M4) {
	var view, proj linear.M4
	up := linear.V3{0, 1, 0}
	eye, center := r.eye, r.center
	if eye == center {
		center[2] -= 1
	}
	view.LookAt(&eye, &center, &up)
	aspect := float32(r.width) / float32(r.height)
	proj.Perspective(r.opts.FOV*math32.Pi/180, aspect, r.opts.Near, r.opts.Far)
	vp.Mul(&proj, &view)
	return
}

// project maps p (local space) to frame buffer
// coordinates. w is the view-space distance.
// ok is false if p is outside the depth range.
func (r *Renderer) project(mvp *linear.M4, p *linear.V3) (x, y, w float32, ok bool) {
	var c linear.V4
	c.Mul(mvp, &linear.V4{p[0], p[1], p[2], 1})
	w = c[3]
	if w < r.opts.Near || w > r.opts.Far {
		return
	}
	x = (c[0]/w*0.5 + 0.5) * float32(r.fb.Width)
	y = (0.5 - c[1]/w*0.5) * float32(r.fb.Height)
	return x, y, w, true
}

// pixels returns the projected size, in frame buffer
// pixels, of a world-space extent at distance w.
func (r *Renderer) pixels(extent, w float32) float32 {
	t := math32.Tan(r.opts.FOV * math32.Pi / 360)
	return extent * float32(r.fb.Height) / (2 * t * w)
}

// fog attenuates c toward the background for a
// fragment at distance w.
func (r *Renderer) fog(c linear.V3, w float32) linear.V3 {
	if r.opts.Fog <= 0 {
		return c
	}
	d := r.opts.Fog * w
	f := 1 - math32.Exp(-d*d)
	c.Lerp(&c, &r.opts.Background, f)
	return c
}
