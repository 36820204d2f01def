// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package raster

import (
	"image"
	"image/color"
	"slices"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

type light struct {
	typ       node.LampType
	pos       linear.V3
	dir       linear.V3
	color     linear.V3
	rng       float32
	cos       float32
	cosInner  float32
	intensity float32
}

// gather records the world-space lights of the graph.
func (r *Renderer) gather(n *node.Node, world *linear.M4) {
	if n.Kind() != node.Light || n.Lamp == nil {
		return
	}
	l := n.Lamp
	lt := light{
		typ:       l.Type,
		pos:       linear.V3{world[3][0], world[3][1], world[3][2]},
		color:     l.Color,
		rng:       l.Range,
		intensity: l.Intensity,
	}
	switch l.Type {
	case node.Spot, node.Directional:
		var to linear.V3
		if l.Target != nil {
			to = l.Target.Pos
		}
		lt.dir.Sub(&to, &lt.pos)
		lt.dir.Norm(&lt.dir)
		lt.cos = math32.Cos(l.Angle)
		lt.cosInner = math32.Cos(l.Angle * (1 - l.Penumbra))
	}
	r.lights = append(r.lights, lt)
}

// shade returns the lit color of a surface point p
// with normal n (both in world space).
func (r *Renderer) shade(m *node.Material, p, n *linear.V3) linear.V3 {
	var sum linear.V3
	for i := range r.lights {
		l := &r.lights[i]
		var s float32
		switch l.typ {
		case node.Ambient:
			s = 1
		case node.Directional:
			s = math32.Max(0, -n.Dot(&l.dir))
		case node.Point, node.Spot:
			var d linear.V3
			d.Sub(&l.pos, p)
			dist := d.Len()
			if dist == 0 {
				continue
			}
			d.Scale(1/dist, &d)
			s = math32.Max(0, n.Dot(&d))
			if l.rng > 0 {
				a := math32.Max(0, 1-dist/l.rng)
				s *= a * a
			}
			if l.typ == node.Spot {
				c := -d.Dot(&l.dir)
				switch {
				case c < l.cos:
					s = 0
				case c < l.cosInner:
					s *= (c - l.cos) / (l.cosInner - l.cos)
				}
			}
		}
		s *= l.intensity
		for k := range sum {
			sum[k] += l.color[k] * s
		}
	}
	// Metals reflect less diffuse light.
	kd := 1 - m.Metalness*0.5
	var c linear.V3
	for k := range c {
		c[k] = m.Color[k]*sum[k]*kd + m.Emissive[k]
	}
	return c
}

// splat fills a size×size square centered at (x, y).
func (r *Renderer) splat(x, y, size, z float32, c linear.V3, alpha float32, additive, write bool) {
	s := max(1, int(size+0.5))
	x0 := int(x) - s/2
	y0 := int(y) - s/2
	for j := y0; j < y0+s; j++ {
		for i := x0; i < x0+s; i++ {
			r.fb.blend(i, j, z, c, alpha, additive, write)
		}
	}
}

func (r *Renderer) points(c *node.PointCloud, mvp *linear.M4) {
	if c == nil {
		return
	}
	alpha := c.Opacity
	if alpha <= 0 {
		alpha = 1
	}
	for i := range c.Pos {
		x, y, w, ok := r.project(mvp, &c.Pos[i])
		if !ok {
			continue
		}
		col := linear.V3{1, 1, 1}
		if i < len(c.Color) {
			col = c.Color[i]
		}
		r.splat(x, y, r.pixels(c.Size, w), w, r.fog(col, w), alpha, c.Additive, false)
	}
}

// mesh splats every vertex sample of s, shaded with
// the direction from the shape's origin as normal.
func (r *Renderer) mesh(s *node.Shape, world, mvp *linear.M4) {
	if s == nil {
		return
	}
	alpha := s.Mat.Opacity
	if alpha <= 0 {
		alpha = 1
	}
	size := r.pixels(0.06, 1)
	for i := range s.Verts {
		v := &s.Verts[i]
		x, y, w, ok := r.project(mvp, v)
		if !ok {
			continue
		}
		var p, n linear.V4
		p.Mul(world, &linear.V4{v[0], v[1], v[2], 1})
		n.Mul(world, &linear.V4{v[0], v[1], v[2], 0})
		wp := linear.V3{p[0], p[1], p[2]}
		wn := linear.V3{n[0], n[1], n[2]}
		wn.Norm(&wn)
		col := r.fog(r.shade(&s.Mat, &wp, &wn), w)
		r.splat(x, y, size/w, w, col, alpha, false, true)
	}
}

type card struct {
	tex   *image.RGBA
	rect  image.Rectangle
	w     float32
	alpha uint8
}

func (r *Renderer) queueCard(l *node.Label, mvp *linear.M4) {
	if l == nil || l.Tex == nil {
		return
	}
	x, y, w, ok := r.project(mvp, &linear.V3{})
	if !ok {
		return
	}
	s := int(r.pixels(l.Size, w) + 0.5)
	if s < 2 {
		return
	}
	rect := image.Rect(int(x)-s/2, int(y)-s/2, int(x)-s/2+s, int(y)-s/2+s)
	if !rect.Overlaps(image.Rect(0, 0, r.fb.Width, r.fb.Height)) {
		return
	}
	var fade float32 = 1
	if r.opts.Fog > 0 {
		d := r.opts.Fog * w
		fade = math32.Exp(-d * d)
	}
	r.cards = append(r.cards, card{l.Tex, rect, w, uint8(fade*255 + 0.5)})
}

// drawCards composites queued cards back to front.
func (r *Renderer) drawCards(dst *image.RGBA) {
	slices.SortFunc(r.cards, func(a, b card) int {
		switch {
		case a.w > b.w:
			return -1
		case a.w < b.w:
			return 1
		}
		return 0
	})
	for _, c := range r.cards {
		tmp := image.NewRGBA(image.Rect(0, 0, c.rect.Dx(), c.rect.Dy()))
		draw.ApproxBiLinear.Scale(tmp, tmp.Bounds(), c.tex, c.tex.Bounds(), draw.Src, nil)
		mask := image.NewUniform(color.Alpha{c.alpha})
		draw.DrawMask(dst, c.rect, tmp, image.Point{}, mask, image.Point{}, draw.Over)
	}
}
