// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package gen

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

// The functions in this file sample primitive
// surfaces, all centered at the origin.

// SphereVerts samples a sphere of radius r with the
// given number of segments along each angle.
func SphereVerts(r float32, seg int) []linear.V3 {
	seg = max(3, seg)
	vs := make([]linear.V3, 0, (seg+1)*seg)
	for i := 0; i <= seg; i++ {
		phi := float32(i) / float32(seg) * math32.Pi
		sp, cp := math32.Sincos(phi)
		for j := range seg {
			theta := float32(j) / float32(seg) * 2 * math32.Pi
			st, ct := math32.Sincos(theta)
			vs = append(vs, linear.V3{r * sp * ct, r * cp, r * sp * st})
		}
	}
	return vs
}

// CylinderVerts samples a cylinder of height h along
// the Y axis, with top radius rt and bottom radius rb.
// A zero rt yields a cone.
func CylinderVerts(rt, rb, h float32, seg int) []linear.V3 {
	seg = max(3, seg)
	const rings = 4
	vs := make([]linear.V3, 0, (rings+1)*seg+2)
	for i := 0; i <= rings; i++ {
		t := float32(i) / rings
		r := rb + (rt-rb)*t
		y := -h/2 + h*t
		for j := range seg {
			s, c := math32.Sincos(float32(j) / float32(seg) * 2 * math32.Pi)
			vs = append(vs, linear.V3{r * c, y, r * s})
		}
	}
	// Cap centers.
	return append(vs, linear.V3{0, h / 2, 0}, linear.V3{0, -h / 2, 0})
}

// ConeVerts samples a cone of base radius r and height
// h pointing up the Y axis.
func ConeVerts(r, h float32, seg int) []linear.V3 {
	return CylinderVerts(0, r, h, seg)
}

// BoxVerts samples the corners and face centers of a
// box of size w×h×d.
func BoxVerts(w, h, d float32) []linear.V3 {
	x, y, z := w/2, h/2, d/2
	vs := make([]linear.V3, 0, 14)
	for _, sx := range [2]float32{-1, 1} {
		for _, sy := range [2]float32{-1, 1} {
			for _, sz := range [2]float32{-1, 1} {
				vs = append(vs, linear.V3{sx * x, sy * y, sz * z})
			}
		}
	}
	return append(vs,
		linear.V3{x, 0, 0}, linear.V3{-x, 0, 0},
		linear.V3{0, y, 0}, linear.V3{0, -y, 0},
		linear.V3{0, 0, z}, linear.V3{0, 0, -z},
	)
}

// DodecahedronVerts returns the 20 vertices of a
// regular dodecahedron of circumradius r.
func DodecahedronVerts(r float32) []linear.V3 {
	const phi = 1.618033988749895
	const inv = 1 / phi
	vs := make([]linear.V3, 0, 20)
	for _, sx := range [2]float32{-1, 1} {
		for _, sy := range [2]float32{-1, 1} {
			for _, sz := range [2]float32{-1, 1} {
				vs = append(vs, linear.V3{sx, sy, sz})
			}
			vs = append(vs,
				linear.V3{0, sx * inv, sy * phi},
				linear.V3{sx * inv, sy * phi, 0},
				linear.V3{sx * phi, 0, sy * inv},
			)
		}
	}
	// Unscaled circumradius is √3.
	s := r / math32.Sqrt(3)
	for i := range vs {
		vs[i].Scale(s, &vs[i])
	}
	return vs
}

// PlaneVerts samples a w×h plane on the XY plane.
func PlaneVerts(w, h float32) []linear.V3 {
	x, y := w/2, h/2
	return []linear.V3{{-x, -y, 0}, {x, -y, 0}, {x, y, 0}, {-x, y, 0}, {0, 0, 0}}
}

// mesh creates a mesh node from a primitive sample.
func mesh(name string, prim node.Primitive, verts []linear.V3, mat node.Material) *node.Node {
	if mat.Opacity == 0 {
		mat.Opacity = 1
	}
	return node.NewMesh(name, &node.Shape{Prim: prim, Verts: verts, Mat: mat})
}
