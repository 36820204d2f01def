// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package gen

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

// GalaxyParams describes a spiral galaxy.
type GalaxyParams struct {
	// Number of points.
	Count int
	// Maximum distance of a branch sample from the
	// center.
	Radius float32
	// Number of spiral arms.
	Branches int
	// Angular twist per unit of radius.
	Spin float32
	// Scale of the jitter away from an arm's
	// centerline, relative to the sample's radius.
	Randomness float32
	// Colors at the center and at the rim.
	Inside  linear.V3
	Outside linear.V3
}

// DefaultGalaxy returns the galaxy parameters for a
// point budget of count.
func DefaultGalaxy(count int) GalaxyParams {
	return GalaxyParams{
		Count:      count,
		Radius:     10,
		Branches:   4,
		Spin:       1.2,
		Randomness: 0.5,
		Inside:     Hex("#ff8c69"),
		Outside:    Hex("#4a90e2"),
	}
}

// Galaxy generates a multi-armed spiral point cloud.
//
// Each sample i is drawn at a uniform radius r along
// arm i mod Branches, twisted by r⋅Spin and offset by
// a cubic-biased jitter of at most Randomness⋅r on the
// horizontal plane (half that vertically). Samples
// thus lie within Radius⋅(1+Randomness) of the Y axis.
// Colors blend from Inside to Outside by r/Radius.
func Galaxy(rng Rand, p GalaxyParams) *node.PointCloud {
	n := max(0, p.Count)
	branches := max(1, p.Branches)
	c := &node.PointCloud{
		Pos:      make([]linear.V3, n),
		Color:    make([]linear.V3, n),
		Size:     0.04,
		Opacity:  1,
		Additive: true,
	}
	for i := range n {
		r := rng.Float32() * p.Radius
		branch := float32(i%branches) / float32(branches) * 2 * math32.Pi
		angle := branch + r*p.Spin

		jx := jitter(rng, p.Randomness, r)
		jy := jitter(rng, p.Randomness, r)
		jz := jitter(rng, p.Randomness, r)
		// Keep the horizontal offset within the
		// per-axis bound.
		if lim := p.Randomness * r; lim > 0 {
			if h := math32.Hypot(jx, jz); h > lim {
				jx *= lim / h
				jz *= lim / h
			}
		}

		s, co := math32.Sincos(angle)
		c.Pos[i] = linear.V3{co*r + jx, jy * 0.5, s*r + jz}

		t := float32(0)
		if p.Radius > 0 {
			t = r / p.Radius
		}
		c.Color[i] = Mix(p.Inside, p.Outside, t)
	}
	return c
}

// jitter returns ±U³⋅randomness⋅r.
// The cube concentrates samples near zero, leaving a
// long tail.
func jitter(rng Rand, randomness, r float32) float32 {
	u := rng.Float32()
	return sign(rng) * u * u * u * randomness * r
}
