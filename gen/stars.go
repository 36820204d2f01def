// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package gen

import (
	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

// StarParams describes a starfield.
type StarParams struct {
	Count int
	// Side of the cube filled with stars.
	Extent float32
	// Saturation and lightness shared by all stars.
	Saturation float32
	Lightness  float32
}

// DefaultStars returns the starfield parameters for a
// point budget of count.
func DefaultStars(count int) StarParams {
	return StarParams{
		Count:      count,
		Extent:     80,
		Saturation: 0.5,
		Lightness:  0.8,
	}
}

// Stars generates a uniform random fill of a cube
// centered at the origin. Each star has a random hue.
func Stars(rng Rand, p StarParams) *node.PointCloud {
	n := max(0, p.Count)
	c := &node.PointCloud{
		Pos:      make([]linear.V3, n),
		Color:    make([]linear.V3, n),
		Size:     0.08,
		Opacity:  0.8,
		Additive: true,
	}
	ext := linear.V3{p.Extent, p.Extent, p.Extent}
	for i := range n {
		c.Pos[i] = inBox(rng, ext)
		c.Color[i] = HSL(rng.Float32(), p.Saturation, p.Lightness)
	}
	return c
}
