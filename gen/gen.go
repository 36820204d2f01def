// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package gen generates the procedural geometry of the
// backdrop: point clouds, decorative meshes and the
// fallback centerpiece.
//
// Generators are pure given the random source passed
// to them. They allocate new nodes on every call and
// never retain them.
package gen

import (
	"github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gviegas/backdrop/linear"
)

// The smallest per-frame rotation speed given to a
// decoration.
const MinSpin = 0.001

// Rand is the random source consumed by generators.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float32() float32
	IntN(n int) int
}

// Hex returns the RGB color described by the hex
// string s (e.g. "#ff8c69").
// It panics if s is malformed.
func Hex(s string) linear.V3 {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return fromColorful(c)
}

// RGB returns the RGB color described by the 24-bit
// value c (e.g. 0xff8c69).
func RGB(c uint32) linear.V3 {
	return linear.V3{
		float32(c>>16&0xff) / 255,
		float32(c>>8&0xff) / 255,
		float32(c&0xff) / 255,
	}
}

// HSL returns the RGB color described by hue h,
// saturation s and lightness l, all in [0, 1].
func HSL(h, s, l float32) linear.V3 {
	h -= math32.Floor(h)
	return fromColorful(colorful.Hsl(float64(h)*360, float64(s), float64(l)))
}

// Mix returns the linear blend of a and b by t.
func Mix(a, b linear.V3, t float32) linear.V3 {
	ca := colorful.Color{R: float64(a[0]), G: float64(a[1]), B: float64(a[2])}
	cb := colorful.Color{R: float64(b[0]), G: float64(b[1]), B: float64(b[2])}
	return fromColorful(ca.BlendRgb(cb, float64(t)))
}

func fromColorful(c colorful.Color) linear.V3 {
	c = c.Clamped()
	return linear.V3{float32(c.R), float32(c.G), float32(c.B)}
}

// sign returns -1 or 1 with equal probability.
func sign(rng Rand) float32 {
	if rng.Float32() < 0.5 {
		return -1
	}
	return 1
}

// spread returns a value in [-extent/2, extent/2).
func spread(rng Rand, extent float32) float32 {
	return (rng.Float32() - 0.5) * extent
}

// inBox returns a random position inside the box of
// size ext centered at the origin.
func inBox(rng Rand, ext linear.V3) linear.V3 {
	return linear.V3{spread(rng, ext[0]), spread(rng, ext[1]), spread(rng, ext[2])}
}

// spin returns base + U[0,extra) clamped to MinSpin.
func spin(rng Rand, base, extra float32) float32 {
	return max(MinSpin, base+rng.Float32()*extra)
}
