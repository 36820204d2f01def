// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package gen

import (
	"image/color"
	"strconv"

	"github.com/chewxy/math32"

	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

// Each decoration generator returns n top-level
// nodes, each placed at random within the
// generator's bounding box (centered at the origin),
// randomly oriented, and given a positive Spin.

// Cups generates soda cups: a cup, a lid and a straw
// in a random hue.
func Cups(rng Rand, n int) []*node.Node {
	var (
		cup   = CylinderVerts(0.25, 0.2, 0.6, 16)
		lid   = CylinderVerts(0.26, 0.26, 0.05, 16)
		straw = CylinderVerts(0.02, 0.02, 0.3, 8)
		white = node.Material{Color: RGB(0xffffff), Roughness: 0.5}
	)
	ns := make([]*node.Node, 0, max(0, n))
	for i := 0; i < n; i++ {
		c := HSL(rng.Float32(), 0.8, 0.5)
		g := node.NewGroup("cup")
		g.Insert(mesh("cup.body", node.Cylinder, cup, node.Material{
			Color:     c,
			Emissive:  scale(c, 0.2),
			Roughness: 0.2,
			Metalness: 0.1,
		}))
		l := mesh("cup.lid", node.Cylinder, lid, white)
		l.Pos[1] = 0.32
		g.Insert(l)
		s := mesh("cup.straw", node.Cylinder, straw, white)
		s.Pos = linear.V3{0.05, 0.45, 0}
		s.Rot[2] = -0.2
		g.Insert(s)

		g.Pos = inBox(rng, linear.V3{4, 4, 3})
		g.Rot = linear.V3{rng.Float32(), rng.Float32(), rng.Float32()}
		g.Spin = spin(rng, 0.005, 0.01)
		ns = append(ns, g)
	}
	return ns
}

// Popcorn generates small dodecahedra tinted from
// yellow to white.
func Popcorn(rng Rand, n int) []*node.Node {
	verts := DodecahedronVerts(0.12)
	ns := make([]*node.Node, 0, max(0, n))
	for i := 0; i < n; i++ {
		c := HSL(0.1+rng.Float32()*0.1, 1, 0.8)
		m := mesh("popcorn", node.Dodecahedron, verts, node.Material{
			Color:     c,
			Emissive:  scale(c, 0.1),
			Roughness: 0.8,
		})
		m.Pos = inBox(rng, linear.V3{5, 5, 4})
		m.Rot = linear.V3{rng.Float32(), rng.Float32(), rng.Float32()}
		m.Spin = spin(rng, 0.01, 0.02)
		ns = append(ns, m)
	}
	return ns
}

// Cards generates floating day-of-month cards
// labeled with a random number in [1, 31].
func Cards(rng Rand, n int) []*node.Node {
	ink := color.RGBA{0x70, 0x59, 0xff, 0xff}
	ns := make([]*node.Node, 0, max(0, n))
	for i := 0; i < n; i++ {
		text := strconv.Itoa(rng.IntN(31) + 1)
		c := node.NewCard("card."+text, &node.Label{
			Text: text,
			Tex:  LabelTexture(text, ink),
			Size: 1,
		})
		c.Pos = inBox(rng, linear.V3{6, 6, 4})
		c.Rot = linear.V3{rng.Float32() * 0.5, rng.Float32() * 0.5, 0}
		c.Spin = spin(rng, 0, 0.005)
		ns = append(ns, c)
	}
	return ns
}

// Clocks generates clock faces with an hour and a
// minute hand at random angles.
func Clocks(rng Rand, n int) []*node.Node {
	var (
		face    = CylinderVerts(0.4, 0.4, 0.05, 32)
		hand    = BoxVerts(0.04, 0.3, 0.02)
		faceMat = node.Material{Color: RGB(0xffffff), Roughness: 0.2}
		handMat = node.Material{Color: RGB(0x000000), Roughness: 1}
	)
	ns := make([]*node.Node, 0, max(0, n))
	for i := 0; i < n; i++ {
		g := node.NewGroup("clock")
		f := mesh("clock.face", node.Cylinder, face, faceMat)
		f.Rot[0] = math32.Pi / 2
		g.Insert(f)
		hour := mesh("clock.hour", node.Box, hand, handMat)
		hour.Pos[2] = 0.04
		hour.Scale[1] = 0.6
		hour.Rot[2] = rng.Float32() * 2 * math32.Pi
		g.Insert(hour)
		minute := mesh("clock.minute", node.Box, hand, handMat)
		minute.Pos[2] = 0.04
		minute.Rot[2] = rng.Float32() * 2 * math32.Pi
		g.Insert(minute)

		g.Pos = inBox(rng, linear.V3{5, 3, 3})
		g.Rot = linear.V3{rng.Float32(), rng.Float32(), rng.Float32()}
		g.Spin = spin(rng, 0, 0.01)
		ns = append(ns, g)
	}
	return ns
}

// Hourglasses generates pairs of opposed glass
// cones.
func Hourglasses(rng Rand, n int) []*node.Node {
	var (
		cone  = ConeVerts(0.2, 0.4, 16)
		glass = node.Material{Color: RGB(0x88ccff), Roughness: 0.1, Opacity: 0.4}
	)
	ns := make([]*node.Node, 0, max(0, n))
	for i := 0; i < n; i++ {
		g := node.NewGroup("hourglass")
		top := mesh("hourglass.top", node.Cone, cone, glass)
		top.Pos[1] = 0.2
		top.Rot[0] = math32.Pi
		g.Insert(top)
		bot := mesh("hourglass.bottom", node.Cone, cone, glass)
		bot.Pos[1] = -0.2
		g.Insert(bot)

		g.Pos = inBox(rng, linear.V3{5, 3, 3})
		g.Rot = linear.V3{rng.Float32(), rng.Float32(), rng.Float32()}
		g.Spin = spin(rng, 0.005, 0.01)
		ns = append(ns, g)
	}
	return ns
}

// Pomegranate synthesizes the centerpiece used when
// the external model cannot be loaded: a slightly
// squashed sphere topped by a six-sided crown.
func Pomegranate() *node.Node {
	g := node.NewGroup("pomegranate")
	body := mesh("pomegranate.body", node.Sphere, SphereVerts(0.8, 32), node.Material{
		Color:     RGB(0xc73866),
		Emissive:  scale(RGB(0x4a0e1f), 0.3),
		Roughness: 0.4,
		Metalness: 0.2,
	})
	body.Scale = linear.V3{1, 0.9, 1}
	g.Insert(body)
	crown := mesh("pomegranate.crown", node.Cone, ConeVerts(0.3, 0.4, 6), node.Material{
		Color:     RGB(0x8b4513),
		Roughness: 0.7,
	})
	crown.Pos[1] = 0.9
	crown.Rot[1] = math32.Pi / 6
	g.Insert(crown)
	return g
}

func scale(c linear.V3, s float32) (v linear.V3) {
	v.Scale(s, &c)
	return
}
