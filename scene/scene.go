// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scene assembles the backdrop's scene graph.
//
// The graph is built once by Assemble. Afterwards only
// the transforms of existing nodes change, except for
// the single insertion of the centerpiece by Attach.
package scene

import (
	"errors"

	"github.com/gviegas/backdrop/asset"
	"github.com/gviegas/backdrop/gen"
	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

var (
	// ErrAttached means that a centerpiece was already
	// attached to the scene.
	ErrAttached = errors.New("scene: centerpiece already attached")
	// ErrInvalid means that a load result carries no
	// node or has an unknown kind.
	ErrInvalid = errors.New("scene: invalid load result")
)

// Params describes what Assemble generates.
type Params struct {
	Galaxy gen.GalaxyParams
	Stars  gen.StarParams
	// Exponential fog density.
	Fog float32
	// Background color.
	Background linear.V3
}

// DefaultParams returns the parameters for the given
// galaxy and starfield point budgets.
func DefaultParams(galaxy, stars int) Params {
	return Params{
		Galaxy:     gen.DefaultGalaxy(galaxy),
		Stars:      gen.DefaultStars(stars),
		Fog:        0.04,
		Background: gen.RGB(0x020205),
	}
}

// Sector is a named group of decorations anchored at a
// fixed world offset.
type Sector struct {
	Name   string
	Anchor linear.V3
	Group  *node.Node

	members []*node.Node
}

// Members returns the decorations of s. Its local
// light is not included.
// The slice is built once by Assemble and must not be
// modified.
func (s *Sector) Members() []*node.Node { return s.members }

// Scene is the backdrop's scene graph.
type Scene struct {
	root       *node.Node
	galaxy     *node.Node
	stars      *node.Node
	sectors    []*Sector
	center     *node.Node
	centerKind asset.Kind

	Fog        float32
	Background linear.V3
}

// Assemble generates the whole scene, except for the
// centerpiece, from the random source rng.
func Assemble(rng gen.Rand, p Params) *Scene {
	s := &Scene{
		root:       node.NewGroup("scene"),
		Fog:        p.Fog,
		Background: p.Background,
	}
	for _, l := range lights() {
		s.root.Insert(l)
	}
	s.galaxy = node.NewPoints("galaxy", gen.Galaxy(rng, p.Galaxy))
	s.root.Insert(s.galaxy)
	s.stars = node.NewPoints("stars", gen.Stars(rng, p.Stars))
	s.root.Insert(s.stars)
	for _, d := range sectorDefs {
		sec := &Sector{Name: d.name, Anchor: d.anchor, Group: node.NewGroup(d.name)}
		sec.Group.Pos = d.anchor
		sec.members = d.build(rng)
		for _, n := range sec.members {
			sec.Group.Insert(n)
		}
		l := node.NewLight(d.name+".light", &node.Lamp{
			Type:      node.Point,
			Color:     d.light,
			Intensity: 2,
			Range:     10,
		})
		l.Pos = linear.V3{0, 2, 2}
		sec.Group.Insert(l)
		s.root.Insert(sec.Group)
		s.sectors = append(s.sectors, sec)
	}
	return s
}

// sectorDefs lists the sectors, one per wizard step
// that shows decorations.
var sectorDefs = [...]struct {
	name   string
	anchor linear.V3
	light  linear.V3
	build  func(gen.Rand) []*node.Node
}{
	{"snacks", linear.V3{12, 0, 0}, gen.RGB(0xffaa00), func(rng gen.Rand) []*node.Node {
		return append(gen.Cups(rng, 8), gen.Popcorn(rng, 30)...)
	}},
	{"dates", linear.V3{-12, 1, -2}, gen.RGB(0x7059ff), func(rng gen.Rand) []*node.Node {
		return gen.Cards(rng, 15)
	}},
	{"time", linear.V3{0, 8, 0}, gen.RGB(0x88ccff), func(rng gen.Rand) []*node.Node {
		return append(gen.Clocks(rng, 6), gen.Hourglasses(rng, 5)...)
	}},
}

// lights returns the scene-wide lights.
func lights() []*node.Node {
	amb := node.NewLight("ambient", &node.Lamp{Type: node.Ambient, Color: gen.RGB(0x404040), Intensity: 0.5})
	var ns = []*node.Node{amb}
	for i, p := range [...]struct {
		color     uint32
		intensity float32
		rng       float32
		pos       linear.V3
	}{
		{0x9d4edd, 3, 30, linear.V3{5, 5, 5}},
		{0xff6b9d, 2, 25, linear.V3{-5, -2, 5}},
		{0x4ade80, 1.5, 20, linear.V3{0, 10, -5}},
	} {
		l := node.NewLight("point"+string(rune('1'+i)), &node.Lamp{
			Type:      node.Point,
			Color:     gen.RGB(p.color),
			Intensity: p.intensity,
			Range:     p.rng,
		})
		l.Pos = p.pos
		ns = append(ns, l)
	}
	return ns
}

// Attach inserts the resolved centerpiece, along with
// any lights tuned to it. It succeeds at most once.
func (s *Scene) Attach(r asset.Result) error {
	if s.center != nil {
		return ErrAttached
	}
	if r.Node == nil || (r.Kind != asset.Loaded && r.Kind != asset.Fallback) {
		return ErrInvalid
	}
	for _, l := range r.Lights {
		s.root.Insert(l)
	}
	s.root.Insert(r.Node)
	s.center = r.Node
	s.centerKind = r.Kind
	return nil
}

// Root returns the root of the scene graph.
func (s *Scene) Root() *node.Node { return s.root }

// Galaxy returns the galaxy point cloud node.
func (s *Scene) Galaxy() *node.Node { return s.galaxy }

// Stars returns the starfield point cloud node.
func (s *Scene) Stars() *node.Node { return s.stars }

// Sectors returns the scene's sectors.
func (s *Scene) Sectors() []*Sector { return s.sectors }

// Sector returns the sector with the given name.
func (s *Scene) Sector(name string) (*Sector, bool) {
	for _, sec := range s.sectors {
		if sec.Name == name {
			return sec, true
		}
	}
	return nil, false
}

// Centerpiece returns the attached centerpiece and how
// it was produced. ok is false until Attach succeeds.
func (s *Scene) Centerpiece() (n *node.Node, kind asset.Kind, ok bool) {
	return s.center, s.centerKind, s.center != nil
}

// Count returns the number of attached centerpieces of
// the given kind (zero or one).
func (s *Scene) Count(kind asset.Kind) int {
	if s.center != nil && s.centerKind == kind {
		return 1
	}
	return 0
}
