// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/backdrop/asset"
	"github.com/gviegas/backdrop/gen"
	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

func newScene(t *testing.T) *Scene {
	t.Helper()
	s := Assemble(rand.New(rand.NewPCG(1, 2)), DefaultParams(4000, 1200))
	require.NotNil(t, s)
	return s
}

func TestAssemble(t *testing.T) {
	s := newScene(t)
	assert.Equal(t, 4000, s.Galaxy().Cloud.Len())
	assert.Equal(t, 1200, s.Stars().Cloud.Len())
	assert.Equal(t, float32(0.04), s.Fog)
	assert.Equal(t, s.Root(), s.Galaxy().Parent())
	assert.Equal(t, s.Root(), s.Stars().Parent())

	var lights int
	for _, n := range s.Root().Children() {
		if n.Kind() == node.Light {
			lights++
		}
	}
	assert.Equal(t, 4, lights)

	want := map[string]struct {
		anchor  linear.V3
		members int
	}{
		"snacks": {linear.V3{12, 0, 0}, 38},
		"dates":  {linear.V3{-12, 1, -2}, 15},
		"time":   {linear.V3{0, 8, 0}, 11},
	}
	require.Len(t, s.Sectors(), len(want))
	for _, sec := range s.Sectors() {
		w, ok := want[sec.Name]
		require.Truef(t, ok, "unexpected sector %q", sec.Name)
		assert.Equal(t, w.anchor, sec.Anchor)
		assert.Equal(t, w.anchor, sec.Group.Pos)
		assert.Equal(t, s.Root(), sec.Group.Parent())
		ms := sec.Members()
		assert.Len(t, ms, w.members, sec.Name)
		for _, m := range ms {
			assert.GreaterOrEqual(t, m.Spin, float32(gen.MinSpin), m.Name)
			assert.Equal(t, sec.Group, m.Parent(), m.Name)
		}
		// Read every frame; must not allocate.
		assert.Zero(t, testing.AllocsPerRun(10, func() { _ = sec.Members() }), sec.Name)
		// One local light per sector.
		assert.Equal(t, w.members+1, len(sec.Group.Children()))
	}

	_, ok := s.Sector("dates")
	assert.True(t, ok)
	_, ok = s.Sector("genre")
	assert.False(t, ok)

	_, _, ok = s.Centerpiece()
	assert.False(t, ok)
	assert.Zero(t, s.Count(asset.Loaded))
	assert.Zero(t, s.Count(asset.Fallback))
}

func TestAttach(t *testing.T) {
	for _, kind := range []asset.Kind{asset.Loaded, asset.Fallback} {
		s := newScene(t)
		n := node.NewGroup("centerpiece")
		r := asset.Result{Kind: kind, Node: n}
		if kind == asset.Loaded {
			r.Lights = asset.ModelLights(n)
		}
		before := len(s.Root().Children())
		require.NoError(t, s.Attach(r))

		have, k, ok := s.Centerpiece()
		require.True(t, ok)
		assert.Equal(t, n, have)
		assert.Equal(t, kind, k)
		assert.Equal(t, s.Root(), n.Parent())
		assert.Equal(t, before+1+len(r.Lights), len(s.Root().Children()))
		assert.Equal(t, 1, s.Count(kind))

		other := asset.Loaded
		if kind == asset.Loaded {
			other = asset.Fallback
		}
		assert.Zero(t, s.Count(other))

		// Further attaches change nothing.
		err := s.Attach(asset.Result{Kind: other, Node: gen.Pomegranate()})
		assert.True(t, errors.Is(err, ErrAttached))
		assert.Equal(t, before+1+len(r.Lights), len(s.Root().Children()))
		assert.Equal(t, 1, s.Count(kind))
		assert.Zero(t, s.Count(other))
	}
}

func TestAttachInvalid(t *testing.T) {
	s := newScene(t)
	assert.ErrorIs(t, s.Attach(asset.Result{Kind: asset.Loaded}), ErrInvalid)
	assert.ErrorIs(t, s.Attach(asset.Result{Node: node.New()}), ErrInvalid)
	_, _, ok := s.Centerpiece()
	assert.False(t, ok)
	assert.NoError(t, s.Attach(asset.Result{Kind: asset.Fallback, Node: gen.Pomegranate()}))
}

func TestDeterministic(t *testing.T) {
	p := DefaultParams(500, 200)
	a := Assemble(rand.New(rand.NewPCG(9, 9)), p)
	b := Assemble(rand.New(rand.NewPCG(9, 9)), p)
	assert.Equal(t, a.Galaxy().Cloud.Pos, b.Galaxy().Cloud.Pos)
	assert.Equal(t, a.Stars().Cloud.Color, b.Stars().Cloud.Color)
	for i, sec := range a.Sectors() {
		am, bm := sec.Members(), b.Sectors()[i].Members()
		require.Len(t, bm, len(am))
		for j := range am {
			assert.Equal(t, am[j].Pos, bm[j].Pos)
			assert.Equal(t, am[j].Spin, bm[j].Spin)
		}
	}
}
