// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package raster

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
	"github.com/gviegas/backdrop/wsi"
)

var surfaces int

func newSurface(t *testing.T, w, h int) *wsi.Image {
	t.Helper()
	surfaces++
	s, err := wsi.NewImage(fmt.Sprintf("%s#%d", t.Name(), surfaces), w, h)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func newRenderer(t *testing.T, s wsi.Surface, ss int) *Renderer {
	t.Helper()
	opts := DefaultOptions()
	opts.Fog = 0
	opts.Background = linear.V3{}
	opts.Supersample = ss
	r, err := New(s, opts)
	require.NoError(t, err)
	r.SetCamera(linear.V3{0, 0, 8}, linear.V3{0, 0, -2})
	return r
}

func TestNew(t *testing.T) {
	_, err := New(nil, DefaultOptions())
	assert.Error(t, err)

	s := newSurface(t, 30, 20)
	r, err := New(s, Options{Supersample: 8})
	require.NoError(t, err)
	assert.Equal(t, MaxSupersample, r.opts.Supersample)
	assert.Equal(t, float32(70), r.opts.FOV)
	w, h := r.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 20, h)
	assert.Equal(t, 60, r.fb.Width)
	assert.Equal(t, 40, r.fb.Height)

	r.Resize(0, -5)
	w, h = r.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestRenderPoints(t *testing.T) {
	for _, ss := range []int{1, 2} {
		s := newSurface(t, 64, 48)
		r := newRenderer(t, s, ss)
		root := node.NewGroup("root")
		root.Insert(node.NewPoints("p", &node.PointCloud{
			Pos:     []linear.V3{{}},
			Color:   []linear.V3{{1, 1, 1}},
			Size:    1,
			Opacity: 1,
		}))
		require.NoError(t, r.Render(root))
		require.Equal(t, 1, s.Presented())
		f := s.Frame()
		assert.Equal(t, image.Rect(0, 0, 64, 48), f.Bounds())
		c := f.RGBAAt(32, 24)
		assert.Greater(t, c.R, uint8(128), "ss %d", ss)
		assert.Equal(t, color.RGBA{0, 0, 0, 255}, f.RGBAAt(2, 2))
	}
}

func TestRenderBehind(t *testing.T) {
	s := newSurface(t, 32, 32)
	r := newRenderer(t, s, 1)
	root := node.NewGroup("root")
	p := node.NewPoints("p", &node.PointCloud{Pos: []linear.V3{{0, 0, 20}}, Size: 5})
	root.Insert(p)
	require.NoError(t, r.Render(root))
	f := s.Frame()
	for i := 0; i < len(f.Pix); i += 4 {
		require.Zero(t, f.Pix[i])
	}
}

func TestRenderMesh(t *testing.T) {
	s := newSurface(t, 64, 48)
	r := newRenderer(t, s, 1)
	root := node.NewGroup("root")
	root.Insert(node.NewLight("amb", &node.Lamp{Type: node.Ambient, Color: linear.V3{1, 1, 1}, Intensity: 1}))
	root.Insert(node.NewMesh("m", &node.Shape{
		Verts: []linear.V3{{0, 0, 0.5}},
		Mat:   node.Material{Color: linear.V3{1, 0, 0}, Opacity: 1},
	}))
	require.NoError(t, r.Render(root))
	c := s.Frame().RGBAAt(32, 24)
	assert.Greater(t, c.R, uint8(200))
	assert.Less(t, c.G, uint8(50))
}

func TestRenderCard(t *testing.T) {
	s := newSurface(t, 64, 48)
	r := newRenderer(t, s, 1)
	tex := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range tex.Pix {
		tex.Pix[i] = 255
	}
	root := node.NewGroup("root")
	root.Insert(node.NewCard("c", &node.Label{Text: "7", Tex: tex, Size: 2}))
	require.NoError(t, r.Render(root))
	c := s.Frame().RGBAAt(32, 24)
	assert.Greater(t, c.G, uint8(200))
}

func TestOpacity(t *testing.T) {
	s := newSurface(t, 8, 8)
	r := newRenderer(t, s, 1)
	r.SetOpacity(0.3)
	assert.Equal(t, float32(0.3), s.Opacity())
	r.SetOpacity(2)
	assert.Equal(t, float32(1), s.Opacity())
}

func TestFog(t *testing.T) {
	s := newSurface(t, 8, 8)
	r, err := New(s, DefaultOptions())
	require.NoError(t, err)
	c := linear.V3{1, 1, 1}
	prev := c
	for _, w := range []float32{1, 5, 10, 40, 100} {
		f := r.fog(c, w)
		assert.Less(t, f[0], prev[0])
		assert.GreaterOrEqual(t, f[0], r.opts.Background[0])
		prev = f
	}
	assert.InDelta(t, r.opts.Background[0], r.fog(c, 1000)[0], 1e-4)
}

func TestRenderNil(t *testing.T) {
	s := newSurface(t, 8, 8)
	r := newRenderer(t, s, 1)
	assert.Error(t, r.Render(nil))
	assert.Zero(t, s.Presented())
}
