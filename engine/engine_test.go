// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/backdrop/asset"
	"github.com/gviegas/backdrop/camera"
	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/loop"
	"github.com/gviegas/backdrop/node"
	"github.com/gviegas/backdrop/scene"
	"github.com/gviegas/backdrop/wsi"
)

const tick = 16 * time.Millisecond

const model = `{
	"asset": {"version": "2.0"},
	"scene": 0,
	"scenes": [{"name": "model", "nodes": [0]}],
	"nodes": [{"name": "fruit"}]
}`

type fakeRenderer struct {
	width, height int
	eye, center   linear.V3
	opacity       float32
	renders       int
	err           error
}

func (r *fakeRenderer) Resize(w, h int)              { r.width, r.height = w, h }
func (r *fakeRenderer) SetCamera(eye, ctr linear.V3) { r.eye, r.center = eye, ctr }
func (r *fakeRenderer) SetOpacity(a float32)         { r.opacity = a }
func (r *fakeRenderer) Render(*node.Node) error {
	r.renders++
	return r.err
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var surfaces int

// setup creates a surface, a manual scheduler and a
// configuration that renders with a fakeRenderer.
func setup(t *testing.T, fsys fstest.MapFS) (Config, *loop.Manual, *fakeRenderer) {
	t.Helper()
	surfaces++
	id := fmt.Sprintf("%s#%d", t.Name(), surfaces)
	s, err := wsi.NewImage(id, 320, 200)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rend := &fakeRenderer{opacity: 1}
	cfg := DefaultConfig()
	cfg.Tier = Constrained
	cfg.Seed = 42
	cfg.Surface = id
	cfg.Log = quiet
	cfg.NewRenderer = func(wsi.Surface, *scene.Scene) (Renderer, error) { return rend, nil }
	if fsys != nil {
		cfg.Fetcher = asset.DirFetcher{FS: fsys}
	}
	return cfg, loop.NewManual(time.Unix(0, 0)), rend
}

// start initializes an engine and waits for its
// centerpiece.
func start(t *testing.T, cfg Config, m *loop.Manual) *Engine {
	t.Helper()
	e, err := Initialize(context.Background(), cfg, m)
	require.NoError(t, err)
	require.NotNil(t, e)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		if _, _, ok := e.Scene().Centerpiece(); ok {
			break
		}
		require.NoError(t, m.Await(ctx))
	}
	t.Cleanup(e.Close)
	return e
}

func TestInitializeReducedMotion(t *testing.T) {
	cfg, m, rend := setup(t, nil)
	cfg.ReducedMotion = true
	e, err := Initialize(context.Background(), cfg, m)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, ErrReducedMotion)
	time.Sleep(10 * time.Millisecond)
	for i := 0; i < 10; i++ {
		assert.Zero(t, m.Tick(tick))
	}
	assert.Zero(t, m.Drain())
	assert.Zero(t, rend.renders)
}

func TestInitializeNoSurface(t *testing.T) {
	cfg, m, _ := setup(t, nil)
	cfg.Surface = "missing"
	e, err := Initialize(context.Background(), cfg, m)
	assert.Nil(t, e)
	assert.True(t, errors.Is(err, ErrNoSurface))
	assert.True(t, errors.Is(err, wsi.ErrMissing))
	assert.Zero(t, m.Pending())
	assert.Zero(t, m.Drain())

	_, err = Initialize(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestInitialize(t *testing.T) {
	cfg, m, rend := setup(t, nil)
	e := start(t, cfg, m)
	assert.Equal(t, Motion{Tier: Constrained}, e.Motion())
	assert.Equal(t, 4000, e.Scene().Galaxy().Cloud.Len())
	assert.Equal(t, 1200, e.Scene().Stars().Cloud.Len())
	assert.Equal(t, 320, rend.width)
	assert.Equal(t, 200, rend.height)
	assert.Equal(t, InitialPos, e.Camera().State.Pos)
	assert.Equal(t, InitialPos, rend.eye)
	assert.True(t, e.Loop().Running())

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, m.Tick(tick))
	}
	assert.Equal(t, 3, rend.renders)
	assert.Equal(t, 3, e.Loop().Frames())
}

func TestCenterpiece(t *testing.T) {
	for _, x := range [...]struct {
		name string
		fsys fstest.MapFS
		want asset.Kind
	}{
		{"loaded", fstest.MapFS{asset.DefaultPath: {Data: []byte(model)}}, asset.Loaded},
		{"missing", fstest.MapFS{}, asset.Fallback},
		{"corrupt", fstest.MapFS{asset.DefaultPath: {Data: []byte("{")}}, asset.Fallback},
		{"no fetcher", nil, asset.Fallback},
	} {
		t.Run(x.name, func(t *testing.T) {
			cfg, m, _ := setup(t, x.fsys)
			e := start(t, cfg, m)
			other := asset.Loaded
			if x.want == asset.Loaded {
				other = asset.Fallback
			}
			assert.Equal(t, 1, e.Scene().Count(x.want))
			assert.Zero(t, e.Scene().Count(other))
			// No second load is ever attempted.
			for i := 0; i < 5; i++ {
				m.Tick(tick)
			}
			assert.Equal(t, 1, e.Scene().Count(x.want))
		})
	}
}

func TestCloseDiscardsLoad(t *testing.T) {
	cfg, m, _ := setup(t, nil)
	e, err := Initialize(context.Background(), cfg, m)
	require.NoError(t, err)
	e.Close()
	assert.True(t, e.Closed())
	// Loop start and load result.
	require.Eventually(t, func() bool { return m.Posted() == 2 }, 5*time.Second, time.Millisecond)
	assert.Equal(t, 2, m.Drain())
	assert.Zero(t, m.Tick(tick))
	_, _, ok := e.Scene().Centerpiece()
	assert.False(t, ok)
	assert.False(t, e.Loop().Running())
	assert.False(t, e.Transition(camera.Snacks))
}

func TestTransition(t *testing.T) {
	cfg, m, _ := setup(t, nil)
	e := start(t, cfg, m)
	for _, s := range [...]camera.Step{camera.Intro, camera.Genre, camera.Snacks, camera.Dates, camera.Time, camera.Accepted} {
		want, ok := camera.Pose(s)
		require.True(t, ok)
		assert.True(t, e.Transition(s))
		assert.Equal(t, want, e.Camera().State.Target)
	}
	want := e.Camera().State.Target
	for _, s := range [...]camera.Step{camera.None, 7, -3} {
		assert.False(t, e.Transition(s))
		assert.Equal(t, want, e.Camera().State.Target)
	}
}

func TestCameraApproach(t *testing.T) {
	cfg, m, rend := setup(t, nil)
	e := start(t, cfg, m)
	require.True(t, e.Transition(camera.Snacks))
	st := &e.Camera().State
	d := st.Dist()
	for i := 0; i < 150; i++ {
		m.Tick(tick)
		require.Less(t, st.Dist(), d)
		d = st.Dist()
	}
	assert.Equal(t, st.Pos, rend.eye)
	assert.Less(t, d, float32(0.5))
}

func TestPointer(t *testing.T) {
	cfg, m, rend := setup(t, nil)
	e := start(t, cfg, m)
	e.Pointer(160, 100)
	assert.Equal(t, linear.V3{}, e.PointerOffset())
	e.Pointer(260, 50)
	assert.InDelta(t, 0.1, e.PointerOffset()[0], 1e-6)
	assert.InDelta(t, -0.05, e.PointerOffset()[1], 1e-6)
	m.Tick(tick)
	pos := e.Camera().State.Pos
	assert.InDelta(t, pos[0]+0.5, rend.center[0], 1e-5)
	assert.InDelta(t, pos[1]+0.25, rend.center[1], 1e-5)
	assert.InDelta(t, pos[2]-camera.Forward, rend.center[2], 1e-5)

	e.Resize(100, 0)
	assert.Equal(t, 100, rend.width)
	assert.Equal(t, 1, rend.height)
}

type transform struct{ pos, rot linear.V3 }

func snapshot(e *Engine) map[*node.Node]transform {
	ts := make(map[*node.Node]transform)
	e.Scene().Root().ForEach(func(n *node.Node) {
		ts[n] = transform{n.Pos, n.Rot}
	})
	return ts
}

func TestToggleMotion(t *testing.T) {
	cfg, m, rend := setup(t, nil)
	e := start(t, cfg, m)
	require.True(t, e.Transition(camera.Dates))
	for i := 0; i < 10; i++ {
		m.Tick(tick)
	}

	e.ToggleMotion(true)
	assert.Equal(t, float32(PausedOpacity), rend.opacity)
	assert.False(t, e.Loop().Running())
	before := snapshot(e)
	cam := e.Camera().State
	renders := rend.renders
	for i := 0; i < 20; i++ {
		m.Tick(time.Second)
	}
	assert.Equal(t, before, snapshot(e))
	assert.Equal(t, cam, e.Camera().State)
	assert.Equal(t, renders, rend.renders)
	assert.Zero(t, m.Pending())

	e.ToggleMotion(false)
	assert.Equal(t, float32(1), rend.opacity)
	assert.True(t, e.Loop().Running())
	m.Tick(time.Minute)
	gal := e.Scene().Galaxy()
	assert.InDelta(t, before[gal].rot[1]+GalaxySpin, gal.Rot[1], 1e-6)
	// The bob resumes from where it stopped.
	c, _, _ := e.Scene().Centerpiece()
	assert.Equal(t, before[c].pos[1], c.Pos[1])
	assert.InDelta(t, before[c].rot[1]+CenterpieceSpin, c.Rot[1], 1e-6)
}

func TestFrame(t *testing.T) {
	cfg, m, _ := setup(t, nil)
	e := start(t, cfg, m)
	before := snapshot(e)
	m.Tick(tick)
	m.Tick(tick)
	sc := e.Scene()
	assert.InDelta(t, before[sc.Galaxy()].rot[1]+2*GalaxySpin, sc.Galaxy().Rot[1], 1e-6)
	assert.InDelta(t, before[sc.Stars()].rot[1]+2*StarsSpin, sc.Stars().Rot[1], 1e-6)
	for _, s := range sc.Sectors() {
		assert.InDelta(t, before[s.Group].rot[1]+2*SectorSpin, s.Group.Rot[1], 1e-6)
		for _, n := range s.Members() {
			assert.InDelta(t, before[n].rot[0]+2*n.Spin, n.Rot[0], 1e-5)
			assert.InDelta(t, before[n].rot[1]+2*n.Spin, n.Rot[1], 1e-5)
			assert.Equal(t, before[n].pos, n.Pos)
		}
	}
	c, _, _ := sc.Centerpiece()
	assert.InDelta(t, 0.2*0.016, c.Pos[1], 1e-4)
}

func TestRenderErrors(t *testing.T) {
	cfg, m, rend := setup(t, nil)
	var buf strings.Builder
	cfg.Log = slog.New(slog.NewTextHandler(&buf, nil))
	e := start(t, cfg, m)
	rend.err = errors.New("device lost")
	for i := 0; i < 5; i++ {
		m.Tick(tick)
	}
	assert.Equal(t, 5, e.RenderErrors())
	assert.Equal(t, 1, strings.Count(buf.String(), "device lost"))
	assert.True(t, e.Loop().Running())
}

func TestRaster(t *testing.T) {
	cfg, m, _ := setup(t, nil)
	cfg.NewRenderer = nil
	e := start(t, cfg, m)
	m.Tick(tick)
	img := e.Surface().(*wsi.Image)
	require.Equal(t, 1, img.Presented())
	f := img.Frame()
	assert.Equal(t, 320, f.Bounds().Dx())
	assert.Equal(t, 200, f.Bounds().Dy())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backdrop.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
tier = "constrained"
reduced_motion = true
seed = 7
surface = "canvas"
blend = 0.1
fps = 30
`), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Constrained, cfg.Tier)
	assert.True(t, cfg.ReducedMotion)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, "canvas", cfg.Surface)
	assert.Equal(t, asset.DefaultPath, cfg.Asset)
	assert.InDelta(t, 0.1, cfg.Blend, 1e-6)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, dflWidth, cfg.Width)

	require.NoError(t, os.WriteFile(path, []byte("colour = \"red\"\n"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("tier = \"huge\"\n"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolve(t *testing.T) {
	cfg := Config{Blend: 3}
	require.NoError(t, cfg.Resolve(Flags{Tier: "mobile", Width: 40, Seed: 9}))
	assert.Equal(t, Constrained, cfg.Tier)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, dflHeight, cfg.Height)
	assert.Equal(t, wsi.DefaultID, cfg.Surface)
	assert.Equal(t, float32(DefaultBlend), cfg.Blend)
	assert.NotNil(t, cfg.Log)
	assert.Error(t, cfg.Resolve(Flags{Tier: "huge"}))
}

func TestTier(t *testing.T) {
	g, s := Full.Counts()
	assert.Equal(t, 12000, g)
	assert.Equal(t, 3000, s)
	g, s = Constrained.Counts()
	assert.Equal(t, 4000, g)
	assert.Equal(t, 1200, s)
	b, err := Constrained.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "constrained", string(b))
}
