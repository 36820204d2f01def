// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package term

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/backdrop/camera"
	"github.com/gviegas/backdrop/engine"
	"github.com/gviegas/backdrop/facade"
	"github.com/gviegas/backdrop/wsi"
)

var surfaces int

func config(t *testing.T) engine.Config {
	surfaces++
	cfg := engine.DefaultConfig()
	cfg.Surface = fmt.Sprintf("%s#%d", t.Name(), surfaces)
	cfg.Tier = engine.Constrained
	cfg.Seed = 3
	cfg.Width = 16
	cfg.Height = 8
	cfg.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	return cfg
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// started returns a model whose Init completed.
func started(t *testing.T, cfg engine.Config) *Model {
	t.Helper()
	m, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	msg := m.Init()()
	require.IsType(t, installedMsg{}, msg)
	m.Update(msg)
	m.Update(drainMsg{})
	return m
}

func live(t *testing.T, m *Model) *engine.Engine {
	t.Helper()
	l, ok := m.Backdrop().(*facade.Cell).Load().(facade.Live)
	require.True(t, ok)
	return l.Engine()
}

func TestModel(t *testing.T) {
	m := started(t, config(t))
	e := live(t, m)
	intro, _ := camera.Pose(camera.Intro)
	assert.Equal(t, intro, e.Camera().State.Target)
	assert.True(t, e.Loop().Running())

	_, cmd := m.Update(frameMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, e.Loop().Frames())
	assert.Contains(t, m.View(), "▀")
	assert.Contains(t, m.View(), "animating")

	m.Update(runes("3"))
	m.Update(drainMsg{})
	snacks, _ := camera.Pose(camera.Snacks)
	assert.Equal(t, camera.Snacks, m.Step())
	assert.Equal(t, snacks, e.Camera().State.Target)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(drainMsg{})
	assert.Equal(t, camera.Dates, m.Step())

	// Acceptance only follows the last step.
	m.Update(runes("a"))
	assert.Equal(t, camera.Dates, m.Step())
	m.Update(runes("5"))
	m.Update(runes("a"))
	m.Update(drainMsg{})
	accepted, _ := camera.Pose(camera.Accepted)
	assert.Equal(t, camera.Accepted, m.Step())
	assert.Equal(t, accepted, e.Camera().State.Target)
	assert.Contains(t, m.View(), "done")

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 11})
	assert.Equal(t, 20, m.surf.Width())
	assert.Equal(t, 20, m.surf.Height())
}

func TestModelPause(t *testing.T) {
	m := started(t, config(t))
	e := live(t, m)
	m.Update(frameMsg(time.Now()))

	m.Update(runes(" "))
	m.Update(drainMsg{})
	assert.False(t, e.Loop().Running())
	assert.Equal(t, float32(engine.PausedOpacity), m.surf.Opacity())
	assert.Contains(t, m.View(), "paused")
	frames := e.Loop().Frames()
	m.Update(frameMsg(time.Now()))
	_, cmd := m.Update(frameMsg(time.Now()))
	assert.Nil(t, cmd)
	assert.Equal(t, frames, e.Loop().Frames())

	m.Update(runes(" "))
	_, cmd = m.Update(drainMsg{})
	assert.NotNil(t, cmd)
	assert.True(t, e.Loop().Running())
	assert.Equal(t, float32(1), m.surf.Opacity())
}

func TestModelReducedMotion(t *testing.T) {
	cfg := config(t)
	cfg.ReducedMotion = true
	m, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	_, cmd := m.Update(m.Init()())
	assert.Nil(t, cmd)
	m.Update(runes("4"))
	_, cmd = m.Update(runes(" "))
	assert.Nil(t, cmd)
	assert.Zero(t, m.sched.Drain())
	assert.Zero(t, m.sched.Pending())
	assert.Contains(t, m.View(), "static background")
}

func TestModelQuit(t *testing.T) {
	m := started(t, config(t))
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestScheduler(t *testing.T) {
	var s Scheduler
	var order []string
	s.Post(func() {
		order = append(order, "a")
		s.Post(func() { order = append(order, "b") })
	})
	s.RequestFrame(func(time.Time) {
		order = append(order, "frame")
		s.RequestFrame(func(time.Time) {})
	})
	assert.Equal(t, 2, s.Drain())
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, 1, s.Frame(time.Now()))
	assert.Equal(t, []string{"a", "b", "frame"}, order)
	assert.Equal(t, 1, s.Pending())
}

func TestSurface(t *testing.T) {
	s, err := NewSurface(t.Name(), 4, 2)
	require.NoError(t, err)
	defer s.Close()
	have, err := wsi.Open(t.Name())
	require.NoError(t, err)
	assert.Equal(t, wsi.Surface(s), have)
	assert.Equal(t, 4, s.Width())
	assert.Equal(t, 4, s.Height())

	blank := s.View()
	assert.Equal(t, 2, strings.Count(blank, "\n"))

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	require.NoError(t, s.Present(img))
	v := s.View()
	assert.Equal(t, 8, strings.Count(v, "▀"))
	assert.Equal(t, 2, strings.Count(v, "\n"))

	s.Close()
	_, err = wsi.Open(t.Name())
	assert.ErrorIs(t, err, wsi.ErrMissing)
}
