// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/gviegas/backdrop/camera"
	"github.com/gviegas/backdrop/linear"
)

// Per-frame rotation increments, in radians.
const (
	GalaxySpin      = 0.0003
	StarsSpin       = -0.0001
	SectorSpin      = 0.002
	CenterpieceSpin = 0.005

	// Amplitude of the centerpiece's vertical bob.
	Bob = 0.2

	// Pointer offset per pixel from the center of
	// the surface.
	PointerScale = 0.001
)

// frame advances the animation by one tick and
// renders.
func (e *Engine) frame(elapsed time.Duration) {
	sc := e.scene
	sc.Galaxy().Rot[1] += GalaxySpin
	sc.Stars().Rot[1] += StarsSpin
	for _, s := range sc.Sectors() {
		s.Group.Rot[1] += SectorSpin
		for _, m := range s.Members() {
			m.Rot[0] += m.Spin
			m.Rot[1] += m.Spin
		}
	}
	if n, _, ok := sc.Centerpiece(); ok {
		n.Rot[1] += CenterpieceSpin
		n.Pos[1] = math32.Sin(float32(elapsed.Seconds())) * Bob
	}
	st := &e.cam.State
	st.Advance(e.cfg.Blend)
	e.rend.SetCamera(st.Pos, st.LookAt(e.pointer, camera.Forward))
	e.render()
}

// Transition retargets the camera to step s.
// Unknown steps are ignored.
func (e *Engine) Transition(s camera.Step) bool {
	if !e.cam.Transition(s) {
		e.log.Debug("ignoring step", "step", int(s))
		return false
	}
	e.log.Debug("camera transition", "step", s, "target", e.cam.State.Target)
	return true
}

// ToggleMotion pauses (stop true) or resumes the
// animation. Pausing also dims the surface.
func (e *Engine) ToggleMotion(stop bool) {
	if e.closed {
		return
	}
	if stop {
		e.loop.Stop()
		e.rend.SetOpacity(PausedOpacity)
		return
	}
	e.rend.SetOpacity(1)
	e.loop.Start()
}

// Pointer records the pointer position in surface
// pixels. It only affects where the camera looks.
func (e *Engine) Pointer(x, y float32) {
	e.pointer = linear.V3{
		(x - float32(e.width)/2) * PointerScale,
		(y - float32(e.height)/2) * PointerScale,
		0,
	}
}

// PointerOffset returns the normalized pointer
// offset.
func (e *Engine) PointerOffset() linear.V3 { return e.pointer }

// Resize updates the output dimensions.
func (e *Engine) Resize(width, height int) {
	e.width, e.height = max(1, width), max(1, height)
	e.rend.Resize(e.width, e.height)
}
