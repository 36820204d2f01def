// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package facade exposes the backdrop to the wizard
// through a two-method interface that is usable
// before, during and after initialization.
package facade

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gviegas/backdrop/camera"
	"github.com/gviegas/backdrop/engine"
)

// Backdrop is the interface through which the wizard
// drives the backdrop. Calls never block and never
// panic.
type Backdrop interface {
	// TransitionToStep moves the camera toward the
	// pose of step s. Unknown steps are ignored.
	TransitionToStep(s camera.Step)

	// ToggleMotion pauses (stop true) or resumes the
	// animation.
	ToggleMotion(stop bool)
}

// Stub is the Backdrop used while no engine exists.
// Its methods do nothing.
type Stub struct{}

// TransitionToStep implements Backdrop.
func (Stub) TransitionToStep(camera.Step) {}

// ToggleMotion implements Backdrop.
func (Stub) ToggleMotion(bool) {}

// Live is the Backdrop of a running engine.
// Calls are posted to the engine's scheduler.
type Live struct{ e *engine.Engine }

// NewLive creates a Live backdrop for e.
func NewLive(e *engine.Engine) Live { return Live{e} }

// Engine returns the engine behind l.
func (l Live) Engine() *engine.Engine { return l.e }

// TransitionToStep implements Backdrop.
func (l Live) TransitionToStep(s camera.Step) {
	l.post("TransitionToStep", func() { l.e.Transition(s) })
}

// ToggleMotion implements Backdrop.
func (l Live) ToggleMotion(stop bool) {
	l.post("ToggleMotion", func() { l.e.ToggleMotion(stop) })
}

func (l Live) post(name string, f func()) {
	log := l.e.Log()
	l.e.Scheduler().Post(func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("backdrop call panicked", "call", name, "panic", r)
			}
		}()
		f()
	})
}

// value is what a Cell holds.
type value struct {
	b    Backdrop
	live bool
}

var stub = &value{b: Stub{}}

// Cell is an indirection cell that holds a Stub until
// it is set to a Live backdrop, which happens at most
// once. Every call reads the cell anew.
// The zero value is a Cell holding a Stub.
type Cell struct {
	v atomic.Pointer[value]
}

func (c *Cell) load() *value {
	if v := c.v.Load(); v != nil {
		return v
	}
	return stub
}

// Load returns the current backdrop.
func (c *Cell) Load() Backdrop { return c.load().b }

// Live reports whether c holds a Live backdrop.
func (c *Cell) Live() bool { return c.load().live }

// Set replaces the Stub with a Live backdrop for e.
// It returns false, and changes nothing, if e is nil
// or c was already set.
func (c *Cell) Set(e *engine.Engine) bool {
	if e == nil {
		return false
	}
	v := &value{b: NewLive(e), live: true}
	return c.v.CompareAndSwap(nil, v)
}

// TransitionToStep implements Backdrop.
func (c *Cell) TransitionToStep(s camera.Step) { c.Load().TransitionToStep(s) }

// ToggleMotion implements Backdrop.
func (c *Cell) ToggleMotion(stop bool) { c.Load().ToggleMotion(stop) }

// Init creates an engine.
type Init func(ctx context.Context) (*engine.Engine, error)

// Install runs init in a new goroutine and sets c to
// the engine it creates. If init fails, c keeps its
// Stub; the error is logged at Debug level and not
// surfaced otherwise.
// The returned channel is closed once c is settled.
func Install(ctx context.Context, c *Cell, init Init, log *slog.Logger) <-chan struct{} {
	if log == nil {
		log = slog.Default()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Error("backdrop initialization panicked", "panic", r)
			}
		}()
		e, err := init(ctx)
		switch {
		case err != nil:
			log.Debug("backdrop disabled", "err", err)
		case e == nil:
			log.Debug("backdrop disabled", "err", "nil engine")
		case !c.Set(e):
			log.Debug("backdrop already installed")
			e.Scheduler().Post(e.Close)
		default:
			log.Debug("backdrop installed")
		}
	}()
	return done
}
