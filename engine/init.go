// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/gviegas/backdrop/asset"
	"github.com/gviegas/backdrop/camera"
	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/loop"
	"github.com/gviegas/backdrop/scene"
	"github.com/gviegas/backdrop/wsi"
)

var (
	// ErrNoSurface means that no drawing surface is
	// registered under the configured identifier.
	ErrNoSurface = errors.New("engine: drawing surface not found")
	// ErrReducedMotion means that the user asked for
	// reduced motion, so no backdrop is created.
	ErrReducedMotion = errors.New("engine: reduced motion requested")

	errNilScheduler = errors.New("engine: nil loop.Scheduler")
)

// InitialPos is where the camera rests before the
// first transition.
var InitialPos = linear.V3{0, 0, 8}

// Engine is a running backdrop.
// Except for Initialize, its methods must be called
// from the scheduler's goroutine.
type Engine struct {
	cfg    Config
	motion Motion
	log    *slog.Logger
	sched  loop.Scheduler
	surf   wsi.Surface
	rend   Renderer
	scene  *scene.Scene
	cam    *camera.Choreographer
	loop   *loop.Loop
	cancel context.CancelFunc

	pointer linear.V3
	width   int
	height  int
	closed  bool

	renderErrs int
	lastErr    string
}

// Initialize creates the backdrop described by cfg.
// It assembles the scene, starts loading the
// centerpiece and arranges for the frame loop to
// start on sched.
// It fails with ErrReducedMotion if cfg asks for
// reduced motion and with ErrNoSurface if the surface
// cannot be found. In both cases nothing is
// scheduled.
func Initialize(ctx context.Context, cfg Config, sched loop.Scheduler) (*Engine, error) {
	if sched == nil {
		return nil, errNilScheduler
	}
	if err := cfg.Resolve(Flags{}); err != nil {
		return nil, err
	}
	motion := cfg.Motion()
	if motion.Reduced {
		return nil, ErrReducedMotion
	}
	surf, err := wsi.Open(cfg.Surface)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrNoSurface, cfg.Surface, err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ng, ns := motion.Tier.Counts()
	sc := scene.Assemble(rng, scene.DefaultParams(ng, ns))

	newRend := cfg.NewRenderer
	if newRend == nil {
		newRend = newRaster
	}
	rend, err := newRend(surf, sc)
	if err != nil {
		return nil, fmt.Errorf("engine: create renderer: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	e := &Engine{
		cfg:    cfg,
		motion: motion,
		log:    cfg.Log,
		sched:  sched,
		surf:   surf,
		rend:   rend,
		scene:  sc,
		cam:    camera.New(InitialPos),
		cancel: cancel,
		width:  surf.Width(),
		height: surf.Height(),
	}
	e.loop = loop.New(sched, e.frame, e.log)
	rend.Resize(e.width, e.height)
	rend.SetCamera(e.cam.State.Pos, e.cam.State.LookAt(linear.V3{}, camera.Forward))

	ldr := asset.Loader{Fetcher: cfg.Fetcher, Log: e.log}
	ldr.Load(ctx, cfg.Asset, sched.Post, e.attach)

	sched.Post(func() {
		if !e.closed {
			e.loop.Start()
		}
	})
	e.log.Info("backdrop initialized",
		"surface", cfg.Surface,
		"tier", motion.Tier,
		"seed", seed,
		"galaxy", ng,
		"stars", ns)
	return e, nil
}

// attach receives the centerpiece.
func (e *Engine) attach(r asset.Result) {
	if e.closed {
		e.log.Debug("discarding centerpiece after close", "kind", r.Kind)
		return
	}
	if err := e.scene.Attach(r); err != nil {
		e.log.Warn("attach centerpiece", "err", err)
		return
	}
	e.log.Debug("centerpiece attached", "kind", r.Kind)
}

// Close stops the backdrop. Loads that complete
// afterwards are discarded.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.loop.Stop()
	e.cam.Disable()
	e.cancel()
	e.log.Info("backdrop closed", "frames", e.loop.Frames(), "render_errors", e.renderErrs)
}

// Closed reports whether e was closed.
func (e *Engine) Closed() bool { return e.closed }

// Scene returns the scene graph.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Camera returns the camera choreographer.
func (e *Engine) Camera() *camera.Choreographer { return e.cam }

// Loop returns the frame loop.
func (e *Engine) Loop() *loop.Loop { return e.loop }

// Motion returns the motion configuration sampled by
// Initialize.
func (e *Engine) Motion() Motion { return e.motion }

// Surface returns the drawing surface.
func (e *Engine) Surface() wsi.Surface { return e.surf }

// Scheduler returns the scheduler e runs on.
func (e *Engine) Scheduler() loop.Scheduler { return e.sched }

// Log returns the engine's logger.
func (e *Engine) Log() *slog.Logger { return e.log }
