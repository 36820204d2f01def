// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
	"github.com/gviegas/backdrop/raster"
	"github.com/gviegas/backdrop/scene"
	"github.com/gviegas/backdrop/wsi"
)

// Renderer is the interface that a rendering backend
// must satisfy. Its methods are only called from the
// scheduler's goroutine.
type Renderer interface {
	// Resize sets the output dimensions in pixels.
	Resize(width, height int)

	// SetCamera places the camera at eye, looking
	// at center.
	SetCamera(eye, center linear.V3)

	// SetOpacity sets the opacity of the output.
	SetOpacity(alpha float32)

	// Render draws the graph rooted at root.
	Render(root *node.Node) error
}

// NewRenderer creates a Renderer that draws sc onto
// surf.
type NewRenderer func(surf wsi.Surface, sc *scene.Scene) (Renderer, error)

// Camera projection.
const (
	FOV  = 70
	Near = 0.1
	Far  = 100
)

// newRaster is the default NewRenderer.
func newRaster(surf wsi.Surface, sc *scene.Scene) (Renderer, error) {
	opts := raster.DefaultOptions()
	opts.FOV, opts.Near, opts.Far = FOV, Near, Far
	opts.Background = sc.Background
	opts.Fog = sc.Fog
	return raster.New(surf, opts)
}

// render renders a frame, logging each distinct
// error once.
func (e *Engine) render() {
	err := e.rend.Render(e.scene.Root())
	if err == nil {
		return
	}
	e.renderErrs++
	if s := err.Error(); s != e.lastErr {
		e.lastErr = s
		e.log.Warn("render failed", "err", err, "frame", e.loop.Frames())
	}
}

// RenderErrors returns the number of frames that
// failed to render.
func (e *Engine) RenderErrors() int { return e.renderErrs }
