// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package wsi provides the drawing surfaces on which
// the backdrop is presented.
// Because a host need not have a place to draw into,
// surfaces are looked up by identifier and may be
// missing.
package wsi

import (
	"errors"
	"image"
	"sync"
)

// DefaultID is the identifier of the backdrop's
// surface.
const DefaultID = "bg-canvas"

// Surface is the interface that defines a drawing
// surface.
type Surface interface {
	// ID returns the surface's identifier.
	ID() string

	// Width returns the surface's width in pixels.
	Width() int

	// Height returns the surface's height in pixels.
	Height() int

	// Present displays a new frame.
	// img must not be retained after Present returns.
	Present(img image.Image) error

	// SetOpacity sets the opacity with which the
	// surface is composited over its host.
	SetOpacity(alpha float32)

	// Close closes the surface and unregisters it.
	Close()
}

// The maximum number of surfaces that can be
// registered at any given time.
const MaxSurfaces = 16

var (
	errMissing  = errors.New("wsi: no surface with such identifier")
	errTooMany  = errors.New("wsi: too many surfaces")
	errExists   = errors.New("wsi: identifier already in use")
	errNilSurf  = errors.New("wsi: nil surface")
	errZeroSize = errors.New("wsi: zero-sized surface")
)

// ErrMissing is returned by Open when no surface is
// registered under the requested identifier.
var ErrMissing = errMissing

var (
	mu       sync.Mutex
	surfaces = make(map[string]Surface, MaxSurfaces)
)

// Register makes s available through Open under
// s.ID().
func Register(s Surface) error {
	if s == nil {
		return errNilSurf
	}
	mu.Lock()
	defer mu.Unlock()
	if len(surfaces) >= MaxSurfaces {
		return errTooMany
	}
	if _, ok := surfaces[s.ID()]; ok {
		return errExists
	}
	surfaces[s.ID()] = s
	return nil
}

// Open returns the surface registered under id.
func Open(id string) (Surface, error) {
	mu.Lock()
	defer mu.Unlock()
	if s, ok := surfaces[id]; ok {
		return s, nil
	}
	return nil, errMissing
}

// Surfaces returns all registered surfaces.
// The returned value becomes out of date after calls
// to Register and Surface.Close.
func Surfaces() []Surface {
	mu.Lock()
	defer mu.Unlock()
	if len(surfaces) == 0 {
		return nil
	}
	ss := make([]Surface, 0, len(surfaces))
	for _, s := range surfaces {
		ss = append(ss, s)
	}
	return ss
}

// Unregister removes s from the registry.
// It must be called by implementations on s.Close.
func Unregister(s Surface) {
	mu.Lock()
	defer mu.Unlock()
	if surfaces[s.ID()] == s {
		delete(surfaces, s.ID())
	}
}
