// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// Image is an off-screen Surface that keeps the last
// frame presented to it.
type Image struct {
	id string

	mu      sync.Mutex
	width   int
	height  int
	frame   *image.RGBA
	count   int
	opacity float32
	closed  bool
}

// NewImage creates and registers an off-screen
// surface.
func NewImage(id string, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errZeroSize
	}
	s := &Image{id: id, width: width, height: height, opacity: 1}
	if err := Register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ID implements Surface.
func (s *Image) ID() string { return s.id }

// Width implements Surface.
func (s *Image) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

// Height implements Surface.
func (s *Image) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// Resize changes the surface's dimensions.
func (s *Image) Resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = max(1, width), max(1, height)
	s.mu.Unlock()
}

// Present implements Surface.
func (s *Image) Present(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errMissing
	}
	b := img.Bounds()
	if s.frame == nil || s.frame.Bounds().Size() != b.Size() {
		s.frame = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Copy(s.frame, image.Point{}, img, b, draw.Src, nil)
	s.count++
	return nil
}

// SetOpacity implements Surface.
func (s *Image) SetOpacity(alpha float32) {
	s.mu.Lock()
	s.opacity = alpha
	s.mu.Unlock()
}

// Opacity returns the last opacity set.
func (s *Image) Opacity() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opacity
}

// Frame returns a copy of the last frame presented,
// or nil if none was.
func (s *Image) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame == nil {
		return nil
	}
	f := image.NewRGBA(s.frame.Rect)
	copy(f.Pix, s.frame.Pix)
	return f
}

// Presented returns the number of frames presented.
func (s *Image) Presented() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Close implements Surface.
func (s *Image) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	Unregister(s)
}
