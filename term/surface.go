// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package term

import (
	"image"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/gviegas/backdrop/wsi"
)

// Surface is a wsi.Surface displayed as a grid of
// half-block characters, two pixels per cell.
type Surface struct {
	id string

	mu      sync.Mutex
	cols    int
	rows    int
	frame   *image.RGBA
	opacity float32
}

// NewSurface creates and registers a surface of the
// given size in terminal cells.
func NewSurface(id string, cols, rows int) (*Surface, error) {
	s := &Surface{id: id, cols: max(1, cols), rows: max(1, rows), opacity: 1}
	if err := wsi.Register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ID implements wsi.Surface.
func (s *Surface) ID() string { return s.id }

// Width implements wsi.Surface.
func (s *Surface) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols
}

// Height implements wsi.Surface.
func (s *Surface) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows * 2
}

// Resize sets the size in terminal cells.
func (s *Surface) Resize(cols, rows int) {
	s.mu.Lock()
	s.cols, s.rows = max(1, cols), max(1, rows)
	s.mu.Unlock()
}

// Present implements wsi.Surface.
// Frames of a different size are scaled to fit.
func (s *Surface) Present(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := image.Rect(0, 0, s.cols, s.rows*2)
	if s.frame == nil || s.frame.Rect != r {
		s.frame = image.NewRGBA(r)
	}
	if img.Bounds().Size() == r.Size() {
		draw.Copy(s.frame, image.Point{}, img, img.Bounds(), draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(s.frame, r, img, img.Bounds(), draw.Src, nil)
	}
	return nil
}

// SetOpacity implements wsi.Surface.
func (s *Surface) SetOpacity(alpha float32) {
	s.mu.Lock()
	s.opacity = alpha
	s.mu.Unlock()
}

// Opacity returns the surface's opacity.
func (s *Surface) Opacity() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opacity
}

// Close implements wsi.Surface.
func (s *Surface) Close() { wsi.Unregister(s) }

// View renders the last frame, dimmed by the
// surface's opacity, as rows of half blocks.
func (s *Surface) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame == nil {
		return strings.Repeat(strings.Repeat(" ", s.cols)+"\n", s.rows)
	}
	var b strings.Builder
	r := s.frame.Rect
	for y := 0; y+1 < r.Dy(); y += 2 {
		for x := 0; x < r.Dx(); x++ {
			st := lipgloss.NewStyle().
				Foreground(s.color(x, y)).
				Background(s.color(x, y+1))
			b.WriteString(st.Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *Surface) color(x, y int) lipgloss.Color {
	c := s.frame.RGBAAt(x, y)
	a := float64(max(0, min(1, s.opacity)))
	cf := colorful.Color{
		R: float64(c.R) / 255 * a,
		G: float64(c.G) / 255 * a,
		B: float64(c.B) / 255 * a,
	}
	return lipgloss.Color(cf.Hex())
}
