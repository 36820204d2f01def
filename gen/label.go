// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package gen

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabelSize is the side of label textures in pixels.
const LabelSize = 32

// LabelTexture rasterizes text, centered, onto a
// transparent LabelSize×LabelSize texture.
// A one-pixel halo of a darker shade is drawn behind
// the glyphs.
func LabelTexture(text string, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, LabelSize, LabelSize))
	face := basicfont.Face7x13
	d := font.Drawer{Dst: img, Face: face}
	w := d.MeasureString(text).Ceil()
	m := face.Metrics()
	asc, desc := m.Ascent.Ceil(), m.Descent.Ceil()
	x := (LabelSize - w) / 2
	y := (LabelSize + asc - desc) / 2

	halo := color.RGBA{c.R / 3, c.G / 3, c.B / 3, c.A / 2}
	d.Src = image.NewUniform(halo)
	for _, off := range [...]image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		d.Dot = fixed.P(x+off.X, y+off.Y)
		d.DrawString(text)
	}
	d.Src = image.NewUniform(c)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
	return img
}
