package raster

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

const maxColors = 256

var errColors = errors.New("raster: color count must be between 2 and 256")

// paletted returns m as a paletted image if it already is one, or if its
// color model is a palette.
func paletted(m image.Image) *image.Paletted {
	if pm, ok := m.(*image.Paletted); ok {
		return pm
	}
	cp, ok := m.ColorModel().(color.Palette)
	if !ok {
		return nil
	}
	b := m.Bounds()
	pm := image.NewPaletted(b, cp)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pm.Set(x, y, cp.Convert(m.At(x, y)))
		}
	}
	return pm
}

// Quantize reduces m to at most colors colors using median cut.
func Quantize(m image.Image, colors int) (*image.Paletted, error) {
	if colors < 2 || colors > maxColors {
		return nil, errColors
	}

	b := m.Bounds()

	pm := paletted(m)
	if pm == nil || len(pm.Palette) > colors {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm, nil
}

// CountColors returns the number of distinct colors used by m.
func CountColors(m image.Image) int {
	colors := make(map[color.RGBA64]struct{})
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			colors[color.RGBA64Model.Convert(m.At(x, y)).(color.RGBA64)] = struct{}{}
		}
	}
	return len(colors)
}
