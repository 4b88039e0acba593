/*
Package raster implements the image side of the converter: decoding and
encoding the common image formats, reducing an image to a fixed number of
colors and dumping raw RGBA pixels as source code.
*/
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Registered for decoding only
	_ "golang.org/x/image/webp"
)

var errFormat = errors.New("raster: unsupported image format")

// Decode reads an image in any of the registered formats.
func Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// Encode writes m to w in the format implied by ext.
func Encode(w io.Writer, m image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, m)
	case ".gif":
		return gif.Encode(w, m, nil)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, m, nil)
	case ".bmp":
		return bmp.Encode(w, m)
	case ".tif", ".tiff":
		return tiff.Encode(w, m, nil)
	}
	return fmt.Errorf("%w: %s", errFormat, ext)
}

// CanEncode reports whether Encode supports ext.
func CanEncode(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".gif", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

// Info describes an image the way the converter reports it.
type Info struct {
	BPP    int
	Width  int
	Height int
}

// Opaque reports whether every pixel of m is fully opaque.
func Opaque(m image.Image) bool {
	if o, ok := m.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := m.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

// Describe returns the Info of m; images with any transparency count as
// four bytes per pixel.
func Describe(m image.Image) Info {
	bpp := 3
	if !Opaque(m) {
		bpp = 4
	}
	b := m.Bounds()
	return Info{
		BPP:    bpp,
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}
