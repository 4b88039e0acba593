/*
Package fnt decodes the binary font descriptor written by AngelCode's Bitmap
Font Generator.

A file starts with the three bytes "BMF" and a version byte which must be 3.
What follows is a sequence of blocks, each a one byte type tag and a four
byte little-endian length followed by the payload:

	1 info        not modeled, skipped
	2 common      line height, base, texture size, page count
	3 pages       one null terminated name per texture page
	4 chars       20 bytes per glyph
	5 kerning     10 bytes per pair

Unknown tags are skipped using their length. Glyph texture rectangles are
converted from pixels to the [0, 1] texture space of their page, which needs
the common block to have been seen first.
*/
package fnt

import (
	"errors"
	"io"

	"github.com/bodgit/ciaconv/stream"
)

const (
	version = 3

	blockInfo    = 1
	blockCommon  = 2
	blockPages   = 3
	blockChars   = 4
	blockKerning = 5

	commonSize  = 10
	charSize    = 20
	kerningSize = 10
)

var magic = [3]byte{'B', 'M', 'F'}

var (
	// ErrSignature is returned when the magic or version do not match.
	ErrSignature = errors.New("fnt: invalid signature")

	errNoCommon    = errors.New("fnt: chars block before common block")
	errPageSize    = errors.New("fnt: page names block too short")
	errCommonShort = errors.New("fnt: common block too short")
)

// Metrics holds the values of the common block.
type Metrics struct {
	LineHeight uint16
	Base       uint16
	Width      uint16
	Height     uint16
	Pages      uint16
}

// Ascender is the distance from the top of a line to the baseline.
func (m Metrics) Ascender() float32 {
	return float32(m.Base)
}

// Descender is the distance from the baseline to the bottom of a line,
// which is negative.
func (m Metrics) Descender() float32 {
	return float32(-(int(m.LineHeight) - int(m.Base)))
}

// Rect is a rectangle in either pixel or texture space.
type Rect struct {
	X, Y, Width, Height float32
}

// Normalize divides the horizontal components by width and the vertical
// components by height.
func (r Rect) Normalize(width, height float32) Rect {
	return Rect{
		X:      r.X / width,
		Y:      r.Y / height,
		Width:  r.Width / width,
		Height: r.Height / height,
	}
}

// TexRegion is a rectangle on one of the texture pages.
type TexRegion struct {
	UVRect Rect
	Level  uint8
}

// Glyph is the rendering metadata of one character.
type Glyph struct {
	ID            uint32
	Width, Height int32
	OffsetX       float32
	OffsetY       float32
	AdvanceX      float32
	TexRegion     TexRegion
}

// KerningPair adjusts the spacing between two characters.
type KerningPair struct {
	First  uint32
	Second uint32
	Amount int16
}

// Font is the decoded content of a font descriptor.
type Font struct {
	Metrics Metrics
	Pages   []string
	Glyphs  []Glyph
	Kerning []KerningPair
}

type commonBlock struct {
	LineHeight uint16
	Base       uint16
	ScaleW     uint16
	ScaleH     uint16
	Pages      uint16
}

type charRecord struct {
	ID       uint32
	X        uint16
	Y        uint16
	Width    uint16
	Height   uint16
	XOffset  int16
	YOffset  int16
	XAdvance int16
	Page     uint8
	_        uint8 // channel
}

type kerningRecord struct {
	First  uint32
	Second uint32
	Amount int16
}

type decoder struct {
	r      *stream.Reader
	font   Font
	common bool
}

func (d *decoder) checkHeader() error {
	var header struct {
		Magic   [3]byte
		Version uint8
	}
	if err := d.r.ReadStruct(&header); err != nil {
		if err == io.ErrUnexpectedEOF {
			return ErrSignature
		}
		return err
	}
	if header.Magic != magic || header.Version != version {
		return ErrSignature
	}
	return nil
}

// skipRest skips whatever is left of a block after consumed bytes have
// been read from it.
func (d *decoder) skipRest(length uint32, consumed uint32) error {
	if consumed >= length {
		return nil
	}
	return d.r.Skip(int64(length - consumed))
}

func (d *decoder) readCommon(length uint32) error {
	if length < commonSize {
		return errCommonShort
	}
	var c commonBlock
	if err := d.r.ReadStruct(&c); err != nil {
		return err
	}
	d.font.Metrics = Metrics{
		LineHeight: c.LineHeight,
		Base:       c.Base,
		Width:      c.ScaleW,
		Height:     c.ScaleH,
		Pages:      c.Pages,
	}
	d.common = true
	// bitField, then the alpha, red, green and blue channel bytes
	return d.skipRest(length, commonSize)
}

func (d *decoder) readPages(length uint32) error {
	pages := uint32(d.font.Metrics.Pages)
	if pages == 0 {
		return d.skipRest(length, 0)
	}
	size := length / pages
	if size == 0 {
		return errPageSize
	}
	for i := uint32(0); i < pages; i++ {
		name, err := d.r.String(int(size - 1))
		if err != nil {
			return err
		}
		// Null terminator
		if _, err := d.r.Uint8(); err != nil {
			return err
		}
		d.font.Pages = append(d.font.Pages, name)
	}
	return d.skipRest(length, size*pages)
}

func (d *decoder) readChars(length uint32) error {
	if !d.common {
		return errNoCommon
	}
	w, h := float32(d.font.Metrics.Width), float32(d.font.Metrics.Height)

	count := length / charSize
	for i := uint32(0); i < count; i++ {
		var c charRecord
		if err := d.r.ReadStruct(&c); err != nil {
			return err
		}
		px := Rect{
			X:      float32(c.X),
			Y:      float32(c.Y),
			Width:  float32(c.Width),
			Height: float32(c.Height),
		}
		d.font.Glyphs = append(d.font.Glyphs, Glyph{
			ID:       c.ID,
			Width:    int32(c.Width),
			Height:   int32(c.Height),
			OffsetX:  float32(c.XOffset),
			OffsetY:  float32(c.YOffset),
			AdvanceX: float32(c.XAdvance),
			TexRegion: TexRegion{
				UVRect: px.Normalize(w, h),
				Level:  c.Page,
			},
		})
	}
	return d.skipRest(length, count*charSize)
}

func (d *decoder) readKerning(length uint32) error {
	count := length / kerningSize
	for i := uint32(0); i < count; i++ {
		var k kerningRecord
		if err := d.r.ReadStruct(&k); err != nil {
			return err
		}
		d.font.Kerning = append(d.font.Kerning, KerningPair(k))
	}
	return d.skipRest(length, count*kerningSize)
}

func (d *decoder) decode() error {
	if err := d.checkHeader(); err != nil {
		return err
	}

	for !d.r.EOF() {
		var header struct {
			Type   uint8
			Length uint32
		}
		if err := d.r.ReadStruct(&header); err != nil {
			return err
		}

		var err error
		switch header.Type {
		case blockInfo:
			err = d.r.Skip(int64(header.Length))
		case blockCommon:
			err = d.readCommon(header.Length)
		case blockPages:
			err = d.readPages(header.Length)
		case blockChars:
			err = d.readChars(header.Length)
		case blockKerning:
			err = d.readKerning(header.Length)
		default:
			err = d.r.Skip(int64(header.Length))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a font descriptor from r, which must be positioned at the
// start of the file.
func Decode(r io.ReadSeeker) (*Font, error) {
	sr, err := stream.NewReader(r)
	if err != nil {
		return nil, err
	}
	d := decoder{r: sr}
	if err := d.decode(); err != nil {
		return nil, err
	}
	return &d.font, nil
}
