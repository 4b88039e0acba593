package fnt

import (
	"errors"
	"io"
	"strconv"

	"github.com/bodgit/ciaconv/ciaerr"
	"github.com/bodgit/ciaconv/document"
)

// SaveFunc persists a document to path.
type SaveFunc func(doc *document.Section, path string) error

func rectSection(r Rect) *document.Section {
	s := document.New()
	s.Set("x", r.X)
	s.Set("y", r.Y)
	s.Set("width", r.Width)
	s.Set("height", r.Height)
	return s
}

// Section returns the glyph as a document section.
func (g Glyph) Section() *document.Section {
	s := document.New()
	s.Set("id", g.ID)

	size := s.Section("size")
	size.Set("width", g.Width)
	size.Set("height", g.Height)

	offset := s.Section("offset")
	offset.Set("x", g.OffsetX)
	offset.Set("y", g.OffsetY)

	s.Set("advance_x", g.AdvanceX)

	region := s.Section("tex_region")
	region.Set("uv_rect", rectSection(g.TexRegion.UVRect))
	region.Set("level", g.TexRegion.Level)

	return s
}

// Section returns the kerning pair as a document section.
func (k KerningPair) Section() *document.Section {
	s := document.New()
	s.Set("first", k.First)
	s.Set("second", k.Second)
	s.Set("amount", k.Amount)
	return s
}

// Document returns the font as a structured document with pages, glyphs,
// kerning_pairs and info sections.
func (f *Font) Document() *document.Section {
	doc := document.New()

	if len(f.Pages) > 0 {
		pages := doc.Section("pages")
		for i, p := range f.Pages {
			pages.Set("p"+strconv.Itoa(i), p)
		}
	}

	if len(f.Glyphs) > 0 {
		glyphs := doc.Section("glyphs")
		for i, g := range f.Glyphs {
			glyphs.Set("g"+strconv.Itoa(i), g.Section())
		}
	}

	if len(f.Kerning) > 0 {
		pairs := doc.Section("kerning_pairs")
		for i, k := range f.Kerning {
			pairs.Set("k"+strconv.Itoa(i), k.Section())
		}
	}

	info := doc.Section("info")
	size := info.Section("texture_size")
	size.Set("width", float32(f.Metrics.Width))
	size.Set("height", float32(f.Metrics.Height))
	info.Set("ascender", f.Metrics.Ascender())
	info.Set("descender", f.Metrics.Descender())
	// XXX This has always been base rather than LineHeight
	info.Set("line_height", float32(f.Metrics.Base))

	return doc
}

// Convert decodes the font descriptor in r, read from src, and saves it as
// a document to dst.
func Convert(r io.ReadSeeker, src, dst string, save SaveFunc) error {
	f, err := Decode(r)
	if err != nil {
		if errors.Is(err, ErrSignature) {
			return ciaerr.New(ciaerr.ErrFormat, "unsupported fnt file", src, nil)
		}
		return ciaerr.New(ciaerr.ErrMalformed, "malformed fnt file", src, err)
	}

	if err := save(f.Document(), dst); err != nil {
		return ciaerr.New(ciaerr.ErrSink, "error saving fnt config", dst, err)
	}
	return nil
}
