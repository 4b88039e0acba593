package fnt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/bodgit/ciaconv/ciaerr"
	"github.com/bodgit/ciaconv/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type builder struct {
	bytes.Buffer
}

func newBuilder() *builder {
	b := new(builder)
	b.WriteString("BMF")
	b.WriteByte(version)
	return b
}

func (b *builder) block(tag uint8, payload []byte) *builder {
	b.WriteByte(tag)
	binary.Write(&b.Buffer, binary.LittleEndian, uint32(len(payload)))
	b.Write(payload)
	return b
}

func le(values ...interface{}) []byte {
	buf := new(bytes.Buffer)
	for _, v := range values {
		binary.Write(buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func common(lineHeight, base, w, h, pages uint16) []byte {
	return append(le(lineHeight, base, w, h, pages), 0, 0, 4, 4, 4)
}

func char(id uint32, x, y, w, h uint16, xo, yo, xa int16, page uint8) []byte {
	return le(id, x, y, w, h, xo, yo, xa, page, uint8(15))
}

func kerning(first, second uint32, amount int16) []byte {
	return le(first, second, amount)
}

func sample() *builder {
	return newBuilder().
		block(blockInfo, make([]byte, 23)).
		block(blockCommon, common(32, 26, 256, 256, 2)).
		block(blockPages, []byte("font0.png\x00font1.png\x00")).
		block(blockChars, bytes.Join([][]byte{
			char('A', 100, 50, 20, 16, -1, 4, 18, 3),
			char('B', 0, 0, 10, 12, 0, 2, 11, 0),
		}, nil)).
		block(blockKerning, bytes.Join([][]byte{
			kerning('A', 'V', -2),
			kerning('T', 'o', -1),
		}, nil))
}

func TestDecode(t *testing.T) {
	f, err := Decode(bytes.NewReader(sample().Bytes()))
	require.NoError(t, err)

	assert.Equal(t, Metrics{LineHeight: 32, Base: 26, Width: 256, Height: 256, Pages: 2}, f.Metrics)
	assert.Equal(t, []string{"font0.png", "font1.png"}, f.Pages)
	require.Len(t, f.Glyphs, 2)
	assert.Equal(t, []KerningPair{{'A', 'V', -2}, {'T', 'o', -1}}, f.Kerning)

	g := f.Glyphs[0]
	assert.Equal(t, uint32('A'), g.ID)
	assert.Equal(t, int32(20), g.Width)
	assert.Equal(t, int32(16), g.Height)
	assert.Equal(t, float32(-1), g.OffsetX)
	assert.Equal(t, float32(4), g.OffsetY)
	assert.Equal(t, float32(18), g.AdvanceX)
	assert.Equal(t, TexRegion{
		UVRect: Rect{X: 100.0 / 256, Y: 50.0 / 256, Width: 20.0 / 256, Height: 16.0 / 256},
		Level:  3,
	}, g.TexRegion)
}

func TestSignature(t *testing.T) {
	valid := sample().Bytes()
	for i := 0; i < 4; i++ {
		b := append([]byte(nil), valid...)
		b[i] ^= 0x20
		_, err := Decode(bytes.NewReader(b))
		assert.ErrorIs(t, err, ErrSignature, "byte %d", i)
	}

	_, err := Decode(bytes.NewReader([]byte("BM")))
	assert.ErrorIs(t, err, ErrSignature)
}

func TestUnknownBlockSkipped(t *testing.T) {
	b := newBuilder().
		block(blockCommon, common(32, 26, 128, 64, 0)).
		block(42, []byte{blockChars, 0xff, 0xff, 0xff, 0xff}).
		block(blockKerning, kerning(1, 2, 3))

	f, err := Decode(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, f.Glyphs)
	assert.Equal(t, []KerningPair{{1, 2, 3}}, f.Kerning)
}

func TestCharsBeforeCommon(t *testing.T) {
	b := newBuilder().block(blockChars, char(1, 0, 0, 1, 1, 0, 0, 1, 0))
	_, err := Decode(bytes.NewReader(b.Bytes()))
	assert.True(t, errors.Is(err, errNoCommon))
}

func TestTruncated(t *testing.T) {
	valid := sample().Bytes()
	for _, n := range []int{6, 20, len(valid) - 1} {
		_, err := Decode(bytes.NewReader(valid[:n]))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "length %d", n)
	}
}

func TestTrailingBytesInBlock(t *testing.T) {
	b := newBuilder().
		block(blockCommon, common(10, 8, 64, 64, 1)).
		block(blockChars, append(char(7, 0, 0, 8, 8, 0, 0, 8, 0), 0xaa, 0xbb)).
		block(blockKerning, append(kerning(7, 7, 1), 0xcc))

	f, err := Decode(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	assert.Len(t, f.Glyphs, 1)
	assert.Len(t, f.Kerning, 1)
}

func TestNormalize(t *testing.T) {
	r := Rect{X: 100, Y: 50, Width: 20, Height: 16}
	n := r.Normalize(256, 128)
	assert.Equal(t, Rect{X: 100.0 / 256, Y: 50.0 / 128, Width: 20.0 / 256, Height: 16.0 / 128}, n)
	assert.Equal(t, n, r.Normalize(256, 128))
}

func TestDocument(t *testing.T) {
	f, err := Decode(bytes.NewReader(sample().Bytes()))
	require.NoError(t, err)

	doc := f.Document()
	assert.Equal(t, []string{"pages", "glyphs", "kerning_pairs", "info"}, doc.Keys())

	pages, ok := doc.Lookup("pages")
	require.True(t, ok)
	assert.Equal(t, []string{"p0", "p1"}, pages.Keys())
	p1, _ := pages.String("p1")
	assert.Equal(t, "font1.png", p1)

	glyphs, _ := doc.Lookup("glyphs")
	assert.Equal(t, []string{"g0", "g1"}, glyphs.Keys())
	g0, _ := glyphs.Lookup("g0")
	assert.Equal(t, []string{"id", "size", "offset", "advance_x", "tex_region"}, g0.Keys())
	region, _ := g0.Lookup("tex_region")
	uv, _ := region.Lookup("uv_rect")
	x, _ := uv.Float("x")
	assert.Equal(t, 100.0/256, x)
	level, _ := region.Int("level")
	assert.Equal(t, int64(3), level)

	pairs, _ := doc.Lookup("kerning_pairs")
	k0, _ := pairs.Lookup("k0")
	amount, _ := k0.Int("amount")
	assert.Equal(t, int64(-2), amount)

	info, _ := doc.Lookup("info")
	ascender, _ := info.Float("ascender")
	descender, _ := info.Float("descender")
	lineHeight, _ := info.Float("line_height")
	assert.Equal(t, 26.0, ascender)
	assert.Equal(t, -6.0, descender)
	assert.Equal(t, 26.0, lineHeight)
}

func TestConvert(t *testing.T) {
	var saved *document.Section
	save := func(doc *document.Section, path string) error {
		saved = doc
		assert.Equal(t, "out.json", path)
		return nil
	}
	require.NoError(t, Convert(bytes.NewReader(sample().Bytes()), "in.fnt", "out.json", save))
	require.NotNil(t, saved)

	err := Convert(bytes.NewReader([]byte("XMF\x03")), "bad.fnt", "out.json", save)
	assert.ErrorIs(t, err, ciaerr.ErrFormat)
	assert.Contains(t, err.Error(), "bad.fnt")

	err = Convert(bytes.NewReader(sample().Bytes()[:30]), "short.fnt", "out.json", save)
	assert.ErrorIs(t, err, ciaerr.ErrMalformed)

	failing := func(*document.Section, string) error { return errors.New("disk full") }
	err = Convert(bytes.NewReader(sample().Bytes()), "in.fnt", "out.json", failing)
	assert.ErrorIs(t, err, ciaerr.ErrSink)
	assert.EqualError(t, err, "error saving fnt config: out.json: disk full")
}
