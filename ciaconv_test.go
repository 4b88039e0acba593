package ciaconv

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/ciaconv/ciaerr"
	"github.com/bodgit/ciaconv/document"
	"github.com/bodgit/ciaconv/magic"
	"github.com/bodgit/ciaconv/rfx"
	"github.com/bodgit/ciaconv/sfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le(b *bytes.Buffer, values ...interface{}) {
	for _, v := range values {
		binary.Write(b, binary.LittleEndian, v)
	}
}

func fntFile() []byte {
	b := new(bytes.Buffer)
	b.WriteString("BMF\x03")

	b.WriteByte(2)
	le(b, uint32(15), uint16(32), uint16(26), uint16(256), uint16(256), uint16(2))
	b.Write([]byte{0, 0, 4, 4, 4})

	b.WriteByte(3)
	le(b, uint32(20))
	b.WriteString("page_0001\x00page_0002\x00")

	b.WriteByte(4)
	le(b, uint32(20), uint32('A'), uint16(100), uint16(50), uint16(20), uint16(16), int16(1), int16(2), int16(21), uint8(3), uint8(15))

	b.WriteByte(5)
	le(b, uint32(10), uint32('A'), uint32('V'), int16(-2))

	return b.Bytes()
}

func rfxFile(seed int32) []byte {
	b := new(bytes.Buffer)
	b.WriteString("rFX ")
	le(b, uint16(200), uint16(96), seed, int32(0))
	values := [22]float32{0.0, 0.1, 0.4, 0.2, 0.5}
	le(b, values)
	return b.Bytes()
}

func write(t *testing.T, dir, name string, b []byte) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, ioutil.WriteFile(path, b, 0o644))
	return path
}

func newTestConverter(logs *bytes.Buffer) *Converter {
	return New(log.New(logs, "", 0))
}

func TestConvertFnt(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "font.fnt", fntFile())

	for _, ext := range []string{".json", ".yaml", ".xml"} {
		t.Run(ext, func(t *testing.T) {
			logs := new(bytes.Buffer)
			dst := filepath.Join(dir, "font"+ext)
			require.NoError(t, newTestConverter(logs).Convert(src, dst))
			assert.Contains(t, logs.String(), "converting fnt: "+src+" to "+dst)
			assert.Contains(t, logs.String(), "done!")

			doc, err := document.Load(dst)
			require.NoError(t, err)
			assert.Equal(t, []string{"pages", "glyphs", "kerning_pairs", "info"}, doc.Keys())

			p1, _ := doc.Section("pages").String("p1")
			assert.Equal(t, "page_0002", p1)

			g0 := doc.Section("glyphs").Section("g0")
			id, _ := g0.Int("id")
			assert.Equal(t, int64('A'), id)
			uv := g0.Section("tex_region").Section("uv_rect")
			w, _ := uv.Float("width")
			assert.Equal(t, 20.0/256, w)

			descender, _ := doc.Section("info").Float("descender")
			assert.Equal(t, -6.0, descender)
		})
	}
}

func TestConvertFntUnsupportedTarget(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "font.fnt", fntFile())
	dst := filepath.Join(dir, "font.wav")

	err := newTestConverter(new(bytes.Buffer)).Convert(src, dst)
	assert.ErrorIs(t, err, ciaerr.ErrUnsupportedTarget)
	assert.NoFileExists(t, dst)
}

func TestConvertBadFnt(t *testing.T) {
	dir := t.TempDir()
	b := fntFile()
	b[3] = 2
	src := write(t, dir, "old.fnt", b)

	err := newTestConverter(new(bytes.Buffer)).Convert(src, filepath.Join(dir, "old.json"))
	assert.ErrorIs(t, err, ciaerr.ErrFormat)
}

func TestConvertRfxConfig(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "coin.rfx", rfxFile(-42))
	dst := filepath.Join(dir, "coin.json")

	require.NoError(t, newTestConverter(new(bytes.Buffer)).Convert(src, dst))

	doc, err := document.Load(dst)
	require.NoError(t, err)
	wave, ok := doc.Lookup("wave")
	require.True(t, ok)
	seed, _ := wave.Uint("RandomSeed")
	assert.Equal(t, uint64(18446744073709551574), seed)
	sustain, _ := wave.Float("SustainTime")
	assert.InDelta(t, 0.1, sustain, 1e-6)
}

func TestConvertRfxAudio(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "coin.rfx", rfxFile(7))
	dst := filepath.Join(dir, "coin.wav")

	require.NoError(t, newTestConverter(new(bytes.Buffer)).Convert(src, dst))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	buf, err := sfx.Decode(f)
	require.NoError(t, err)
	assert.NotEmpty(t, buf.Data)

	// WAV back through the audio path
	again := filepath.Join(dir, "again.wav")
	logs := new(bytes.Buffer)
	require.NoError(t, newTestConverter(logs).Convert(dst, again))
	assert.Contains(t, logs.String(), "Channels: 1")
}

func TestConvertRfxAudioSaveFails(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "coin.rfx", rfxFile(7))
	dst := filepath.Join(dir, "missing", "coin.wav")

	err := newTestConverter(new(bytes.Buffer)).Convert(src, dst)
	assert.ErrorIs(t, err, ciaerr.ErrSink)
	assert.True(t, strings.HasPrefix(err.Error(), "error saving rfx audio: "+dst))
}

func TestConvertRfxUnsupportedTarget(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "coin.rfx", rfxFile(7))
	dst := filepath.Join(dir, "coin.png")

	err := newTestConverter(new(bytes.Buffer)).Convert(src, dst)
	assert.ErrorIs(t, err, ciaerr.ErrUnsupportedTarget)
	assert.Contains(t, err.Error(), dst)
	assert.NoFileExists(t, dst)
}

func TestConvertConfigToRfx(t *testing.T) {
	dir := t.TempDir()
	in := rfxFile(99)
	src := write(t, dir, "coin.rfx", in)
	yml := filepath.Join(dir, "coin.yaml")
	out := filepath.Join(dir, "copy.rfx")

	c := newTestConverter(new(bytes.Buffer))
	require.NoError(t, c.Convert(src, yml))
	require.NoError(t, c.Convert(yml, out))

	b, err := ioutil.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, in, b)

	w, err := rfx.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, uint64(99), w.RandomSeed)
}

func TestConvertConfig(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "in.json", []byte(`{"b": {"x": 1.5}, "a": "text"}`))
	dst := filepath.Join(dir, "out.xml")

	require.NoError(t, newTestConverter(new(bytes.Buffer)).Convert(src, dst))
	doc, err := document.Load(dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, doc.Keys())

	err = newTestConverter(new(bytes.Buffer)).Convert(write(t, dir, "in.txt", []byte("hello")), dst)
	assert.ErrorIs(t, err, ciaerr.ErrFormat)
	assert.Contains(t, err.Error(), "error loading config")
}

func pngFile(t *testing.T) []byte {
	m := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			m.Set(x, y, color.NRGBA{uint8(x * 16), uint8(y * 32), 0x80, 0xff})
		}
	}
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, m))
	return b.Bytes()
}

func TestConvertImage(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "in.png", pngFile(t))
	dst := filepath.Join(dir, "out.bmp")

	logs := new(bytes.Buffer)
	require.NoError(t, newTestConverter(logs).Convert(src, dst))
	assert.Contains(t, logs.String(), "source info: BPP: 3, Width: 16, Height: 8")

	c := newTestConverter(new(bytes.Buffer))
	sig, ok, err := c.Identify(dst)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ".bmp", sig.Extension)

	err = c.Convert(src, filepath.Join(dir, "out.webp"))
	assert.ErrorIs(t, err, ciaerr.ErrUnsupportedTarget)
}

func TestQuantize(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "in.png", pngFile(t))
	dst := filepath.Join(dir, "out.png")

	logs := new(bytes.Buffer)
	require.NoError(t, newTestConverter(logs).Quantize(src, dst, 4))
	assert.Contains(t, logs.String(), "quant done!")

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	m, err := png.Decode(f)
	require.NoError(t, err)
	pm, ok := m.(*image.Paletted)
	require.True(t, ok)
	assert.LessOrEqual(t, len(pm.Palette), 4)

	err = newTestConverter(logs).Quantize(write(t, dir, "font.fnt", fntFile()), dst, 4)
	assert.ErrorIs(t, err, ciaerr.ErrFormat)
}

func TestArrays(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.png", pngFile(t))
	write(t, dir, "a.png", pngFile(t))
	write(t, dir, "c.txt", []byte("ignored"))

	out := new(bytes.Buffer)
	require.NoError(t, newTestConverter(new(bytes.Buffer)).Arrays(out, dir))
	s := out.String()
	assert.True(t, strings.HasPrefix(s, "#include <array>\n#include <cstdint>\n\n"))
	assert.Less(t, strings.Index(s, "> a {"), strings.Index(s, "> b {"))
	assert.Contains(t, s, "constexpr std::array<uint8_t, 512> a {")

	assert.Error(t, newTestConverter(new(bytes.Buffer)).Arrays(out, filepath.Join(dir, "missing")))
}

func TestFileNotFound(t *testing.T) {
	c := newTestConverter(new(bytes.Buffer))
	err := c.Convert(filepath.Join(t.TempDir(), "nope.fnt"), "out.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestCustomSignatures(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "font.fnt", fntFile())

	// Without the custom signature BMF is taken for a bitmap
	c := New(log.New(ioutil.Discard, "", 0), WithSignatures(magic.Builtin()))
	err := c.Convert(src, filepath.Join(dir, "font.json"))
	assert.ErrorIs(t, err, ciaerr.ErrFormat)
	assert.Contains(t, err.Error(), "error loading image")

	classify := func(string) magic.Group { return magic.GroupConfig }
	c = New(log.New(ioutil.Discard, "", 0), WithClassifier(classify))
	require.NoError(t, c.Convert(src, filepath.Join(dir, "font.json")))
}
