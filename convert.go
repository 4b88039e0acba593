package ciaconv

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/ciaconv/ciaerr"
	"github.com/bodgit/ciaconv/document"
	"github.com/bodgit/ciaconv/fnt"
	"github.com/bodgit/ciaconv/magic"
	"github.com/bodgit/ciaconv/raster"
	"github.com/bodgit/ciaconv/rfx"
	"github.com/bodgit/ciaconv/sfx"
)

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Identify returns the signature of the file at src.
func (c *Converter) Identify(src string) (magic.Signature, bool, error) {
	if !isFile(src) {
		return magic.Signature{}, false, ciaerr.New(nil, "file not found", src, nil)
	}
	f, err := os.Open(src)
	if err != nil {
		return magic.Signature{}, false, err
	}
	defer f.Close()

	sig, ok := c.signatures.Sniff(f)
	return sig, ok, nil
}

// Convert converts the file at src to dst. The source format is detected
// from its leading bytes, falling back to treating it as a config document
// named by its extension; the destination format comes from the extension
// of dst.
func (c *Converter) Convert(src, dst string) error {
	if !isFile(src) {
		return ciaerr.New(nil, "file not found", src, nil)
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	if sig, ok := c.signatures.Sniff(f); ok {
		switch sig.Group {
		case magic.GroupAudio:
			return c.convertAudio(f, src, dst)
		case magic.GroupImage:
			return c.convertImage(f, src, dst)
		case magic.GroupMisc:
			return c.convertMisc(f, src, sig.Extension, dst)
		}
	}

	return c.convertConfig(f, src, ext(src), dst)
}

func (c *Converter) done() {
	c.logger.Println("done!")
}

func (c *Converter) convertMisc(f *os.File, src, srcExt, dst string) error {
	switch srcExt {
	case ".rfx":
		c.logger.Printf("converting rfx: %s to %s\n", src, dst)
		if err := rfx.Convert(f, src, dst, rfx.Target{
			Classify:     c.classify,
			SaveDocument: document.Save,
			SaveAudio:    sfx.Save,
		}); err != nil {
			return err
		}
	case ".fnt":
		c.logger.Printf("converting fnt: %s to %s\n", src, dst)
		if c.classify(dst) != magic.GroupConfig {
			return ciaerr.New(ciaerr.ErrUnsupportedTarget, "unsupported convert target format", dst, nil)
		}
		if err := fnt.Convert(f, src, dst, document.Save); err != nil {
			return err
		}
	default:
		return ciaerr.New(ciaerr.ErrFormat, "unsupported file", src, nil)
	}
	c.done()
	return nil
}

func (c *Converter) convertConfig(f *os.File, src, srcExt, dst string) error {
	c.logger.Printf("converting config file: %s to %s\n", src, dst)

	if !document.Supported(srcExt) {
		return ciaerr.New(ciaerr.ErrFormat, "error loading config", src, nil)
	}
	doc, err := document.Decode(f, srcExt)
	if err != nil {
		return ciaerr.New(ciaerr.ErrFormat, "error loading config", src, err)
	}

	if ext(dst) == ".rfx" {
		w, err := rfx.FromDocument(doc)
		if err != nil {
			return ciaerr.New(ciaerr.ErrFormat, "error loading rfx config", src, err)
		}
		b := new(bytes.Buffer)
		if err := rfx.Encode(b, w); err != nil {
			return ciaerr.New(ciaerr.ErrFormat, "error loading rfx config", src, err)
		}
		if err := os.WriteFile(dst, b.Bytes(), 0o644); err != nil {
			return ciaerr.New(ciaerr.ErrSink, "error saving rfx file", dst, err)
		}
		c.done()
		return nil
	}

	if c.classify(dst) != magic.GroupConfig || !document.Supported(ext(dst)) {
		return ciaerr.New(ciaerr.ErrUnsupportedTarget, "unsupported convert target format", dst, nil)
	}
	if err := document.Save(doc, dst); err != nil {
		return ciaerr.New(ciaerr.ErrSink, "error saving config", dst, err)
	}

	c.done()
	return nil
}

func (c *Converter) convertImage(f *os.File, src, dst string) error {
	c.logger.Printf("converting image: %s to %s\n", src, dst)

	m, _, err := raster.Decode(f)
	if err != nil {
		return ciaerr.New(ciaerr.ErrFormat, "error loading image", src, err)
	}

	info := raster.Describe(m)
	c.logger.Printf("source info: BPP: %d, Width: %d, Height: %d\n", info.BPP, info.Width, info.Height)

	if err := saveImage(m, dst); err != nil {
		return err
	}

	c.done()
	return nil
}

func (c *Converter) convertAudio(f *os.File, src, dst string) error {
	c.logger.Printf("converting audio: %s to %s\n", src, dst)

	buf, err := sfx.Decode(f)
	if err != nil {
		return ciaerr.New(ciaerr.ErrFormat, "error loading audio", src, err)
	}

	channels := buf.Format.NumChannels
	c.logger.Printf("source info: Channels: %d, Frames: %d, Sample Rate: %d\n", channels, buf.NumFrames(), buf.Format.SampleRate)

	if c.classify(dst) != magic.GroupAudio {
		return ciaerr.New(ciaerr.ErrUnsupportedTarget, "unsupported convert target format", dst, nil)
	}
	if err := sfx.WriteFile(dst, buf); err != nil {
		return ciaerr.New(ciaerr.ErrSink, "error saving audio", dst, err)
	}

	c.done()
	return nil
}
