package ciaconv

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bodgit/ciaconv/ciaerr"
	"github.com/bodgit/ciaconv/magic"
	"github.com/bodgit/ciaconv/raster"
)

func saveImage(m image.Image, dst string) error {
	if !raster.CanEncode(ext(dst)) {
		return ciaerr.New(ciaerr.ErrUnsupportedTarget, "unsupported convert target format", dst, nil)
	}

	f, err := os.Create(dst)
	if err != nil {
		return ciaerr.New(ciaerr.ErrSink, "error saving image", dst, err)
	}
	defer f.Close()

	if err := raster.Encode(f, m, ext(dst)); err != nil {
		return ciaerr.New(ciaerr.ErrSink, "error saving image", dst, err)
	}
	if err := f.Close(); err != nil {
		return ciaerr.New(ciaerr.ErrSink, "error saving image", dst, err)
	}
	return nil
}

// Quantize reduces the image at src to at most colors colors and saves it
// to dst.
func (c *Converter) Quantize(src, dst string, colors int) error {
	sig, ok, err := c.Identify(src)
	if err != nil {
		return err
	}
	if !ok || sig.Group != magic.GroupImage {
		return ciaerr.New(ciaerr.ErrFormat, "invalid file", src, nil)
	}

	c.logger.Printf("converting image to %d colors: %s to %s\n", colors, src, dst)

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	m, _, err := raster.Decode(f)
	if err != nil {
		return ciaerr.New(ciaerr.ErrFormat, "error loading image", src, err)
	}

	info := raster.Describe(m)
	c.logger.Printf("source info: BPP: %d, Width: %d, Height: %d\n", info.BPP, info.Width, info.Height)

	pm, err := raster.Quantize(m, colors)
	if err != nil {
		return ciaerr.New(ciaerr.ErrFormat, "error quantizing image", src, err)
	}
	c.logger.Println("quant done!")

	if err := saveImage(pm, dst); err != nil {
		return err
	}

	c.done()
	return nil
}

// Arrays writes every PNG image in dir to w as a C++ array named after the
// file.
func (c *Converter) Arrays(w io.Writer, dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ciaerr.New(nil, "folder not found", dir, err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	if err := raster.WriteArrayHeader(w); err != nil {
		return err
	}

	for _, file := range files {
		m, err := loadImage(file)
		if err != nil {
			c.logger.Printf("skipping %s: %v\n", file, err)
			continue
		}
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		if err := raster.WriteArray(w, name, m); err != nil {
			return err
		}
	}

	return nil
}

func loadImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := raster.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error loading image: %w", err)
	}
	return m, nil
}
