package raster

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

const bytesPerLine = 16

// RGBA returns the pixels of m as tightly packed, non-premultiplied 8-bit
// RGBA.
func RGBA(m image.Image) []byte {
	b := m.Bounds()
	buf := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			buf = append(buf, c.R, c.G, c.B, c.A)
		}
	}
	return buf
}

// WriteArrayHeader writes the includes needed by the output of WriteArray.
func WriteArrayHeader(w io.Writer) error {
	_, err := io.WriteString(w, "#include <array>\n#include <cstdint>\n\n")
	return err
}

// WriteArray writes the RGBA pixels of m as a C++ constexpr std::array
// named name.
func WriteArray(w io.Writer, name string, m image.Image) error {
	buf := RGBA(m)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "constexpr std::array<uint8_t, %d> %s {", len(buf), name)
	for i, c := range buf {
		if i%bytesPerLine == 0 {
			bw.WriteString("\n ")
		}
		fmt.Fprintf(bw, "0x%02x", c)
		if i != len(buf)-1 {
			bw.WriteString(", ")
		}
	}
	bw.WriteString(" };\n")

	return bw.Flush()
}
