package sfx

import (
	"errors"
	"io"
	"os"

	"github.com/bodgit/ciaconv/rfx"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

var errNotWAV = errors.New("sfx: not a valid WAV file")

// Encode writes buf to w as a PCM WAV file.
func Encode(w io.WriteSeeker, buf *audio.IntBuffer) error {
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = BitDepth
	}
	e := wav.NewEncoder(w, buf.Format.SampleRate, depth, buf.Format.NumChannels, wavFormatPCM)
	if err := e.Write(buf); err != nil {
		return err
	}
	return e.Close()
}

// WriteFile writes buf to a WAV file at path.
func WriteFile(path string, buf *audio.IntBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Encode(f, buf); err != nil {
		return err
	}
	return f.Close()
}

// Save synthesizes w and writes it to a WAV file at path.
func Save(w *rfx.Wave, path string) error {
	return WriteFile(path, Generate(w))
}

// Decode reads a whole PCM WAV file from r.
func Decode(r io.ReadSeeker) (*audio.IntBuffer, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errNotWAV
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	buf.SourceBitDepth = int(d.BitDepth)
	return buf, nil
}
