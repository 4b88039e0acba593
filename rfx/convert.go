package rfx

import (
	"errors"
	"io"

	"github.com/bodgit/ciaconv/ciaerr"
	"github.com/bodgit/ciaconv/document"
	"github.com/bodgit/ciaconv/magic"
)

// Target holds the collaborators used to route decoded parameters to a
// destination.
type Target struct {
	// Classify resolves the destination path to a group.
	Classify magic.Classifier
	// SaveDocument persists the parameters as a document.
	SaveDocument func(doc *document.Section, path string) error
	// SaveAudio synthesizes the parameters and persists the waveform.
	SaveAudio func(w *Wave, path string) error
}

// Convert decodes the parameter file in r, read from src, and writes it
// to dst as either a document or synthesized audio depending on what
// group dst belongs to.
func Convert(r io.ReadSeeker, src, dst string, t Target) error {
	w, err := Decode(r)
	if err != nil {
		if errors.Is(err, ErrSignature) || errors.Is(err, ErrWaveType) {
			return ciaerr.New(ciaerr.ErrFormat, "unsupported rfx file", src, err)
		}
		return ciaerr.New(ciaerr.ErrMalformed, "malformed rfx file", src, err)
	}
	return Write(w, dst, t)
}

// Write routes w to dst.
func Write(w *Wave, dst string, t Target) error {
	switch t.Classify(dst) {
	case magic.GroupConfig:
		if err := t.SaveDocument(w.Document(), dst); err != nil {
			return ciaerr.New(ciaerr.ErrSink, "error saving rfx config", dst, err)
		}
	case magic.GroupAudio:
		if err := t.SaveAudio(w, dst); err != nil {
			return ciaerr.New(ciaerr.ErrSink, "error saving rfx audio", dst, err)
		}
	default:
		return ciaerr.New(ciaerr.ErrUnsupportedTarget, "unsupported convert target format", dst, nil)
	}
	return nil
}
