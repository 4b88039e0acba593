package rfx

import (
	"errors"
	"fmt"

	"github.com/bodgit/ciaconv/document"
)

var fieldNames = [...]string{
	"AttackTime",
	"SustainTime",
	"SustainPunch",
	"DecayTime",
	"StartFrequency",
	"MinFrequency",
	"Slide",
	"DeltaSlide",
	"VibratoDepth",
	"VibratoSpeed",
	"ChangeAmount",
	"ChangeSpeed",
	"SquareDuty",
	"DutySweep",
	"RepeatSpeed",
	"PhaserOffset",
	"PhaserSweep",
	"LowPassFilterCutoff",
	"LowPassFilterCutoffSweep",
	"LowPassFilterResonance",
	"HighPassFilterCutoff",
	"HighPassFilterCutoffSweep",
}

const sectionKey = "wave"

var errNoWave = errors.New("rfx: document has no wave section")

// Section returns the parameters as a document section with one key per
// field.
func (w *Wave) Section() *document.Section {
	s := document.New()
	s.Set("RandomSeed", w.RandomSeed)
	s.Set("WaveType", int32(w.WaveType))
	for i, f := range w.fields() {
		s.Set(fieldNames[i], *f)
	}
	return s
}

// Document returns a document holding the parameters under "wave".
func (w *Wave) Document() *document.Section {
	doc := document.New()
	doc.Set(sectionKey, w.Section())
	return doc
}

// FromSection reads parameters back from a section produced by Section.
// Missing float fields are left at zero.
func FromSection(s *document.Section) (*Wave, error) {
	seed, ok := s.Uint("RandomSeed")
	if !ok {
		return nil, errors.New("rfx: missing or invalid RandomSeed")
	}
	t, ok := s.Int("WaveType")
	if !ok {
		return nil, errors.New("rfx: missing or invalid WaveType")
	}
	w := &Wave{
		RandomSeed: seed,
		WaveType:   WaveType(t),
	}
	if !w.WaveType.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrWaveType, t)
	}
	for i, f := range w.fields() {
		if v, ok := s.Float(fieldNames[i]); ok {
			*f = float32(v)
		}
	}
	return w, nil
}

// FromDocument reads parameters from the "wave" section of doc.
func FromDocument(doc *document.Section) (*Wave, error) {
	s, ok := doc.Lookup(sectionKey)
	if !ok {
		return nil, errNoWave
	}
	return FromSection(s)
}
