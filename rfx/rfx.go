/*
Package rfx reads and writes the sound effect parameter files saved by
rFXGen.

The file is a single fixed record of 104 bytes: the signature "rFX ", a
16-bit version which must be 200, a 16-bit length which must be 96, then the
96 byte payload of a signed 32-bit random seed, a signed 32-bit wave type and
22 single precision floats. Everything is little-endian.
*/
package rfx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bodgit/ciaconv/stream"
)

const (
	version     = 200
	payloadSize = 96
)

var signature = [4]byte{'r', 'F', 'X', ' '}

var (
	// ErrSignature is returned when the signature, version or length do
	// not match.
	ErrSignature = errors.New("rfx: invalid signature")
	// ErrWaveType is returned for an unknown wave type.
	ErrWaveType = errors.New("rfx: unknown wave type")
)

// WaveType selects the base oscillator.
type WaveType int32

// The wave types.
const (
	Square WaveType = iota
	Sawtooth
	Sine
	Noise
)

var waveTypeNames = [...]string{"Square", "Sawtooth", "Sine", "Noise"}

// Valid reports whether t is a known wave type.
func (t WaveType) Valid() bool {
	return t >= Square && t <= Noise
}

func (t WaveType) String() string {
	if t.Valid() {
		return waveTypeNames[t]
	}
	return fmt.Sprintf("WaveType(%d)", int32(t))
}

// Wave is the full parameter set of a procedural sound effect.
type Wave struct {
	RandomSeed uint64
	WaveType   WaveType

	AttackTime   float32
	SustainTime  float32
	SustainPunch float32
	DecayTime    float32

	StartFrequency float32
	MinFrequency   float32
	Slide          float32
	DeltaSlide     float32
	VibratoDepth   float32
	VibratoSpeed   float32

	ChangeAmount float32
	ChangeSpeed  float32

	SquareDuty float32
	DutySweep  float32

	RepeatSpeed float32

	PhaserOffset float32
	PhaserSweep  float32

	LowPassFilterCutoff       float32
	LowPassFilterCutoffSweep  float32
	LowPassFilterResonance    float32
	HighPassFilterCutoff      float32
	HighPassFilterCutoffSweep float32
}

type header struct {
	Signature [4]byte
	Version   uint16
	Length    uint16
}

// payload follows the header; Values is in the field order of Wave.
type payload struct {
	Seed     int32
	WaveType int32
	Values   [22]float32
}

type record struct {
	Header  header
	Payload payload
}

func (w *Wave) fields() []*float32 {
	return []*float32{
		&w.AttackTime,
		&w.SustainTime,
		&w.SustainPunch,
		&w.DecayTime,
		&w.StartFrequency,
		&w.MinFrequency,
		&w.Slide,
		&w.DeltaSlide,
		&w.VibratoDepth,
		&w.VibratoSpeed,
		&w.ChangeAmount,
		&w.ChangeSpeed,
		&w.SquareDuty,
		&w.DutySweep,
		&w.RepeatSpeed,
		&w.PhaserOffset,
		&w.PhaserSweep,
		&w.LowPassFilterCutoff,
		&w.LowPassFilterCutoffSweep,
		&w.LowPassFilterResonance,
		&w.HighPassFilterCutoff,
		&w.HighPassFilterCutoffSweep,
	}
}

// Decode reads a parameter file from r, which must be positioned at the
// start of the file.
func Decode(r io.ReadSeeker) (*Wave, error) {
	sr, err := stream.NewReader(r)
	if err != nil {
		return nil, err
	}

	var h header
	if err := sr.ReadStruct(&h); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, ErrSignature
		}
		return nil, err
	}
	if h.Signature != signature || h.Version != version || h.Length != payloadSize {
		return nil, ErrSignature
	}

	var p payload
	if err := sr.ReadStruct(&p); err != nil {
		return nil, err
	}
	if !WaveType(p.WaveType).Valid() {
		return nil, fmt.Errorf("%w: %d", ErrWaveType, p.WaveType)
	}

	w := &Wave{
		RandomSeed: uint64(int64(p.Seed)),
		WaveType:   WaveType(p.WaveType),
	}
	for i, f := range w.fields() {
		*f = p.Values[i]
	}

	return w, nil
}

// Encode writes w to out in the binary parameter file format. The seed is
// truncated to its low 32 bits.
func Encode(out io.Writer, w *Wave) error {
	if !w.WaveType.Valid() {
		return fmt.Errorf("%w: %d", ErrWaveType, w.WaveType)
	}
	rec := record{
		Header: header{
			Signature: signature,
			Version:   version,
			Length:    payloadSize,
		},
		Payload: payload{
			Seed:     int32(w.RandomSeed),
			WaveType: int32(w.WaveType),
		},
	}
	for i, f := range w.fields() {
		rec.Payload.Values[i] = *f
	}
	return binary.Write(out, binary.LittleEndian, &rec)
}
