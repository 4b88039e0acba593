/*
Package sfx synthesizes sound effects from rfx parameter sets.

The generator is the classic sfxr design: a square, sawtooth, sine or noise
oscillator whose period is swept and modulated, passed through a resonant
low-pass filter, a high-pass filter and a phaser, then shaped by an attack,
sustain and decay envelope. Output is mono 16-bit PCM at 44.1 kHz, limited
to ten seconds.
*/
package sfx

import (
	"math"
	"math/rand"

	"github.com/bodgit/ciaconv/rfx"
	"github.com/go-audio/audio"
)

const (
	// SampleRate of the generated buffer.
	SampleRate = 44100
	// BitDepth of the generated buffer.
	BitDepth = 16

	maxSeconds    = 10
	maxSamples    = SampleRate * maxSeconds
	supersampling = 8
	sampleScale   = 0.2
	masterVolume  = 0.5

	phaserSize  = 1024
	noiseSize   = 32
	minPeriod   = 8
	maxSample16 = math.MaxInt16
)

type generator struct {
	w   *rfx.Wave
	rnd *rand.Rand

	period     float64
	maxPeriod  float64
	slide      float64
	deltaSlide float64

	squareDuty  float32
	squareSlide float32

	arpModulation float64
	arpTime       int
	arpLimit      int
}

func (g *generator) reset() {
	w := g.w

	g.period = 100.0 / (float64(w.StartFrequency)*float64(w.StartFrequency) + 0.001)
	g.maxPeriod = 100.0 / (float64(w.MinFrequency)*float64(w.MinFrequency) + 0.001)
	g.slide = 1.0 - math.Pow(float64(w.Slide), 3)*0.01
	g.deltaSlide = -math.Pow(float64(w.DeltaSlide), 3) * 0.000001

	g.squareDuty = 0.5 - w.SquareDuty*0.5
	g.squareSlide = -w.DutySweep * 0.00005

	if w.ChangeAmount >= 0 {
		g.arpModulation = 1.0 - math.Pow(float64(w.ChangeAmount), 2)*0.9
	} else {
		g.arpModulation = 1.0 + math.Pow(float64(w.ChangeAmount), 2)*10.0
	}
	g.arpTime = 0
	g.arpLimit = int(math.Pow(float64(1-w.ChangeSpeed), 2)*20000 + 32)
	if w.ChangeSpeed == 1 {
		g.arpLimit = 0
	}
}

func (g *generator) noise(buf *[noiseSize]float32) {
	for i := range buf {
		buf[i] = g.rnd.Float32()*2 - 1
	}
}

func square(x float32) float32 {
	return x * x
}

// fraction is t/n, or zero for an empty stage.
func fraction(t, n int) float32 {
	if n == 0 {
		return 0
	}
	return float32(t) / float32(n)
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func (g *generator) generate() []float32 {
	w := g.w
	g.reset()

	// Filters
	lpfPos, lpfDelta := float32(0), float32(0)
	lpfCutoff := float32(math.Pow(float64(w.LowPassFilterCutoff), 3)) * 0.1
	lpfSweep := 1 + w.LowPassFilterCutoffSweep*0.0001
	lpfDamping := 5 / (1 + square(w.LowPassFilterResonance)*20) * (0.01 + lpfCutoff)
	if lpfDamping > 0.8 {
		lpfDamping = 0.8
	}
	hpfPos := float32(0)
	hpfCutoff := square(w.HighPassFilterCutoff) * 0.1
	hpfSweep := 1 + w.HighPassFilterCutoffSweep*0.0003

	// Vibrato
	vibPhase := float64(0)
	vibSpeed := float64(square(w.VibratoSpeed)) * 0.01
	vibAmplitude := float64(w.VibratoDepth) * 0.5

	// Envelope
	var envLength [3]int
	envLength[0] = int(square(w.AttackTime) * 100000)
	envLength[1] = int(square(w.SustainTime) * 100000)
	envLength[2] = int(square(w.DecayTime) * 100000)
	envStage, envTime := 0, 0
	envVolume := float32(0)

	// Phaser
	var phaser [phaserSize]float32
	phaserPos := 0
	phaserPhase := square(w.PhaserOffset) * 1020
	if w.PhaserOffset < 0 {
		phaserPhase = -phaserPhase
	}
	phaserDelta := square(w.PhaserSweep)
	if w.PhaserSweep < 0 {
		phaserDelta = -phaserDelta
	}

	var noise [noiseSize]float32
	g.noise(&noise)

	repeatTime := 0
	repeatLimit := int(math.Pow(float64(1-w.RepeatSpeed), 2)*20000 + 32)
	if w.RepeatSpeed == 0 {
		repeatLimit = 0
	}

	phase := 0
	out := make([]float32, 0, SampleRate)

	for len(out) < maxSamples {
		repeatTime++
		if repeatLimit != 0 && repeatTime >= repeatLimit {
			repeatTime = 0
			g.reset()
		}

		g.arpTime++
		if g.arpLimit != 0 && g.arpTime >= g.arpLimit {
			g.arpLimit = 0
			g.period *= g.arpModulation
		}

		g.slide += g.deltaSlide
		g.period *= g.slide
		if g.period > g.maxPeriod {
			g.period = g.maxPeriod
			if w.MinFrequency > 0 {
				break
			}
		}

		rperiod := g.period
		if vibAmplitude > 0 {
			vibPhase += vibSpeed
			rperiod = g.period * (1 + math.Sin(vibPhase)*vibAmplitude)
		}
		period := int(rperiod)
		if period < minPeriod {
			period = minPeriod
		}

		g.squareDuty = clamp(g.squareDuty+g.squareSlide, 0, 0.5)

		envTime++
		if envTime > envLength[envStage] {
			envTime = 0
			envStage++
			if envStage == len(envLength) {
				break
			}
		}
		switch envStage {
		case 0:
			envVolume = fraction(envTime, envLength[0])
		case 1:
			envVolume = 1 + (1-fraction(envTime, envLength[1]))*2*w.SustainPunch
		case 2:
			envVolume = 1 - fraction(envTime, envLength[2])
		}

		phaserPhase += phaserDelta
		phaserOffset := int(math.Abs(float64(int(phaserPhase))))
		if phaserOffset > phaserSize-1 {
			phaserOffset = phaserSize - 1
		}

		if hpfSweep != 0 {
			hpfCutoff = clamp(hpfCutoff*hpfSweep, 0.00001, 0.1)
		}

		var acc float32
		for i := 0; i < supersampling; i++ {
			phase++
			if phase >= period {
				phase %= period
				if w.WaveType == rfx.Noise {
					g.noise(&noise)
				}
			}

			fp := float32(phase) / float32(period)
			var sample float32
			switch w.WaveType {
			case rfx.Square:
				if fp < g.squareDuty {
					sample = 0.5
				} else {
					sample = -0.5
				}
			case rfx.Sawtooth:
				sample = 1 - fp*2
			case rfx.Sine:
				sample = float32(math.Sin(float64(fp) * 2 * math.Pi))
			case rfx.Noise:
				sample = noise[phase*noiseSize/period]
			}

			// Low-pass
			prev := lpfPos
			lpfCutoff = clamp(lpfCutoff*lpfSweep, 0, 0.1)
			if w.LowPassFilterCutoff != 1 {
				lpfDelta += (sample - lpfPos) * lpfCutoff
				lpfDelta -= lpfDelta * lpfDamping
			} else {
				lpfPos = sample
				lpfDelta = 0
			}
			lpfPos += lpfDelta

			// High-pass
			hpfPos += lpfPos - prev
			hpfPos -= hpfPos * hpfCutoff
			sample = hpfPos

			// Phaser
			phaser[phaserPos&(phaserSize-1)] = sample
			sample += phaser[(phaserPos-phaserOffset+phaserSize)&(phaserSize-1)]
			phaserPos = (phaserPos + 1) & (phaserSize - 1)

			acc += sample * envVolume
		}

		acc = acc / supersampling * sampleScale * 2 * masterVolume
		out = append(out, clamp(acc, -1, 1))
	}

	return out
}

// Samples returns the synthesized waveform as floats in [-1, 1].
func Samples(w *rfx.Wave) []float32 {
	g := generator{
		w:   w,
		rnd: rand.New(rand.NewSource(int64(w.RandomSeed))),
	}
	return g.generate()
}

// Generate synthesizes w into a mono 16-bit PCM buffer.
func Generate(w *rfx.Wave) *audio.IntBuffer {
	samples := Samples(w)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s * maxSample16)
	}
	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           data,
		SourceBitDepth: BitDepth,
	}
}
