package audio

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// WaveKind selects the periodic function a WeightedWaveTable contributes.
type WaveKind int

const (
	WaveSine WaveKind = iota
	WaveSquare
	WaveTriangle
	WaveSaw
	WaveCustom
)

var waveNames = []string{"sine", "square", "triangle", "saw", "custom"}

func (k WaveKind) String() string {
	if k < 0 || int(k) >= len(waveNames) {
		return fmt.Sprintf("wave(%d)", int(k))
	}
	return waveNames[k]
}

// ParseWaveKind is the inverse of WaveKind.String.
func ParseWaveKind(s string) (WaveKind, error) {
	for i, name := range waveNames {
		if name == s {
			return WaveKind(i), nil
		}
	}
	return 0, fmt.Errorf("not a valid waveform: %q", s)
}

// WeightedWaveTable is one term of the oscillator mix. Table is only read for WaveCustom.
type WeightedWaveTable struct {
	Kind   WaveKind
	Weight float64
	Table  *Wavetable
}

// DefaultWaveTables is a pure sine.
func DefaultWaveTables() []WeightedWaveTable {
	return []WeightedWaveTable{
		{Kind: WaveSine, Weight: 1},
		{Kind: WaveSquare, Weight: 0},
		{Kind: WaveTriangle, Weight: 0},
	}
}

// waveform evaluates a unit amplitude waveform at phase p in [0,1).
func waveform(t *WeightedWaveTable, p float64) float64 {
	switch t.Kind {
	case WaveSine:
		return math.Sin(twoPi * p)
	case WaveSquare:
		if p < 0.5 {
			return 1
		}
		return -1
	case WaveTriangle:
		switch {
		case p < 0.25:
			return 4 * p
		case p < 0.75:
			return 2 - 4*p
		default:
			return 4*p - 4
		}
	case WaveSaw:
		return 2*p - 1
	case WaveCustom:
		if t.Table == nil {
			return 0
		}
		return t.Table.At(p)
	}
	return 0
}

// Oscillator is a phase accumulator sampling a weighted sum of waveforms.
type Oscillator struct {
	freq       float64
	sampleRate float64
	phase      float64 // [0,1)
}

func NewOscillator(freq, sampleRate float64) *Oscillator {
	return &Oscillator{freq: freq, sampleRate: sampleRate}
}

func (o *Oscillator) Frequency() float64 { return o.freq }

func (o *Oscillator) Phase() float64 { return o.phase }

// NextRaw returns the mix of tables at the current phase, then advances the phase.
func (o *Oscillator) NextRaw(tables []WeightedWaveTable) float64 {
	var v float64
	for i := range tables {
		t := &tables[i]
		if t.Weight == 0 {
			continue
		}
		v += t.Weight * waveform(t, o.phase)
	}
	o.phase += o.freq / o.sampleRate
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
	return v
}
