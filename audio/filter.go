package audio

import (
	"fmt"
	"math"
)

type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterLowpass
	FilterHighpass
	FilterBandpass
)

var filterNames = []string{"none", "lowpass", "highpass", "bandpass"}

func (k FilterKind) String() string {
	if k < 0 || int(k) >= len(filterNames) {
		return fmt.Sprintf("filter(%d)", int(k))
	}
	return filterNames[k]
}

func ParseFilterKind(s string) (FilterKind, error) {
	for i, name := range filterNames {
		if name == s {
			return FilterKind(i), nil
		}
	}
	return 0, fmt.Errorf("not a valid filter kind: %q", s)
}

// FilterParams configures a Filter. ModDepth is the cutoff sweep in octaves for a modulator
// value of 1.
type FilterParams struct {
	Kind      FilterKind
	Cutoff    float64 // Hz
	Resonance float64 // Q
	ModDepth  float64
}

var DefaultFilter = FilterParams{Kind: FilterNone, Cutoff: 1000, Resonance: 0.707}

const minCutoff = 10.0

// Filter is a biquad in transposed direct form II with coefficients from
// https://www.w3.org/2011/audio/audio-eq-cookbook.html
type Filter struct {
	params     FilterParams
	sampleRate float64

	b0, b1, b2, a1, a2 float64
	lastCutoff         float64

	// state
	z1, z2 float64
}

func NewFilter(p FilterParams, sampleRate float64) *Filter {
	f := &Filter{sampleRate: sampleRate}
	f.SetParams(p)
	return f
}

// SetParams keeps the delay taps so a running voice does not click.
func (f *Filter) SetParams(p FilterParams) {
	f.params = p
	f.lastCutoff = -1
}

func (f *Filter) Params() FilterParams { return f.params }

// Reset clears the delay taps.
func (f *Filter) Reset() { f.z1, f.z2 = 0, 0 }

// Process filters one sample. mod is the modulator value in [-1, 1].
func (f *Filter) Process(in, mod float64) float64 {
	if f.params.Kind == FilterNone {
		return in
	}
	cutoff := f.params.Cutoff
	if f.params.ModDepth != 0 {
		cutoff *= math.Exp2(mod * f.params.ModDepth)
	}
	if cutoff != f.lastCutoff {
		f.calculateCoefficients(cutoff)
	}
	out := f.b0*in + f.z1
	f.z1 = f.b1*in - f.a1*out + f.z2
	f.z2 = f.b2*in - f.a2*out
	return out
}

func (f *Filter) calculateCoefficients(cutoff float64) {
	f.lastCutoff = cutoff
	nyquist := 0.49 * f.sampleRate
	if cutoff < minCutoff {
		cutoff = minCutoff
	} else if cutoff > nyquist {
		cutoff = nyquist
	}
	q := f.params.Resonance
	if q <= 0 {
		q = 0.707
	}
	omega := twoPi * cutoff / f.sampleRate
	cos := math.Cos(omega)
	alpha := math.Sin(omega) / (2 * q)

	var b0, b1, b2 float64
	switch f.params.Kind {
	case FilterLowpass:
		b0 = (1 - cos) / 2
		b1 = 1 - cos
		b2 = b0
	case FilterHighpass:
		b0 = (1 + cos) / 2
		b1 = -(1 + cos)
		b2 = b0
	case FilterBandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	}
	a0 := 1 + alpha
	f.b0 = b0 / a0
	f.b1 = b1 / a0
	f.b2 = b2 / a0
	f.a1 = -2 * cos / a0
	f.a2 = (1 - alpha) / a0
}
