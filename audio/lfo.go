package audio

import "math"

// DefaultLFORate is the modulator frequency in Hz.
const DefaultLFORate = 0.25

// LFO produces a slow sine control signal in [-1, 1]. Its phase is only ever set at
// construction.
type LFO struct {
	rate       float64
	sampleRate float64
	phase      float64
}

func NewLFO(rate, sampleRate float64) *LFO {
	return &LFO{rate: rate, sampleRate: sampleRate}
}

func (l *LFO) Phase() float64 { return l.phase }

func (l *LFO) NextControl() float64 {
	v := math.Sin(twoPi * l.phase)
	l.phase += l.rate / l.sampleRate
	if l.phase >= 1 {
		l.phase -= math.Floor(l.phase)
	}
	return v
}
