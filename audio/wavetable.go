package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/youpy/go-wav"
)

// WavetableSize is the number of points in a resampled custom wavetable.
const WavetableSize = 2048

var ErrEmptyWavetable = errors.New("wavetable has no samples")

// Wavetable is one cycle of a waveform. It is immutable once created, so voices can read it
// without synchronization.
type Wavetable struct {
	name    string
	samples []float64
}

// NewWavetable resamples one cycle to WavetableSize points and normalizes it to a peak of 1.
func NewWavetable(name string, cycle []float64) (*Wavetable, error) {
	if len(cycle) == 0 {
		return nil, ErrEmptyWavetable
	}
	t := &Wavetable{name: name, samples: make([]float64, WavetableSize)}
	var peak float64
	for i := range t.samples {
		pos := float64(i) * float64(len(cycle)) / WavetableSize
		j := int(pos)
		frac := pos - float64(j)
		a := cycle[j]
		b := cycle[(j+1)%len(cycle)]
		t.samples[i] = a + (b-a)*frac
		peak = math.Max(peak, math.Abs(t.samples[i]))
	}
	if peak > 0 {
		for i := range t.samples {
			t.samples[i] /= peak
		}
	}
	return t, nil
}

func (t *Wavetable) Name() string { return t.name }

// At returns the linearly interpolated value at phase p in [0,1).
func (t *Wavetable) At(p float64) float64 {
	pos := p * WavetableSize
	i := int(pos)
	frac := pos - float64(i)
	i %= WavetableSize
	a := t.samples[i]
	b := t.samples[(i+1)%WavetableSize]
	return a + (b-a)*frac
}

// LoadWavetable reads the first channel of a wav file as a single cycle.
func LoadWavetable(file string) (*Wavetable, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cycle []float64
	r := wav.NewReader(f)
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		for _, sample := range samples {
			cycle = append(cycle, r.FloatValue(sample, 0))
		}
	}
	t, err := NewWavetable(file, cycle)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", file, err)
	}
	return t, nil
}
