package audio

import (
	"math"
	"testing"
)

func TestWaveforms(t *testing.T) {
	for _, test := range []struct {
		kind  WaveKind
		phase float64
		want  float64
	}{
		{WaveSine, 0.25, 1},
		{WaveSine, 0.75, -1},
		{WaveSquare, 0.1, 1},
		{WaveSquare, 0.6, -1},
		{WaveTriangle, 0, 0},
		{WaveTriangle, 0.25, 1},
		{WaveTriangle, 0.5, 0},
		{WaveTriangle, 0.75, -1},
		{WaveSaw, 0, -1},
		{WaveSaw, 0.5, 0},
		{WaveCustom, 0.3, 0},
	} {
		table := WeightedWaveTable{Kind: test.kind, Weight: 1}
		if got := waveform(&table, test.phase); math.Abs(got-test.want) > 1e-12 {
			t.Errorf("%v at %v: want %v, got %v", test.kind, test.phase, test.want, got)
		}
	}
}

func TestOscillatorMix(t *testing.T) {
	osc := NewOscillator(250, 1000)
	tables := []WeightedWaveTable{
		{Kind: WaveSine, Weight: 0.5},
		{Kind: WaveSquare, Weight: 0.25},
	}
	want := []float64{0 + 0.25, 0.5 + 0.25, 0 - 0.25, -0.5 - 0.25, 0 + 0.25}
	for i, w := range want {
		if got := osc.NextRaw(tables); math.Abs(got-w) > 1e-12 {
			t.Errorf("sample %d: want %v, got %v", i, w, got)
		}
	}
	if osc.Phase() < 0 || osc.Phase() >= 1 {
		t.Errorf("phase out of range: %v", osc.Phase())
	}
}

func TestParseWaveKind(t *testing.T) {
	for _, k := range []WaveKind{WaveSine, WaveSquare, WaveTriangle, WaveSaw, WaveCustom} {
		got, err := ParseWaveKind(k.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != k {
			t.Errorf("want %v, got %v", k, got)
		}
	}
	if _, err := ParseWaveKind("noise"); err == nil {
		t.Error("expected error for unknown waveform")
	}
}

func TestLFO(t *testing.T) {
	lfo := NewLFO(250, 1000)
	want := []float64{0, 1, 0, -1, 0}
	for i, w := range want {
		if got := lfo.NextControl(); math.Abs(got-w) > 1e-12 {
			t.Errorf("sample %d: want %v, got %v", i, w, got)
		}
	}
}

func TestFilterNonePassesThrough(t *testing.T) {
	f := NewFilter(DefaultFilter, 44100)
	for _, x := range []float64{0.5, -0.25, 1} {
		if got := f.Process(x, 0.7); got != x {
			t.Errorf("want %v, got %v", x, got)
		}
	}
}

func TestFilterResponse(t *testing.T) {
	const sampleRate = 44100
	rms := func(kind FilterKind, freq float64) float64 {
		f := NewFilter(FilterParams{Kind: kind, Cutoff: 1000, Resonance: 0.707}, sampleRate)
		osc := NewOscillator(freq, sampleRate)
		tables := []WeightedWaveTable{{Kind: WaveSine, Weight: 1}}
		var sum float64
		const n = 8820
		for i := 0; i < 2*n; i++ {
			y := f.Process(osc.NextRaw(tables), 0)
			if i >= n {
				sum += y * y
			}
		}
		return math.Sqrt(sum / n)
	}
	if low, high := rms(FilterLowpass, 100), rms(FilterLowpass, 10000); low < 10*high {
		t.Errorf("lowpass: low %v should be much louder than high %v", low, high)
	}
	if low, high := rms(FilterHighpass, 100), rms(FilterHighpass, 10000); high < 10*low {
		t.Errorf("highpass: high %v should be much louder than low %v", high, low)
	}
	if mid, high := rms(FilterBandpass, 1000), rms(FilterBandpass, 10000); mid < 3*high {
		t.Errorf("bandpass: center %v should be louder than high %v", mid, high)
	}
}

func TestFilterModulation(t *testing.T) {
	f := NewFilter(FilterParams{Kind: FilterLowpass, Cutoff: 1000, Resonance: 0.707, ModDepth: 1}, 44100)
	f.Process(0, 1)
	if want, got := 2000.0, f.lastCutoff; want != got {
		t.Errorf("want modulated cutoff %v, got %v", want, got)
	}
	f.Process(0, -1)
	if want, got := 500.0, f.lastCutoff; want != got {
		t.Errorf("want modulated cutoff %v, got %v", want, got)
	}
}

func TestVoiceVelocity(t *testing.T) {
	tables := DefaultWaveTables()
	loud := NewVoice(69, 1000, DefaultEnvelope, DefaultFilter, DefaultLFORate)
	quiet := NewVoice(69, 1000, DefaultEnvelope, DefaultFilter, DefaultLFORate)
	loud.TriggerOn(127)
	quiet.TriggerOn(200)
	if want, got := 127, quiet.Velocity(); want != got {
		t.Errorf("want clamped velocity %v, got %v", want, got)
	}
	quiet.TriggerOn(64)
	for i := 0; i < 20; i++ {
		l, q := loud.NextSample(tables), quiet.NextSample(tables)
		if math.Abs(q-l*64/127) > 1e-12 {
			t.Fatalf("sample %d: want %v, got %v", i, l*64/127, q)
		}
	}
	if want, got := 440.0, loud.Frequency(); want != got {
		t.Errorf("want frequency %v, got %v", want, got)
	}
}
