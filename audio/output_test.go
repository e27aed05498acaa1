package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

type rampMixer struct {
	n int
}

func (m *rampMixer) MixActiveVoices() float64 {
	m.n++
	return float64(m.n) / 100
}

type testVisualizer struct {
	snapshots [][]float32
}

func (v *testVisualizer) Visualize(samples []float32) {
	v.snapshots = append(v.snapshots, append([]float32(nil), samples...))
}

func TestOutputFanOut(t *testing.T) {
	vis := &testVisualizer{}
	out := NewOutput(&rampMixer{}, 2, 4, vis)
	out.SetLevel(0)

	buf := make([]float32, 8)
	out.Process(buf)
	for n := 0; n < 4; n++ {
		want := []float32{float32(n+1) / 100, float32(n+1) / 100}
		if !equalSamples(want, buf[2*n:2*n+2]) {
			t.Errorf("frame %d: want %v, got %v", n, want, buf[2*n:2*n+2])
		}
	}
	if want, got := 1, len(vis.snapshots); want != got {
		t.Fatalf("want %v snapshots, got %v", want, got)
	}
	if want, got := []float32{0.01, 0.02, 0.03, 0.04}, vis.snapshots[0]; !equalSamples(want, got) {
		t.Errorf("want snapshot %v, got %v", want, got)
	}
}

func TestOutputChunksSnapshots(t *testing.T) {
	vis := &testVisualizer{}
	out := NewOutput(&rampMixer{}, 1, 4, vis)
	out.Process(make([]float32, 10))
	if want, got := 3, len(vis.snapshots); want != got {
		t.Fatalf("want %v snapshots, got %v", want, got)
	}
	if want, got := 2, len(vis.snapshots[2]); want != got {
		t.Errorf("want final partial snapshot of %v, got %v", want, got)
	}
}

func TestOutputLevel(t *testing.T) {
	out := NewOutput(&rampMixer{n: 99}, 1, 4, nil)
	out.SetLevel(-20)
	buf := make([]float32, 1)
	out.Process(buf)
	if want, got := 0.1, float64(buf[0]); math.Abs(want-got) > 1e-6 {
		t.Errorf("want %v at -20dB, got %v", want, got)
	}
	out.SetLevel(100)
	if want, got := maxLevel, out.Level(); want != got {
		t.Errorf("want level clamped to %v, got %v", want, got)
	}
}

func TestOutputTrailingPartialFrame(t *testing.T) {
	out := NewOutput(&rampMixer{}, 2, 4, nil)
	buf := []float32{9, 9, 9}
	out.Process(buf)
	if buf[2] != 0 {
		t.Errorf("want trailing sample zeroed, got %v", buf[2])
	}
}

func TestOutputRead(t *testing.T) {
	vis := &testVisualizer{}
	out := NewOutput(&rampMixer{}, 2, 16, vis)
	out.SetLevel(0)
	p := make([]byte, 8*3+5)
	n, err := out.Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 24, n; want != got {
		t.Fatalf("want %v bytes, got %v", want, got)
	}
	for i := 0; i < 6; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:]))
		if want := float32(i/2+1) / 100; !equalSamples([]float32{want}, []float32{got}) {
			t.Errorf("sample %d: want %v, got %v", i, want, got)
		}
	}
	if want, got := 1, len(vis.snapshots); want != got {
		t.Errorf("want %v snapshot, got %v", want, got)
	}
}

func TestOutputDoesNotAllocate(t *testing.T) {
	ring := NewSnapshotRing(4, 256)
	out := NewOutput(NewEngine(Config{}), 2, 256, ring)
	buf := make([]float32, 512)
	allocs := testing.AllocsPerRun(100, func() {
		out.Process(buf)
		ring.Drain(func([]float32) {})
	})
	if allocs != 0 {
		t.Errorf("want no allocations, got %v", allocs)
	}
}

func equalSamples(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-6 {
			return false
		}
	}
	return true
}
