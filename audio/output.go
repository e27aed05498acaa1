package audio

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// Mixer produces one mono sample per call.
type Mixer interface {
	MixActiveVoices() float64
}

// Visualizer receives a snapshot of the most recent output. The slice is reused after
// Visualize returns, so implementations must copy it.
type Visualizer interface {
	Visualize(samples []float32)
}

const (
	minLevel     = -40.0
	maxLevel     = 10.0
	defaultLevel = -6.0
)

// Output adapts a Mixer to the buffer layout of an audio driver.
type Output struct {
	mixer    Mixer
	channels int
	vis      Visualizer
	snapshot []float32
	pos      int
	level    uint64 // dB as float64 bits
}

func NewOutput(m Mixer, channels, frames int, v Visualizer) *Output {
	if channels < 1 {
		channels = 1
	}
	if frames < 1 {
		frames = 1
	}
	o := &Output{
		mixer:    m,
		channels: channels,
		vis:      v,
		snapshot: make([]float32, frames),
	}
	o.SetLevel(defaultLevel)
	return o
}

func (o *Output) Channels() int { return o.channels }

// SetLevel sets the master level in dB, clamped to the supported range.
func (o *Output) SetLevel(db float64) {
	db = math.Max(minLevel, math.Min(maxLevel, db))
	atomic.StoreUint64(&o.level, math.Float64bits(db))
}

func (o *Output) Level() float64 {
	return math.Float64frombits(atomic.LoadUint64(&o.level))
}

// Process fills an interleaved buffer. Any trailing partial frame is zeroed.
func (o *Output) Process(out []float32) {
	gain := o.gain()
	frames := len(out) / o.channels
	for n := 0; n < frames; n++ {
		sample := o.next(gain)
		frame := out[n*o.channels : (n+1)*o.channels]
		for c := range frame {
			frame[c] = sample
		}
	}
	for i := frames * o.channels; i < len(out); i++ {
		out[i] = 0
	}
	o.flush()
}

// Read implements io.Reader for pull drivers, producing little endian float32 frames.
// len(p) is rounded down to whole frames.
func (o *Output) Read(p []byte) (int, error) {
	gain := o.gain()
	frameBytes := 4 * o.channels
	frames := len(p) / frameBytes
	for n := 0; n < frames; n++ {
		bits := math.Float32bits(o.next(gain))
		for c := 0; c < o.channels; c++ {
			binary.LittleEndian.PutUint32(p[n*frameBytes+4*c:], bits)
		}
	}
	o.flush()
	return frames * frameBytes, nil
}

func (o *Output) gain() float64 {
	return math.Pow(10, o.Level()/20.0)
}

func (o *Output) next(gain float64) float32 {
	sample := float32(gain * o.mixer.MixActiveVoices())
	o.snapshot[o.pos] = sample
	o.pos++
	if o.pos == len(o.snapshot) {
		o.flush()
	}
	return sample
}

func (o *Output) flush() {
	if o.pos == 0 {
		return
	}
	if o.vis != nil {
		o.vis.Visualize(o.snapshot[:o.pos])
	}
	o.pos = 0
}
