package audio

import (
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/youpy/go-wav"
)

const bitsPerSample = 16

// Recorder captures a fixed number of mono output samples and writes them as a 16 bit wav
// file. It is fed from the monitor goroutine, never from the audio thread.
type Recorder struct {
	mu         sync.Mutex
	file       string
	sampleRate int
	samples    []wav.Sample
	want       int
	done       chan error
}

func NewRecorder(file string, sampleRate float64, seconds float64) (*Recorder, error) {
	want := int(math.Round(seconds * sampleRate))
	if want <= 0 {
		return nil, fmt.Errorf("recording length must be positive: %v", seconds)
	}
	return &Recorder{
		file:       file,
		sampleRate: int(sampleRate),
		samples:    make([]wav.Sample, 0, want),
		want:       want,
		done:       make(chan error, 1),
	}, nil
}

// Write appends samples until the recording is complete, then writes the file. It
// reports whether more samples are wanted.
func (r *Recorder) Write(samples []float32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.samples) >= r.want {
		return false
	}
	for _, s := range samples {
		if len(r.samples) == r.want {
			break
		}
		v := int(math.Round(float64(clamp(s)) * math.MaxInt16))
		r.samples = append(r.samples, wav.Sample{Values: [2]int{v, v}})
	}
	if len(r.samples) < r.want {
		return true
	}
	r.done <- r.flush()
	return false
}

// Done delivers the result of writing the file once the recording is complete.
func (r *Recorder) Done() <-chan error { return r.done }

func (r *Recorder) File() string { return r.file }

func (r *Recorder) flush() error {
	f, err := os.Create(r.file)
	if err != nil {
		return err
	}
	w := wav.NewWriter(f, uint32(len(r.samples)), 1, uint32(r.sampleRate), bitsPerSample)
	if err := w.WriteSamples(r.samples); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", r.file, err)
	}
	return f.Close()
}

func clamp(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
