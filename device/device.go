// Package device connects the synthesizer to audio and MIDI drivers.
package device

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrNoOutputDevice = errors.New("no output device")
	ErrUnknownDriver  = errors.New("unknown driver")
)

// Source renders audio for a stream. Process fills interleaved float32 frames for callback
// drivers and Read produces the same frames as little endian bytes for pull drivers.
type Source interface {
	Process(out []float32)
	Read(p []byte) (int, error)
}

// Stream is an open output stream. The sample rate is fixed when the stream is opened, so
// the source is attached afterwards with SetSource.
type Stream interface {
	SampleRate() float64
	SetSource(Source)
	Start() error
	Close() error
}

type Config struct {
	Channels   int
	Frames     int     // frames per callback
	SampleRate float64 // used when the driver cannot report a default
}

var Drivers = []string{"portaudio", "oto", "miniaudio"}

// Open opens an output stream on the default device of driver.
func Open(driver string, cfg Config) (Stream, error) {
	if cfg.Channels <= 0 {
		cfg.Channels = 2
	}
	if cfg.Frames <= 0 {
		cfg.Frames = 256
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	switch driver {
	case "portaudio":
		return OpenPortAudio(cfg)
	case "oto":
		return OpenOto(cfg)
	case "miniaudio":
		return OpenMiniaudio(cfg)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
}

// sourceHolder hands the attached source to the driver thread without locking.
type sourceHolder struct {
	src atomic.Pointer[Source]
}

func (h *sourceHolder) SetSource(s Source) {
	h.src.Store(&s)
}

func (h *sourceHolder) process(out []float32) {
	if s := h.src.Load(); s != nil {
		(*s).Process(out)
		return
	}
	for i := range out {
		out[i] = 0
	}
}

func (h *sourceHolder) Read(p []byte) (int, error) {
	if s := h.src.Load(); s != nil {
		return (*s).Read(p)
	}
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

// shutdown always runs teardown after stop and reports both errors.
func shutdown(stop, teardown func() error) error {
	var errs []error
	if err := stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop stream: %w", err))
	}
	if err := teardown(); err != nil {
		errs = append(errs, fmt.Errorf("close stream: %w", err))
	}
	return errors.Join(errs...)
}
