package device

import (
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

type PortAudio struct {
	sourceHolder
	stream     *portaudio.Stream
	sampleRate float64
}

func OpenPortAudio(cfg Config) (*PortAudio, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil || dev == nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %v", ErrNoOutputDevice, err)
	}
	p := portaudio.LowLatencyParameters(nil, dev)
	p.Output.Channels = cfg.Channels
	p.FramesPerBuffer = cfg.Frames

	s := &PortAudio{sampleRate: p.SampleRate}
	stream, err := portaudio.OpenStream(p, s.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open stream: %w", err)
	}
	s.stream = stream
	log.Printf("portaudio: %s at %v Hz, %d channels", dev.Name, s.sampleRate, cfg.Channels)
	return s, nil
}

func (s *PortAudio) SampleRate() float64 { return s.sampleRate }

func (s *PortAudio) Start() error {
	return s.stream.Start()
}

func (s *PortAudio) Close() error {
	return shutdown(s.stream.Stop, func() error {
		err := s.stream.Close()
		if terr := portaudio.Terminate(); err == nil {
			err = terr
		}
		return err
	})
}
