package device

import (
	"fmt"
	"log"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Oto pulls frames from the source through the io.Reader interface.
type Oto struct {
	sourceHolder
	ctx        *oto.Context
	player     *oto.Player
	sampleRate float64
}

// OpenOto cannot query the device, so the configured sample rate is used.
func OpenOto(cfg Config) (*Oto, error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(cfg.SampleRate),
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(float64(cfg.Frames) / cfg.SampleRate * float64(time.Second)),
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	<-ready

	s := &Oto{ctx: ctx, sampleRate: cfg.SampleRate}
	s.player = ctx.NewPlayer(&s.sourceHolder)
	log.Printf("oto: %v Hz, %d channels", s.sampleRate, cfg.Channels)
	return s, nil
}

func (s *Oto) SampleRate() float64 { return s.sampleRate }

func (s *Oto) Start() error {
	s.player.Play()
	return s.ctx.Err()
}

func (s *Oto) Close() error {
	return shutdown(func() error {
		s.player.Pause()
		return s.ctx.Err()
	}, s.player.Close)
}
