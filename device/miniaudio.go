package device

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"

	"github.com/gen2brain/malgo"
)

type Miniaudio struct {
	sourceHolder
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	buf        []float32
	sampleRate float64
}

func OpenMiniaudio(cfg Config) (*Miniaudio, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		log.Print("miniaudio: ", msg)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoOutputDevice, err)
	}
	dc := malgo.DefaultDeviceConfig(malgo.Playback)
	dc.Playback.Format = malgo.FormatF32
	dc.Playback.Channels = uint32(cfg.Channels)
	dc.SampleRate = uint32(cfg.SampleRate)
	dc.PeriodSizeInFrames = uint32(cfg.Frames)

	s := &Miniaudio{
		ctx:        mctx,
		buf:        make([]float32, 4*cfg.Frames*cfg.Channels),
		sampleRate: cfg.SampleRate,
	}
	device, err := malgo.InitDevice(mctx.Context, dc, malgo.DeviceCallbacks{
		Data: s.data,
	})
	if err != nil {
		mctx.Uninit()
		mctx.Free()
		return nil, fmt.Errorf("open stream: %w", err)
	}
	s.device = device
	if rate := device.SampleRate(); rate > 0 {
		s.sampleRate = float64(rate)
	}
	log.Printf("miniaudio: %v Hz, %d channels", s.sampleRate, cfg.Channels)
	return s, nil
}

// data converts the float frames of the source into the byte buffer of the device.
func (s *Miniaudio) data(out, _ []byte, framecount uint32) {
	n := len(out) / 4
	if n > len(s.buf) {
		n = len(s.buf)
	}
	samples := s.buf[:n]
	s.process(samples)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	for i := 4 * n; i < len(out); i++ {
		out[i] = 0
	}
}

func (s *Miniaudio) SampleRate() float64 { return s.sampleRate }

func (s *Miniaudio) Start() error {
	return s.device.Start()
}

func (s *Miniaudio) Close() error {
	return shutdown(s.device.Stop, func() error {
		s.device.Uninit()
		err := s.ctx.Uninit()
		s.ctx.Free()
		return err
	})
}
