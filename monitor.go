package main

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mrdg/polysynth/audio"
)

const monitorInterval = 20 * time.Millisecond

// monitor drains output snapshots off the audio thread. It keeps the most recent one for the
// scope and feeds a running recording.
type monitor struct {
	ring *audio.SnapshotRing

	mu       sync.Mutex
	latest   []float32
	recorder *audio.Recorder
}

func newMonitor(ring *audio.SnapshotRing) *monitor {
	return &monitor{ring: ring}
}

func (m *monitor) run(ctx context.Context) error {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.drain()
		}
	}
}

func (m *monitor) drain() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ring.Drain(func(s []float32) {
		m.latest = append(m.latest[:0], s...)
		if m.recorder != nil && !m.recorder.Write(s) {
			m.recorder = nil
		}
	})
}

// snapshot returns a copy of the most recent output.
func (m *monitor) snapshot() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float32(nil), m.latest...)
}

// record starts feeding r and logs when the file has been written.
func (m *monitor) record(r *audio.Recorder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recorder != nil {
		return errRecording
	}
	m.recorder = r
	go func() {
		if err := <-r.Done(); err != nil {
			log.Printf("record %s: %v", r.File(), err)
			return
		}
		log.Printf("recorded %s", r.File())
	}()
	return nil
}
