package audio

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// StepsPerBeat is the sequencer resolution: one step is a 16th note.
	StepsPerBeat = 4
	// PatternLength is one bar of 4/4.
	PatternLength = 4 * StepsPerBeat
)

// Dispatcher receives MIDI triples.
type Dispatcher interface {
	DispatchMidi(status, note, velocity int)
}

// Clip repeats one note on the steps of a pattern that are non zero.
type Clip struct {
	Note     int
	Velocity int
	Steps    []int
}

// Sequencer plays clips from a control goroutine. Notes are triggered at the start of a step
// and released at the start of the next one.
type Sequencer struct {
	dispatch Dispatcher
	bpm      *atomic.Value
	clips    *atomic.Value // map[int]*Clip keyed by note
	mu       sync.Mutex    // serializes clip writers

	step     int
	sounding []int
}

func NewSequencer(d Dispatcher) *Sequencer {
	seq := &Sequencer{
		dispatch: d,
		bpm:      new(atomic.Value),
		clips:    new(atomic.Value),
		sounding: make([]int, 0, NumVoices),
	}
	seq.bpm.Store(120.0)
	seq.clips.Store(map[int]*Clip{})
	return seq
}

func (s *Sequencer) SetBPM(bpm float64) error {
	return setFloat64(20, 300)(bpm, s.bpm)
}

func (s *Sequencer) BPM() float64 { return s.bpm.Load().(float64) }

// SetClip adds or replaces the clip for c.Note.
func (s *Sequencer) SetClip(c *Clip) error {
	if c.Note < 0 || c.Note >= NumVoices {
		return fmt.Errorf("note out of range: %d", c.Note)
	}
	if len(c.Steps) == 0 {
		return fmt.Errorf("clip for note %d has no steps", c.Note)
	}
	s.update(func(clips map[int]*Clip) { clips[c.Note] = c })
	return nil
}

func (s *Sequencer) RemoveClip(note int) {
	s.update(func(clips map[int]*Clip) { delete(clips, note) })
}

func (s *Sequencer) RemoveAll() {
	s.update(func(clips map[int]*Clip) {
		for k := range clips {
			delete(clips, k)
		}
	})
}

// Clips returns the looped notes in ascending order.
func (s *Sequencer) Clips() []*Clip {
	clips := s.clips.Load().(map[int]*Clip)
	list := make([]*Clip, 0, len(clips))
	for _, c := range clips {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Note < list[j].Note })
	return list
}

// update copies the clip map so readers never see it modified in place.
func (s *Sequencer) update(f func(map[int]*Clip)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.clips.Load().(map[int]*Clip)
	clips := make(map[int]*Clip, len(old)+1)
	for k, v := range old {
		clips[k] = v
	}
	f(clips)
	s.clips.Store(clips)
}

// StepDuration is the length of one step at the current tempo.
func (s *Sequencer) StepDuration() time.Duration {
	return time.Duration(float64(time.Minute) / (s.BPM() * StepsPerBeat))
}

// Step releases the notes of the previous step and triggers the current one.
func (s *Sequencer) Step() {
	s.release()
	for _, c := range s.Clips() {
		if c.Steps[s.step%len(c.Steps)] == 0 {
			continue
		}
		s.dispatch.DispatchMidi(StatusNoteOn<<4, c.Note, c.Velocity)
		s.sounding = append(s.sounding, c.Note)
	}
	s.step++
}

func (s *Sequencer) release() {
	for _, n := range s.sounding {
		s.dispatch.DispatchMidi(StatusNoteOff<<4, n, 0)
	}
	s.sounding = s.sounding[:0]
}

// Run steps the sequencer until ctx is done.
func (s *Sequencer) Run(ctx context.Context) error {
	next := time.Now().Add(s.StepDuration())
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			s.release()
			return nil
		case <-timer.C:
			s.Step()
			next = next.Add(s.StepDuration())
			timer.Reset(time.Until(next))
		}
	}
}
