package audio

import (
	"math"
	"sync"
)

// NumVoices is the size of the voice pool. Voice n plays note n.
const NumVoices = 127

// MIDI status nibbles and controller numbers understood by DispatchMidi.
const (
	StatusNoteOff       = 0x8
	StatusNoteOn        = 0x9
	StatusControlChange = 0xB

	ControllerSustain     = 64
	ControllerAllSoundOff = 120
	ControllerAllNotesOff = 123
)

// NoteToFrequency converts a MIDI note number to Hz in twelve tone equal temperament.
func NoteToFrequency(note int) float64 {
	return 440 * math.Exp2(float64(note-69)/12)
}

type Config struct {
	SampleRate float64
	LFORate    float64
	Envelope   EnvelopeParams
	Filter     FilterParams
	WaveTables []WeightedWaveTable
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = 44100
	}
	if c.LFORate <= 0 {
		c.LFORate = DefaultLFORate
	}
	if c.Envelope == (EnvelopeParams{}) {
		c.Envelope = DefaultEnvelope
	}
	if c.Filter == (FilterParams{}) {
		c.Filter = DefaultFilter
	}
	if c.WaveTables == nil {
		c.WaveTables = DefaultWaveTables()
	}
	return c
}

// Engine owns the voice pool. DispatchMidi and the setters are called from control goroutines
// and block on the engine lock; MixActiveVoices is called from the audio thread and never
// waits for it.
type Engine struct {
	mu sync.Mutex

	sampleRate float64
	lfoRate    float64
	voices     [NumVoices]*Voice
	active     noteSet
	sustained  noteSet
	pedal      bool
	tables     []WeightedWaveTable
	env        EnvelopeParams
	filter     FilterParams

	scratch [NumVoices]int
}

func NewEngine(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		sampleRate: cfg.SampleRate,
		lfoRate:    cfg.LFORate,
		active:     newNoteSet(),
		sustained:  newNoteSet(),
		tables:     copyTables(cfg.WaveTables),
		env:        cfg.Envelope,
		filter:     cfg.Filter,
	}
	for n := range e.voices {
		e.voices[n] = NewVoice(n, cfg.SampleRate, cfg.Envelope, cfg.Filter, cfg.LFORate)
	}
	return e
}

func (e *Engine) SampleRate() float64 { return e.sampleRate }

// DispatchMidi applies one channel message. Only the high nibble of status is used.
func (e *Engine) DispatchMidi(status, note, velocity int) {
	if note < 0 || note >= NumVoices {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	switch (status >> 4) & 0xF {
	case StatusNoteOn:
		e.sustained.remove(note)
		e.voices[note].TriggerOn(velocity)
		e.active.insert(note)
	case StatusNoteOff:
		if e.pedal {
			if e.active.contains(note) {
				e.sustained.insert(note)
			}
		} else {
			e.voices[note].TriggerOff()
		}
	case StatusControlChange:
		e.controlChange(note, velocity)
	default:
		return
	}
	e.sweep()
}

func (e *Engine) controlChange(controller, value int) {
	switch controller {
	case ControllerSustain:
		on := value > 64
		if e.pedal && !on {
			e.releaseSustained()
		}
		e.pedal = on
	case ControllerAllNotesOff:
		e.releaseSustained()
		for _, n := range e.active.notes {
			e.voices[n].TriggerOff()
		}
	case ControllerAllSoundOff:
		e.sustained.clear()
		for _, n := range e.active.notes {
			e.voices[n].Reset()
		}
		e.active.clear()
	}
}

func (e *Engine) releaseSustained() {
	for _, n := range e.sustained.notes {
		e.voices[n].TriggerOff()
	}
	e.sustained.clear()
}

// sweep drops notes whose voice has gone idle. Inactive notes are collected first so the
// active set is not modified while it is being walked.
func (e *Engine) sweep() {
	k := 0
	for _, n := range e.active.notes {
		if !e.voices[n].IsActive() {
			e.scratch[k] = n
			k++
		}
	}
	for _, n := range e.scratch[:k] {
		e.active.remove(n)
		e.sustained.remove(n)
	}
}

// MixActiveVoices returns the sum of one sample from every active voice, or 0 if a control
// goroutine holds the lock.
func (e *Engine) MixActiveVoices() float64 {
	if !e.mu.TryLock() {
		return 0
	}
	defer e.mu.Unlock()

	e.sweep()
	var sum float64
	for _, n := range e.active.notes {
		sum += e.voices[n].NextSample(e.tables)
	}
	return sum
}

func (e *Engine) SetWaveTables(tables []WeightedWaveTable) {
	t := copyTables(tables)
	e.mu.Lock()
	e.tables = t
	e.mu.Unlock()
}

func (e *Engine) SetEnvelope(p EnvelopeParams) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.env = p
	for _, v := range e.voices {
		v.SetEnvelope(p)
	}
}

func (e *Engine) SetFilter(p FilterParams) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = p
	for _, v := range e.voices {
		v.SetFilter(p)
	}
}

func (e *Engine) WaveTables() []WeightedWaveTable {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyTables(e.tables)
}

func (e *Engine) Envelope() EnvelopeParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.env
}

func (e *Engine) Filter() FilterParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter
}

// ActiveNotes returns the sounding notes in the order they were started.
func (e *Engine) ActiveNotes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.active.notes...)
}

func (e *Engine) SustainedNotes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.sustained.notes...)
}

func (e *Engine) SustainPedal() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pedal
}

func copyTables(tables []WeightedWaveTable) []WeightedWaveTable {
	return append([]WeightedWaveTable(nil), tables...)
}

// noteSet is an insertion ordered set of note numbers that never allocates after creation.
type noteSet struct {
	member [128]bool
	notes  []int
}

func newNoteSet() noteSet {
	return noteSet{notes: make([]int, 0, 128)}
}

func (s *noteSet) contains(n int) bool { return s.member[n] }

func (s *noteSet) insert(n int) {
	if s.member[n] {
		return
	}
	s.member[n] = true
	s.notes = append(s.notes, n)
}

func (s *noteSet) remove(n int) {
	if !s.member[n] {
		return
	}
	s.member[n] = false
	for i, m := range s.notes {
		if m == n {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return
		}
	}
}

func (s *noteSet) clear() {
	for _, n := range s.notes {
		s.member[n] = false
	}
	s.notes = s.notes[:0]
}

func (s *noteSet) len() int { return len(s.notes) }
