package audio

import "math"

// Stage is the current segment of an Envelope.
type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	}
	return "unknown"
}

// EnvelopeParams configures an Envelope. Attack, Decay and Release are in seconds, Sustain is a
// fraction of the peak gain.
type EnvelopeParams struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

var DefaultEnvelope = EnvelopeParams{Attack: 0.01, Decay: 0.1, Sustain: 0.8, Release: 0.01}

// Envelope is a linear ADSR gain stage. Every stage runs for a whole number of samples, so a
// ramp reaches its target in exactly stageLength(seconds) ticks.
type Envelope struct {
	params     EnvelopeParams
	sampleRate float64

	stage Stage
	gain  float64
	left  int // samples remaining in the current ramp
}

func NewEnvelope(p EnvelopeParams, sampleRate float64) *Envelope {
	return &Envelope{params: p, sampleRate: sampleRate}
}

// SetParams replaces the configuration without touching the running stage. A new sustain
// level is heard on the next tick; new stage lengths apply when the next stage starts.
func (e *Envelope) SetParams(p EnvelopeParams) {
	e.params = p
}

func (e *Envelope) Params() EnvelopeParams { return e.params }

func (e *Envelope) Stage() Stage { return e.stage }

func (e *Envelope) Gain() float64 { return e.gain }

func (e *Envelope) IsActive() bool { return e.stage != StageIdle }

// TriggerOn restarts the envelope from silence, even while it is still releasing.
func (e *Envelope) TriggerOn() {
	e.gain = 0
	e.stage = StageAttack
	e.left = e.stageLength(e.params.Attack)
}

func (e *Envelope) TriggerOff() {
	if e.stage == StageIdle {
		return
	}
	e.stage = StageRelease
	e.left = e.stageLength(e.params.Release)
}

func (e *Envelope) Reset() {
	e.stage = StageIdle
	e.gain = 0
	e.left = 0
}

// NextGain advances the envelope by one sample and returns the new gain.
func (e *Envelope) NextGain() float64 {
	switch e.stage {
	case StageIdle:
		e.gain = 0
	case StageAttack:
		if e.ramp(1) {
			e.stage = StageDecay
			e.left = e.stageLength(e.params.Decay)
		}
	case StageDecay:
		if e.ramp(e.params.Sustain) {
			if e.params.Sustain <= 0 {
				e.stage = StageIdle
			} else {
				e.stage = StageSustain
			}
		}
	case StageSustain:
		if e.params.Sustain <= 0 {
			e.gain = 0
			e.stage = StageIdle
		} else {
			e.gain = e.params.Sustain
		}
	case StageRelease:
		if e.ramp(0) {
			e.stage = StageIdle
		}
	}
	return e.gain
}

// ramp moves gain one step towards target and reports whether the target was reached.
func (e *Envelope) ramp(target float64) bool {
	if e.left <= 1 {
		e.gain = target
		e.left = 0
		return true
	}
	e.gain += (target - e.gain) / float64(e.left)
	e.left--
	return false
}

func (e *Envelope) stageLength(seconds float64) int {
	n := int(math.Round(seconds * e.sampleRate))
	if n < 1 {
		n = 1
	}
	return n
}
