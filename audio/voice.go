package audio

// Voice is the synthesis pipeline for a single note: oscillator, envelope, modulator and
// filter. A Voice is not safe for concurrent use; the Engine serializes access.
type Voice struct {
	note     int
	osc      *Oscillator
	env      *Envelope
	lfo      *LFO
	filter   *Filter
	velocity int
	velGain  float64
}

func NewVoice(note int, sampleRate float64, env EnvelopeParams, filter FilterParams, lfoRate float64) *Voice {
	freq := NoteToFrequency(note)
	return &Voice{
		note:   note,
		osc:    NewOscillator(freq, sampleRate),
		env:    NewEnvelope(env, sampleRate),
		lfo:    NewLFO(lfoRate, sampleRate),
		filter: NewFilter(filter, sampleRate),
	}
}

// NextSample advances every stage exactly once.
func (v *Voice) NextSample(tables []WeightedWaveTable) float64 {
	raw := v.osc.NextRaw(tables) * v.env.NextGain() * v.velGain
	return v.filter.Process(raw, v.lfo.NextControl())
}

func (v *Voice) TriggerOn(velocity int) {
	v.setVelocity(velocity)
	v.env.TriggerOn()
}

func (v *Voice) TriggerOff() { v.env.TriggerOff() }

// Reset silences the voice immediately. The modulator keeps running.
func (v *Voice) Reset() {
	v.env.Reset()
	v.filter.Reset()
}

func (v *Voice) IsActive() bool { return v.env.IsActive() }

func (v *Voice) SetEnvelope(p EnvelopeParams) { v.env.SetParams(p) }

func (v *Voice) SetFilter(p FilterParams) { v.filter.SetParams(p) }

func (v *Voice) Note() int { return v.note }

func (v *Voice) Velocity() int { return v.velocity }

func (v *Voice) Frequency() float64 { return v.osc.Frequency() }

func (v *Voice) Stage() Stage { return v.env.Stage() }

func (v *Voice) Gain() float64 { return v.env.Gain() }

func (v *Voice) setVelocity(velocity int) {
	if velocity < 0 {
		velocity = 0
	} else if velocity > 127 {
		velocity = 127
	}
	v.velocity = velocity
	v.velGain = float64(velocity) / 127
}
