package audio

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Synth is the part of the Engine the control surface drives. Every call carries a complete
// value object.
type Synth interface {
	SetWaveTables([]WeightedWaveTable)
	SetEnvelope(EnvelopeParams)
	SetFilter(FilterParams)
}

// Leveler holds the master level in dB.
type Leveler interface {
	SetLevel(db float64)
	Level() float64
}

// Control keys.
const (
	KeyLevel = "level"

	KeySine     = "wave.sine"
	KeySquare   = "wave.square"
	KeyTriangle = "wave.triangle"
	KeySaw      = "wave.saw"
	KeyCustom   = "wave.custom"

	KeyAttack  = "env.attack"
	KeyDecay   = "env.decay"
	KeySustain = "env.sustain"
	KeyRelease = "env.release"

	KeyFilterKind      = "filter.kind"
	KeyFilterCutoff    = "filter.cutoff"
	KeyFilterResonance = "filter.resonance"
	KeyFilterMod       = "filter.mod"
)

type group int

const (
	groupWaves group = iota
	groupEnvelope
	groupFilter
	groupLevel
)

type control struct {
	value atomic.Value
	set   setter
	group group
}

// Controls holds the current value of every synthesis parameter. Reads are lock free; each Set
// validates the value and then pushes the complete parameter group it belongs to.
type Controls struct {
	mu       sync.Mutex
	controls map[string]*control
	custom   atomic.Value // *Wavetable
	synth    Synth
	level    Leveler
}

// NewControls registers every control with the current engine configuration as its initial
// value. level may be nil.
func NewControls(e *Engine, level Leveler) *Controls {
	c := &Controls{
		controls: make(map[string]*control),
		synth:    e,
		level:    level,
	}
	c.custom.Store((*Wavetable)(nil))

	weights := map[WaveKind]float64{}
	for _, t := range e.WaveTables() {
		weights[t.Kind] += t.Weight
		if t.Kind == WaveCustom && t.Table != nil {
			c.custom.Store(t.Table)
		}
	}
	env := e.Envelope()
	f := e.Filter()
	db := defaultLevel
	if level != nil {
		db = level.Level()
	}

	c.mustRegister(KeyLevel, groupLevel, setFloat64(minLevel, maxLevel), db)
	c.mustRegister(KeySine, groupWaves, setWeight, weights[WaveSine])
	c.mustRegister(KeySquare, groupWaves, setWeight, weights[WaveSquare])
	c.mustRegister(KeyTriangle, groupWaves, setWeight, weights[WaveTriangle])
	c.mustRegister(KeySaw, groupWaves, setWeight, weights[WaveSaw])
	c.mustRegister(KeyCustom, groupWaves, setWeight, weights[WaveCustom])
	c.mustRegister(KeyAttack, groupEnvelope, setEnvTime, env.Attack)
	c.mustRegister(KeyDecay, groupEnvelope, setEnvTime, env.Decay)
	c.mustRegister(KeySustain, groupEnvelope, setFloat64(0, 1), env.Sustain)
	c.mustRegister(KeyRelease, groupEnvelope, setEnvTime, env.Release)
	c.mustRegister(KeyFilterKind, groupFilter, setFilterKind, f.Kind)
	c.mustRegister(KeyFilterCutoff, groupFilter, setFloat64(minCutoff, 20000), f.Cutoff)
	c.mustRegister(KeyFilterResonance, groupFilter, setFloat64(0.1, 20), f.Resonance)
	c.mustRegister(KeyFilterMod, groupFilter, setFloat64(0, 4), f.ModDepth)
	return c
}

func (c *Controls) mustRegister(key string, g group, set setter, init interface{}) {
	ctl := &control{set: set, group: g}
	if err := set(init, &ctl.value); err != nil {
		panic(fmt.Sprintf("register %s: %v", key, err))
	}
	c.controls[key] = ctl
}

// Set updates the control with value and applies its group to the engine.
func (c *Controls) Set(key string, value interface{}) error {
	ctl, ok := c.controls[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctl.set(value, &ctl.value); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	c.apply(ctl.group)
	return nil
}

func (c *Controls) Get(key string) (interface{}, error) {
	ctl, ok := c.controls[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return ctl.value.Load(), nil
}

// Keys returns every control key in sorted order.
func (c *Controls) Keys() []string {
	keys := make([]string, 0, len(c.controls))
	for k := range c.controls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetCustomTable installs the table played by the custom waveform.
func (c *Controls) SetCustomTable(t *Wavetable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.custom.Store(t)
	c.apply(groupWaves)
}

func (c *Controls) CustomTable() *Wavetable {
	return c.custom.Load().(*Wavetable)
}

func (c *Controls) WaveTables() []WeightedWaveTable {
	return []WeightedWaveTable{
		{Kind: WaveSine, Weight: c.float(KeySine)},
		{Kind: WaveSquare, Weight: c.float(KeySquare)},
		{Kind: WaveTriangle, Weight: c.float(KeyTriangle)},
		{Kind: WaveSaw, Weight: c.float(KeySaw)},
		{Kind: WaveCustom, Weight: c.float(KeyCustom), Table: c.CustomTable()},
	}
}

func (c *Controls) Envelope() EnvelopeParams {
	return EnvelopeParams{
		Attack:  c.float(KeyAttack),
		Decay:   c.float(KeyDecay),
		Sustain: c.float(KeySustain),
		Release: c.float(KeyRelease),
	}
}

func (c *Controls) Filter() FilterParams {
	return FilterParams{
		Kind:      c.controls[KeyFilterKind].value.Load().(FilterKind),
		Cutoff:    c.float(KeyFilterCutoff),
		Resonance: c.float(KeyFilterResonance),
		ModDepth:  c.float(KeyFilterMod),
	}
}

func (c *Controls) float(key string) float64 {
	return c.controls[key].value.Load().(float64)
}

func (c *Controls) apply(g group) {
	switch g {
	case groupWaves:
		c.synth.SetWaveTables(c.WaveTables())
	case groupEnvelope:
		c.synth.SetEnvelope(c.Envelope())
	case groupFilter:
		c.synth.SetFilter(c.Filter())
	case groupLevel:
		if c.level != nil {
			c.level.SetLevel(c.float(KeyLevel))
		}
	}
}

type setter func(val interface{}, dest *atomic.Value) error

var (
	setEnvTime = setFloat64(0.0005, 15)
	setWeight  = setFloat64(0, 1)
)

func setFloat64(min, max float64) setter {
	return func(v interface{}, dest *atomic.Value) error {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		default:
			return fmt.Errorf("value is not a float64: %v", v)
		}
		if f < min || f > max {
			return fmt.Errorf("property value is not in valid range %v - %v: %v", min, max, f)
		}
		dest.Store(f)
		return nil
	}
}

func setFilterKind(v interface{}, dest *atomic.Value) error {
	switch k := v.(type) {
	case FilterKind:
		if k < FilterNone || k > FilterBandpass {
			return fmt.Errorf("not a valid filter kind: %v", k)
		}
		dest.Store(k)
	case string:
		kind, err := ParseFilterKind(k)
		if err != nil {
			return err
		}
		dest.Store(kind)
	default:
		return fmt.Errorf("value is not a filter kind: %v", v)
	}
	return nil
}
