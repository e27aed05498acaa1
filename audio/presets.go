package audio

import (
	"fmt"
	"sort"
)

type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type preset map[string]interface{}

var presets = map[string]preset{
	"init": {
		KeySine:            1.,
		KeySquare:          0.,
		KeyTriangle:        0.,
		KeySaw:             0.,
		KeyCustom:          0.,
		KeyAttack:          0.01,
		KeyDecay:           0.1,
		KeySustain:         0.8,
		KeyRelease:         0.01,
		KeyFilterKind:      "none",
		KeyFilterCutoff:    1000.,
		KeyFilterResonance: 0.707,
		KeyFilterMod:       0.,
	},
	"lame-bass": {
		KeyLevel:        3.,
		KeySine:         0.,
		KeySaw:          0.8,
		KeySquare:       0.2,
		KeyDecay:        0.1,
		KeySustain:      0.,
		KeyFilterKind:   "lowpass",
		KeyFilterCutoff: 900.,
	},
	"organ": {
		KeySine:     0.6,
		KeyTriangle: 0.4,
		KeySquare:   0.1,
		KeyAttack:   0.005,
		KeySustain:  1.,
		KeyRelease:  0.05,
	},
	"pad": {
		KeySine:            0.3,
		KeySaw:             0.5,
		KeyAttack:          1.2,
		KeyDecay:           0.5,
		KeySustain:         0.7,
		KeyRelease:         2.,
		KeyFilterKind:      "lowpass",
		KeyFilterCutoff:    1200.,
		KeyFilterResonance: 2.,
		KeyFilterMod:       1.5,
	},
}

// LoadPreset applies every value of the named preset to d in key order.
func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := d.Set(k, p[k]); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
	}
	return nil
}

func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
