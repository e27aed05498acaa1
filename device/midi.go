package device

import (
	"fmt"
	"log"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// MidiHandler receives decoded channel messages.
type MidiHandler interface {
	DispatchMidi(status, note, velocity int)
}

type MidiInput struct {
	drv  *rtmididrv.Driver
	in   drivers.In
	stop func()
}

// InPorts lists the names of the available MIDI inputs.
func InPorts() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, err
	}
	defer drv.Close()
	ins, err := drv.Ins()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names, nil
}

// OpenMidi listens on the first input whose name contains port, or on the first input when
// port is empty. Messages are handed to h on the driver goroutine.
func OpenMidi(port string, h MidiHandler) (*MidiInput, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midi driver: %w", err)
	}
	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("midi inputs: %w", err)
	}
	var found drivers.In
	for _, in := range ins {
		if port == "" || strings.Contains(strings.ToLower(in.String()), strings.ToLower(port)) {
			found = in
			break
		}
	}
	if found == nil {
		drv.Close()
		return nil, fmt.Errorf("midi input %q not found", port)
	}
	if err := found.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("open midi input %s: %w", found, err)
	}
	stop, err := midi.ListenTo(found, func(msg midi.Message, _ int32) {
		if status, note, velocity, ok := decode(msg.Bytes()); ok {
			h.DispatchMidi(status, note, velocity)
		}
	}, midi.HandleError(func(err error) {
		log.Printf("midi: %s: %v", found, err)
	}))
	if err != nil {
		found.Close()
		drv.Close()
		return nil, fmt.Errorf("listen to %s: %w", found, err)
	}
	log.Printf("midi: listening on %s", found)
	return &MidiInput{drv: drv, in: found, stop: stop}, nil
}

func (m *MidiInput) Name() string { return m.in.String() }

func (m *MidiInput) Close() error {
	m.stop()
	err := m.in.Close()
	if derr := m.drv.Close(); err == nil {
		err = derr
	}
	return err
}

// decode splits a channel voice message into the triple the engine expects. System
// messages and truncated messages are dropped.
func decode(b []byte) (status, note, velocity int, ok bool) {
	if len(b) < 2 || b[0] < 0x80 || b[0] >= 0xF0 {
		return 0, 0, 0, false
	}
	status = int(b[0])
	note = int(b[1] & 0x7F)
	if len(b) > 2 {
		velocity = int(b[2] & 0x7F)
	}
	return status, note, velocity, true
}
