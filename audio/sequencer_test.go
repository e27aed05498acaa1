package audio

import (
	"context"
	"reflect"
	"testing"
	"time"
)

type midiEvent struct {
	status, note, velocity int
}

type testDispatcher struct {
	events []midiEvent
}

func (d *testDispatcher) DispatchMidi(status, note, velocity int) {
	d.events = append(d.events, midiEvent{status, note, velocity})
}

func (d *testDispatcher) flush() {
	d.events = nil
}

func TestSequencer(t *testing.T) {
	d := &testDispatcher{}
	seq := NewSequencer(d)

	if err := seq.SetClip(&Clip{Note: 60, Velocity: 100, Steps: []int{1, 0, 1, 1}}); err != nil {
		t.Fatal(err)
	}
	if err := seq.SetClip(&Clip{Note: 48, Velocity: 90, Steps: []int{1, 0}}); err != nil {
		t.Fatal(err)
	}

	seq.Step()
	if want, got := []midiEvent{
		{0x90, 48, 90},
		{0x90, 60, 100},
	}, d.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}

	d.flush()
	seq.Step()
	if want, got := []midiEvent{
		{0x80, 48, 0},
		{0x80, 60, 0},
	}, d.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}

	d.flush()
	seq.Step()
	if want, got := []midiEvent{
		{0x90, 48, 90},
		{0x90, 60, 100},
	}, d.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}

	seq.RemoveClip(48)
	d.flush()
	seq.Step()
	if want, got := []midiEvent{
		{0x80, 48, 0},
		{0x80, 60, 0},
		{0x90, 60, 100},
	}, d.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}
}

func TestSequencerValidation(t *testing.T) {
	seq := NewSequencer(&testDispatcher{})
	if err := seq.SetClip(&Clip{Note: 127, Steps: []int{1}}); err == nil {
		t.Error("expected error for note out of range")
	}
	if err := seq.SetClip(&Clip{Note: 60}); err == nil {
		t.Error("expected error for empty clip")
	}
	if err := seq.SetBPM(1000); err == nil {
		t.Error("expected error for bpm out of range")
	}
	if err := seq.SetBPM(150); err != nil {
		t.Fatal(err)
	}
	if want, got := 100*time.Millisecond, seq.StepDuration(); want != got {
		t.Errorf("want step duration %v, got %v", want, got)
	}
}

func TestSequencerDrivesEngine(t *testing.T) {
	e := NewEngine(Config{SampleRate: 1000})
	seq := NewSequencer(e)
	if err := seq.SetClip(&Clip{Note: 69, Velocity: 127, Steps: []int{1}}); err != nil {
		t.Fatal(err)
	}
	seq.Step()
	if want, got := []int{69}, e.ActiveNotes(); !reflect.DeepEqual(want, got) {
		t.Errorf("want active notes %v, got %v", want, got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := seq.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if want, got := StageRelease, e.voices[69].Stage(); want != got {
		t.Errorf("want stage %v after stopping, got %v", want, got)
	}
}
