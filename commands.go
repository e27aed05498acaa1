package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrdg/polysynth/audio"
	"github.com/mrdg/polysynth/dub"
)

var errRecording = errors.New("a recording is already running")

const defaultVelocity = 100

type command struct {
	name  string
	args  string
	help  string
	run   func(*env, []dub.Node) error
	arity int // -n means len(args) must be >= n
}

var commands []command

func init() {
	commands = []command{
		{"set", "<key> <value>", "set a synth parameter", setCommand, 2},
		{"get", "<key>", "print a synth parameter", getCommand, 1},
		{"show", "", "print all parameters, notes and loops", showCommand, 0},
		{"preset", "<name>", "load a built-in preset", presetCommand, 1},
		{"presets", "", "list the built-in presets", presetsCommand, 0},
		{"note", "<note> [velocity]", "start a note", noteCommand, -1},
		{"off", "<note>", "release a note", offCommand, 1},
		{"pedal", "on|off", "press or release the sustain pedal", pedalCommand, 1},
		{"panic", "", "silence every voice", panicCommand, 0},
		{"scope", "", "draw the latest output and the sounding notes", scopeCommand, 0},
		{"record", "<file> <seconds>", "record the output to a wav file", recordCommand, 2},
		{"load", "<file>", "load a single cycle wav file as the custom waveform", loadCommand, 1},
		{"loop", "<note> [velocity] '<match>", "repeat a note on the matched 16th note steps", loopCommand, -2},
		{"unloop", "<note>|all", "stop a loop", unloopCommand, 1},
		{"bpm", "<bpm>", "set the loop tempo", bpmCommand, 1},
		{"help", "", "list commands", helpCommand, 0},
		{"quit", "", "exit", quitCommand, 0},
	}
}

func setCommand(env *env, args []dub.Node) error {
	var key string
	if err := readArgs(args[:1], &key); err != nil {
		return err
	}
	switch v := args[1].(type) {
	case dub.Int:
		return env.controls.Set(key, float64(v))
	case dub.Float:
		return env.controls.Set(key, float64(v))
	case dub.String:
		return env.controls.Set(key, string(v))
	case dub.Identifier:
		return env.controls.Set(key, string(v))
	default:
		return fmt.Errorf("unsupported property type: %v", v)
	}
}

func getCommand(env *env, args []dub.Node) error {
	var key string
	if err := readArgs(args, &key); err != nil {
		return err
	}
	v, err := env.controls.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "%s = %v\n", key, v)
	return nil
}

func showCommand(env *env, args []dub.Node) error {
	for _, key := range env.controls.Keys() {
		v, _ := env.controls.Get(key)
		fmt.Fprintf(env.out, "%-17s %v\n", key, v)
	}
	if t := env.controls.CustomTable(); t != nil {
		fmt.Fprintf(env.out, "%-17s %s\n", "custom table", t.Name())
	}
	fmt.Fprintf(env.out, "%-17s %v\n", "bpm", env.sequencer.BPM())
	for _, c := range env.sequencer.Clips() {
		fmt.Fprintf(env.out, "loop %-12s %v\n", noteName(c.Note), c.Steps)
	}
	renderPianoRoll(env.out, env.engine.ActiveNotes(), env.engine.SustainedNotes())
	return nil
}

func presetCommand(env *env, args []dub.Node) error {
	var name string
	if err := readArgs(args, &name); err != nil {
		return err
	}
	return audio.LoadPreset(name, env.controls)
}

func presetsCommand(env *env, args []dub.Node) error {
	fmt.Fprintln(env.out, strings.Join(audio.Presets(), " "))
	return nil
}

func noteCommand(env *env, args []dub.Node) error {
	if len(args) > 2 {
		return fmt.Errorf("too many arguments")
	}
	note, velocity := 0, defaultVelocity
	slots := []interface{}{&note, &velocity}
	if err := readArgs(args, slots[:len(args)]...); err != nil {
		return err
	}
	if err := checkNote(note); err != nil {
		return err
	}
	if velocity < 0 || velocity > 127 {
		return fmt.Errorf("velocity out of range 0-127: %d", velocity)
	}
	env.engine.DispatchMidi(audio.StatusNoteOn<<4, note, velocity)
	return nil
}

func offCommand(env *env, args []dub.Node) error {
	var note int
	if err := readArgs(args, &note); err != nil {
		return err
	}
	if err := checkNote(note); err != nil {
		return err
	}
	env.engine.DispatchMidi(audio.StatusNoteOff<<4, note, 0)
	return nil
}

func pedalCommand(env *env, args []dub.Node) error {
	var state string
	if err := readArgs(args, &state); err != nil {
		return err
	}
	var value int
	switch state {
	case "on":
		value = 127
	case "off":
		value = 0
	default:
		return fmt.Errorf("pedal state must be on or off: %s", state)
	}
	env.engine.DispatchMidi(audio.StatusControlChange<<4, audio.ControllerSustain, value)
	return nil
}

func panicCommand(env *env, args []dub.Node) error {
	env.sequencer.RemoveAll()
	env.engine.DispatchMidi(audio.StatusControlChange<<4, audio.ControllerSustain, 0)
	env.engine.DispatchMidi(audio.StatusControlChange<<4, audio.ControllerAllSoundOff, 0)
	return nil
}

func scopeCommand(env *env, args []dub.Node) error {
	renderScope(env.out, env.monitor.snapshot(), terminalWidth())
	renderPianoRoll(env.out, env.engine.ActiveNotes(), env.engine.SustainedNotes())
	return nil
}

func recordCommand(env *env, args []dub.Node) error {
	var file string
	var seconds float64
	if err := readArgs(args, &file, &seconds); err != nil {
		return err
	}
	r, err := audio.NewRecorder(file, env.engine.SampleRate(), seconds)
	if err != nil {
		return err
	}
	return env.monitor.record(r)
}

func loadCommand(env *env, args []dub.Node) error {
	var file string
	if err := readArgs(args, &file); err != nil {
		return err
	}
	table, err := audio.LoadWavetable(file)
	if err != nil {
		return err
	}
	env.controls.SetCustomTable(table)
	fmt.Fprintf(env.out, "loaded %s, set %s to hear it\n", file, audio.KeyCustom)
	return nil
}

func loopCommand(env *env, args []dub.Node) error {
	note, velocity := 0, defaultVelocity
	var match dub.MatchExpr
	var err error
	switch len(args) {
	case 2:
		err = readArgs(args, &note, &match)
	case 3:
		err = readArgs(args, &note, &velocity, &match)
	default:
		err = fmt.Errorf("too many arguments")
	}
	if err != nil {
		return err
	}
	if err := checkNote(note); err != nil {
		return err
	}
	steps, err := dub.EvalMatchExpr(match, audio.PatternLength, audio.StepsPerBeat)
	if err != nil {
		return err
	}
	return env.sequencer.SetClip(&audio.Clip{Note: note, Velocity: velocity, Steps: steps})
}

func unloopCommand(env *env, args []dub.Node) error {
	if id, ok := args[0].(dub.Identifier); ok && id == "all" {
		env.sequencer.RemoveAll()
		return nil
	}
	var note int
	if err := readArgs(args, &note); err != nil {
		return err
	}
	env.sequencer.RemoveClip(note)
	return nil
}

func bpmCommand(env *env, args []dub.Node) error {
	var bpm float64
	if err := readArgs(args, &bpm); err != nil {
		return err
	}
	return env.sequencer.SetBPM(bpm)
}

func helpCommand(env *env, args []dub.Node) error {
	for _, cmd := range commands {
		usage := strings.TrimSpace(cmd.name + " " + cmd.args)
		fmt.Fprintf(env.out, "%-36s %s\n", colorize(usage, colorGreen), cmd.help)
	}
	fmt.Fprintf(env.out, "keys: %s\n", strings.Join(env.controls.Keys(), " "))
	return nil
}

func quitCommand(env *env, args []dub.Node) error {
	return errQuit
}

func checkNote(n int) error {
	if n < 0 || n >= audio.NumVoices {
		return fmt.Errorf("note out of range 0-%d: %d", audio.NumVoices-1, n)
	}
	return nil
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch v := arg.(type) {
			case dub.Int:
				*p = float64(v)
			case dub.Float:
				*p = float64(v)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			n, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(n)
		case *dub.MatchExpr:
			m, ok := arg.(dub.MatchExpr)
			if !ok {
				return fmt.Errorf("argument error: expected a match expression")
			}
			*p = m
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
