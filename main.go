package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mrdg/polysynth/audio"
	"github.com/mrdg/polysynth/device"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		driver   = flag.String("driver", "portaudio", "audio driver: "+strings.Join(device.Drivers, ", "))
		frames   = flag.Int("frames", 256, "frames per audio callback")
		channels = flag.Int("channels", 2, "output channels")
		rate     = flag.Float64("rate", 44100, "sample rate for drivers that cannot query the device")
		port     = flag.String("midi", "", "MIDI input port name, empty for the first port")
		noMidi   = flag.Bool("nomidi", false, "do not open a MIDI input")
		preset   = flag.String("preset", "init", "preset to load at startup")
		run      = flag.String("run", "", "file with commands to run at startup")
		lfoRate  = flag.Float64("lfo", audio.DefaultLFORate, "modulator rate in Hz")
	)
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	var startup []string
	if *run != "" {
		lines, err := readCommands(*run)
		if err != nil {
			log.Fatal(err)
		}
		startup = lines
	}

	stream, err := device.Open(*driver, device.Config{
		Channels:   *channels,
		Frames:     *frames,
		SampleRate: *rate,
	})
	if err != nil {
		log.Fatal(err)
	}

	engine := audio.NewEngine(audio.Config{
		SampleRate: stream.SampleRate(),
		LFORate:    *lfoRate,
	})
	ring := audio.NewSnapshotRing(32, *frames)
	output := audio.NewOutput(engine, *channels, *frames, ring)
	stream.SetSource(output)

	env := &env{
		engine:    engine,
		controls:  audio.NewControls(engine, output),
		output:    output,
		sequencer: audio.NewSequencer(engine),
		monitor:   newMonitor(ring),
		out:       os.Stdout,
	}
	if err := audio.LoadPreset(*preset, env.controls); err != nil {
		log.Fatal(err)
	}

	if !*noMidi {
		in, err := device.OpenMidi(*port, engine)
		if err != nil {
			log.Printf("continuing without MIDI input: %v", err)
		} else {
			defer in.Close()
		}
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		log.Fatal(fmt.Errorf("start stream: %w", err))
	}

	for _, line := range startup {
		if err := env.eval(line); err != nil {
			stream.Close()
			log.Fatalf("%s: %v", *run, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return env.sequencer.Run(ctx) })
	g.Go(func() error { return env.monitor.run(ctx) })
	g.Go(func() error { return repl(ctx, env) })

	err = g.Wait()
	if cerr := stream.Close(); cerr != nil {
		log.Print(cerr)
	}
	if err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}

// readCommands returns the non empty lines of file that are not comments.
func readCommands(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return lines, nil
}
