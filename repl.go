package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/polysynth/audio"
	"github.com/mrdg/polysynth/dub"
)

var errQuit = errors.New("quit")

type env struct {
	engine    *audio.Engine
	controls  *audio.Controls
	output    *audio.Output
	sequencer *audio.Sequencer
	monitor   *monitor
	out       io.Writer
}

// eval runs every command on a line. It stops at the first failing command.
func (e *env) eval(input string) error {
	cmds, err := dub.ParseLine(input)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		if err := e.exec(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (e *env) exec(command dub.Command) error {
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(command.Args) < arity {
				return fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(command.Args))
			}
		} else if len(command.Args) != cmd.arity {
			return fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		if err := cmd.run(e, command.Args); err != nil {
			if err == errQuit {
				return err
			}
			return fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return nil
	}
	return fmt.Errorf("unknown command: %s", name)
}

func repl(ctx context.Context, env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	go func() {
		<-ctx.Done()
		rl.Close()
	}()

	for {
		line, err := rl.Readline()
		if err == io.EOF || ctx.Err() != nil {
			return errQuit
		}
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			fmt.Fprintln(env.out, err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if err := env.eval(line); err == errQuit {
			return err
		} else if err != nil {
			fmt.Fprintln(env.out, err)
		}
	}
}
