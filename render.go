package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	scopeHeight  = 11
	defaultWidth = 80
)

// terminalWidth returns the width of stdout, or defaultWidth when it is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// renderScope draws samples as an oscilloscope trace of width columns. Each column shows the
// sample range covered by it, so short transients are not lost.
func renderScope(w io.Writer, samples []float32, width int) {
	if width < 8 {
		width = 8
	}
	rows := make([][]byte, scopeHeight)
	for i := range rows {
		rows[i] = []byte(strings.Repeat(" ", width))
	}
	mid := scopeHeight / 2
	for x := 0; x < width; x++ {
		rows[mid][x] = '-'
	}

	if len(samples) > 0 {
		perCol := float64(len(samples)) / float64(width)
		for x := 0; x < width; x++ {
			start := int(float64(x) * perCol)
			end := int(float64(x+1) * perCol)
			if end <= start {
				end = start + 1
			}
			if end > len(samples) {
				end = len(samples)
			}
			if start >= end {
				continue
			}
			lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
			for _, s := range samples[start:end] {
				lo = min(lo, s)
				hi = max(hi, s)
			}
			top, bottom := scopeRow(hi), scopeRow(lo)
			for y := top; y <= bottom; y++ {
				rows[y][x] = '*'
			}
		}
	}

	var peak float32
	for _, s := range samples {
		peak = max(peak, float32(math.Abs(float64(s))))
	}
	fmt.Fprintf(w, "%s\n", colorize(fmt.Sprintf("scope: %d samples, peak %.3f", len(samples), peak), colorMagenta))
	for _, row := range rows {
		fmt.Fprintf(w, "%s\n", colorize(string(row), colorGreen))
	}
}

// scopeRow maps a sample in [-1, 1] to a row, top row first. Values outside are clipped.
func scopeRow(s float32) int {
	v := math.Max(-1, math.Min(1, float64(s)))
	row := int(math.Round((1 - v) / 2 * (scopeHeight - 1)))
	return row
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func noteName(n int) string {
	return fmt.Sprintf("%s%d", noteNames[n%12], n/12-1)
}

// renderPianoRoll draws the keys between the lowest and highest sounding note, padded to
// whole octaves. Sounding keys are marked with '#', sustained ones with 's'.
func renderPianoRoll(w io.Writer, active, sustained []int) {
	if len(active) == 0 {
		fmt.Fprintln(w, colorize("no notes sounding", colorBlue))
		return
	}
	lo, hi := active[0], active[0]
	for _, n := range active {
		lo = min(lo, n)
		hi = max(hi, n)
	}
	lo -= lo % 12
	hi += 11 - hi%12

	on := make(map[int]bool, len(active))
	for _, n := range active {
		on[n] = true
	}
	held := make(map[int]bool, len(sustained))
	for _, n := range sustained {
		held[n] = true
	}

	var keys, labels strings.Builder
	for n := lo; n <= hi; n++ {
		switch {
		case held[n]:
			keys.WriteString(colorize("s", colorYellow))
		case on[n]:
			keys.WriteString(colorize("#", colorRed))
		case strings.HasSuffix(noteNames[n%12], "#"):
			keys.WriteByte(':')
		default:
			keys.WriteByte('.')
		}
		if n%12 == 0 {
			label := noteName(n)
			labels.WriteString(label)
			labels.WriteString(strings.Repeat(" ", 12-len(label)))
		}
	}
	fmt.Fprintln(w, keys.String())
	fmt.Fprintln(w, colorize(labels.String(), colorMagenta))

	names := make([]string, len(active))
	for i, n := range active {
		names[i] = noteName(n)
	}
	fmt.Fprintf(w, "sounding: %s\n", strings.Join(names, " "))
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
