package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestScopeRow(t *testing.T) {
	for _, test := range []struct {
		in   float32
		want int
	}{
		{1, 0},
		{0, scopeHeight / 2},
		{-1, scopeHeight - 1},
		{4, 0},
		{-4, scopeHeight - 1},
	} {
		if got := scopeRow(test.in); got != test.want {
			t.Errorf("scopeRow(%v): want %v, got %v", test.in, test.want, got)
		}
	}
}

func TestRenderScope(t *testing.T) {
	var buf bytes.Buffer
	renderScope(&buf, []float32{1, -1, 1, -1}, 8)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if want, got := scopeHeight+1, len(lines); want != got {
		t.Fatalf("want %v lines, got %v", want, got)
	}
	if !strings.Contains(lines[0], "peak 1.000") {
		t.Errorf("want peak in header, got %q", lines[0])
	}
}

func TestNoteName(t *testing.T) {
	for n, want := range map[int]string{69: "A4", 60: "C4", 0: "C-1", 61: "C#4"} {
		if got := noteName(n); got != want {
			t.Errorf("noteName(%d): want %v, got %v", n, want, got)
		}
	}
}

func TestRenderPianoRoll(t *testing.T) {
	var buf bytes.Buffer
	renderPianoRoll(&buf, nil, nil)
	if !strings.Contains(buf.String(), "no notes") {
		t.Errorf("unexpected output for silence: %q", buf.String())
	}
	buf.Reset()
	renderPianoRoll(&buf, []int{60, 64}, []int{64})
	if !strings.Contains(buf.String(), "sounding: C4 E4") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
