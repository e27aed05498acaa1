package dub

import (
	"fmt"
)

type matchItem struct {
	level   int
	matcher matcher
}

type matcher interface {
	match(i int) bool
}

type rangeMatch struct {
	start, end int
}

func (r rangeMatch) match(i int) bool {
	return (i >= r.start || r.start == -1) && (i <= r.end || r.end == -1)
}

var matchAll = rangeMatch{-1, -1}

type listMatch []int

func (l listMatch) match(i int) bool {
	for _, k := range l {
		if k == i {
			return true
		}
	}
	return false
}

// EvalMatchExpr expands expr into a pattern of length steps, where a beat spans stepsPerBeat
// steps. Level 0 matches beats numbered from 1 across the whole pattern; every deeper level
// halves the previous division and numbers its notes from 1 within a beat.
func EvalMatchExpr(expr MatchExpr, length, stepsPerBeat int) ([]int, error) {
	if length <= 0 || stepsPerBeat <= 0 {
		return nil, fmt.Errorf("invalid pattern size: %d steps, %d steps per beat", length, stepsPerBeat)
	}
	seq := make([]int, length)

	for i := len(expr.matchers) - 1; i >= 0; i-- {
		item := expr.matchers[i]
		notesPerBeat := 1 << uint(item.level)
		if notesPerBeat > stepsPerBeat || stepsPerBeat%notesPerBeat != 0 {
			return nil, fmt.Errorf("can't match on %d notes per beat with %d steps per beat",
				notesPerBeat, stepsPerBeat)
		}
		skip := stepsPerBeat / notesPerBeat

		for note, steps := 0, 0; note < len(seq); note += skip {
			// number notes relative to others on the same division, e.g. the 16th notes
			// within a beat are numbered 0 to 3
			noteNum := steps % notesPerBeat
			if notesPerBeat == 1 {
				noteNum = steps
			}
			steps++

			// add 1 because match expects note numbers to start at 1
			if item.matcher.match(noteNum + 1) {
				if i == len(expr.matchers)-1 {
					seq[note] = 1
				}
			} else {
				// zero steps that are unmatched by the current level
				for j := note; j < note+skip && j < len(seq); j++ {
					seq[j] = 0
				}
			}
		}
	}
	return seq, nil
}
