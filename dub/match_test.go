package dub

import (
	"reflect"
	"testing"
)

func TestEvalMatchExpr(t *testing.T) {
	type test struct {
		input        string
		stepsPerBeat int
		expect       []int
	}
	tests := []test{
		{
			input:        "2,4/*",
			stepsPerBeat: 4,
			expect:       []int{0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 0, 1, 0},
		},
		{
			input:        "1:4",
			stepsPerBeat: 4,
			expect:       []int{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
		},
		{
			input:        "1:2//1:4",
			stepsPerBeat: 4,
			expect:       []int{1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			input:        "*//3,4",
			stepsPerBeat: 4,
			expect:       []int{0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1},
		},
		{
			input:        "*/2",
			stepsPerBeat: 4,
			expect:       []int{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
		},
		{
			// 5/4
			input:        "5",
			stepsPerBeat: 4,
			expect:       []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
		},
		{
			// 7/8
			input:        "*",
			stepsPerBeat: 4,
			expect:       []int{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
		},
		{
			input:        "*/2",
			stepsPerBeat: 4,
			expect:       []int{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
		},
		{
			// 32nd note steps
			input:        "*",
			stepsPerBeat: 8,
			expect: []int{
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
			},
		},
	}
	for _, test := range tests {
		input := "a '" + test.input // make the input a valid dub command
		command, err := Parse(input)
		if err != nil {
			t.Error(err)
			continue
		}
		expr := command.Args[0].(MatchExpr)

		got, err := EvalMatchExpr(expr, len(test.expect), test.stepsPerBeat)
		if err != nil {
			t.Error(err)
			continue
		}
		if !reflect.DeepEqual(test.expect, got) {
			t.Errorf("%s: seq mismatch:\nwant %v\ngot: %v", test.input, test.expect, got)
		}
	}
}

func TestEvalMatchExprTooFine(t *testing.T) {
	command, err := Parse("a '*///*")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EvalMatchExpr(command.Args[0].(MatchExpr), 16, 4); err == nil {
		t.Error("expected error for a division finer than the step size")
	}
}
