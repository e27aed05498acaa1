package device

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	for _, test := range []struct {
		in                     []byte
		status, note, velocity int
		ok                     bool
	}{
		{[]byte{0x90, 60, 100}, 0x90, 60, 100, true},
		{[]byte{0x83, 60, 0}, 0x83, 60, 0, true},
		{[]byte{0xB0, 64, 127}, 0xB0, 64, 127, true},
		{[]byte{0xC0, 5}, 0xC0, 5, 0, true},
		{[]byte{0xF8}, 0, 0, 0, false},
		{[]byte{0xF0, 1, 2}, 0, 0, 0, false},
		{[]byte{0x40, 1, 2}, 0, 0, 0, false},
		{nil, 0, 0, 0, false},
	} {
		status, note, velocity, ok := decode(test.in)
		if ok != test.ok || status != test.status || note != test.note || velocity != test.velocity {
			t.Errorf("decode(% x): want %#x %v %v %v, got %#x %v %v %v", test.in,
				test.status, test.note, test.velocity, test.ok, status, note, velocity, ok)
		}
	}
}

type constSource struct {
	v float32
}

func (s constSource) Process(out []float32) {
	for i := range out {
		out[i] = s.v
	}
}

func (s constSource) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 1
	}
	return len(p), nil
}

func TestSourceHolder(t *testing.T) {
	var h sourceHolder
	out := []float32{3, 3}
	h.process(out)
	if out[0] != 0 || out[1] != 0 {
		t.Errorf("want silence without a source, got %v", out)
	}
	p := []byte{9, 9}
	if n, _ := h.Read(p); n != 2 || p[0] != 0 {
		t.Errorf("want zeroed bytes without a source, got %v", p)
	}

	h.SetSource(constSource{0.5})
	h.process(out)
	if out[0] != 0.5 || out[1] != 0.5 {
		t.Errorf("want source output, got %v", out)
	}
	h.Read(p)
	if p[0] != 1 {
		t.Errorf("want source bytes, got %v", p)
	}
}

func TestShutdownAlwaysTearsDown(t *testing.T) {
	stopErr := errors.New("stop failed")
	tornDown := false
	err := shutdown(func() error { return stopErr }, func() error {
		tornDown = true
		return nil
	})
	if !tornDown {
		t.Error("teardown skipped after failed stop")
	}
	if !errors.Is(err, stopErr) {
		t.Errorf("want %v, got %v", stopErr, err)
	}
	if err := shutdown(func() error { return nil }, func() error { return nil }); err != nil {
		t.Errorf("want nil, got %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("jack", Config{}); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("want %v, got %v", ErrUnknownDriver, err)
	}
}
