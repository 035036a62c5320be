package wm8951

import (
	"errors"
	"testing"
)

var errBus = errors.New("bus nak")

// Records every frame; frames whose register is in fail are rejected.
type recTransport struct {
	frames [][2]byte
	fail   map[uint8]bool
	short  bool
}

func (t *recTransport) Send(f [2]byte) (int, error) {
	t.frames = append(t.frames, f)
	reg, _ := DecodeFrame(f)
	if t.fail[reg] {
		return 0, errBus
	}
	if t.short {
		return 1, nil
	}
	return 2, nil
}

type write struct {
	reg uint8
	v   uint16
}

func (t *recTransport) writes() []write {
	out := make([]write, len(t.frames))
	for i, f := range t.frames {
		r, v := DecodeFrame(f)
		out[i] = write{r, v}
	}
	return out
}

func (t *recTransport) clear() { t.frames = nil }

func newTestDevice(t *testing.T, cfg Config) (*Device, *recTransport) {
	t.Helper()
	tr := &recTransport{fail: map[uint8]bool{}}
	d, err := NewWithTransport(tr, cfg)
	if err != nil {
		t.Fatalf("NewWithTransport: %v", err)
	}
	return d, tr
}

func wantWrites(t *testing.T, got []write, want ...write) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("writes=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("write[%d]=%+v want %+v (all %v)", i, got[i], want[i], got)
		}
	}
}
