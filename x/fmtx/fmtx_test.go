package fmtx

import (
	"bytes"
	"errors"
	"testing"
)

// These run against whichever backend the build selects; both must agree
// with fmt for the verbs the console and logs use.
func TestSprintfRegisterDumps(t *testing.T) {
	for _, c := range []struct {
		fmt  string
		args []any
		want string
	}{
		{"R%d = 0x%03x", []any{uint8(7), uint16(0x4a)}, "R7 = 0x04a"},
		{"R%d = 0x%03x", []any{uint8(0), uint16(0x197)}, "R0 = 0x197"},
		{"%02X%02X", []any{uint8(0x1e), uint8(0)}, "1E00"},
		{"rate=%d width=%d", []any{uint32(44_100), uint8(24)}, "rate=44100 width=24"},
		{"dirty %v", []any{[]uint8{1, 7}}, "dirty [1 7]"},
		{"regs %v", []any{[]uint16{0x97, 0x79}}, "regs [151 121]"},
		{"muted=%t", []any{true}, "muted=true"},
		{"bias=%s", []any{"standby"}, "bias=standby"},
		{"%5s|", []any{"on"}, "   on|"},
		{"q=%q", []any{"a\"b"}, `q="a\"b"`},
		{"trim: %.3s", []any{"standby"}, "trim: sta"},
		{"neg %04d", []any{-5}, "neg -005"},
		{"literal %%", nil, "literal %"},
	} {
		if got := Sprintf(c.fmt, c.args...); got != c.want {
			t.Fatalf("Sprintf(%q) = %q, want %q", c.fmt, got, c.want)
		}
	}
}

func TestFprintAndFprintf(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Fprint(&buf, "codec> "); err != nil {
		t.Fatal(err)
	}
	if _, err := Fprintf(&buf, "R%d 0x%x\n", 4, uint16(0xe)); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "codec> R4 0xe\n"; got != want {
		t.Fatalf("wrote %q, want %q", got, want)
	}
	if got, want := Sprint("a", 1, 2, "b"), "a1 2b"; got != want {
		t.Fatalf("Sprint = %q, want %q", got, want)
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf("reg %d: %s", 9, "io_error")
	if err == nil || err.Error() != "reg 9: io_error" {
		t.Fatalf("Errorf = %v", err)
	}
	if !errors.Is(err, err) {
		t.Fatal("errors.Is should be true on itself")
	}
}
