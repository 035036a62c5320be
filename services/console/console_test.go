package console

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"audiocodec-go/bus"
	"audiocodec-go/types"
	"audiocodec-go/x/pcmfmt"
)

type call struct {
	verb    string
	payload any
}

// fakeHAL answers every codec control with reply(verb), recording requests.
type fakeHAL struct {
	mu    sync.Mutex
	calls []call
}

func startFakeHAL(t *testing.T, b *bus.Bus, reply func(verb string, p any) any) *fakeHAL {
	t.Helper()
	f := &fakeHAL{}
	conn := b.NewConnection("fake-hal")
	sub := conn.Subscribe(bus.T("hal", "cap", "audio", "codec", "+", "control", "+"))
	go func() {
		for m := range sub.Channel() {
			verb, _ := m.Topic.At(6).(string)
			f.mu.Lock()
			f.calls = append(f.calls, call{verb, m.Payload})
			f.mu.Unlock()
			conn.Reply(m, reply(verb, m.Payload), false)
		}
	}()
	t.Cleanup(conn.Disconnect)
	return f
}

func (f *fakeHAL) last(t *testing.T) call {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("no calls")
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeHAL) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func okReply(string, any) any { return types.OKReply{OK: true} }

func newConsole(t *testing.T, reply func(string, any) any) (*Console, *fakeHAL, *bytes.Buffer, *bus.Bus) {
	b := bus.NewBus(16)
	hal := startFakeHAL(t, b, reply)
	out := &bytes.Buffer{}
	c := New(b.NewConnection("console"), out, Options{Timeout: 500 * time.Millisecond})
	return c, hal, out, b
}

func TestExec_MapsCommandsToControls(t *testing.T) {
	c, hal, out, _ := newConsole(t, okReply)
	ctx := context.Background()

	cases := []struct {
		line string
		want call
	}{
		{"set 0x04 0x12", call{types.CodecVerbSetRegister, types.CodecRegister{Reg: 4, Value: 0x12}}},
		{"set 15 0", call{types.CodecVerbSetRegister, types.CodecRegister{Reg: 0x0f}}},
		{"format i2s master 24 ilrc", call{types.CodecVerbSetFormat, types.CodecFormat{Master: true, Format: "i2s", FrameClockInvert: true, Width: 24}}},
		{"format dsp_b", call{types.CodecVerbSetFormat, types.CodecFormat{Format: "dsp_b", Width: 16}}},
		{"sysclk 11289600", call{types.CodecVerbSetSysclk, types.CodecSysclk{Hz: 11_289_600}}},
		{"rate 44100 11289600", call{types.CodecVerbSetRate, types.CodecRate{ClockHz: 11_289_600, RateHz: 44_100}}},
		{"hw 96000 20", call{types.CodecVerbHWParams, types.CodecHWParams{RateHz: 96_000, Width: 20}}},
		{"hw 8000", call{types.CodecVerbHWParams, types.CodecHWParams{RateHz: 8_000, Width: 16}}},
		{"bias standby", call{types.CodecVerbSetBias, types.CodecBias{Level: "standby"}}},
		{"mute on", call{types.CodecVerbMute, types.CodecMute{On: true}}},
		{"vol 12", call{types.CodecVerbSetVolume, types.CodecVolume{Left: 12, Right: 12}}},
		{"vol 3 31", call{types.CodecVerbSetVolume, types.CodecVolume{Left: 3, Right: 31}}},
		{"input mic", call{types.CodecVerbSetInput, types.CodecInput{Mic: true}}},
		{"suspend", call{types.CodecVerbSuspend, nil}},
		{"resume", call{types.CodecVerbResume, nil}},
		{"resync", call{types.CodecVerbResync, nil}},
		{"activate", call{types.CodecVerbActivate, nil}},
	}
	for _, tc := range cases {
		out.Reset()
		if err := c.Exec(ctx, tc.line); err != nil {
			t.Fatalf("%q: %v", tc.line, err)
		}
		if got := hal.last(t); got != tc.want {
			t.Fatalf("%q: got %+v want %+v", tc.line, got, tc.want)
		}
		if out.String() != "ok\n" {
			t.Fatalf("%q: output %q", tc.line, out.String())
		}
	}
}

func TestExec_RejectsBadInput(t *testing.T) {
	c, hal, _, _ := newConsole(t, okReply)
	ctx := context.Background()

	if err := c.Exec(ctx, "frobnicate"); !errors.Is(err, errUnknown) {
		t.Fatalf("unknown: %v", err)
	}
	for _, line := range []string{"rate 48000", "set 1", "vol 1 2 3", "input usb"} {
		if err := c.Exec(ctx, line); !errors.Is(err, errUsage) {
			t.Fatalf("%q: %v", line, err)
		}
	}
	for _, line := range []string{"set 0x1ff 0", "set 1 0x200", "mute maybe", "format i2s wide", `reg "unterminated`} {
		if err := c.Exec(ctx, line); err == nil {
			t.Fatalf("%q: expected error", line)
		}
	}
	if err := c.Exec(ctx, "   # just a comment"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	hal.mu.Lock()
	defer hal.mu.Unlock()
	if len(hal.calls) != 0 {
		t.Fatalf("unexpected calls %+v", hal.calls)
	}
}

func TestExec_PrintsReplies(t *testing.T) {
	c, _, out, _ := newConsole(t, func(verb string, p any) any {
		switch verb {
		case types.CodecVerbGetRegister:
			return types.CodecRegister{Reg: p.(types.CodecGetRegister).Reg, Value: 0x4a}
		case types.CodecVerbSetRate:
			return types.ErrorReply{Error: "unsupported_rate"}
		}
		return types.OKReply{OK: true}
	})
	ctx := context.Background()

	if err := c.Exec(ctx, "reg 7"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "R7 = 0x04a\n" {
		t.Fatalf("reg output %q", out.String())
	}
	if err := c.Exec(ctx, "rate 44100 12288000"); err == nil || err.Error() != "unsupported_rate" {
		t.Fatalf("rate err=%v", err)
	}
}

func TestExec_NoResponderTimesOut(t *testing.T) {
	b := bus.NewBus(4)
	c := New(b.NewConnection("console"), io.Discard, Options{Timeout: 20 * time.Millisecond})
	if err := c.Exec(context.Background(), "resync"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v", err)
	}
}

func TestStatus_ReadsRetainedValue(t *testing.T) {
	c, _, out, b := newConsole(t, okReply)
	if err := c.Exec(context.Background(), "status"); err == nil {
		t.Fatal("expected error before any value")
	}

	pub := b.NewConnection("hal")
	pub.Publish(pub.NewMessage(bus.T("hal", "cap", "audio", "codec", "main", "value"), types.CodecValue{
		Bias: "standby", ResumeBias: "off", SysclkHz: 12_288_000, RateHz: 48_000, Width: 16,
		Regs: []uint16{0x97, 0x97}, Dirty: []uint8{1},
	}, true))

	out.Reset()
	if err := c.Exec(context.Background(), "status"); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	for _, want := range []string{"bias=standby", "rate=48000", "R1 0x097", "unconfirmed: [1]"} {
		if !strings.Contains(s, want) {
			t.Fatalf("status missing %q in %q", want, s)
		}
	}
}

func wavBytes(rate uint32, bits uint16) []byte { return wavChannels(rate, 2, bits) }

func wavChannels(rate uint32, ch, bits uint16) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36))
	buf.WriteString("WAVEfmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, ch)
	binary.Write(buf, binary.LittleEndian, rate)
	binary.Write(buf, binary.LittleEndian, rate*uint32(ch)*uint32(bits/8))
	binary.Write(buf, binary.LittleEndian, ch*(bits/8))
	binary.Write(buf, binary.LittleEndian, bits)
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(0))
	return buf.Bytes()
}

func TestWAV_AppliesHeader(t *testing.T) {
	b := bus.NewBus(16)
	hal := startFakeHAL(t, b, okReply)
	out := &bytes.Buffer{}
	c := New(b.NewConnection("console"), out, Options{
		Open: func(p string) (io.ReadCloser, error) {
			if p != "take1.wav" {
				return nil, errors.New("not found")
			}
			return io.NopCloser(bytes.NewReader(wavBytes(32_000, 24))), nil
		},
	})
	if err := c.Exec(context.Background(), "wav take1.wav"); err != nil {
		t.Fatal(err)
	}
	if got := hal.last(t); got != (call{types.CodecVerbHWParams, types.CodecHWParams{RateHz: 32_000, Width: 24}}) {
		t.Fatalf("got %+v", got)
	}
	if !strings.HasPrefix(out.String(), "take1.wav: 32000 Hz, 2 ch, 24 bit\n") {
		t.Fatalf("output %q", out.String())
	}
	if err := c.Exec(context.Background(), "wav missing.wav"); err == nil {
		t.Fatal("expected open error")
	}
}

func TestWAV_RejectsSurroundBeforeHWParams(t *testing.T) {
	b := bus.NewBus(16)
	hal := startFakeHAL(t, b, okReply)
	c := New(b.NewConnection("console"), &bytes.Buffer{}, Options{
		Open: func(string) (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(wavChannels(48_000, 6, 16))), nil
		},
	})
	if err := c.Exec(context.Background(), "wav six.wav"); !errors.Is(err, pcmfmt.ErrChannels) {
		t.Fatalf("err=%v", err)
	}
	if n := hal.count(); n != 0 {
		t.Fatalf("%d calls reached the HAL", n)
	}
}

func TestRun_UsesConfigAndReadsLines(t *testing.T) {
	b := bus.NewBus(16)
	hal := startFakeHAL(t, b, okReply)
	cfg := b.NewConnection("config")
	cfg.Publish(cfg.NewMessage(bus.T("config", "console"),
		map[string]any{"prompt": "> ", "target": "line0"}, true))

	out := &bytes.Buffer{}
	c := New(b.NewConnection("console"), out, Options{})
	err := c.Run(context.Background(), strings.NewReader("mute off\nbogus\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := hal.last(t); got != (call{types.CodecVerbMute, types.CodecMute{}}) {
		t.Fatalf("got %+v", got)
	}
	want := "> ok\n> error: unknown command: bogus\n> "
	if out.String() != want {
		t.Fatalf("output %q want %q", out.String(), want)
	}
}
