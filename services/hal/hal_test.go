package hal

import (
	"context"
	"sync"
	"testing"
	"time"

	"audiocodec-go/bus"
	"audiocodec-go/errcode"
	"audiocodec-go/types"

	"tinygo.org/x/drivers"
)

// Compile-time check.
var _ drivers.I2C = (*fakeI2C)(nil)

// Write-only codec bus: records frames, optionally fails them.
type fakeI2C struct {
	mu     sync.Mutex
	frames [][2]byte
	err    error
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if addr != 0x1a || len(w) != 2 || len(r) != 0 {
		return errcode.InvalidParams
	}
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, [2]byte{w[0], w[1]})
	return nil
}

func (f *fakeI2C) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeI2C) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func waitFor(t *testing.T, sub *bus.Subscription, what string, ok func(*bus.Message) bool) *bus.Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-sub.Channel():
			if ok(m) {
				return m
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s", what)
		}
	}
}

func request(t *testing.T, c *bus.Connection, verb string, payload any) any {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	topic := bus.T("hal", "cap", "audio", "codec", "main", "control", verb)
	rep, err := c.RequestWait(ctx, c.NewMessage(topic, payload, false))
	if err != nil {
		t.Fatalf("%s: %v", verb, err)
	}
	return rep.Payload
}

func wantOK(t *testing.T, verb string, p any) {
	t.Helper()
	if r, ok := p.(types.OKReply); !ok || !r.OK {
		t.Fatalf("%s: reply %#v", verb, p)
	}
}

func wantErr(t *testing.T, verb string, p any, code errcode.Code) {
	t.Helper()
	if r, ok := p.(types.ErrorReply); !ok || r.Error != string(code) {
		t.Fatalf("%s: reply %#v want %s", verb, p, code)
	}
}

func stateIs(level string) func(*bus.Message) bool {
	return func(m *bus.Message) bool {
		s, ok := m.Payload.(types.HALState)
		return ok && s.Level == level
	}
}

func biasIs(level string) func(*bus.Message) bool {
	return func(m *bus.Message) bool {
		v, ok := m.Payload.(types.CodecValue)
		return ok && v.Bias == level
	}
}

func TestHAL_CodecLifecycle(t *testing.T) {
	b := bus.NewBus(32)
	conn := b.NewConnection("test")
	i2c := &fakeI2C{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Run(ctx, conn, map[string]drivers.I2C{"i2c0": i2c})

	stateSub := conn.Subscribe(bus.T("hal", "state"))
	waitFor(t, stateSub, "idle", stateIs("idle"))

	// Controls before config are rejected.
	wantErr(t, "read", request(t, conn, types.CodecVerbRead, nil), errcode.HALNotReady)

	valSub := conn.Subscribe(bus.T("hal", "cap", "audio", "codec", "main", "value"))
	conn.Publish(conn.NewMessage(bus.T("config", "hal"), map[string]any{
		"devices": []any{
			map[string]any{"id": "codec0", "type": "wm8951", "params": map[string]any{
				"bus": "i2c0", "name": "main", "sysclk_hz": 12288000,
			}},
		},
	}, true))
	waitFor(t, stateSub, "ready", stateIs("ready"))

	// Attach: reset, standby, two volume update writes.
	waitFor(t, valSub, "standby after attach", biasIs("standby"))
	if n := i2c.count(); n != 4 {
		t.Fatalf("attach frames=%d", n)
	}

	infoSub := conn.Subscribe(bus.T("hal", "cap", "audio", "codec", "main", "info"))
	info := waitFor(t, infoSub, "info", func(m *bus.Message) bool { _, ok := m.Payload.(types.Info); return ok })
	if d, ok := info.Payload.(types.Info).Detail.(types.CodecInfo); !ok || len(d.Rates) != 4 {
		t.Fatalf("info detail %#v", info.Payload)
	}

	wantOK(t, "set_bias", request(t, conn, types.CodecVerbSetBias, types.CodecBias{Level: "on"}))
	waitFor(t, valSub, "bias on", biasIs("on"))

	got := request(t, conn, types.CodecVerbGetRegister, types.CodecGetRegister{Reg: 0x06})
	if r, ok := got.(types.CodecRegister); !ok || r.Value != 0x5f {
		t.Fatalf("get_register %#v", got)
	}

	wantErr(t, "set_rate", request(t, conn, types.CodecVerbSetRate, types.CodecRate{ClockHz: 12288000, RateHz: 44100}), errcode.UnsupportedRate)
	wantErr(t, "set_bias", request(t, conn, types.CodecVerbSetBias, types.CodecBias{Level: "max"}), errcode.InvalidParams)
	wantErr(t, "get_register", request(t, conn, types.CodecVerbGetRegister, types.CodecGetRegister{Reg: 0x20}), errcode.OutOfRange)
	wantErr(t, "bogus", request(t, conn, "bogus", nil), errcode.Unsupported)

	wantOK(t, "suspend", request(t, conn, types.CodecVerbSuspend, nil))
	waitFor(t, valSub, "off after suspend", biasIs("off"))
	wantOK(t, "resume", request(t, conn, types.CodecVerbResume, nil))
	waitFor(t, valSub, "on after resume", biasIs("on"))

	cancel()
	waitFor(t, stateSub, "stopped", stateIs("stopped"))
}

func TestHAL_IOErrorDegrades(t *testing.T) {
	b := bus.NewBus(32)
	conn := b.NewConnection("test")
	i2c := &fakeI2C{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Run(ctx, conn, map[string]drivers.I2C{"i2c0": i2c})

	stateSub := conn.Subscribe(bus.T("hal", "state"))
	conn.Publish(conn.NewMessage(bus.T("config", "hal"), types.HALConfig{
		Devices: []types.HALDevice{{ID: "codec0", Type: "wm8951", Params: map[string]any{"bus": "i2c0", "name": "main"}}},
	}, true))
	waitFor(t, stateSub, "ready", stateIs("ready"))

	statusSub := conn.Subscribe(bus.T("hal", "cap", "audio", "codec", "main", "status"))
	waitFor(t, statusSub, "up", func(m *bus.Message) bool {
		s, ok := m.Payload.(types.CapabilityStatus)
		return ok && s.Link == types.LinkUp
	})

	i2c.setErr(errcode.Timeout)
	wantOK(t, "mute", request(t, conn, types.CodecVerbMute, types.CodecMute{On: false}))
	waitFor(t, statusSub, "degraded", func(m *bus.Message) bool {
		s, ok := m.Payload.(types.CapabilityStatus)
		return ok && s.Link == types.LinkDegraded && s.Error == string(errcode.IOError)
	})

	// The failed write stays dirty until a resync succeeds.
	valSub := conn.Subscribe(bus.T("hal", "cap", "audio", "codec", "main", "value"))
	i2c.setErr(nil)
	wantOK(t, "resync", request(t, conn, types.CodecVerbResync, nil))
	waitFor(t, valSub, "clean value", func(m *bus.Message) bool {
		v, ok := m.Payload.(types.CodecValue)
		return ok && len(v.Dirty) == 0
	})
}
