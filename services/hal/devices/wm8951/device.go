package wm8951dev

import (
	"context"
	"sync/atomic"
	"time"

	"audiocodec-go/drivers/wm8951"
	"audiocodec-go/errcode"
	"audiocodec-go/services/hal/internal/core"
	"audiocodec-go/types"
)

// Device is a single-goroutine HAL device for the WM8951 codec. All register
// I/O happens on the worker; controls only validate and enqueue. Cache reads
// (get_register) are answered inline since they touch no hardware.
type Device struct {
	id    string
	addr  core.CapAddr
	res   core.Resources
	alive atomic.Bool

	params    Params
	cfg       wm8951.Config
	initIface *wm8951.InterfaceConfig

	codec *wm8951.Device

	reqCh chan request
	done  chan struct{}
}

type opCode uint8

const (
	opRead opCode = iota
	opSetRegister
	opSetFormat
	opSetSysclk
	opSetRate
	opHWParams
	opMute
	opSetVolume
	opSetInput
	opSetBias
	opActivate
	opDeactivate
	opSuspend
	opResume
	opResync
	opStop
	opInit
)

var opNames = [...]string{
	opRead:        types.CodecVerbRead,
	opSetRegister: types.CodecVerbSetRegister,
	opSetFormat:   types.CodecVerbSetFormat,
	opSetSysclk:   types.CodecVerbSetSysclk,
	opSetRate:     types.CodecVerbSetRate,
	opHWParams:    types.CodecVerbHWParams,
	opMute:        types.CodecVerbMute,
	opSetVolume:   types.CodecVerbSetVolume,
	opSetInput:    types.CodecVerbSetInput,
	opSetBias:     types.CodecVerbSetBias,
	opActivate:    types.CodecVerbActivate,
	opDeactivate:  types.CodecVerbDeactivate,
	opSuspend:     types.CodecVerbSuspend,
	opResume:      types.CodecVerbResume,
	opResync:      types.CodecVerbResync,
	opStop:        "stop",
	opInit:        "init",
}

type request struct {
	op  opCode
	arg any
}

// ---- core.Device interface ----

func (d *Device) ID() string { return d.id }

func (d *Device) Capabilities() []core.CapabilitySpec {
	var formats []string
	for f := wm8951.FormatRightJustified; f <= wm8951.FormatDSPB; f++ {
		formats = append(formats, f.String())
	}
	info := types.CodecInfo{
		Chip:     "wm8951",
		Bus:      d.params.Bus,
		Addr:     d.cfg.Address,
		SysclkHz: d.cfg.SysclkHz,
		Strict:   d.cfg.StrictRates,
		Rates:    wm8951.SupportedRates(d.cfg.SysclkHz),
		Formats:  formats,
		Widths:   []uint8{16, 20, 24},
	}
	return []core.CapabilitySpec{{
		Domain: d.addr.Domain,
		Kind:   d.addr.Kind,
		Name:   d.addr.Name,
		Info:   types.Info{SchemaVersion: 1, Driver: "wm8951", Detail: info},
	}}
}

func (d *Device) Init(ctx context.Context) error {
	d.reqCh = make(chan request, 8)
	d.done = make(chan struct{})
	d.alive.Store(true)
	go d.worker(ctx)
	return nil
}

func (d *Device) Close() error {
	if !d.alive.Load() {
		return nil
	}
	select {
	case d.reqCh <- request{op: opStop}:
	default:
	}
	// bounded wait; HAL ctx cancellation covers normal shutdown
	t := time.NewTimer(300 * time.Millisecond)
	defer t.Stop()
	select {
	case <-d.done:
	case <-t.C:
		println("[wm8951]", d.id, "worker did not stop in time")
	}
	return nil
}

func (d *Device) Control(_ core.CapAddr, verb string, payload any) (core.EnqueueResult, error) {
	switch verb {
	case types.CodecVerbRead:
		return d.send(request{op: opRead})

	case types.CodecVerbGetRegister:
		v, code := core.As[types.CodecGetRegister](payload)
		if code != "" {
			return fail(code)
		}
		val, err := d.codec.Register(v.Reg)
		if err != nil {
			return fail(errcode.MapDriverErr(err))
		}
		return core.EnqueueResult{OK: true, Value: types.CodecRegister{Reg: v.Reg, Value: val}}, nil

	case types.CodecVerbSetRegister:
		v, code := core.As[types.CodecRegister](payload)
		if code != "" {
			return fail(code)
		}
		if v.Reg != wm8951.RegReset && v.Reg >= wm8951.NumRegs {
			return fail(errcode.OutOfRange)
		}
		return d.send(request{op: opSetRegister, arg: v})

	case types.CodecVerbSetFormat:
		v, code := core.As[types.CodecFormat](payload)
		if code != "" {
			return fail(code)
		}
		ic, code := ifaceFrom(v)
		if code != "" {
			return fail(code)
		}
		return d.send(request{op: opSetFormat, arg: ic})

	case types.CodecVerbSetSysclk:
		v, code := core.As[types.CodecSysclk](payload)
		if code != "" {
			return fail(code)
		}
		if !wm8951.ValidSysclk(v.Hz) {
			return fail(errcode.InvalidParams)
		}
		return d.send(request{op: opSetSysclk, arg: v})

	case types.CodecVerbSetRate:
		v, code := core.As[types.CodecRate](payload)
		if code != "" {
			return fail(code)
		}
		if d.cfg.StrictRates {
			if _, err := wm8951.ResolveStrict(v.ClockHz, v.RateHz); err != nil {
				return fail(errcode.UnsupportedRate)
			}
		}
		return d.send(request{op: opSetRate, arg: v})

	case types.CodecVerbHWParams:
		v, code := core.As[types.CodecHWParams](payload)
		if code != "" {
			return fail(code)
		}
		if _, err := wm8951.Compose(wm8951.InterfaceConfig{Width: widthOrDefault(v.Width)}); err != nil {
			return fail(errcode.InvalidFormat)
		}
		return d.send(request{op: opHWParams, arg: v})

	case types.CodecVerbMute:
		v, code := core.As[types.CodecMute](payload)
		if code != "" {
			return fail(code)
		}
		return d.send(request{op: opMute, arg: v})

	case types.CodecVerbSetVolume:
		v, code := core.As[types.CodecVolume](payload)
		if code != "" {
			return fail(code)
		}
		return d.send(request{op: opSetVolume, arg: v})

	case types.CodecVerbSetInput:
		v, code := core.As[types.CodecInput](payload)
		if code != "" {
			return fail(code)
		}
		return d.send(request{op: opSetInput, arg: v})

	case types.CodecVerbSetBias:
		v, code := core.As[types.CodecBias](payload)
		if code != "" {
			return fail(code)
		}
		lvl, ok := wm8951.ParseBiasLevel(v.Level)
		if !ok {
			return fail(errcode.InvalidParams)
		}
		return d.send(request{op: opSetBias, arg: lvl})

	case types.CodecVerbActivate:
		return d.send(request{op: opActivate})
	case types.CodecVerbDeactivate:
		return d.send(request{op: opDeactivate})
	case types.CodecVerbSuspend:
		return d.send(request{op: opSuspend})
	case types.CodecVerbResume:
		return d.send(request{op: opResume})
	case types.CodecVerbResync:
		return d.send(request{op: opResync})

	default:
		return fail(errcode.Unsupported)
	}
}

func fail(code errcode.Code) (core.EnqueueResult, error) {
	return core.EnqueueResult{OK: false, Error: code}, nil
}

// send is a non-blocking enqueue to the worker.
func (d *Device) send(req request) (core.EnqueueResult, error) {
	if !d.alive.Load() {
		return fail(errcode.Unavailable)
	}
	select {
	case d.reqCh <- req:
		return core.EnqueueResult{OK: true}, nil
	default:
		return fail(errcode.Busy)
	}
}

func widthOrDefault(w uint8) wm8951.SampleWidth {
	if w == 0 {
		return wm8951.Width16
	}
	return wm8951.SampleWidth(w)
}

// ---- Worker ----

func (d *Device) worker(ctx context.Context) {
	defer close(d.done)
	defer d.alive.Store(false)

	d.start()

	for {
		select {
		case <-ctx.Done():
			d.cleanup()
			return
		case req := <-d.reqCh:
			if req.op == opStop {
				d.cleanup()
				return
			}
			d.report(req.op, d.apply(req))
		}
	}
}

// start runs the attach sequence and the optional initial stream setup.
func (d *Device) start() {
	if err := d.codec.Init(); err != nil {
		d.report(opInit, err)
		return
	}
	width := wm8951.Width16
	if d.initIface != nil {
		if err := d.codec.SetInterfaceFormat(*d.initIface); err != nil {
			d.report(opSetFormat, err)
			return
		}
		width = d.initIface.Width
	}
	if d.params.RateHz != 0 {
		if err := d.codec.HWParams(d.params.RateHz, width); err != nil {
			d.report(opHWParams, err)
			return
		}
	}
	d.report(opRead, nil)
}

func (d *Device) apply(req request) error {
	c := d.codec
	switch req.op {
	case opRead:
		return nil
	case opSetRegister:
		v := req.arg.(types.CodecRegister)
		return c.SetRegister(v.Reg, v.Value)
	case opSetFormat:
		return c.SetInterfaceFormat(req.arg.(wm8951.InterfaceConfig))
	case opSetSysclk:
		return c.SetSysclk(req.arg.(types.CodecSysclk).Hz)
	case opSetRate:
		v := req.arg.(types.CodecRate)
		return c.SetSampleRate(v.ClockHz, v.RateHz)
	case opHWParams:
		v := req.arg.(types.CodecHWParams)
		return c.HWParams(v.RateHz, widthOrDefault(v.Width))
	case opMute:
		return c.SetMute(req.arg.(types.CodecMute).On)
	case opSetVolume:
		v := req.arg.(types.CodecVolume)
		return c.SetCaptureVolume(v.Left, v.Right)
	case opSetInput:
		return c.SetInputSelect(req.arg.(types.CodecInput).Mic)
	case opSetBias:
		return c.SetBiasLevel(req.arg.(wm8951.BiasLevel))
	case opActivate:
		return c.Activate()
	case opDeactivate:
		return c.Deactivate()
	case opSuspend:
		return c.Suspend()
	case opResume:
		return c.Resume()
	case opResync:
		return c.Resync()
	}
	return errcode.Unsupported
}

// report publishes the resulting state; operations are not transactional, so
// the value is emitted even when err is set. A failure follows as a tagged
// event plus degraded status.
func (d *Device) report(op opCode, err error) {
	ts := time.Now().UnixNano()
	if s, serr := d.codec.Snapshot(); serr == nil {
		d.res.Pub.Emit(core.Event{Addr: d.addr, Payload: valueFrom(s), TS: ts})
	}
	if err == nil {
		return
	}
	code := string(errcode.Of(err))
	println("[wm8951]", d.id, opNames[op], "failed:", err.Error())
	d.res.Pub.Emit(core.Event{Addr: d.addr, IsEvent: true, EventTag: opNames[op] + "_failed", Payload: code, TS: ts})
	d.res.Pub.Emit(core.Event{Addr: d.addr, Err: code, TS: ts})
}

func (d *Device) cleanup() {
	if err := d.codec.Detach(); err != nil && err != wm8951.ErrDetached {
		println("[wm8951]", d.id, "detach failed:", err.Error())
	}
	d.res.Reg.ReleaseI2C(d.id, core.ResourceID(d.params.Bus))
}

func valueFrom(s wm8951.Snapshot) types.CodecValue {
	v := types.CodecValue{
		Bias:       s.Bias.String(),
		ResumeBias: s.ResumeBias.String(),
		SysclkHz:   s.SysclkHz,
		RateHz:     s.RateHz,
		Width:      uint8(s.Width),
		Muted:      s.Muted,
		Active:     s.Active,
		Regs:       append([]uint16(nil), s.Regs[:]...),
	}
	for i, ok := range s.Confirmed {
		if !ok {
			v.Dirty = append(v.Dirty, uint8(i))
		}
	}
	return v
}
