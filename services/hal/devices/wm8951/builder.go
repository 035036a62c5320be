package wm8951dev

import (
	"context"

	"audiocodec-go/drivers/wm8951"
	"audiocodec-go/errcode"
	"audiocodec-go/services/hal/internal/core"
	"audiocodec-go/types"
	"audiocodec-go/x/jsonx"
)

// Params defines wiring and start-up state for one codec instance.
type Params struct {
	Bus      string `json:"bus"`       // e.g. "i2c0" (required)
	Addr     uint16 `json:"addr"`      // 0 => wm8951.AddressDefault
	SysclkHz uint32 `json:"sysclk_hz"` // 0 => 12.288 MHz
	// StrictRates nil keeps the driver default (strict).
	StrictRates *bool `json:"strict_rates,omitempty"`

	Domain string `json:"domain"` // default "audio"
	Name   string `json:"name"`   // default device id

	// Optional interface format and rate applied after init.
	Format *types.CodecFormat `json:"format,omitempty"`
	RateHz uint32             `json:"rate_hz,omitempty"`
}

// Builder registration.
func init() {
	core.RegisterBuilder("wm8951", builder{})

	errcode.RegisterDriverErr(wm8951.ErrIO, errcode.IOError)
	errcode.RegisterDriverErr(wm8951.ErrOutOfRange, errcode.OutOfRange)
	errcode.RegisterDriverErr(wm8951.ErrInvalidFormat, errcode.InvalidFormat)
	errcode.RegisterDriverErr(wm8951.ErrUnsupportedRate, errcode.UnsupportedRate)
	errcode.RegisterDriverErr(wm8951.ErrDetached, errcode.Detached)
	errcode.RegisterDriverErr(wm8951.ErrInvalidSysclk, errcode.InvalidParams)
	errcode.RegisterDriverErr(wm8951.ErrInvalidBias, errcode.InvalidParams)
	errcode.RegisterDriverErr(wm8951.ErrInvalidConfig, errcode.InvalidParams)
}

type builder struct{}

func decodeParams(v any) (Params, error) {
	switch x := v.(type) {
	case Params:
		return x, nil
	case *Params:
		if x != nil {
			return *x, nil
		}
	case map[string]any, []byte, string:
		var p Params
		if err := jsonx.Decode(x, &p); err == nil {
			return p, nil
		}
	}
	return Params{}, errcode.InvalidParams
}

func (builder) Build(ctx context.Context, in core.BuilderInput) (core.Device, error) {
	p, err := decodeParams(in.Params)
	if err != nil {
		return nil, err
	}
	if p.Bus == "" {
		return nil, errcode.InvalidParams
	}
	if p.Domain == "" {
		p.Domain = "audio"
	}
	if p.Name == "" {
		p.Name = in.ID
	}

	cfg := wm8951.DefaultConfig()
	if p.Addr != 0 {
		cfg.Address = p.Addr
	}
	if p.SysclkHz != 0 {
		cfg.SysclkHz = p.SysclkHz
	}
	if p.StrictRates != nil {
		cfg.StrictRates = *p.StrictRates
	}
	if err := cfg.Validate(); err != nil {
		return nil, errcode.InvalidParams
	}
	var initIface *wm8951.InterfaceConfig
	if p.Format != nil {
		ic, code := ifaceFrom(*p.Format)
		if code != "" {
			return nil, code
		}
		initIface = &ic
	}

	i2c, err := in.Res.Reg.ClaimI2C(in.ID, core.ResourceID(p.Bus))
	if err != nil {
		return nil, err
	}
	codec, err := wm8951.New(i2c, cfg)
	if err != nil {
		in.Res.Reg.ReleaseI2C(in.ID, core.ResourceID(p.Bus))
		return nil, errcode.InvalidParams
	}

	return &Device{
		id:        in.ID,
		addr:      core.CapAddr{Domain: p.Domain, Kind: types.KindCodec, Name: p.Name},
		res:       in.Res,
		params:    p,
		cfg:       cfg,
		codec:     codec,
		initIface: initIface,
	}, nil
}

// ifaceFrom converts the bus payload to the driver's interface config.
func ifaceFrom(f types.CodecFormat) (wm8951.InterfaceConfig, errcode.Code) {
	ff, err := wm8951.ParseFrameFormat(f.Format)
	if err != nil {
		return wm8951.InterfaceConfig{}, errcode.InvalidFormat
	}
	w := wm8951.SampleWidth(f.Width)
	if w == 0 {
		w = wm8951.Width16
	}
	ic := wm8951.InterfaceConfig{
		Master:           f.Master,
		Format:           ff,
		BitClockInvert:   f.BitClockInvert,
		FrameClockInvert: f.FrameClockInvert,
		Width:            w,
	}
	if _, err := wm8951.Compose(ic); err != nil {
		return wm8951.InterfaceConfig{}, errcode.InvalidFormat
	}
	return ic, ""
}
