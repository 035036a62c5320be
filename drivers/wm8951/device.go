package wm8951

import (
	"sync"

	"audiocodec-go/x/mathx"

	"tinygo.org/x/drivers"
)

// Driver configuration.
type Config struct {
	Address  uint16 // AddressDefault or AddressAlt; 0 selects AddressDefault
	SysclkHz uint32 // initial master clock; 0 leaves it unset until SetSysclk
	// StrictRates rejects clock/rate pairs missing from the divider table.
	// When false the first table row is programmed instead.
	StrictRates bool
}

func DefaultConfig() Config {
	return Config{
		Address:     AddressDefault,
		SysclkHz:    Sysclk12288000,
		StrictRates: true,
	}
}

func (c Config) Validate() error {
	switch c.Address {
	case 0, AddressDefault, AddressAlt:
	default:
		return ErrInvalidConfig
	}
	if c.SysclkHz != 0 && !ValidSysclk(c.SysclkHz) {
		return ErrInvalidSysclk
	}
	return nil
}

// Device is the state of one attached codec: the register cache, bias levels
// and negotiated stream parameters. All methods are safe for concurrent use;
// a single mutex covers every cache update together with its frame.
type Device struct {
	mu    sync.Mutex
	tr    Transport
	cache *Cache

	bias       BiasLevel
	resumeBias BiasLevel // level to restore on Resume

	strict bool
	sysclk uint32
	rate   uint32
	width  SampleWidth
	muted  bool
	active bool
}

// New constructs a Device on an I2C bus without touching the hardware.
func New(bus drivers.I2C, cfg Config) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewWithTransport(NewI2CTransport(bus, cfg.Address), cfg)
}

// NewWithTransport constructs a Device over any frame transport.
func NewWithTransport(tr Transport, cfg Config) (*Device, error) {
	if tr == nil {
		return nil, ErrNoTransport
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Device{
		tr:     tr,
		cache:  NewCache(),
		strict: cfg.StrictRates,
		sysclk: cfg.SysclkHz,
		width:  Width16,
		muted:  defaults[RegAPDIGI]&apdigiDACMute != 0,
	}, nil
}

// Attach constructs and initialises a Device in one step.
func Attach(bus drivers.I2C, cfg Config) (*Device, error) {
	d, err := New(bus, cfg)
	if err != nil {
		return nil, err
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// Init resets the chip, brings bias to Standby and latches the line input
// volume update bits. The cache keeps its power-on defaults across the reset.
func (d *Device) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	if err := d.reset(); err != nil {
		return err
	}
	// The chip is now at its power-on defaults.
	for r := uint8(0); r < NumRegs; r++ {
		if v, _ := d.cache.Read(r); v == defaults[r] {
			d.cache.Confirm(r)
		}
	}
	if err := d.setBias(BiasStandby); err != nil {
		return err
	}
	if err := d.update(RegLINVOL, involUpdate, 0); err != nil {
		return err
	}
	return d.update(RegRINVOL, involUpdate, 0)
}

// Detach powers the chip down and drops the cache. The Device is unusable
// afterwards; every call returns ErrDetached.
func (d *Device) Detach() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	err := d.setBias(BiasOff)
	d.cache = nil
	return err
}

// Register returns the cached value of reg.
func (d *Device) Register(reg uint8) (uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return 0, ErrDetached
	}
	return d.cache.Read(reg)
}

// SetRegister writes v to reg verbatim. RegReset is accepted and resets the chip.
func (d *Device) SetRegister(reg uint8, v uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	if reg != RegReset && int(reg) >= NumRegs {
		return ErrOutOfRange
	}
	return d.program(reg, v)
}

// SetInterfaceFormat composes cfg and writes it to IFACE.
func (d *Device) SetInterfaceFormat(cfg InterfaceConfig) error {
	v, err := Compose(cfg)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	if err := d.program(RegIFACE, v); err != nil {
		return err
	}
	d.width = cfg.Width
	return nil
}

// SetSysclk records the master clock used by HWParams.
func (d *Device) SetSysclk(hz uint32) error {
	if !ValidSysclk(hz) {
		return ErrInvalidSysclk
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	d.sysclk = hz
	return nil
}

func (d *Device) resolve(clk, rate uint32) (Coefficient, error) {
	if d.strict {
		return ResolveStrict(clk, rate)
	}
	return Resolve(clk, rate), nil
}

// SetSampleRate programs SRATE for the (clock, rate) pair.
func (d *Device) SetSampleRate(clockHz, rateHz uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	return d.setRate(clockHz, rateHz)
}

func (d *Device) setRate(clockHz, rateHz uint32) error {
	c, err := d.resolve(clockHz, rateHz)
	if err != nil {
		return err
	}
	if err := d.program(RegSRATE, c.SampleRateBits()); err != nil {
		return err
	}
	d.rate = c.RateHz
	return nil
}

// HWParams applies stream parameters: SRATE from the current sysclk, then
// the IFACE width field. Other IFACE bits keep their cached values.
func (d *Device) HWParams(rateHz uint32, width SampleWidth) error {
	wb, err := widthBits(width)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	if err := d.setRate(d.sysclk, rateHz); err != nil {
		return err
	}
	cur, _ := d.cache.Read(RegIFACE)
	if err := d.program(RegIFACE, cur&^ifaceWidthMask|wb); err != nil {
		return err
	}
	d.width = width
	return nil
}

// SetMute toggles the DAC soft mute. Bias is not affected.
func (d *Device) SetMute(mute bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	var err error
	if mute {
		err = d.update(RegAPDIGI, apdigiDACMute, 0)
	} else {
		err = d.update(RegAPDIGI, 0, apdigiDACMute)
	}
	if err == nil {
		d.muted = mute
	}
	return err
}

// SetCaptureVolume sets the line input volume field of both channels.
// Steps are clamped to 0..31; the input mute bits are kept.
func (d *Device) SetCaptureVolume(left, right uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	for _, ch := range [...]struct {
		reg uint8
		vol uint8
	}{{RegLINVOL, left}, {RegRINVOL, right}} {
		cur, _ := d.cache.Read(ch.reg)
		v := uint16(mathx.Clamp(ch.vol, 0, involMask))
		if err := d.program(ch.reg, cur&^involMask|v|involUpdate); err != nil {
			return err
		}
	}
	return nil
}

// SetInputSelect routes the microphone (true) or line input (false) to the ADC.
func (d *Device) SetInputSelect(mic bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	if mic {
		return d.update(RegAPANA, apanaInsel, 0)
	}
	return d.update(RegAPANA, 0, apanaInsel)
}

func (d *Device) SetBiasLevel(level BiasLevel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	return d.setBias(level)
}

func (d *Device) BiasLevel() BiasLevel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bias
}

// Activate starts the digital audio interface.
func (d *Device) Activate() error { return d.setActive(true) }

// Deactivate stops the digital audio interface.
func (d *Device) Deactivate() error { return d.setActive(false) }

func (d *Device) setActive(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	var v uint16
	if on {
		v = activeOn
	}
	if err := d.program(RegACTIVE, v); err != nil {
		return err
	}
	d.active = on
	return nil
}
