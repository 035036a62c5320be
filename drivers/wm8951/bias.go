package wm8951

// BiasLevel is the analogue power state, ordered by increasing power.
type BiasLevel uint8

const (
	BiasOff BiasLevel = iota
	BiasStandby
	BiasPrepare
	BiasOn
)

func (b BiasLevel) String() string {
	switch b {
	case BiasOff:
		return "off"
	case BiasStandby:
		return "standby"
	case BiasPrepare:
		return "prepare"
	case BiasOn:
		return "on"
	default:
		return "unknown"
	}
}

func ParseBiasLevel(s string) (BiasLevel, bool) {
	switch s {
	case "off":
		return BiasOff, true
	case "standby":
		return BiasStandby, true
	case "prepare":
		return BiasPrepare, true
	case "on":
		return BiasOn, true
	}
	return 0, false
}

// setBias issues the writes for level and records it. Any level may follow any
// other; only the PWR and ACTIVE registers are touched. The level is recorded
// even when a write fails. Caller holds d.mu.
func (d *Device) setBias(level BiasLevel) error {
	cur, err := d.cache.Read(RegPWR)
	if err != nil {
		return err
	}
	base := cur &^ pwrPowerOff

	switch level {
	case BiasOn:
		// Only the power-off bit is cleared. A standby bit left by an
		// earlier Standby stays set, matching the reference driver.
		err = d.program(RegPWR, base)
	case BiasPrepare:
	case BiasStandby:
		err = d.program(RegPWR, base|pwrStandby)
	case BiasOff:
		// Hard override: stop the interface, then power everything down.
		err = d.program(RegACTIVE, 0)
		if e := d.program(RegPWR, pwrAllDown); err == nil {
			err = e
		}
		d.active = false
	default:
		return ErrInvalidBias
	}
	d.bias = level
	return err
}
