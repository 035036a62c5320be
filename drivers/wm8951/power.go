package wm8951

// Suspend stops the interface and powers the chip down. The bias level active
// before the call is kept so Resume can restore it; the cache is preserved.
func (d *Device) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	d.resumeBias = d.bias
	err := d.program(RegACTIVE, 0)
	if e := d.setBias(BiasOff); err == nil {
		err = e
	}
	return err
}

// Resume rewrites the whole cache to the device in ascending address order,
// then steps bias through Standby to the level recorded by Suspend.
//
// A failed frame does not stop the replay: every register is attempted, and
// the first error is returned. Registers whose frame failed stay unconfirmed
// and can be retried with Resync.
func (d *Device) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	err := d.replay(allRegs())
	if e := d.setBias(BiasStandby); err == nil {
		err = e
	}
	if e := d.setBias(d.resumeBias); err == nil {
		err = e
	}
	return err
}

// Resync re-sends only the registers not confirmed by the transport.
func (d *Device) Resync() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return ErrDetached
	}
	return d.replay(d.cache.Unconfirmed())
}

// replay sends cached values verbatim, without touching the cache values.
// Caller holds d.mu.
func (d *Device) replay(regs []uint8) error {
	var first error
	for _, r := range regs {
		v, err := d.cache.Read(r)
		if err == nil {
			err = d.send(r, v)
		}
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

func allRegs() []uint8 {
	out := make([]uint8, NumRegs)
	for i := range out {
		out[i] = uint8(i)
	}
	return out
}
