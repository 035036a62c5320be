package wm8951

// EncodeFrame packs a register write into the 2-wire control format:
//
//	byte0 = D15..D9 register address, D8 value bit 8
//	byte1 = D7..D0 value bits 7..0
func EncodeFrame(reg uint8, v uint16) [2]byte {
	return [2]byte{
		reg<<1 | byte((v>>8)&0x0001),
		byte(v & 0x00ff),
	}
}

// DecodeFrame is the inverse of EncodeFrame (9-bit value).
func DecodeFrame(f [2]byte) (reg uint8, v uint16) {
	return f[0] >> 1, uint16(f[0]&0x01)<<8 | uint16(f[1])
}

// send puts one frame on the wire and confirms the cache entry on success.
// Caller holds d.mu.
func (d *Device) send(reg uint8, v uint16) error {
	n, err := d.tr.Send(EncodeFrame(reg, v))
	if err == nil && n != 2 {
		err = ErrShortWrite
	}
	if err != nil {
		return &ioError{reg: reg, cause: err}
	}
	d.cache.Confirm(reg)
	return nil
}

// program updates the cache first, then sends. On a failed send the cache keeps
// the intended value (left unconfirmed) so a retry resends the same thing.
// Caller holds d.mu.
func (d *Device) program(reg uint8, v uint16) error {
	if reg != RegReset {
		if err := d.cache.Write(reg, v); err != nil {
			return err
		}
	}
	return d.send(reg, v)
}

// reset writes the reset pseudo-register. Cached values are left untouched.
func (d *Device) reset() error { return d.program(RegReset, 0) }

// Generic read-modify-write over the cache.
func (d *Device) update(reg uint8, set, clear uint16) error {
	cur, err := d.cache.Read(reg)
	if err != nil {
		return err
	}
	return d.program(reg, (cur|set)&^clear)
}
