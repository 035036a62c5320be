package wm8951

// Cache mirrors every writable register. The WM8951 cannot be read back over
// the 2-wire interface, so this is the only record of programmed state.
//
// Each entry also carries a confirmed flag: set once the transport accepted
// the frame carrying the current value, cleared whenever the value is written
// ahead of a send. Unconfirmed entries may differ from the hardware.
type Cache struct {
	vals      [NumRegs]uint16
	confirmed [NumRegs]bool
}

// NewCache returns a cache seeded with the power-on defaults. Entries start
// unconfirmed until the first successful write or resume replay.
func NewCache() *Cache {
	c := &Cache{}
	c.vals = defaults
	return c
}

// Read returns the cached value. The reset register always reads 0.
func (c *Cache) Read(reg uint8) (uint16, error) {
	if reg == RegReset {
		return 0, nil
	}
	if int(reg) >= NumRegs {
		return 0, ErrOutOfRange
	}
	return c.vals[reg], nil
}

// Write stores v unconditionally and marks the entry unconfirmed.
func (c *Cache) Write(reg uint8, v uint16) error {
	if int(reg) >= NumRegs {
		return ErrOutOfRange
	}
	c.vals[reg] = v
	c.confirmed[reg] = false
	return nil
}

// Confirm records that the hardware accepted the cached value of reg.
func (c *Cache) Confirm(reg uint8) {
	if int(reg) < NumRegs {
		c.confirmed[reg] = true
	}
}

func (c *Cache) Confirmed(reg uint8) bool {
	return int(reg) < NumRegs && c.confirmed[reg]
}

// Unconfirmed lists registers whose cached value may not match the device,
// in ascending address order.
func (c *Cache) Unconfirmed() []uint8 {
	var out []uint8
	for i := range c.vals {
		if !c.confirmed[i] {
			out = append(out, uint8(i))
		}
	}
	return out
}

// Snapshot copies all cached values.
func (c *Cache) Snapshot() [NumRegs]uint16 { return c.vals }
