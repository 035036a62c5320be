package wm8951

import "tinygo.org/x/drivers"

// Transport sends one encoded register frame. Success means exactly two bytes
// were accepted; there is no readback.
type Transport interface {
	Send(frame [2]byte) (int, error)
}

// I2CTransport sends frames as plain I2C writes to one bus address.
type I2CTransport struct {
	bus  drivers.I2C
	addr uint16
	w    [2]byte
}

func NewI2CTransport(bus drivers.I2C, addr uint16) *I2CTransport {
	if addr == 0 {
		addr = AddressDefault
	}
	return &I2CTransport{bus: bus, addr: addr}
}

func (t *I2CTransport) Addr() uint16 { return t.addr }

// Send issues a write-only transaction. drivers.I2C reports all-or-nothing, so
// a nil error counts as both bytes accepted.
func (t *I2CTransport) Send(frame [2]byte) (int, error) {
	t.w = frame
	if err := t.bus.Tx(t.addr, t.w[:], nil); err != nil {
		return 0, err
	}
	return len(t.w), nil
}
