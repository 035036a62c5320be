package main

import (
	"io"

	"audiocodec-go/x/fmtx"
)

// logI2C accepts every transaction and prints write payloads as hex.
type logI2C struct{ w io.Writer }

func (l logI2C) Tx(addr uint16, w, r []byte) error {
	line := fmtx.Sprintf("[i2c] 0x%02x <-", addr)
	for _, b := range w {
		line += fmtx.Sprintf(" %02x", b)
	}
	if len(r) > 0 {
		clear(r)
		line += fmtx.Sprintf(" (read %d)", len(r))
	}
	_, err := io.WriteString(l.w, line+"\n")
	return err
}
