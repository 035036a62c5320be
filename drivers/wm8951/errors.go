package wm8951

import "errors"

var (
	// Sentinel errors (TinyGo-safe; no fmt)
	ErrOutOfRange      = errors.New("wm8951: register out of range")
	ErrIO              = errors.New("wm8951: i/o error")
	ErrShortWrite      = errors.New("wm8951: short write")
	ErrInvalidFormat   = errors.New("wm8951: invalid interface format")
	ErrUnsupportedRate = errors.New("wm8951: unsupported clock/rate pair")
	ErrInvalidSysclk   = errors.New("wm8951: unsupported sysclk")
	ErrDetached        = errors.New("wm8951: device detached")
	ErrNoTransport     = errors.New("wm8951: transport must be set")
	ErrInvalidBias     = errors.New("wm8951: invalid bias level")
	ErrInvalidConfig   = errors.New("wm8951: invalid config")
)

// ioError ties a failed frame to ErrIO while keeping the transport cause.
type ioError struct {
	reg   uint8
	cause error
}

func (e *ioError) Error() string {
	return ErrIO.Error() + " (reg 0x" + hex2(e.reg) + "): " + e.cause.Error()
}

func (e *ioError) Unwrap() []error { return []error{ErrIO, e.cause} }

func hex2(b uint8) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0f]})
}
