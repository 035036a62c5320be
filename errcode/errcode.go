package errcode

import (
	"errors"
	"sync"
)

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK                Code = "ok"
	Busy              Code = "busy"
	Unsupported       Code = "unsupported"
	Unavailable       Code = "unavailable"
	InvalidParams     Code = "invalid_params"
	InvalidPayload    Code = "invalid_payload"
	UnknownCapability Code = "unknown_capability"
	HALNotReady       Code = "hal_not_ready"
	InvalidTopic      Code = "invalid_topic"

	UnknownBus Code = "unknown_bus"
	BusInUse   Code = "bus_in_use"
	Timeout    Code = "timeout"

	// Codec
	OutOfRange      Code = "out_of_range"
	IOError         Code = "io_error"
	InvalidFormat   Code = "invalid_format"
	UnsupportedRate Code = "unsupported_rate"
	Detached        Code = "detached"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error. Registered
// driver sentinels win over any Code found deeper in the chain.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c := MapDriverErr(err); c != Error {
		return c
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return Error
}

type driverErr struct {
	err  error
	code Code
}

var (
	mapMu  sync.RWMutex
	mapped []driverErr
)

// RegisterDriverErr associates a driver sentinel with a Code. Drivers stay
// free of bus vocabulary; HAL devices register their mapping at init.
func RegisterDriverErr(sentinel error, c Code) {
	mapMu.Lock()
	mapped = append(mapped, driverErr{err: sentinel, code: c})
	mapMu.Unlock()
}

// MapDriverErr maps low-level driver errors to a Code. The first registered
// sentinel matched by errors.Is wins.
func MapDriverErr(err error) Code {
	if err == nil {
		return OK
	}
	mapMu.RLock()
	defer mapMu.RUnlock()
	for _, m := range mapped {
		if errors.Is(err, m.err) {
			return m.code
		}
	}
	return Error
}
