package core

import (
	"audiocodec-go/errcode"

	"tinygo.org/x/drivers"
)

type ResourceID string // e.g. "i2c0"

// ---- Transactional buses ----

// ResourceRegistry hands out exclusive claims on platform buses.
//
// The I2C handle returned by ClaimI2C is serialised by the provider: one
// worker (or lock) per bus, so callers may use it from their own goroutines.
type ResourceRegistry interface {
	ClaimI2C(devID string, id ResourceID) (drivers.I2C, error)
	ReleaseI2C(devID string, id ResourceID)
}

// ---- Device → HAL telemetry (single shape) ----
// By default an Event is a value update that HAL publishes retained on
// .../value. IsEvent publishes to .../event[/<tag>] instead. A non-empty Err
// publishes only .../status=degraded.

type Event struct {
	Addr     CapAddr
	Payload  any
	TS       int64  // Unix ns
	Err      string // errcode string
	IsEvent  bool
	EventTag string
}

// EventEmitter is provided by HAL. Emit must not block; false means dropped.
type EventEmitter interface {
	Emit(ev Event) bool
}

// ---- HAL-injected resources ----

type Resources struct {
	Reg ResourceRegistry
	Pub EventEmitter
}

// Short error codes returned by registries.
var (
	ErrUnknownBus = errcode.UnknownBus
	ErrBusInUse   = errcode.BusInUse
)
