package core

import (
	"context"

	"audiocodec-go/errcode"
	"audiocodec-go/types"
)

// ---- Capability & device model ----

// CapAddr is the public address of one capability: hal/cap/<domain>/<kind>/<name>.
type CapAddr struct {
	Domain string
	Kind   types.Kind
	Name   string
}

type CapabilitySpec struct {
	Domain string
	Kind   types.Kind
	Name   string
	Info   types.Info
}

// EnqueueResult is the immediate answer to a control. OK means the request
// was accepted; work may complete later on the device's own goroutine. Value,
// when set, is sent as the reply payload instead of OKReply.
type EnqueueResult struct {
	OK    bool
	Error errcode.Code
	Value any
}

// Device is one configured HAL device. Control must not block.
type Device interface {
	ID() string
	Capabilities() []CapabilitySpec
	Init(ctx context.Context) error
	Control(addr CapAddr, verb string, payload any) (EnqueueResult, error)
	Close() error // releases claimed resources
}

// Builder input
type BuilderInput struct {
	ID, Type string
	Params   any
	Res      Resources
}

type Builder interface {
	Build(ctx context.Context, in BuilderInput) (Device, error)
}
