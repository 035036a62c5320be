package types

// ------------------------
// Capability addressing & kinds
// ------------------------

type Kind string

const (
	KindCodec Kind = "codec"
)

// CapabilityAddress identifies a public capability on the bus.
type CapabilityAddress struct {
	Domain string `json:"domain"` // e.g. "audio"
	Kind   Kind   `json:"kind"`
	Name   string `json:"name"`
}
