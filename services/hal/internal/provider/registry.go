package provider

import (
	"sync"
	"time"

	"audiocodec-go/errcode"
	"audiocodec-go/services/hal/internal/core"

	"tinygo.org/x/drivers"
)

// Ensure the provider satisfies the contracts at compile time.
var _ core.ResourceRegistry = (*Registry)(nil)

// DefaultTxTimeout bounds both the enqueue and the completion of one Tx.
const DefaultTxTimeout = 250 * time.Millisecond

// -----------------------------------------------------------------------------
// I²C owner (one worker per bus)
// -----------------------------------------------------------------------------

// request posted to the per-bus worker
type i2cReq struct {
	addr uint16
	w, r []byte
	done chan error // buffered(1); worker replies best-effort
}

// per-bus owner that hosts a single worker goroutine
type i2cOwner struct {
	id   core.ResourceID
	hw   drivers.I2C
	reqs chan i2cReq
	quit chan struct{}
}

func newI2COwner(id core.ResourceID, hw drivers.I2C) *i2cOwner {
	o := &i2cOwner{
		id:   id,
		hw:   hw,
		reqs: make(chan i2cReq, 16),
		quit: make(chan struct{}),
	}
	go o.loop()
	return o
}

func (o *i2cOwner) loop() {
	for {
		select {
		case req := <-o.reqs:
			err := o.hw.Tx(req.addr, req.w, req.r)
			// best-effort reply; do not block the worker
			select {
			case req.done <- err:
			default:
			}
		case <-o.quit:
			return
		}
	}
}

func (o *i2cOwner) stop() { close(o.quit) }

// driversI2C adapts the owner to tinygo.org/x/drivers.I2C.
// It posts a request and optionally enforces a per-call timeout.
type driversI2C struct {
	o       *i2cOwner
	timeout time.Duration // 0 => no deadline
}

var _ drivers.I2C = (*driversI2C)(nil)

func (d *driversI2C) Tx(addr uint16, w, r []byte) error {
	req := i2cReq{addr: addr, w: w, r: r, done: make(chan error, 1)}

	if d.timeout <= 0 {
		d.o.reqs <- req
		return <-req.done
	}

	t := time.NewTimer(d.timeout)
	defer t.Stop()
	select {
	case d.o.reqs <- req:
	case <-t.C:
		return errcode.Busy
	}
	t.Reset(d.timeout)
	select {
	case err := <-req.done:
		return err
	case <-t.C:
		return errcode.Timeout
	}
}

// -----------------------------------------------------------------------------
// Resource registry
// -----------------------------------------------------------------------------

// Registry owns the platform buses and grants exclusive per-device claims.
type Registry struct {
	mu      sync.Mutex
	owners  map[core.ResourceID]*i2cOwner
	claims  map[core.ResourceID]string // bus id -> devID
	timeout time.Duration
}

// NewRegistry starts one worker per bus. Keys are bus ids such as "i2c0".
func NewRegistry(buses map[string]drivers.I2C) *Registry {
	r := &Registry{
		owners:  make(map[core.ResourceID]*i2cOwner, len(buses)),
		claims:  make(map[core.ResourceID]string),
		timeout: DefaultTxTimeout,
	}
	for id, hw := range buses {
		if hw == nil {
			continue
		}
		r.owners[core.ResourceID(id)] = newI2COwner(core.ResourceID(id), hw)
	}
	return r
}

// ClaimI2C is exclusive: a second device on the same bus gets BusInUse. The
// same device may claim again.
func (r *Registry) ClaimI2C(devID string, id core.ResourceID) (drivers.I2C, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.owners[id]
	if o == nil {
		return nil, core.ErrUnknownBus
	}
	if cur, held := r.claims[id]; held && cur != devID {
		return nil, core.ErrBusInUse
	}
	r.claims[id] = devID
	return &driversI2C{o: o, timeout: r.timeout}, nil
}

func (r *Registry) ReleaseI2C(devID string, id core.ResourceID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claims[id] == devID {
		delete(r.claims, id)
	}
}

// Close stops the per-bus workers.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.owners {
		o.stop()
		delete(r.owners, id)
	}
}
