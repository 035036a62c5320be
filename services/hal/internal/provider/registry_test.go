package provider

import (
	"sync"
	"testing"
	"time"

	"audiocodec-go/errcode"
	"audiocodec-go/services/hal/internal/core"

	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*recI2C)(nil)

type recI2C struct {
	mu    sync.Mutex
	addrs []uint16
	delay time.Duration
}

func (f *recI2C) Tx(addr uint16, w, r []byte) error {
	time.Sleep(f.delay)
	f.mu.Lock()
	f.addrs = append(f.addrs, addr)
	f.mu.Unlock()
	return nil
}

func TestClaimExclusive(t *testing.T) {
	r := NewRegistry(map[string]drivers.I2C{"i2c0": &recI2C{}})
	defer r.Close()

	if _, err := r.ClaimI2C("codec0", "i2c0"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ClaimI2C("codec0", "i2c0"); err != nil {
		t.Fatalf("same owner reclaim: %v", err)
	}
	if _, err := r.ClaimI2C("codec1", "i2c0"); err != core.ErrBusInUse {
		t.Fatalf("err=%v", err)
	}
	r.ReleaseI2C("codec1", "i2c0") // not the owner; ignored
	if _, err := r.ClaimI2C("codec1", "i2c0"); err != core.ErrBusInUse {
		t.Fatalf("err=%v", err)
	}
	r.ReleaseI2C("codec0", "i2c0")
	if _, err := r.ClaimI2C("codec1", "i2c0"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ClaimI2C("codec1", "i2c9"); err != core.ErrUnknownBus {
		t.Fatalf("err=%v", err)
	}
}

func TestTxSerialised(t *testing.T) {
	hw := &recI2C{}
	r := NewRegistry(map[string]drivers.I2C{"i2c0": hw})
	defer r.Close()
	bus, _ := r.ClaimI2C("codec0", "i2c0")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(a uint16) {
			defer wg.Done()
			if err := bus.Tx(a, []byte{0x0c, 0x5f}, nil); err != nil {
				t.Error(err)
			}
		}(uint16(0x1a + i%2))
	}
	wg.Wait()
	if len(hw.addrs) != 8 {
		t.Fatalf("tx count=%d", len(hw.addrs))
	}
}

func TestTxTimeout(t *testing.T) {
	hw := &recI2C{delay: 100 * time.Millisecond}
	r := NewRegistry(map[string]drivers.I2C{"i2c0": hw})
	r.timeout = 20 * time.Millisecond
	defer r.Close()
	bus, _ := r.ClaimI2C("codec0", "i2c0")

	if err := bus.Tx(0x1a, []byte{0, 0}, nil); err != errcode.Timeout {
		t.Fatalf("err=%v", err)
	}
}
