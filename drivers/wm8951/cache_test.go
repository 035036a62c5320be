package wm8951

import (
	"errors"
	"testing"
)

func TestCacheWriteRead(t *testing.T) {
	c := NewCache()
	for reg := uint8(0); reg < NumRegs; reg++ {
		for _, v := range []uint16{0, 0x1ff, 0xffff, uint16(reg) * 3} {
			if err := c.Write(reg, v); err != nil {
				t.Fatalf("write 0x%02x: %v", reg, err)
			}
			got, err := c.Read(reg)
			if err != nil || got != v {
				t.Fatalf("read 0x%02x = 0x%04x,%v want 0x%04x", reg, got, err, v)
			}
		}
	}
}

func TestCacheDefaults(t *testing.T) {
	c := NewCache()
	want := [NumRegs]uint16{0x97, 0x97, 0x79, 0x79, 0x0a, 0x08, 0x9f, 0x0a, 0, 0}
	if c.Snapshot() != want {
		t.Fatalf("defaults=%v want %v", c.Snapshot(), want)
	}
	if len(c.Unconfirmed()) != NumRegs {
		t.Fatalf("fresh cache should be fully unconfirmed")
	}
}

func TestCacheResetReadsZero(t *testing.T) {
	c := NewCache()
	c.Write(RegACTIVE, 1)
	if v, err := c.Read(RegReset); err != nil || v != 0 {
		t.Fatalf("reset read = %v,%v", v, err)
	}
}

func TestCacheOutOfRange(t *testing.T) {
	c := NewCache()
	before := c.Snapshot()
	for _, reg := range []uint8{NumRegs, 0x0e, 0x10, 0x7f} {
		if _, err := c.Read(reg); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("read 0x%02x err=%v", reg, err)
		}
		if err := c.Write(reg, 1); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("write 0x%02x err=%v", reg, err)
		}
	}
	if c.Snapshot() != before {
		t.Fatal("out of range write mutated cache")
	}
}

func TestCacheConfirm(t *testing.T) {
	c := NewCache()
	c.Confirm(RegPWR)
	if !c.Confirmed(RegPWR) {
		t.Fatal("PWR should be confirmed")
	}
	c.Write(RegPWR, 0x10)
	if c.Confirmed(RegPWR) {
		t.Fatal("write must clear confirmed")
	}
	c.Confirm(RegReset) // ignored
	if c.Confirmed(RegReset) {
		t.Fatal("reset is never cached")
	}
}
