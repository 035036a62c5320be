package wm8951

// Snapshot is a consistent copy of the codec state.
type Snapshot struct {
	Bias       BiasLevel
	ResumeBias BiasLevel
	SysclkHz   uint32
	RateHz     uint32
	Width      SampleWidth
	Muted      bool
	Active     bool
	Regs       [NumRegs]uint16
	Confirmed  [NumRegs]bool
}

// Dirty reports whether any register may differ from the hardware.
func (s Snapshot) Dirty() bool {
	for _, ok := range s.Confirmed {
		if !ok {
			return true
		}
	}
	return false
}

func (d *Device) Snapshot() (Snapshot, error) {
	var s Snapshot
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		return s, ErrDetached
	}
	s.Bias = d.bias
	s.ResumeBias = d.resumeBias
	s.SysclkHz = d.sysclk
	s.RateHz = d.rate
	s.Width = d.width
	s.Muted = d.muted
	s.Active = d.active
	s.Regs = d.cache.Snapshot()
	for i := range s.Confirmed {
		s.Confirmed[i] = d.cache.Confirmed(uint8(i))
	}
	return s, nil
}
