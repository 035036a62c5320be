package wm8951

// Coefficient is one master-clock divider setting.
type Coefficient struct {
	MClkHz uint32 // input master clock
	RateHz uint32 // target sample rate
	FS     uint16 // oversampling ratio MClk/Rate
	SR     uint8  // 4-bit rate code
	BOSR   uint8  // base oversampling flag
	USB    uint8  // USB (12 MHz) mode flag
}

// SampleRateBits is the SRATE register value for this row.
func (c Coefficient) SampleRateBits() uint16 {
	return uint16(c.SR&0x0f)<<2 | uint16(c.BOSR&1)<<1 | uint16(c.USB&1)
}

// codec mclk clock divider coefficients (declaration order matters).
var coeffs = [...]Coefficient{
	// 48k
	{12288000, 48000, 256, 0x0, 0x0, 0x0},
	{18432000, 48000, 384, 0x0, 0x1, 0x0},
	{12000000, 48000, 250, 0x0, 0x0, 0x1},

	// 32k
	{12288000, 32000, 384, 0x6, 0x0, 0x0},
	{18432000, 32000, 576, 0x6, 0x1, 0x0},
	{12000000, 32000, 375, 0x6, 0x0, 0x1},

	// 8k
	{12288000, 8000, 1536, 0x3, 0x0, 0x0},
	{18432000, 8000, 2304, 0x3, 0x1, 0x0},
	{11289600, 8000, 1408, 0xb, 0x0, 0x0},
	{16934400, 8000, 2112, 0xb, 0x1, 0x0},
	{12000000, 8000, 1500, 0x3, 0x0, 0x1},

	// 96k
	{12288000, 96000, 128, 0x7, 0x0, 0x0},
	{18432000, 96000, 192, 0x7, 0x1, 0x0},
	{12000000, 96000, 125, 0x7, 0x0, 0x1},

	// 44.1k
	{11289600, 44100, 256, 0x8, 0x0, 0x0},
	{16934400, 44100, 384, 0x8, 0x1, 0x0},
	{12000000, 44100, 272, 0x8, 0x1, 0x1},

	// 88.2k
	{11289600, 88200, 128, 0xf, 0x0, 0x0},
	{16934400, 88200, 192, 0xf, 0x1, 0x0},
	{12000000, 88200, 136, 0xf, 0x1, 0x1},
}

// Coefficients returns a copy of the divider table in declaration order.
func Coefficients() []Coefficient {
	out := make([]Coefficient, len(coeffs))
	copy(out, coeffs[:])
	return out
}

func lookup(mclk, rate uint32) (int, bool) {
	for i := range coeffs {
		if coeffs[i].RateHz == rate && coeffs[i].MClkHz == mclk {
			return i, true
		}
	}
	return 0, false
}

// Resolve returns the first row matching (mclk, rate) exactly. When nothing
// matches it falls back to row 0 (12.288 MHz / 48 kHz), which is what deployed
// configurations have always received.
func Resolve(mclk, rate uint32) Coefficient {
	i, _ := lookup(mclk, rate)
	return coeffs[i]
}

// ResolveStrict is Resolve without the fallback.
func ResolveStrict(mclk, rate uint32) (Coefficient, error) {
	i, ok := lookup(mclk, rate)
	if !ok {
		return Coefficient{}, ErrUnsupportedRate
	}
	return coeffs[i], nil
}

// ValidSysclk reports whether freq is one of the supported master clocks.
func ValidSysclk(freq uint32) bool {
	switch freq {
	case Sysclk11289600, Sysclk12000000, Sysclk12288000, Sysclk16934400, Sysclk18432000:
		return true
	}
	return false
}

// SupportedRates lists the distinct sample rates reachable from mclk.
func SupportedRates(mclk uint32) []uint32 {
	var out []uint32
	for i := range coeffs {
		if coeffs[i].MClkHz == mclk {
			out = append(out, coeffs[i].RateHz)
		}
	}
	return out
}
