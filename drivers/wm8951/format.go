package wm8951

// FrameFormat selects the digital audio interface framing.
type FrameFormat uint8

const (
	FormatRightJustified FrameFormat = iota // zero value, hardware default bits
	FormatLeftJustified
	FormatI2S
	FormatDSPA
	FormatDSPB
)

func (f FrameFormat) String() string {
	switch f {
	case FormatRightJustified:
		return "right_j"
	case FormatLeftJustified:
		return "left_j"
	case FormatI2S:
		return "i2s"
	case FormatDSPA:
		return "dsp_a"
	case FormatDSPB:
		return "dsp_b"
	default:
		return "unknown"
	}
}

// ParseFrameFormat accepts the names produced by FrameFormat.String.
func ParseFrameFormat(s string) (FrameFormat, error) {
	switch s {
	case "right_j":
		return FormatRightJustified, nil
	case "left_j":
		return FormatLeftJustified, nil
	case "i2s":
		return FormatI2S, nil
	case "dsp_a":
		return FormatDSPA, nil
	case "dsp_b":
		return FormatDSPB, nil
	}
	return 0, ErrInvalidFormat
}

// SampleWidth is the word length in bits.
type SampleWidth uint8

const (
	Width16 SampleWidth = 16
	Width20 SampleWidth = 20
	Width24 SampleWidth = 24
)

// InterfaceConfig describes the digital audio interface.
type InterfaceConfig struct {
	Master           bool // codec drives BCLK and LRC
	Format           FrameFormat
	BitClockInvert   bool
	FrameClockInvert bool
	Width            SampleWidth
}

func formatBits(f FrameFormat) (uint16, error) {
	switch f {
	case FormatRightJustified:
		return ifaceRightJ, nil
	case FormatLeftJustified:
		return ifaceLeftJ, nil
	case FormatI2S:
		return ifaceI2S, nil
	case FormatDSPA:
		return ifaceDSPA, nil
	case FormatDSPB:
		return ifaceDSPB, nil
	}
	return 0, ErrInvalidFormat
}

func polarityBits(bclkInv, lrcInv bool) uint16 {
	switch {
	case bclkInv && lrcInv:
		return ifaceBCLKInv | ifaceLRP
	case bclkInv:
		return ifaceBCLKInv
	case lrcInv:
		return ifaceLRP
	}
	return 0
}

func widthBits(w SampleWidth) (uint16, error) {
	switch w {
	case Width16:
		return 0, nil
	case Width20:
		return ifaceWidth20, nil
	case Width24:
		return ifaceWidth24, nil
	}
	return 0, ErrInvalidFormat
}

// Compose builds the IFACE register value for cfg. It performs no I/O.
func Compose(cfg InterfaceConfig) (uint16, error) {
	var iface uint16
	if cfg.Master {
		iface |= ifaceMaster
	}
	fb, err := formatBits(cfg.Format)
	if err != nil {
		return 0, err
	}
	wb, err := widthBits(cfg.Width)
	if err != nil {
		return 0, err
	}
	return iface | fb | polarityBits(cfg.BitClockInvert, cfg.FrameClockInvert) | wb, nil
}
