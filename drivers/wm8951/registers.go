// Package wm8951 provides constants for register addresses and bitfields of
// the WM8951 stereo audio codec (WM8731 register family).
package wm8951

const (
	// 7-bit I2C address, selected by GPIO5 at power-up.
	AddressDefault = 0x1a // GPIO5 low
	AddressAlt     = 0x1b // GPIO5 high

	// --- Register addresses (9-bit values, write-only over 2-wire) ---
	RegLINVOL = 0x00 // left line input volume
	RegRINVOL = 0x01 // right line input volume
	RegLOUT1V = 0x02 // left headphone output volume
	RegROUT1V = 0x03 // right headphone output volume
	RegAPANA  = 0x04 // analogue audio path
	RegAPDIGI = 0x05 // digital audio path
	RegPWR    = 0x06 // power down control
	RegIFACE  = 0x07 // digital audio interface format
	RegSRATE  = 0x08 // sampling control
	RegACTIVE = 0x09 // interface activation
	RegReset  = 0x0f // reset pseudo-register, never cached

	// NumRegs is the number of cached registers (0x00..0x09).
	NumRegs = 10

	// --- LINVOL/RINVOL ---
	involMask   = 0x001f
	involMute   = 0x0080
	involUpdate = 0x0100

	// --- APANA ---
	apanaMicBoost = 0x0001
	apanaMuteMic  = 0x0002
	apanaInsel    = 0x0004

	// --- APDIGI ---
	apdigiDACMute = 0x0008

	// --- PWR ---
	pwrPowerOff = 0x0080
	pwrStandby  = 0x0040
	pwrAllDown  = 0xffff

	// --- IFACE ---
	ifaceRightJ    = 0x0000
	ifaceLeftJ     = 0x0001
	ifaceI2S       = 0x0002
	ifaceDSPA      = 0x0003
	ifaceDSPB      = 0x0013
	ifaceWidth20   = 0x0004
	ifaceWidth24   = 0x0008
	ifaceWidthMask = 0x000c
	ifaceLRP       = 0x0010
	ifaceBCLKInv   = 0x0080
	ifaceMaster    = 0x0040

	// --- ACTIVE ---
	activeOn = 0x0001
)

// Power-on register defaults, indexed by address.
var defaults = [NumRegs]uint16{
	0x0097, 0x0097, 0x0079, 0x0079,
	0x000a, 0x0008, 0x009f, 0x000a,
	0x0000, 0x0000,
}

// Accepted master clock frequencies (Hz).
const (
	Sysclk11289600 = 11_289_600
	Sysclk12000000 = 12_000_000
	Sysclk12288000 = 12_288_000
	Sysclk16934400 = 16_934_400
	Sysclk18432000 = 18_432_000
)
