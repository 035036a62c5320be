package types

// ------------------------
// Audio codec
// ------------------------

// CodecInfo is the retained description of one codec capability.
type CodecInfo struct {
	Chip     string   `json:"chip"` // "wm8951"
	Bus      string   `json:"bus"`
	Addr     uint16   `json:"addr"`
	SysclkHz uint32   `json:"sysclk_hz"`
	Strict   bool     `json:"strict_rates"`
	Rates    []uint32 `json:"rates"` // reachable from SysclkHz
	Formats  []string `json:"formats"`
	Widths   []uint8  `json:"widths"`
}

// CodecValue is the retained state published after every operation.
type CodecValue struct {
	Bias       string   `json:"bias"`
	ResumeBias string   `json:"resume_bias"`
	SysclkHz   uint32   `json:"sysclk_hz"`
	RateHz     uint32   `json:"rate_hz"`
	Width      uint8    `json:"width"`
	Muted      bool     `json:"muted"`
	Active     bool     `json:"active"`
	Regs       []uint16 `json:"regs"`
	Dirty      []uint8  `json:"dirty,omitempty"` // unconfirmed registers
}

// CodecRegister is both the set_register payload and the get_register reply.
type CodecRegister struct {
	Reg   uint8  `json:"reg"`
	Value uint16 `json:"value"`
}

type CodecGetRegister struct {
	Reg uint8 `json:"reg"`
}

type CodecFormat struct {
	Master           bool   `json:"master"`
	Format           string `json:"format"` // i2s, left_j, right_j, dsp_a, dsp_b
	BitClockInvert   bool   `json:"bclk_inv"`
	FrameClockInvert bool   `json:"lrc_inv"`
	Width            uint8  `json:"width"` // 16, 20, 24; 0 => 16
}

type CodecSysclk struct {
	Hz uint32 `json:"hz"`
}

type CodecRate struct {
	ClockHz uint32 `json:"clock_hz"`
	RateHz  uint32 `json:"rate_hz"`
}

type CodecHWParams struct {
	RateHz uint32 `json:"rate_hz"`
	Width  uint8  `json:"width"`
}

type CodecMute struct {
	On bool `json:"on"`
}

type CodecVolume struct {
	Left  uint8 `json:"left"`  // 0..31
	Right uint8 `json:"right"` // 0..31
}

type CodecInput struct {
	Mic bool `json:"mic"`
}

type CodecBias struct {
	Level string `json:"level"` // off, standby, prepare, on
}

// Codec control verbs: hal/cap/<domain>/codec/<name>/control/<verb>.
const (
	CodecVerbRead        = "read"
	CodecVerbGetRegister = "get_register"
	CodecVerbSetRegister = "set_register"
	CodecVerbSetFormat   = "set_format"
	CodecVerbSetSysclk   = "set_sysclk"
	CodecVerbSetRate     = "set_rate"
	CodecVerbHWParams    = "hw_params"
	CodecVerbMute        = "mute"
	CodecVerbSetVolume   = "set_volume"
	CodecVerbSetInput    = "set_input"
	CodecVerbSetBias     = "set_bias"
	CodecVerbActivate    = "activate"
	CodecVerbDeactivate  = "deactivate"
	CodecVerbSuspend     = "suspend"
	CodecVerbResume      = "resume"
	CodecVerbResync      = "resync"
)
