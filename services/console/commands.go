package console

import (
	"context"
	"errors"
	"sort"

	"audiocodec-go/types"
	"audiocodec-go/x/fmtx"
	"audiocodec-go/x/pcmfmt"
	"audiocodec-go/x/strconvx"
)

type command struct {
	usage    string
	min, max int // argument count; max < 0 means unbounded
	help     string
	run      func(ctx context.Context, c *Console, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help": {"", 0, 0, "list commands", func(_ context.Context, c *Console, _ []string) error {
			names := make([]string, 0, len(commands))
			for n := range commands {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				fmtx.Fprintf(c.out, "  %s %s\n      %s\n", n, commands[n].usage, commands[n].help)
			}
			return nil
		}},
		"status": {"", 0, 0, "show cached codec state", func(ctx context.Context, c *Console, _ []string) error {
			return c.status(ctx)
		}},
		"read": simple(types.CodecVerbRead, "republish codec state"),
		"reg": {"<reg>", 1, 1, "read a cached register", func(ctx context.Context, c *Console, a []string) error {
			r, err := parseU(a[0], 8)
			if err != nil {
				return err
			}
			return c.call(ctx, types.CodecVerbGetRegister, types.CodecGetRegister{Reg: uint8(r)})
		}},
		"set": {"<reg> <value>", 2, 2, "write a register (0x0f resets)", func(ctx context.Context, c *Console, a []string) error {
			r, err := parseU(a[0], 8)
			if err != nil {
				return err
			}
			v, err := parseU(a[1], 9)
			if err != nil {
				return err
			}
			return c.call(ctx, types.CodecVerbSetRegister, types.CodecRegister{Reg: uint8(r), Value: uint16(v)})
		}},
		"format": {"<right_j|left_j|i2s|dsp_a|dsp_b> [master] [16|20|24] [ibclk] [ilrc]", 1, 5,
			"set the digital audio interface format", runFormat},
		"sysclk": {"<hz>", 1, 1, "set the master clock frequency", func(ctx context.Context, c *Console, a []string) error {
			hz, err := parseU(a[0], 32)
			if err != nil {
				return err
			}
			return c.call(ctx, types.CodecVerbSetSysclk, types.CodecSysclk{Hz: uint32(hz)})
		}},
		"rate": {"<rate_hz> <mclk_hz>", 2, 2, "program the sample rate divider", func(ctx context.Context, c *Console, a []string) error {
			rate, err := parseU(a[0], 32)
			if err != nil {
				return err
			}
			clk, err := parseU(a[1], 32)
			if err != nil {
				return err
			}
			return c.call(ctx, types.CodecVerbSetRate, types.CodecRate{ClockHz: uint32(clk), RateHz: uint32(rate)})
		}},
		"hw": {"<rate_hz> [16|20|24]", 1, 2, "apply stream parameters", func(ctx context.Context, c *Console, a []string) error {
			rate, err := parseU(a[0], 32)
			if err != nil {
				return err
			}
			var w uint64 = 16
			if len(a) == 2 {
				if w, err = parseU(a[1], 8); err != nil {
					return err
				}
			}
			return c.call(ctx, types.CodecVerbHWParams, types.CodecHWParams{RateHz: uint32(rate), Width: uint8(w)})
		}},
		"wav": {"<file>", 1, 1, "apply stream parameters from a WAV header", runWAV},
		"bias": {"<off|standby|prepare|on>", 1, 1, "set the bias level", func(ctx context.Context, c *Console, a []string) error {
			return c.call(ctx, types.CodecVerbSetBias, types.CodecBias{Level: a[0]})
		}},
		"mute": {"<on|off>", 1, 1, "soft mute the ADC path", func(ctx context.Context, c *Console, a []string) error {
			on, err := parseOnOff(a[0])
			if err != nil {
				return err
			}
			return c.call(ctx, types.CodecVerbMute, types.CodecMute{On: on})
		}},
		"vol": {"<left> [right]", 1, 2, "set capture volume (0..31)", func(ctx context.Context, c *Console, a []string) error {
			l, err := parseU(a[0], 8)
			if err != nil {
				return err
			}
			r := l
			if len(a) == 2 {
				if r, err = parseU(a[1], 8); err != nil {
					return err
				}
			}
			return c.call(ctx, types.CodecVerbSetVolume, types.CodecVolume{Left: uint8(l), Right: uint8(r)})
		}},
		"input": {"<mic|line>", 1, 1, "select the ADC input", func(ctx context.Context, c *Console, a []string) error {
			switch a[0] {
			case "mic":
				return c.call(ctx, types.CodecVerbSetInput, types.CodecInput{Mic: true})
			case "line":
				return c.call(ctx, types.CodecVerbSetInput, types.CodecInput{Mic: false})
			}
			return errUsage
		}},
		"activate":   simple(types.CodecVerbActivate, "enable the digital interface"),
		"deactivate": simple(types.CodecVerbDeactivate, "disable the digital interface"),
		"suspend":    simple(types.CodecVerbSuspend, "power down, remembering the bias level"),
		"resume":     simple(types.CodecVerbResume, "replay registers and restore bias"),
		"resync":     simple(types.CodecVerbResync, "rewrite unconfirmed registers"),
	}
}

func simple(verb, help string) command {
	return command{"", 0, 0, help, func(ctx context.Context, c *Console, _ []string) error {
		return c.call(ctx, verb, nil)
	}}
}

func runFormat(ctx context.Context, c *Console, a []string) error {
	f := types.CodecFormat{Format: a[0], Width: 16}
	for _, tok := range a[1:] {
		switch tok {
		case "master":
			f.Master = true
		case "slave":
			f.Master = false
		case "ibclk":
			f.BitClockInvert = true
		case "ilrc":
			f.FrameClockInvert = true
		default:
			w, err := parseU(tok, 8)
			if err != nil {
				return errors.New("bad format option: " + tok)
			}
			f.Width = uint8(w)
		}
	}
	return c.call(ctx, types.CodecVerbSetFormat, f)
}

func runWAV(ctx context.Context, c *Console, a []string) error {
	rc, err := c.opts.Open(a[0])
	if err != nil {
		return err
	}
	defer rc.Close()
	f, err := pcmfmt.FromWAV(rc)
	if err != nil {
		return err
	}
	af, err := f.Audio()
	if err != nil {
		return err
	}
	w, _ := f.Width()
	fmtx.Fprintf(c.out, "%s: %d Hz, %d ch, %d bit\n", a[0], af.SampleRate, af.NumChannels, f.BitDepth)
	return c.call(ctx, types.CodecVerbHWParams, types.CodecHWParams{RateHz: f.RateHz, Width: w})
}

// parseU accepts decimal, 0x hex and 0b binary.
func parseU(s string, bits int) (uint64, error) {
	v, err := strconvx.ParseUint(s, 0, bits)
	if err != nil {
		return 0, errors.New("bad number: " + s)
	}
	return v, nil
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, errors.New("want on or off: " + s)
}
