package wm8951

import (
	"errors"
	"testing"
)

func TestCompose(t *testing.T) {
	cases := []struct {
		name string
		cfg  InterfaceConfig
		want uint16
	}{
		{"i2s slave 16", InterfaceConfig{Format: FormatI2S, Width: Width16}, 0x0002},
		{"right_j master 24", InterfaceConfig{Master: true, Format: FormatRightJustified, Width: Width24}, 0x0048},
		{"left_j master 24", InterfaceConfig{Master: true, Format: FormatLeftJustified, Width: Width24}, 0x0049},
		{"dsp_a 20", InterfaceConfig{Format: FormatDSPA, Width: Width20}, 0x0007},
		{"dsp_b", InterfaceConfig{Format: FormatDSPB, Width: Width16}, 0x0013},
		{"ib_if", InterfaceConfig{Format: FormatI2S, BitClockInvert: true, FrameClockInvert: true, Width: Width16}, 0x0092},
		{"ib_nf", InterfaceConfig{Format: FormatI2S, BitClockInvert: true, Width: Width16}, 0x0082},
		{"nb_if", InterfaceConfig{Format: FormatI2S, FrameClockInvert: true, Width: Width16}, 0x0012},
	}
	for _, c := range cases {
		got, err := Compose(c.cfg)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("%s: 0x%04x want 0x%04x", c.name, got, c.want)
		}
	}
}

func TestComposeInvalid(t *testing.T) {
	for _, cfg := range []InterfaceConfig{
		{Format: FrameFormat(9), Width: Width16},
		{Format: FormatI2S, Width: 32},
		{Format: FormatI2S},
	} {
		if _, err := Compose(cfg); !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("%+v: err=%v", cfg, err)
		}
	}
}

func TestParseFrameFormat(t *testing.T) {
	for f := FormatRightJustified; f <= FormatDSPB; f++ {
		got, err := ParseFrameFormat(f.String())
		if err != nil || got != f {
			t.Fatalf("%s: %v,%v", f, got, err)
		}
	}
	if _, err := ParseFrameFormat("pcm"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("err=%v", err)
	}
}

func TestSetInterfaceFormatWrites(t *testing.T) {
	d, tr := newTestDevice(t, DefaultConfig())
	err := d.SetInterfaceFormat(InterfaceConfig{Master: true, Format: FormatI2S, Width: Width24})
	if err != nil {
		t.Fatal(err)
	}
	wantWrites(t, tr.writes(), write{RegIFACE, 0x004a})
}
