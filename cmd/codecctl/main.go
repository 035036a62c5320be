// Command codecctl drives a WM8951 codec on a Linux I²C bus. It runs the bus,
// HAL and an operator console on stdin/stdout.
//
//	codecctl -bus 1 -addr 0x1a -sysclk 12288000 -format i2s -master -rate 48000
//	codecctl -dry-run            # log frames instead of touching hardware
//	codecctl -board host -bus 1  # wiring from the embedded board file
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"audiocodec-go/bus"
	"audiocodec-go/services/config"
	"audiocodec-go/services/console"
	"audiocodec-go/services/hal"
	wm8951dev "audiocodec-go/services/hal/devices/wm8951"
	"audiocodec-go/services/heartbeat"
	"audiocodec-go/types"
	"audiocodec-go/x/strconvx"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

func main() {
	var (
		busName = flag.String("bus", "1", "I²C bus name or number (periph i2creg)")
		addr    = flag.String("addr", "0x1a", "codec 7-bit address (0x1a or 0x1b)")
		sysclk  = flag.Uint("sysclk", 12_288_000, "master clock in Hz")
		strict  = flag.Bool("strict", true, "reject sample rates the master clock cannot reach")
		format  = flag.String("format", "i2s", "interface format: right_j, left_j, i2s, dsp_a, dsp_b")
		master  = flag.Bool("master", false, "codec drives BCLK and LRC")
		width   = flag.Uint("width", 16, "word length: 16, 20 or 24")
		rate    = flag.Uint("rate", 48_000, "initial sample rate in Hz; 0 skips")
		hz      = flag.Uint("hz", 0, "bus speed in Hz; 0 keeps the kernel setting")
		board   = flag.String("board", "", "use an embedded board config instead of flags")
		dryRun  = flag.Bool("dry-run", false, "log I²C frames instead of opening a bus")
	)
	flag.Parse()

	a, err := strconvx.ParseUint(*addr, 0, 7)
	if err != nil {
		println("[codecctl] bad -addr:", *addr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	i2c, closeBus, err := openBus(*busName, uint32(*hz), *dryRun)
	if err != nil {
		println("[codecctl] open bus:", err.Error())
		os.Exit(1)
	}
	defer closeBus()

	b := bus.NewBus(32)
	halDone := make(chan struct{})
	go func() {
		defer close(halDone)
		hal.Run(ctx, b.NewConnection("hal"), map[string]drivers.I2C{*busName: i2c})
	}()
	(&heartbeat.Service{}).Start(ctx, b.NewConnection("heartbeat"))

	cfgConn := b.NewConnection("config")
	if *board != "" {
		config.NewConfigService().Start(context.WithValue(ctx, config.CtxDeviceKey, *board), cfgConn)
	} else {
		p := wm8951dev.Params{
			Bus:         *busName,
			Addr:        uint16(a),
			SysclkHz:    uint32(*sysclk),
			StrictRates: strict,
			Name:        "main",
			Format: &types.CodecFormat{
				Master: *master,
				Format: *format,
				Width:  uint8(*width),
			},
			RateHz: uint32(*rate),
		}
		config.PublishHAL(cfgConn, types.HALConfig{
			Devices: []types.HALDevice{{ID: "main", Type: "wm8951", Params: p}},
		})
	}

	c := console.New(b.NewConnection("console"), os.Stdout, console.Options{Name: "main"})
	if err := c.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		println("[codecctl] console:", err.Error())
	}
	stop()
	<-halDone
}

func openBus(name string, hz uint32, dryRun bool) (drivers.I2C, func(), error) {
	if dryRun {
		return logI2C{w: os.Stderr}, func() {}, nil
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, nil, err
	}
	if hz != 0 {
		if err := bc.SetSpeed(physic.Frequency(hz) * physic.Hertz); err != nil {
			println("[codecctl] set speed:", err.Error())
		}
	}
	return bc, func() { bc.Close() }, nil
}
