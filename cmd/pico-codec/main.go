//go:build rp2040

// Command pico-codec runs the codec stack on a Raspberry Pi Pico: i2c0 to the
// WM8951, control console on uart0, wiring from the embedded "pico" board.
package main

import (
	"context"
	"runtime"
	"time"

	"audiocodec-go/bus"
	"audiocodec-go/services/config"
	"audiocodec-go/services/console"
	"audiocodec-go/services/hal"
	"audiocodec-go/services/heartbeat"
	"audiocodec-go/x/fmtx"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	ctx := context.Background()

	println("[main] bootstrapping bus …")
	b := bus.NewBus(8)

	println("[main] starting hal.Run …")
	go hal.Run(ctx, b.NewConnection("hal"), hal.PicoBuses())

	(&heartbeat.Service{}).Start(ctx, b.NewConnection("heartbeat"))

	config.NewConfigService().Start(
		context.WithValue(ctx, config.CtxDeviceKey, "pico"),
		b.NewConnection("config"),
	)

	port, ok := hal.PicoConsole()
	if !ok {
		println("[main] no console uart; idling")
		for {
			printMem()
			time.Sleep(10 * time.Second)
		}
	}
	fmtx.DefaultOutput = port

	c := console.New(b.NewConnection("console"), port, console.Options{})
	for {
		if err := c.Run(ctx, port); err != nil {
			println("[main] console:", err.Error())
		}
		printMem()
		time.Sleep(time.Second)
	}
}

// printMem prints a compact snapshot of TinyGo runtime memory stats.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}
