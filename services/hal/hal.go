// Package hal runs the hardware abstraction service: it builds devices from
// the retained config/hal message and exposes them as bus capabilities under
// hal/cap/<domain>/<kind>/<name>.
package hal

import (
	"context"

	"audiocodec-go/bus"
	"audiocodec-go/services/hal/internal/core"
	"audiocodec-go/services/hal/internal/provider"

	// Device builders register themselves.
	_ "audiocodec-go/services/hal/devices/wm8951"

	"tinygo.org/x/drivers"
)

// Run serves HAL on conn until ctx is done. buses maps ids used in device
// params (e.g. "i2c0") to platform I²C handles; each is driven by a single
// worker goroutine.
func Run(ctx context.Context, conn *bus.Connection, buses map[string]drivers.I2C) {
	reg := provider.NewRegistry(buses)
	defer reg.Close()
	core.NewHAL(conn, core.Resources{Reg: reg}).Run(ctx)
}
