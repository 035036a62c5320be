//go:build rp2040

package hal

import (
	"io"

	"audiocodec-go/services/hal/internal/provider"
	"audiocodec-go/services/hal/internal/provider/setups"

	"tinygo.org/x/drivers"
)

// PicoBuses configures the I²C controllers of the Pico codec board.
func PicoBuses() map[string]drivers.I2C {
	return provider.BusesFromPlan(setups.PicoCodec)
}

// PicoConsole configures the console UART of the Pico codec board.
func PicoConsole() (io.ReadWriter, bool) {
	return provider.ConsoleFromPlan(setups.PicoCodec)
}
