//go:build rp2040

package provider

import (
	"context"
	"io"
	"machine"

	"audiocodec-go/services/hal/internal/provider/setups"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"
)

// BusesFromPlan configures the RP2040 I²C controllers named in plan.
// Unknown ids and configuration failures are logged and skipped.
func BusesFromPlan(plan setups.ResourcePlan) map[string]drivers.I2C {
	out := make(map[string]drivers.I2C, len(plan.I2C))
	for _, p := range plan.I2C {
		var hw *machine.I2C
		switch p.ID {
		case "i2c0":
			hw = machine.I2C0
		case "i2c1":
			hw = machine.I2C1
		default:
			println("[provider] unknown i2c id:", p.ID)
			continue
		}
		sda, scl := machine.Pin(p.SDA), machine.Pin(p.SCL)
		err := hw.Configure(machine.I2CConfig{
			SDA:       sda,
			SCL:       scl,
			Frequency: p.Hz,
		})
		if err != nil {
			println("[provider] i2c configure failed:", p.ID, err.Error())
			continue
		}
		out[p.ID] = hw
	}
	return out
}

// ConsoleFromPlan configures the first UART in plan and returns it as a
// byte stream for the control console.
func ConsoleFromPlan(plan setups.ResourcePlan) (io.ReadWriter, bool) {
	if len(plan.UART) == 0 {
		return nil, false
	}
	u := plan.UART[0]
	var hw *uartx.UART
	switch u.ID {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		println("[provider] unknown uart id:", u.ID)
		return nil, false
	}
	// Defaults inside uartx apply when zero.
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: u.Baud,
		TX:       machine.Pin(u.TX),
		RX:       machine.Pin(u.RX),
	}); err != nil {
		println("[provider] uart configure failed:", u.ID, err.Error())
		return nil, false
	}
	return uartStream{u: hw}, true
}

// uartStream adapts uartx to io.ReadWriter; Read blocks until some bytes
// arrive.
type uartStream struct{ u *uartx.UART }

func (s uartStream) Write(b []byte) (int, error) { return s.u.Write(b) }
func (s uartStream) Read(b []byte) (int, error) {
	return s.u.RecvSomeContext(context.Background(), b)
}
