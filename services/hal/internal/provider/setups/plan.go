package setups

// ResourcePlan specifies wiring and operating parameters chosen by a setup.
// Providers consume this plan to instantiate resource owners.
type ResourcePlan struct {
	I2C  []I2CPlan
	UART []UARTPlan
}

type I2CPlan struct {
	ID  string // e.g. "i2c0"
	SDA int    // GPIO number
	SCL int    // GPIO number
	Hz  uint32 // bus frequency
}

type UARTPlan struct {
	ID   string // e.g. "uart0"
	TX   int    // GPIO number
	RX   int    // GPIO number
	Baud uint32
}

// PicoCodec is a Pico wired to a WM8951 breakout on i2c0 (GP4/GP5) with the
// control console on uart0.
var PicoCodec = ResourcePlan{
	I2C: []I2CPlan{
		{ID: "i2c0", SDA: 4, SCL: 5, Hz: 100_000},
	},
	UART: []UARTPlan{
		{ID: "uart0", TX: 0, RX: 1, Baud: 115_200},
	},
}
