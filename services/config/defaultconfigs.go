package config

// Embedded per-board configuration.
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device

// Pico wiring: codec on i2c0 at 0x1a, 12.288 MHz crystal, I2S slave 16-bit.
const cfgPico = `{
  "hal": {
    "devices": [
      {
        "id": "main",
        "type": "wm8951",
        "params": {
          "bus": "i2c0",
          "addr": 26,
          "sysclk_hz": 12288000,
          "domain": "audio",
          "format": {"master": false, "format": "i2s", "width": 16},
          "rate_hz": 48000
        }
      }
    ],
    "pollers": [
      {"domain": "audio", "kind": "codec", "name": "main", "verb": "resync", "interval_ms": 5000, "jitter_ms": 250}
    ]
  },
  "console": {
    "prompt": "codec> ",
    "target": "main"
  }
}`

// Host board: Raspberry Pi style i2c-1 with the codec as clock master.
const cfgHost = `{
  "hal": {
    "devices": [
      {
        "id": "main",
        "type": "wm8951",
        "params": {
          "bus": "1",
          "addr": 26,
          "sysclk_hz": 12288000,
          "format": {"master": true, "format": "i2s", "width": 24},
          "rate_hz": 48000
        }
      }
    ]
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"host": []byte(cfgHost),
}
