package config

import (
	"buttoncode-go/services/buttons"
	"buttoncode-go/types"
)

// Built-in per-device configurations. Timings are written in wall-clock
// terms and converted to ticks at the device's sample rate.

var embeddedConfigs = map[string]types.ButtonsConfig{
	"pico-panel": picoPanelConfig(),
	"pin-demo":   pinDemoConfig(),
}

// picoPanelConfig: four-button front panel scanned as one port word at
// 200 Hz. 20 ms debounce, 1 s to hold, repeat every 200 ms.
func picoPanelConfig() types.ButtonsConfig {
	const hz = 200
	press := buttons.TicksFromMs(20, hz)
	return types.ButtonsConfig{
		SampleHz: hz,
		Ports: []types.PortSpec{{
			Name:        "front-panel",
			Buttons:     []string{"up", "down", "select", "back"},
			PressTicks:  int(press),
			RepeatTicks: buttons.AlignTicks(buttons.TicksFromMs(200, hz), press),
			HoldTicks:   buttons.AlignTicks(buttons.TicksFromMs(1000, hz), press),
		}},
	}
}

// pinDemoConfig: a single user button on its own line.
func pinDemoConfig() types.ButtonsConfig {
	const hz = 200
	press := buttons.TicksFromMs(20, hz)
	return types.ButtonsConfig{
		SampleHz: hz,
		Pins: []types.PinSpec{{
			Name:        "user",
			PressTicks:  press,
			RepeatTicks: buttons.AlignTicks(buttons.TicksFromMs(200, hz), press),
			HoldTicks:   buttons.AlignTicks(buttons.TicksFromMs(1000, hz), press),
		}},
	}
}
