//go:build linux

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"buttoncode-go/services/buttons"
	"buttoncode-go/types"
)

// fileConfig is the YAML shape; timings are wall-clock and converted to
// ticks before they reach the service.
type fileConfig struct {
	SampleHz  uint32 `yaml:"sample_hz"`
	Chip      string `yaml:"chip"` // e.g. gpiochip0; empty = simulated panel
	ActiveLow bool   `yaml:"active_low"`

	Panel struct {
		Name    string `yaml:"name"`
		Buttons []struct {
			Name string `yaml:"name"`
			Line int    `yaml:"line"`
		} `yaml:"buttons"`
	} `yaml:"panel"`

	PressMs  uint32 `yaml:"press_ms"`
	HoldMs   uint32 `yaml:"hold_ms"`
	RepeatMs uint32 `yaml:"repeat_ms"`

	MQTT struct {
		Broker   string `yaml:"broker"`
		ClientID string `yaml:"client_id"`
		Topic    string `yaml:"topic"`
	} `yaml:"mqtt"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc := &fileConfig{
		SampleHz: 200,
		PressMs:  20,
		HoldMs:   1000,
		RepeatMs: 200,
	}
	if err := yaml.Unmarshal(raw, fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if fc.Panel.Name == "" {
		fc.Panel.Name = "panel"
	}
	if len(fc.Panel.Buttons) == 0 {
		return nil, fmt.Errorf("%s: panel has no buttons", path)
	}
	if len(fc.Panel.Buttons) > 32 {
		return nil, fmt.Errorf("%s: at most 32 buttons per panel", path)
	}
	if fc.MQTT.ClientID == "" {
		fc.MQTT.ClientID = "linux-buttons"
	}
	return fc, nil
}

// buttonsConfig converts the wall-clock YAML timings into a tick-based
// service config at the configured sample rate.
func (fc *fileConfig) buttonsConfig() types.ButtonsConfig {
	press := buttons.TicksFromMs(fc.PressMs, fc.SampleHz)
	if press < 1 {
		press = 1
	}
	return types.ButtonsConfig{
		SampleHz: fc.SampleHz,
		Ports: []types.PortSpec{{
			Name:        fc.Panel.Name,
			Buttons:     fc.buttonNames(),
			PressTicks:  int(press),
			RepeatTicks: buttons.AlignTicks(buttons.TicksFromMs(fc.RepeatMs, fc.SampleHz), press),
			HoldTicks:   buttons.AlignTicks(buttons.TicksFromMs(fc.HoldMs, fc.SampleHz), press),
		}},
	}
}

func (fc *fileConfig) buttonNames() []string {
	names := make([]string, len(fc.Panel.Buttons))
	for i, b := range fc.Panel.Buttons {
		names[i] = b.Name
	}
	return names
}

func (fc *fileConfig) lineOffsets() []int {
	lines := make([]int, len(fc.Panel.Buttons))
	for i, b := range fc.Panel.Buttons {
		lines[i] = b.Line
	}
	return lines
}
