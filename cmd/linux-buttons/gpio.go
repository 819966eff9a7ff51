//go:build linux

package main

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// gpioSampler reads a set of GPIO lines through the Linux character device
// and packs them into one active-high port word, bit i = line i.
type gpioSampler struct {
	chip      *gpiocdev.Chip
	lines     []*gpiocdev.Line
	activeLow bool
}

func newGPIOSampler(chipName string, offsets []int, activeLow bool) (*gpioSampler, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", chipName, err)
	}
	g := &gpioSampler{chip: chip, activeLow: activeLow}
	for _, off := range offsets {
		line, err := chip.RequestLine(off, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("request line %d: %w", off, err)
		}
		g.lines = append(g.lines, line)
	}
	return g, nil
}

// Sample packs the current line levels. A read error leaves that bit low:
// the debounce window then treats the glitch like any other bounce.
func (g *gpioSampler) Sample() uint32 {
	var v uint32
	for i, line := range g.lines {
		raw, err := line.Value()
		if err != nil {
			continue
		}
		pressed := raw != 0
		if g.activeLow {
			pressed = raw == 0
		}
		if pressed {
			v |= 1 << uint(i)
		}
	}
	return v
}

func (g *gpioSampler) Close() error {
	for _, line := range g.lines {
		_ = line.Close()
	}
	if g.chip != nil {
		return g.chip.Close()
	}
	return nil
}
