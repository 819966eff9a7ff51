package debounce

import "buttoncode-go/errcode"

// MaxPortPins is the width of the packed port sample.
const MaxPortPins = 32

// Port debounces up to 32 pins sampled in parallel as one uint32 per tick.
//
// It keeps a ring of the last pressTicks raw samples. Every pressTicks-th
// Update completes a window: the debounced state is the bitwise AND across
// the ring, so a pin reads pressed only if it was high on every sample in
// the window. A per-pin counter, advanced once per completed window while
// the pin stays pressed, drives the Hold and Repeat thresholds.
type Port struct {
	samples []uint32
	idx     int

	pins      int
	debounced uint32
	last      uint32
	edges     uint32

	// Thresholds in completed-window units.
	holdCycles   uint32
	repeatCycles uint32
	counter      []uint32
}

// NewPort returns a debouncer for the pins least-significant bits of the
// port value, with a sample window of pressTicks raw samples.
//
// repeatTicks and holdTicks are expressed in update calls, like pressTicks.
// Parameters are validated up front instead of letting the internal cycle
// arithmetic underflow: pins must be in [1,32], pressTicks >= 1, and
// holdTicks and repeatTicks must each be a non-zero multiple of pressTicks
// with holdTicks >= pressTicks.
func NewPort(pins, pressTicks int, repeatTicks, holdTicks uint32) (*Port, error) {
	if pins < 1 || pins > MaxPortPins {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "debounce.NewPort", Msg: "pins must be in [1,32]"}
	}
	if pressTicks < 1 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "debounce.NewPort", Msg: "press_ticks must be >= 1"}
	}
	pt := uint32(pressTicks)
	if holdTicks < pt || holdTicks%pt != 0 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "debounce.NewPort", Msg: "hold_ticks must be a multiple of press_ticks, >= press_ticks"}
	}
	if repeatTicks < pt || repeatTicks%pt != 0 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "debounce.NewPort", Msg: "repeat_ticks must be a multiple of press_ticks, >= press_ticks"}
	}
	return &Port{
		samples: make([]uint32, pressTicks),
		pins:    pins,
		counter: make([]uint32, pins),
		// hold is biased by one cycle so the >= check lands on the window
		// in which holdTicks raw samples have elapsed.
		holdCycles:   holdTicks/pt - 1,
		repeatCycles: repeatTicks / pt,
	}, nil
}

// Pins returns the configured pin count.
func (p *Port) Pins() int { return p.pins }

// Update records one raw port sample. It returns false while the window is
// still filling. On every pressTicks-th call it completes the window:
// recomputes the debounced state and the rising-edge mask, advances or
// resets the per-pin counters, and returns true. Counters only advance for
// pins pressed in two consecutive completed windows, and saturate at the
// Repeat ceiling.
func (p *Port) Update(raw uint32) bool {
	p.samples[p.idx] = raw
	if p.idx != len(p.samples)-1 {
		p.idx++
		return false
	}
	p.idx = 0

	acc := ^uint32(0)
	for _, s := range p.samples {
		acc &= s
	}
	p.debounced = acc
	p.edges = ^p.last & acc

	ceiling := p.holdCycles + p.repeatCycles
	for pin := range p.counter {
		if p.last&acc&(1<<uint(pin)) != 0 {
			if p.counter[pin] < ceiling {
				p.counter[pin]++
			}
		} else {
			p.counter[pin] = 0
		}
	}
	p.last = acc
	return true
}

// State reports the debounced state of one pin, applying the BtnState
// priority order. Querying a pin at or beyond the configured count fails
// with errcode.BtnUninitialized.
//
// State is not side-effect free: reporting Repeat rewinds that pin's
// counter by repeatTicks so Repeat re-fires periodically while held.
// Query once per completed window to observe every transition.
func (p *Port) State(pin int) (BtnState, error) {
	if pin < 0 || pin >= p.pins {
		return UnPressed, errcode.BtnUninitialized
	}
	bit := uint32(1) << uint(pin)
	switch {
	case p.edges&bit != 0:
		return ChangedToPressed, nil
	case p.debounced&bit == 0:
		return UnPressed, nil
	case p.counter[pin] >= p.holdCycles+p.repeatCycles:
		p.counter[pin] -= p.repeatCycles
		return Repeat, nil
	case p.counter[pin] >= p.holdCycles:
		return Hold, nil
	default:
		return Pressed, nil
	}
}
