package debounce

import "buttoncode-go/errcode"

// Pin debounces a single boolean signal.
//
// It is the scalar form of Port: AND-over-window of booleans reduces to
// counting consecutive high samples, so no sample ring is kept. The counter
// advances on every high raw sample and resets on a low one; the externally
// visible state only changes when a window of pressTicks samples completes.
type Pin struct {
	idx   uint32
	state BtnState
	last  BtnState

	pressTicks  uint32
	repeatTicks uint32
	holdTicks   uint32
	counter     uint32
}

// NewPin returns a debouncer for one boolean signal. All three parameters
// are expressed in update calls and validated like NewPort: pressTicks >= 1,
// holdTicks and repeatTicks non-zero multiples of pressTicks with
// holdTicks >= pressTicks.
func NewPin(pressTicks, repeatTicks, holdTicks uint32) (*Pin, error) {
	if pressTicks < 1 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "debounce.NewPin", Msg: "press_ticks must be >= 1"}
	}
	if holdTicks < pressTicks || holdTicks%pressTicks != 0 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "debounce.NewPin", Msg: "hold_ticks must be a multiple of press_ticks, >= press_ticks"}
	}
	if repeatTicks < pressTicks || repeatTicks%pressTicks != 0 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "debounce.NewPin", Msg: "repeat_ticks must be a multiple of press_ticks, >= press_ticks"}
	}
	return &Pin{
		state:       UnPressed,
		last:        UnPressed,
		pressTicks:  pressTicks,
		repeatTicks: repeatTicks,
		holdTicks:   holdTicks,
	}, nil
}

// Update records one raw sample. The counter tracks consecutive high
// samples on every call (saturating at holdTicks+repeatTicks, reset by a
// low sample); the visible state is recomputed only on every pressTicks-th
// call, when Update returns true. The previous window's state is rolled
// over on every completed window, including unpressed ones, so a release
// always re-arms the ChangedToPressed edge.
func (p *Pin) Update(level bool) bool {
	if level {
		if p.counter < p.holdTicks+p.repeatTicks {
			p.counter++
		}
	} else {
		p.counter = 0
	}

	if p.idx != p.pressTicks-1 {
		p.idx++
		return false
	}
	p.idx = 0

	if p.counter >= p.pressTicks {
		p.state = Pressed
		if p.last == UnPressed {
			p.state = ChangedToPressed
		} else if p.counter >= p.holdTicks+p.repeatTicks {
			p.state = Repeat
		} else if p.counter >= p.holdTicks {
			p.state = Hold
		}
	} else {
		p.state = UnPressed
	}
	p.last = p.state
	return true
}

// State returns the current debounced state. Reporting Repeat rewinds the
// counter by repeatTicks and demotes the stored state to Hold, so a second
// query without an intervening completed window observes Hold, not another
// Repeat. The rewind saturates at zero: a low raw sample may have cleared
// the counter since the Repeat was latched.
func (p *Pin) State() BtnState {
	if p.state == Repeat {
		if p.counter >= p.repeatTicks {
			p.counter -= p.repeatTicks
		} else {
			p.counter = 0
		}
		p.state = Hold
		return Repeat
	}
	return p.state
}
