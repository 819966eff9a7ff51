// Package debounce filters noisy digital inputs into stable button states.
//
// Two state machines share one algorithm: Port tracks up to 32 pins packed
// into a uint32 sampled in parallel, Pin tracks a single boolean signal.
// Both are pure and allocation-free after construction: no I/O, no
// goroutines, no clock. The caller drives them with periodic Update calls
// (one per raw GPIO sample) and reads derived states back. Each instance
// must be owned by exactly one execution context; there is no internal
// locking.
//
// Pins are active-high: a 1 bit (or true sample) means pressed. Invert raw
// samples before Update for active-low hardware.
package debounce

// BtnState is the derived state of one button. When several conditions hold
// at once, exactly one is reported, in priority order:
// ChangedToPressed > Repeat > Hold > Pressed > UnPressed.
type BtnState uint8

const (
	// UnPressed: the debounced level is low.
	UnPressed BtnState = iota
	// Pressed: the debounced level is high, below the hold threshold.
	Pressed
	// Hold: pressed for at least hold_ticks update calls.
	Hold
	// Repeat: fires once every repeat_ticks while held past the hold
	// threshold. Each Repeat is followed by at least one Hold before the
	// next Repeat.
	Repeat
	// ChangedToPressed: the debounced level went low to high this window.
	// The flag persists until the next completed window, so poll at least
	// once per window or the edge is lost.
	ChangedToPressed
)

func (s BtnState) String() string {
	switch s {
	case UnPressed:
		return "unpressed"
	case Pressed:
		return "pressed"
	case Hold:
		return "hold"
	case Repeat:
		return "repeat"
	case ChangedToPressed:
		return "changed_to_pressed"
	default:
		return "unknown"
	}
}
