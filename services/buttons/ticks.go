package buttons

import "buttoncode-go/x/mathx"

// Helpers for building a types.ButtonsConfig from wall-clock timings.
// The debounce core thinks in update ticks; config files usually think in
// milliseconds.

// TicksFromMs converts a duration in milliseconds to update ticks at the
// given sample rate, rounding to nearest.
func TicksFromMs(ms, hz uint32) uint32 {
	return uint32(mathx.RoundDiv(uint64(ms)*uint64(hz), 1000))
}

// AlignTicks rounds ticks up to a whole number of press windows so the
// result passes the debounce constructors' multiple-of-press validation.
func AlignTicks(ticks, pressTicks uint32) uint32 {
	if ticks < pressTicks {
		return pressTicks
	}
	return mathx.RoundUpMultiple(ticks, pressTicks)
}
