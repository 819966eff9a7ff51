// Package ramp steps an integer level toward a target in a fixed number of
// increments, for LED fades and similar feedback. The remainder is spread
// with an accumulator so the ramp lands exactly on the target.
package ramp

import "buttoncode-go/x/mathx"

// Linear is a caller-driven ramp: call Next once per tick until it reports
// done. The zero value is done.
type Linear struct {
	cur, to, top int32
	d, st, acc   int32
	left         int32
}

// NewLinear ramps from cur to 'to' over 'steps' calls to Next, clamped to
// [0..top]. steps == 0 snaps to the target on the first Next.
func NewLinear(cur, to, top uint16, steps uint16) *Linear {
	c := mathx.Clamp(int32(cur), 0, int32(top))
	t := mathx.Clamp(int32(to), 0, int32(top))
	l := &Linear{cur: c, to: t, top: int32(top), left: int32(steps)}
	if l.left == 0 {
		l.left = 1
	}
	l.d = t - c
	l.st = l.left
	return l
}

// Next advances one step and returns the new level. The second result is
// false once the target has been reached.
func (l *Linear) Next() (uint16, bool) {
	if l.left <= 0 {
		return uint16(l.cur), false
	}
	l.left--
	if l.left == 0 {
		l.cur = l.to
		return uint16(l.cur), false
	}
	l.acc += l.d
	inc := l.acc / l.st
	if inc != 0 {
		l.acc -= inc * l.st
		l.cur = mathx.Clamp(l.cur+inc, 0, l.top)
	}
	return uint16(l.cur), true
}

// Level returns the current level without advancing.
func (l *Linear) Level() uint16 { return uint16(l.cur) }
