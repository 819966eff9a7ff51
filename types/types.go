// Package types holds the payload and capability types shared between
// services over the bus.
package types

import "buttoncode-go/debounce"

// Kind identifies which debouncer variant drives a unit.
type Kind string

const (
	KindPort Kind = "port" // a bank of buttons sampled as one word
	KindPin  Kind = "pin"  // one boolean signal on its own line
)

// Info is the retained capability descriptor published per unit.
type Info struct {
	SchemaVersion int
	Driver        Kind
	Detail        any
}

// ButtonInfo describes one logical button within a unit.
type ButtonInfo struct {
	Unit string
	Pin  int // bit position within the unit's port word, 0 for pin units
}

// ButtonValue is the plain pressed/released level payload.
type ButtonValue struct {
	Pressed bool
}

// ButtonEvent is published whenever a button's debounced state changes,
// and again for every Repeat fire while it is held.
type ButtonEvent struct {
	Unit  string
	Name  string
	Pin   int
	State debounce.BtnState
	TsMs  int64
}
