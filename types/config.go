package types

// ButtonsConfig is the typed configuration the buttons service consumes.
// All tick values are in units of update calls at SampleHz, matching the
// debounce constructors; they are validated there, not here.
type ButtonsConfig struct {
	SampleHz uint32 // raw sampling cadence for every unit
	Ports    []PortSpec
	Pins     []PinSpec
}

// PortSpec configures one packed-port debouncer unit. Buttons[i] names the
// button wired to bit i; an empty name leaves the bit unreported but still
// debounced.
type PortSpec struct {
	Name        string
	Buttons     []string
	PressTicks  int
	RepeatTicks uint32
	HoldTicks   uint32
}

// PinSpec configures one single-signal debouncer unit.
type PinSpec struct {
	Name        string
	PressTicks  uint32
	RepeatTicks uint32
	HoldTicks   uint32
}
