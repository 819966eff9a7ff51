package buttons

// The GPIO read mechanism stays outside this service: callers wire in raw
// sample sources at construction. A PortSampler packs up to 32 active-high
// pins into one word, least significant bit first; invert before returning
// for active-low hardware.
type PortSampler interface {
	Sample() uint32
}

// PinSampler reads one active-high boolean signal.
type PinSampler interface {
	Sample() bool
}

// PortSamplerFunc adapts a plain function to PortSampler.
type PortSamplerFunc func() uint32

func (f PortSamplerFunc) Sample() uint32 { return f() }

// PinSamplerFunc adapts a plain function to PinSampler.
type PinSamplerFunc func() bool

func (f PinSamplerFunc) Sample() bool { return f() }

// Wiring maps configured unit names to their raw sample sources. Units
// named in the config but absent here are skipped with a log line.
type Wiring struct {
	Ports map[string]PortSampler
	Pins  map[string]PinSampler
}
