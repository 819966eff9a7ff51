// Package buttons drives debouncers from a fixed-cadence sampling loop and
// publishes derived button states on the bus.
//
// The debounce cores are pure; this service owns them exclusively (one
// goroutine, no shared instances) and supplies the timing the cores leave
// to the caller: it samples every wired unit once per tick, and after each
// completed debounce window queries every named button and publishes the
// transitions it sees. Polling once per window is what keeps one-shot
// ChangedToPressed edges from being overwritten unobserved.
package buttons

import (
	"context"
	"time"

	"buttoncode-go/bus"
	"buttoncode-go/debounce"
	"buttoncode-go/errcode"
	"buttoncode-go/types"
	"buttoncode-go/x/mathx"
	"buttoncode-go/x/timex"
)

// Sample-rate bounds. Outside this range a config is almost certainly in
// the wrong unit.
const (
	minSampleHz = 10
	maxSampleHz = 10_000
)

type portUnit struct {
	name    string
	buttons []string
	deb     *debounce.Port
	src     PortSampler
	last    []debounce.BtnState
}

type pinUnit struct {
	name string
	deb  *debounce.Pin
	src  PinSampler
	last debounce.BtnState
}

type Service struct {
	conn   *bus.Connection
	wiring Wiring

	cfgSub  *bus.Subscription
	ctrlSub *bus.Subscription

	period time.Duration
	ports  []*portUnit
	pins   []*pinUnit
	ready  bool
}

// New creates the service and takes its config and control subscriptions,
// so nothing published after New returns can be missed while Run's
// goroutine is still starting. It stays idle until a types.ButtonsConfig
// arrives on config/buttons (retained configs replay immediately).
func New(conn *bus.Connection, wiring Wiring) *Service {
	return &Service{
		conn:    conn,
		wiring:  wiring,
		cfgSub:  conn.Subscribe(TopicConfig()),
		ctrlSub: conn.Subscribe(topicControlAny()),
	}
}

// Run is the service's single goroutine: configuration, controls and the
// sampling tick are all serialized here.
func (s *Service) Run(ctx context.Context) {
	defer s.conn.Unsubscribe(s.cfgSub)
	defer s.conn.Unsubscribe(s.ctrlSub)

	// Armed once the first config lands.
	ticker := time.NewTicker(time.Hour)
	ticker.Stop()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.pubServiceState("stopped")
			return
		case m := <-s.cfgSub.Channel():
			cfg, ok := m.Payload.(types.ButtonsConfig)
			if !ok {
				println("[buttons] config payload has wrong type")
				continue
			}
			prev := s.period
			s.applyConfig(cfg)
			switch {
			case !s.ready && (len(s.ports) > 0 || len(s.pins) > 0):
				s.ready = true
				ticker.Reset(s.period)
				s.pubServiceState("ready")
			case s.ready && s.period != prev:
				ticker.Reset(s.period)
			}
		case m := <-s.ctrlSub.Channel():
			if !s.ready {
				s.reply(m, errcode.NotReady)
				continue
			}
			s.handleControl(m)
		case <-ticker.C:
			s.step()
		}
	}
}

// applyConfig is additive and idempotent: units already built keep running,
// misconfigured or unwired ones are skipped with a log line.
func (s *Service) applyConfig(cfg types.ButtonsConfig) {
	s.period = timex.TickPeriod(mathx.Clamp(cfg.SampleHz, minSampleHz, maxSampleHz))

	for i := range cfg.Ports {
		spec := cfg.Ports[i]
		if s.havePort(spec.Name) {
			continue
		}
		src, ok := s.wiring.Ports[spec.Name]
		if !ok {
			println("[buttons] no sampler wired for port unit:", spec.Name)
			continue
		}
		deb, err := debounce.NewPort(len(spec.Buttons), spec.PressTicks, spec.RepeatTicks, spec.HoldTicks)
		if err != nil {
			println("[buttons] bad params for port unit:", spec.Name, "err:", err.Error())
			continue
		}
		u := &portUnit{
			name:    spec.Name,
			buttons: spec.Buttons,
			deb:     deb,
			src:     src,
			last:    make([]debounce.BtnState, len(spec.Buttons)),
		}
		s.ports = append(s.ports, u)
		for pin, btn := range u.buttons {
			if btn == "" {
				continue
			}
			s.pubInfo(u.name, btn, types.KindPort, pin)
			s.pubState(u.name, btn, false)
		}
	}

	for i := range cfg.Pins {
		spec := cfg.Pins[i]
		if s.havePin(spec.Name) {
			continue
		}
		src, ok := s.wiring.Pins[spec.Name]
		if !ok {
			println("[buttons] no sampler wired for pin unit:", spec.Name)
			continue
		}
		deb, err := debounce.NewPin(spec.PressTicks, spec.RepeatTicks, spec.HoldTicks)
		if err != nil {
			println("[buttons] bad params for pin unit:", spec.Name, "err:", err.Error())
			continue
		}
		s.pins = append(s.pins, &pinUnit{name: spec.Name, deb: deb, src: src})
		s.pubInfo(spec.Name, spec.Name, types.KindPin, 0)
		s.pubState(spec.Name, spec.Name, false)
	}
}

func (s *Service) havePort(name string) bool {
	for _, u := range s.ports {
		if u.name == name {
			return true
		}
	}
	return false
}

func (s *Service) havePin(name string) bool {
	for _, u := range s.pins {
		if u.name == name {
			return true
		}
	}
	return false
}

// step runs one sampling tick across all units.
func (s *Service) step() {
	for _, u := range s.ports {
		if u.deb.Update(u.src.Sample()) {
			s.publishPort(u)
		}
	}
	for _, u := range s.pins {
		if u.deb.Update(u.src.Sample()) {
			s.publishPin(u)
		}
	}
}

// publishPort queries every named pin after a completed window and emits
// transitions. Repeat is re-emitted every time it fires, even though the
// stored state alternates with Hold.
func (s *Service) publishPort(u *portUnit) {
	for pin, btn := range u.buttons {
		st, err := u.deb.State(pin)
		if err != nil {
			continue
		}
		if btn == "" {
			u.last[pin] = st
			continue
		}
		if st != u.last[pin] || st == debounce.Repeat {
			s.pubTransition(u.name, btn, pin, st, u.last[pin])
		}
		u.last[pin] = st
	}
}

func (s *Service) publishPin(u *pinUnit) {
	st := u.deb.State()
	if st != u.last || st == debounce.Repeat {
		s.pubTransition(u.name, u.name, 0, st, u.last)
	}
	u.last = st
}

func (s *Service) pubTransition(unit, name string, pin int, st, prev debounce.BtnState) {
	s.conn.Publish(s.conn.NewMessage(topicEvent(unit, name), types.ButtonEvent{
		Unit:  unit,
		Name:  name,
		Pin:   pin,
		State: st,
		TsMs:  timex.NowMs(),
	}, false))

	pressed := st != debounce.UnPressed
	if pressed != (prev != debounce.UnPressed) {
		s.pubState(unit, name, pressed)
	}
}

func (s *Service) handleControl(m *bus.Message) {
	verb := m.Topic[len(m.Topic)-1]
	switch verb {
	case CtrlReadNow:
		s.readNow()
		s.reply(m, errcode.OK)
	default:
		s.reply(m, errcode.Unsupported)
	}
}

// readNow re-emits the current state of every named button without running
// a new window, so late subscribers can resynchronize. No core queries
// happen here: cached states avoid the Repeat rewind side effect.
func (s *Service) readNow() {
	now := timex.NowMs()
	for _, u := range s.ports {
		for pin, btn := range u.buttons {
			if btn == "" {
				continue
			}
			s.conn.Publish(s.conn.NewMessage(topicEvent(u.name, btn), types.ButtonEvent{
				Unit:  u.name,
				Name:  btn,
				Pin:   pin,
				State: u.last[pin],
				TsMs:  now,
			}, false))
		}
	}
	for _, u := range s.pins {
		s.conn.Publish(s.conn.NewMessage(topicEvent(u.name, u.name), types.ButtonEvent{
			Unit:  u.name,
			Name:  u.name,
			State: u.last,
			TsMs:  now,
		}, false))
	}
}

func (s *Service) reply(m *bus.Message, code errcode.Code) {
	if len(m.ReplyTo) == 0 {
		return
	}
	s.conn.Publish(s.conn.NewMessage(m.ReplyTo, code, false))
}

func (s *Service) pubServiceState(state string) {
	s.conn.Publish(s.conn.NewMessage(topicServiceState(), state, true))
}

func (s *Service) pubInfo(unit, name string, driver types.Kind, pin int) {
	s.conn.Publish(s.conn.NewMessage(topicInfo(unit, name), types.Info{
		SchemaVersion: 1,
		Driver:        driver,
		Detail:        types.ButtonInfo{Unit: unit, Pin: pin},
	}, true))
}

func (s *Service) pubState(unit, name string, pressed bool) {
	s.conn.Publish(s.conn.NewMessage(topicState(unit, name), types.ButtonValue{Pressed: pressed}, true))
}
