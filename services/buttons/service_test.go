package buttons

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"buttoncode-go/bus"
	"buttoncode-go/debounce"
	"buttoncode-go/errcode"
	"buttoncode-go/types"
)

// fakePort is a controllable raw sample source.
type fakePort struct {
	raw uint32
}

func (f *fakePort) Sample() uint32 { return atomic.LoadUint32(&f.raw) }
func (f *fakePort) set(v uint32)   { atomic.StoreUint32(&f.raw, v) }

func newTestService(t *testing.T, cfg types.ButtonsConfig, w Wiring) (*Service, *bus.Bus) {
	t.Helper()
	b := bus.NewBus(32)
	s := New(b.NewConnection("buttons"), w)
	s.applyConfig(cfg)
	return s, b
}

func nextEvent(t *testing.T, sub *bus.Subscription) types.ButtonEvent {
	t.Helper()
	select {
	case m := <-sub.Channel():
		ev, ok := m.Payload.(types.ButtonEvent)
		if !ok {
			t.Fatalf("payload is %T, not ButtonEvent", m.Payload)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
		return types.ButtonEvent{}
	}
}

func expectQuiet(t *testing.T, sub *bus.Subscription) {
	t.Helper()
	select {
	case m := <-sub.Channel():
		t.Fatalf("unexpected event: %+v", m.Payload)
	default:
	}
}

func TestApplyConfigSkipsUnwiredAndInvalid(t *testing.T) {
	cfg := types.ButtonsConfig{
		SampleHz: 200,
		Ports: []types.PortSpec{
			{Name: "panel", Buttons: []string{"select"}, PressTicks: 2, RepeatTicks: 4, HoldTicks: 8},
			{Name: "ghost", Buttons: []string{"x"}, PressTicks: 2, RepeatTicks: 4, HoldTicks: 8},
			{Name: "broken", Buttons: []string{"y"}, PressTicks: 2, RepeatTicks: 3, HoldTicks: 8},
		},
		Pins: []types.PinSpec{
			{Name: "reset", PressTicks: 2, RepeatTicks: 4, HoldTicks: 8},
		},
	}
	w := Wiring{
		Ports: map[string]PortSampler{
			"panel":  &fakePort{},
			"broken": &fakePort{},
		},
		Pins: map[string]PinSampler{
			"reset": PinSamplerFunc(func() bool { return false }),
		},
	}
	s, _ := newTestService(t, cfg, w)

	if len(s.ports) != 1 || s.ports[0].name != "panel" {
		t.Fatalf("ports = %d, want only panel", len(s.ports))
	}
	if len(s.pins) != 1 || s.pins[0].name != "reset" {
		t.Fatalf("pins = %d, want only reset", len(s.pins))
	}

	// Re-applying must not duplicate units.
	s.applyConfig(cfg)
	if len(s.ports) != 1 || len(s.pins) != 1 {
		t.Fatal("applyConfig is not idempotent")
	}
}

// Walks a two-button port through press, hold, repeat and release, and
// checks the event stream seen by a bus subscriber.
func TestPortTransitionEvents(t *testing.T) {
	src := &fakePort{}
	cfg := types.ButtonsConfig{
		SampleHz: 200,
		Ports: []types.PortSpec{{
			Name:        "panel",
			Buttons:     []string{"select", "back"},
			PressTicks:  2,
			RepeatTicks: 4,
			HoldTicks:   8,
		}},
	}
	s, b := newTestService(t, cfg, Wiring{Ports: map[string]PortSampler{"panel": src}})

	sub := b.NewConnection("watcher").Subscribe(TopicEvents())

	window := func() { s.step(); s.step() }

	// Bit 0 pressed: edge after one clean window.
	src.set(0b01)
	window()
	ev := nextEvent(t, sub)
	if ev.Name != "select" || ev.State != debounce.ChangedToPressed || ev.Unit != "panel" || ev.Pin != 0 {
		t.Fatalf("edge event = %+v", ev)
	}
	expectQuiet(t, sub) // "back" stays silent

	// Next window: stable press.
	window()
	if ev := nextEvent(t, sub); ev.State != debounce.Pressed {
		t.Fatalf("want Pressed, got %v", ev.State)
	}

	// counter reaches the hold threshold two windows later (hold=8 raw
	// ticks, window=2, minus the edge window).
	window()
	expectQuiet(t, sub)
	window()
	if ev := nextEvent(t, sub); ev.State != debounce.Hold {
		t.Fatalf("want Hold, got %v", ev.State)
	}

	// Ceiling: one quiet window, then Repeat, then the demoted Hold.
	window()
	expectQuiet(t, sub)
	window()
	if ev := nextEvent(t, sub); ev.State != debounce.Repeat {
		t.Fatalf("want Repeat, got %v", ev.State)
	}
	window()
	if ev := nextEvent(t, sub); ev.State != debounce.Hold {
		t.Fatalf("want Hold after Repeat, got %v", ev.State)
	}

	// Release.
	src.set(0)
	window()
	if ev := nextEvent(t, sub); ev.State != debounce.UnPressed {
		t.Fatalf("want UnPressed, got %v", ev.State)
	}
	expectQuiet(t, sub)
}

func TestPinTransitionEvents(t *testing.T) {
	var level atomic.Bool
	cfg := types.ButtonsConfig{
		SampleHz: 200,
		Pins: []types.PinSpec{{
			Name:        "reset",
			PressTicks:  2,
			RepeatTicks: 4,
			HoldTicks:   4,
		}},
	}
	s, b := newTestService(t, cfg, Wiring{
		Pins: map[string]PinSampler{"reset": PinSamplerFunc(level.Load)},
	})
	sub := b.NewConnection("watcher").Subscribe(TopicEvents())

	window := func() { s.step(); s.step() }

	level.Store(true)
	window()
	if ev := nextEvent(t, sub); ev.State != debounce.ChangedToPressed || ev.Unit != "reset" {
		t.Fatalf("edge event = %+v", ev)
	}

	window()
	if ev := nextEvent(t, sub); ev.State != debounce.Hold {
		t.Fatalf("want Hold, got %v", ev.State)
	}

	level.Store(false)
	window()
	if ev := nextEvent(t, sub); ev.State != debounce.UnPressed {
		t.Fatalf("want UnPressed, got %v", ev.State)
	}
}

// Retained buttons/state/<unit>/<name> must track the pressed boundary
// only, not every hold/repeat transition.
func TestRetainedStateTracksPressedBoundary(t *testing.T) {
	src := &fakePort{}
	cfg := types.ButtonsConfig{
		SampleHz: 200,
		Ports: []types.PortSpec{{
			Name: "panel", Buttons: []string{"select"},
			PressTicks: 2, RepeatTicks: 4, HoldTicks: 8,
		}},
	}
	s, b := newTestService(t, cfg, Wiring{Ports: map[string]PortSampler{"panel": src}})

	src.set(1)
	for i := 0; i < 8; i++ {
		s.step()
	}

	sub := b.NewConnection("late").Subscribe(bus.T("buttons", "state", "panel", "select"))
	select {
	case m := <-sub.Channel():
		if v := m.Payload.(types.ButtonValue); !v.Pressed {
			t.Fatalf("retained state = %+v, want pressed", v)
		}
	case <-time.After(time.Second):
		t.Fatal("no retained state replayed")
	}
}

// The retained info descriptor must name the debouncer kind and the bit
// position, so late subscribers can map events back to hardware.
func TestRetainedInfoDescribesUnit(t *testing.T) {
	cfg := types.ButtonsConfig{
		SampleHz: 200,
		Ports: []types.PortSpec{{
			Name: "panel", Buttons: []string{"select", "back"},
			PressTicks: 2, RepeatTicks: 4, HoldTicks: 8,
		}},
	}
	_, b := newTestService(t, cfg, Wiring{Ports: map[string]PortSampler{"panel": &fakePort{}}})

	sub := b.NewConnection("late").Subscribe(bus.T("buttons", "info", "panel", "back"))
	select {
	case m := <-sub.Channel():
		info, ok := m.Payload.(types.Info)
		if !ok {
			t.Fatalf("payload is %T, not Info", m.Payload)
		}
		if info.Driver != types.KindPort {
			t.Fatalf("Driver = %q, want %q", info.Driver, types.KindPort)
		}
		if d := info.Detail.(types.ButtonInfo); d.Unit != "panel" || d.Pin != 1 {
			t.Fatalf("Detail = %+v, want panel bit 1", d)
		}
	case <-time.After(time.Second):
		t.Fatal("no retained info replayed")
	}
}

// A config update with a new SampleHz must retime the running sampling
// loop, not just the stored period.
func TestReconfigRetimesSampling(t *testing.T) {
	b := bus.NewBus(32)
	src := &fakePort{}
	s := New(b.NewConnection("buttons"), Wiring{Ports: map[string]PortSampler{"panel": src}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	conn := b.NewConnection("ctrl")
	events := conn.Subscribe(TopicEvents())

	spec := types.PortSpec{
		Name: "panel", Buttons: []string{"select"},
		PressTicks: 50, RepeatTicks: 50, HoldTicks: 50,
	}
	// At 10 Hz a 50-tick window needs 5 s; at 10 kHz it needs 5 ms. The
	// edge only arrives inside the event timeout if the second config
	// rearms the ticker.
	conn.Publish(conn.NewMessage(TopicConfig(),
		types.ButtonsConfig{SampleHz: 10, Ports: []types.PortSpec{spec}}, true))
	conn.Publish(conn.NewMessage(TopicConfig(),
		types.ButtonsConfig{SampleHz: 10_000, Ports: []types.PortSpec{spec}}, true))
	src.set(1)

	if ev := nextEvent(t, events); ev.State != debounce.ChangedToPressed {
		t.Fatalf("event = %+v, want edge", ev)
	}
}

func TestRunControlAndConfigFlow(t *testing.T) {
	b := bus.NewBus(32)
	src := &fakePort{}
	src.set(1)
	s := New(b.NewConnection("buttons"), Wiring{Ports: map[string]PortSampler{"panel": src}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	ctrl := b.NewConnection("ctrl")
	replies := ctrl.Subscribe(bus.T("reply", "ctrl"))

	// Controls before any config are refused.
	ctrl.Publish(&bus.Message{Topic: TopicControl(CtrlReadNow), ReplyTo: bus.T("reply", "ctrl")})
	select {
	case m := <-replies.Channel():
		if m.Payload.(errcode.Code) != errcode.NotReady {
			t.Fatalf("reply = %v, want not_ready", m.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no not_ready reply")
	}

	events := ctrl.Subscribe(TopicEvents())

	// Publish the config; the service arms its ticker and starts sampling
	// the constantly-high pin, so an edge event must show up.
	ctrl.Publish(ctrl.NewMessage(TopicConfig(), types.ButtonsConfig{
		SampleHz: 1000,
		Ports: []types.PortSpec{{
			Name: "panel", Buttons: []string{"select"},
			PressTicks: 2, RepeatTicks: 4, HoldTicks: 8,
		}},
	}, true))

	if ev := nextEvent(t, events); ev.State != debounce.ChangedToPressed {
		t.Fatalf("first event = %+v, want edge", ev)
	}

	// read_now now succeeds and re-emits the current state.
	ctrl.Publish(&bus.Message{Topic: TopicControl(CtrlReadNow), ReplyTo: bus.T("reply", "ctrl")})
	select {
	case m := <-replies.Channel():
		if m.Payload.(errcode.Code) != errcode.OK {
			t.Fatalf("reply = %v, want ok", m.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no ok reply")
	}
	if ev := nextEvent(t, events); ev.Name != "select" {
		t.Fatalf("read_now event = %+v", ev)
	}
}

func TestUnsupportedControlVerb(t *testing.T) {
	b := bus.NewBus(8)
	s := New(b.NewConnection("buttons"), Wiring{})
	s.ready = true

	reply := b.NewConnection("ctrl").Subscribe(bus.T("reply", "x"))
	s.handleControl(&bus.Message{Topic: TopicControl("selfdestruct"), ReplyTo: bus.T("reply", "x")})
	select {
	case m := <-reply.Channel():
		if m.Payload.(errcode.Code) != errcode.Unsupported {
			t.Fatalf("reply = %v, want unsupported", m.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no reply")
	}
}
