//go:build rp2040

// pico-buttons: reference firmware for the buttons service on a Raspberry
// Pi Pico. Four active-low panel buttons are scanned as one port word,
// debounced by the "front-panel" port unit, and the resulting events are
// streamed out UART0 as text lines. A WS2812 fades in while any button is
// held.
//
// The library owns none of this: pin setup, the sample sources and the
// event consumers live here, on the caller's side.
package main

import (
	"context"
	"image/color"
	"time"

	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/ws2812"

	"buttoncode-go/bus"
	"buttoncode-go/debounce"
	"buttoncode-go/services/buttons"
	"buttoncode-go/services/config"
	"buttoncode-go/services/heartbeat"
	"buttoncode-go/types"
	"buttoncode-go/x/conv"
	"buttoncode-go/x/ramp"
)

// Panel wiring: bit i of the port word is panelPins[i], pressed == low.
var panelPins = [...]machine.Pin{machine.GP2, machine.GP3, machine.GP4, machine.GP5}

const neoPin = machine.GP16

const (
	ledTop   = 0x40 // full hold brightness (green)
	ledSteps = 16
	ledTick  = 15 * time.Millisecond
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[pico-buttons] boot")

	for _, p := range panelPins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	neoPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := ws2812.New(neoPin)

	ledTarget := make(chan uint16, 1)
	go ledLoop(led, ledTarget)
	setLED(ledTarget, 0)

	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	b := bus.NewBus(16)
	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "pico-panel")

	config.NewService().Start(ctx, b.NewConnection("config"))

	svc := buttons.New(b.NewConnection("buttons"), buttons.Wiring{
		Ports: map[string]buttons.PortSampler{
			"front-panel": buttons.PortSamplerFunc(readPanel),
		},
	})
	go svc.Run(ctx)

	hb := &heartbeat.Service{Label: "pico-buttons", Probe: readPanel}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	events := b.NewConnection("main").Subscribe(buttons.TopicEvents())
	held := map[string]bool{}
	for m := range events.Channel() {
		ev, ok := m.Payload.(types.ButtonEvent)
		if !ok {
			continue
		}
		writeEvent(u, ev)

		switch ev.State {
		case debounce.Hold, debounce.Repeat:
			held[ev.Name] = true
		case debounce.UnPressed:
			delete(held, ev.Name)
		}
		if len(held) > 0 {
			setLED(ledTarget, ledTop)
		} else {
			setLED(ledTarget, 0)
		}
	}
}

// readPanel packs the active-low panel pins into an active-high port word.
func readPanel() uint32 {
	var v uint32
	for i, p := range panelPins {
		if !p.Get() {
			v |= 1 << uint(i)
		}
	}
	return v
}

// setLED replaces any pending target so the LED loop always fades toward the
// latest one.
func setLED(target chan uint16, level uint16) {
	select {
	case <-target:
	default:
	}
	target <- level
}

// ledLoop fades the WS2812 toward the most recent target level. A new target
// arriving mid-fade restarts the ramp from the current level.
func ledLoop(led ws2812.Device, target <-chan uint16) {
	var cur uint16
	for to := range target {
		r := ramp.NewLinear(cur, to, ledTop, ledSteps)
		for {
			v, more := r.Next()
			cur = v
			_ = led.WriteColors([]color.RGBA{{G: uint8(cur)}})
			if !more {
				break
			}
			select {
			case to = <-target:
				r = ramp.NewLinear(cur, to, ledTop, ledSteps)
			case <-time.After(ledTick):
			}
		}
	}
}

// writeEvent emits "evt <unit>/<name> <state> t=<ms>" without fmt.
func writeEvent(u *uartx.UART, ev types.ButtonEvent) {
	var num [20]byte
	_, _ = u.Write([]byte("evt "))
	_, _ = u.Write([]byte(ev.Unit))
	_, _ = u.Write([]byte("/"))
	_, _ = u.Write([]byte(ev.Name))
	_, _ = u.Write([]byte(" "))
	_, _ = u.Write([]byte(ev.State.String()))
	_, _ = u.Write([]byte(" t="))
	_, _ = u.Write(conv.Itoa(num[:], ev.TsMs))
	_, _ = u.Write([]byte("\r\n"))
}
