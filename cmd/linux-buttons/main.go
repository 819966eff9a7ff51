//go:build linux

// linux-buttons: host-side reference integration of the buttons service.
// GPIO lines are sampled through the Linux character device, debounced by
// a single port unit, and the resulting events are logged and optionally
// bridged to an MQTT broker. Without real hardware (-sim, or no chip in
// the config) a simulated panel is driven from a small stdin console.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"buttoncode-go/bus"
	"buttoncode-go/services/buttons"
	"buttoncode-go/types"
)

func main() {
	cfgPath := flag.String("config", "linux-buttons.yaml", "path to the YAML config")
	sim := flag.Bool("sim", false, "use the simulated panel even if a chip is configured")
	flag.Parse()

	fc, err := loadFileConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bcfg := fc.buttonsConfig()

	var sampler buttons.PortSampler
	var panel *simPanel
	if *sim || fc.Chip == "" {
		panel = newSimPanel(fc.buttonNames())
		sampler = panel
		log.Printf("using simulated panel; type 'help' on stdin")
	} else {
		g, err := newGPIOSampler(fc.Chip, fc.lineOffsets(), fc.ActiveLow)
		if err != nil {
			log.Fatalf("gpio: %v", err)
		}
		defer g.Close()
		sampler = g
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b := bus.NewBus(32)
	svc := buttons.New(b.NewConnection("buttons"), buttons.Wiring{
		Ports: map[string]buttons.PortSampler{fc.Panel.Name: sampler},
	})
	go svc.Run(ctx)

	conn := b.NewConnection("main")
	conn.Publish(conn.NewMessage(buttons.TopicConfig(), bcfg, true))

	if fc.MQTT.Broker != "" {
		pub, err := newPublisher(fc.MQTT.Broker, fc.MQTT.ClientID)
		if err != nil {
			log.Fatalf("mqtt: %v", err)
		}
		defer pub.Close()
		go bridgeEvents(ctx, b.NewConnection("mqtt"), pub, fc.MQTT.Topic)
	}

	if panel != nil {
		go runConsole(ctx, cancel, panel, conn)
	}

	events := b.NewConnection("log").Subscribe(buttons.TopicEvents())
	for {
		select {
		case <-ctx.Done():
			log.Printf("shutting down")
			return
		case m := <-events.Channel():
			if ev, ok := m.Payload.(types.ButtonEvent); ok {
				log.Printf("%s/%s -> %s", ev.Unit, ev.Name, ev.State)
			}
		}
	}
}
