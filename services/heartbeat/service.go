// Package heartbeat prints a periodic liveness line. With a Probe wired it
// includes the raw (pre-debounce) input word, so a dead or flaky harness is
// visible even when no debounced event makes it through.
package heartbeat

import (
	"context"
	"time"

	"buttoncode-go/bus"
	"buttoncode-go/x/conv"
)

var topicConfigHeartbeat = bus.T("config", "heartbeat")

const defaultInterval = 10 * time.Second

type Service struct {
	Label string        // printed prefix, e.g. "pico-buttons"
	Probe func() uint32 // optional raw input word
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(defaultInterval)
	defer tick.Stop()

	var hex [8]byte
	for {
		select {
		case <-ctx.Done():
			println("[" + s.Label + "] heartbeat stopping")
			return
		case <-tick.C:
			if s.Probe != nil {
				println("[" + s.Label + "] alive raw=0x" + string(conv.U32Hex(hex[:], s.Probe())))
			} else {
				println("[" + s.Label + "] alive")
			}
		case msg := <-cfgSub.Channel():
			// Interval in seconds; anything else is ignored.
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval"].(float64); ok && iv > 0 {
					tick.Reset(time.Duration(iv * float64(time.Second)))
				}
			}
		}
	}
}

// Start launches the heartbeat loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
