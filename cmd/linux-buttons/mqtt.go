//go:build linux

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"buttoncode-go/bus"
	"buttoncode-go/services/buttons"
	"buttoncode-go/types"
)

type publisher struct {
	client paho.Client
}

func newPublisher(broker, clientID string) (*publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return &publisher{client: client}, nil
}

func (p *publisher) Close() {
	p.client.Disconnect(250)
}

// wireEvent is the MQTT JSON shape; the bus-side types stay tag-free.
type wireEvent struct {
	Unit  string `json:"unit"`
	Name  string `json:"name"`
	Pin   int    `json:"pin"`
	State string `json:"state"`
	TsMs  int64  `json:"ts_ms"`
}

// bridgeEvents forwards every button event from the bus to the broker,
// QoS 0: a missed repeat is not worth blocking the sampler's consumers.
func bridgeEvents(ctx context.Context, conn *bus.Connection, p *publisher, topic string) {
	sub := conn.Subscribe(buttons.TopicEvents())
	defer conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-sub.Channel():
			ev, ok := m.Payload.(types.ButtonEvent)
			if !ok {
				continue
			}
			payload, err := json.Marshal(wireEvent{
				Unit:  ev.Unit,
				Name:  ev.Name,
				Pin:   ev.Pin,
				State: ev.State.String(),
				TsMs:  ev.TsMs,
			})
			if err != nil {
				continue
			}
			token := p.client.Publish(topic, 0, false, payload)
			if token.WaitTimeout(5*time.Second) && token.Error() != nil {
				log.Printf("mqtt publish: %v", token.Error())
			}
		}
	}
}
