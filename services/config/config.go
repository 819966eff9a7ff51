// Package config publishes the device's embedded button configuration as a
// retained bus message, so the buttons service can start whenever it
// subscribes, in any order of service startup.
package config

import (
	"context"

	"buttoncode-go/bus"
	"buttoncode-go/errcode"
	"buttoncode-go/services/buttons"
	"buttoncode-go/types"
)

const serviceName = "config"

// CtxDeviceKey is the context key carrying the device ID.
const CtxDeviceKey = "device"

// EmbeddedLookup resolves a device ID to its built-in configuration.
// Overridable for tests and for firmware images with generated tables.
var EmbeddedLookup = func(device string) (types.ButtonsConfig, bool) {
	cfg, ok := embeddedConfigs[device]
	return cfg, ok
}

type Service struct {
	Name string
}

func NewService() *Service {
	return &Service{Name: serviceName}
}

func (s *Service) publish(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return &errcode.E{C: errcode.InvalidParams, Op: "config.publish", Msg: "missing device ID in context"}
	}
	cfg, ok := EmbeddedLookup(device)
	if !ok {
		return &errcode.E{C: errcode.UnknownUnit, Op: "config.publish", Msg: "no embedded config for device: " + device}
	}
	conn.Publish(conn.NewMessage(buttons.TopicConfig(), cfg, true))
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publish(ctx, conn); err != nil {
			println("[config]", err.Error())
		}
	}()
}
