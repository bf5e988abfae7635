package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Channels published by the reminder subsystem.
const (
	ChannelReminderFired = "reminder.fired"
	ChannelDoseResolved  = "dose.resolved"
	ChannelDoseMissed    = "dose.missed"
)

// Message is the envelope for every published payload.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
