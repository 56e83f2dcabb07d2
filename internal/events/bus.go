// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus is the default in-process catalog event transport. GoChannel delivers
// each published message to every subscriber of the exact topic within this
// process; nothing crosses a process boundary and nothing is persisted.
// Build with -tags nats for a durable JetStream transport instead.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates an in-process bus.
func NewBus(cfg BusConfig, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(cfg.BufferSize),
		Persistent:          cfg.Persistent,
	}, logger)

	return &Bus{pubsub: pubsub}
}

// Publisher returns the publishing side of the bus.
func (b *Bus) Publisher() message.Publisher {
	return b.pubsub
}

// Subscriber returns the subscribing side of the bus.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
