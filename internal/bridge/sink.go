package bridge

import (
	"errors"

	"github.com/zjrosen/ccbridge/internal/pubsub"
)

// ErrNotDelivered is returned by sinks that could not hand an event on.
// Dispatch logs it and carries on.
var ErrNotDelivered = errors.New("stream event not delivered")

// Sink receives stream events. Delivery is best effort; a returned error
// never aborts a dispatch.
type Sink interface {
	Send(ev StreamEvent) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev StreamEvent) error

// Send calls f(ev).
func (f SinkFunc) Send(ev StreamEvent) error { return f(ev) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(StreamEvent) error { return nil })

// ChannelSink sends events on a buffered channel without blocking.
type ChannelSink chan<- StreamEvent

// Send enqueues ev, or returns ErrNotDelivered when the buffer is full.
func (c ChannelSink) Send(ev StreamEvent) error {
	select {
	case c <- ev:
		return nil
	default:
		return ErrNotDelivered
	}
}

// BrokerSink publishes events on a pubsub broker, fanning them out to every
// subscriber such as the chat window.
type BrokerSink struct {
	broker *pubsub.Broker[StreamEvent]
}

// NewBrokerSink wraps broker.
func NewBrokerSink(broker *pubsub.Broker[StreamEvent]) *BrokerSink {
	return &BrokerSink{broker: broker}
}

// Send publishes ev. It reports ErrNotDelivered when no subscriber took it.
func (s *BrokerSink) Send(ev StreamEvent) error {
	if s.broker.Publish(pubsub.StreamedEvent, ev) == 0 {
		return ErrNotDelivered
	}
	return nil
}
