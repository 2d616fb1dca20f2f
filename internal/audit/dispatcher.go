package audit

import (
	"context"
	"fmt"
	"maps"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Namespace: "staffpanel",
	Subsystem: "audit",
	Name:      "messages_total",
	Help:      "Audit messages by destination and result.",
}, []string{"destination", "result"})

// Sender posts a message to a channel.
type Sender interface {
	Send(ctx context.Context, channelID string, m Message) error
}

// Notifier delivers audit messages.
type Notifier interface {
	Notify(ctx context.Context, m Message) error
}

// Dispatcher resolves destinations to channels and hands messages to a Sender.
type Dispatcher struct {
	sender   Sender
	channels map[string]string
}

// NewDispatcher returns a Dispatcher for the destination to channel mapping.
func NewDispatcher(sender Sender, channels map[string]string) *Dispatcher {
	return &Dispatcher{sender: sender, channels: maps.Clone(channels)}
}

// Configured reports whether destination has a channel.
func (d *Dispatcher) Configured(destination string) bool {
	return d.channels[destination] != ""
}

// Notify posts m to the channel of m.Destination.
func (d *Dispatcher) Notify(ctx context.Context, m Message) error {
	channel := d.channels[m.Destination]
	if channel == "" {
		messagesTotal.WithLabelValues(m.Destination, "unrouted").Inc()
		return fmt.Errorf("%w: %s", ErrDestinationNotConfigured, m.Destination)
	}

	if err := d.sender.Send(ctx, channel, m); err != nil {
		messagesTotal.WithLabelValues(m.Destination, "error").Inc()
		log.Warn().Err(err).Str("destination", m.Destination).Str("channel", channel).Msg("audit message not delivered")

		return fmt.Errorf("send to %s: %w", m.Destination, err)
	}

	messagesTotal.WithLabelValues(m.Destination, "ok").Inc()

	return nil
}
