package service

import (
	"context"
	"time"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// defaultPublishRetryIntervals are the pauses between publish attempts.
var defaultPublishRetryIntervals = []time.Duration{
	50 * time.Millisecond,
	250 * time.Millisecond,
}

// EventNotifier publishes change events for account and transaction
// mutations. Publishing is best-effort: failures are logged, never returned.
// A nil notifier or one without a feed is a no-op.
type EventNotifier struct {
	feed    ports.ChangeFeed
	retries []time.Duration
	log     zerolog.Logger
}

func NewEventNotifier(feed ports.ChangeFeed, log zerolog.Logger) *EventNotifier {
	return &EventNotifier{feed: feed, retries: defaultPublishRetryIntervals, log: log}
}

// WithRetryIntervals replaces the retry schedule.
func (n *EventNotifier) WithRetryIntervals(intervals ...time.Duration) *EventNotifier {
	n.retries = intervals
	return n
}

// Notify builds and publishes one event.
func (n *EventNotifier) Notify(ctx context.Context, t domain.EventType, issuerID, resourceID uuid.UUID, data interface{}) {
	if n == nil || n.feed == nil {
		return
	}

	ev, err := domain.NewChangeEvent(t, issuerID, resourceID, data)
	if err != nil {
		n.log.Error().Err(err).Str("event", string(t)).Msg("events: failed to build event")
		return
	}

	for attempt := 0; attempt <= len(n.retries); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				n.log.Warn().Err(ctx.Err()).Str("event", string(t)).Msg("events: publish abandoned")
				return
			case <-time.After(n.retries[attempt-1]):
			}
		}

		err = n.feed.Publish(ctx, ev)
		if err == nil {
			n.log.Debug().
				Str("event", string(t)).
				Str("issuer_id", issuerID.String()).
				Str("resource_id", resourceID.String()).
				Int("attempt", attempt+1).
				Msg("events: published")
			return
		}
		n.log.Warn().Err(err).Str("event", string(t)).Int("attempt", attempt+1).Msg("events: publish failed")
	}

	n.log.Error().Err(err).Str("event", string(t)).Str("issuer_id", issuerID.String()).Msg("events: all publish attempts exhausted")
}
