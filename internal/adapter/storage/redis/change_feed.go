package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"echeck-gateway/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const subscriberBuffer = 16

// ChangeFeed implements ports.ChangeFeed over Redis pub/sub, one channel
// per issuer. Delivery is at-most-once: subscribers only see events
// published while they are connected.
type ChangeFeed struct {
	client *goredis.Client
	log    zerolog.Logger
}

func NewChangeFeed(client *goredis.Client, log zerolog.Logger) *ChangeFeed {
	return &ChangeFeed{client: client, log: log}
}

func channelFor(issuerID uuid.UUID) string {
	return eventsPrefix + issuerID.String()
}

// Publish sends ev to the issuer's channel.
func (f *ChangeFeed) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := f.client.Publish(ctx, channelFor(ev.IssuerID), payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe confirms the subscription before returning, so events
// published after Subscribe returns are not missed. The channel closes
// when ctx is cancelled or the subscription drops.
func (f *ChangeFeed) Subscribe(ctx context.Context, issuerID uuid.UUID) (<-chan domain.ChangeEvent, error) {
	sub := f.client.Subscribe(ctx, channelFor(issuerID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan domain.ChangeEvent, subscriberBuffer)
	go func() {
		defer close(out)
		defer sub.Close() //nolint:errcheck

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					f.log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed change event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
