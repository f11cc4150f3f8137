package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestEventNotifier_Publishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	feed := mocks.NewMockChangeFeed(ctrl)
	n := NewEventNotifier(feed, newTestLogger())

	issuerID, txID := uuid.New(), uuid.New()
	feed.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ev domain.ChangeEvent) error {
			assert.Equal(t, domain.EventTransactionCreated, ev.Type)
			assert.Equal(t, issuerID, ev.IssuerID)
			assert.Equal(t, txID, ev.ResourceID)
			assert.JSONEq(t, `{"status":"SUCCESS"}`, string(ev.Data))
			return nil
		})

	n.Notify(context.Background(), domain.EventTransactionCreated, issuerID, txID, map[string]string{"status": "SUCCESS"})
}

func TestEventNotifier_RetriesThenGivesUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	feed := mocks.NewMockChangeFeed(ctrl)
	n := NewEventNotifier(feed, newTestLogger()).WithRetryIntervals(time.Millisecond, time.Millisecond)

	feed.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(3)

	n.Notify(context.Background(), domain.EventAccountLinked, uuid.New(), uuid.New(), nil)
}

func TestEventNotifier_RecoversOnRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	feed := mocks.NewMockChangeFeed(ctrl)
	n := NewEventNotifier(feed, newTestLogger()).WithRetryIntervals(time.Millisecond)

	gomock.InOrder(
		feed.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("timeout")),
		feed.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil),
	)

	n.Notify(context.Background(), domain.EventAccountUpdated, uuid.New(), uuid.New(), nil)
}

func TestEventNotifier_StopsOnCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	feed := mocks.NewMockChangeFeed(ctrl)
	n := NewEventNotifier(feed, newTestLogger()).WithRetryIntervals(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	feed.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domain.ChangeEvent) error {
			cancel()
			return errors.New("fail")
		})

	n.Notify(ctx, domain.EventAccountDeleted, uuid.New(), uuid.New(), nil)
}

func TestEventNotifier_NilSafe(t *testing.T) {
	var n *EventNotifier
	n.Notify(context.Background(), domain.EventAccountLinked, uuid.New(), uuid.New(), nil)

	NewEventNotifier(nil, newTestLogger()).Notify(context.Background(), domain.EventAccountLinked, uuid.New(), uuid.New(), nil)
}
