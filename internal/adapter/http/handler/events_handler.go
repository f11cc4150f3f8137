package handler

import (
	"io"
	"time"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const defaultHeartbeat = 25 * time.Second

// EventsHandler streams an issuer's change feed as Server-Sent Events.
type EventsHandler struct {
	feed      ports.ChangeFeed
	heartbeat time.Duration
	log       zerolog.Logger
}

func NewEventsHandler(feed ports.ChangeFeed, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{feed: feed, heartbeat: defaultHeartbeat, log: log}
}

type streamError struct {
	Reason string `json:"reason"`
}

// Stream handles GET /api/v1/events. Failures after the stream opened are
// sent as an "error" event before the stream closes.
func (h *EventsHandler) Stream(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	if q := c.Query("issuer_id"); q != "" && q != id.String() {
		h.fail(c, domain.StreamErrPermissionDenied)
		return
	}

	ctx := c.Request.Context()
	events, err := h.feed.Subscribe(ctx, id)
	if err != nil {
		h.log.Warn().Err(err).Str("issuer_id", id.String()).Msg("events: subscribe failed")
		h.fail(c, domain.StreamErrUnavailable)
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, open := <-events:
			if !open {
				if ctx.Err() == nil {
					c.SSEvent("error", streamError{Reason: domain.StreamErrUnavailable})
				}
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		}
	})
}

func (h *EventsHandler) fail(c *gin.Context, reason string) {
	c.SSEvent("error", streamError{Reason: reason})
	c.Writer.Flush()
}
