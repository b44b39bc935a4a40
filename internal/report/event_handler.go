package report

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/asset-custody/internal/core/events"
)

type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// EventHandler drops cached reports whenever the ledger or a directory changes.
type EventHandler struct {
	cache  Cache
	logger *slog.Logger
}

func NewEventHandler(cache Cache, logger *slog.Logger) *EventHandler {
	return &EventHandler{cache: cache, logger: logger}
}

func (h *EventHandler) Register(bus Subscriber) {
	for _, eventType := range events.AllTypes {
		bus.Subscribe(eventType, h.HandleChange)
	}
}

func (h *EventHandler) HandleChange(ctx context.Context, event events.Event) error {
	if err := h.cache.Invalidate(ctx); err != nil {
		h.logger.Error("failed to invalidate report cache", "event_type", event.EventType(), "event_id", event.EventID(), "error", err)
		return err
	}
	h.logger.Debug("report cache invalidated", "event_type", event.EventType(), "event_id", event.EventID())
	return nil
}
