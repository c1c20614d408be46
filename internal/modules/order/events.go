// README: Order change events published after successful writes.
package order

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"orderdesk/internal/types"
)

const (
	EventUpserted = "order.upserted"
	EventDeleted  = "order.deleted"
)

type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

type Event struct {
	Type    string    `json:"type"`
	OrderID types.ID  `json:"order_id"`
	Order   *Order    `json:"order,omitempty"`
	At      time.Time `json:"at"`
}

// WithPublisher enables change events. A nil publisher disables them.
func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

// publish never fails the caller: the write it describes is already committed.
func (s *Service) publish(ctx context.Context, ev Event) {
	if s.publisher == nil {
		return
	}
	ev.At = s.now().UTC()
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.ErrorContext(ctx, "order event encode failed", "type", ev.Type, "err", err)
		return
	}
	if err := s.publisher.Publish(ctx, []byte(ev.OrderID), payload); err != nil {
		eventsFailed.WithLabelValues(ev.Type).Inc()
		slog.WarnContext(ctx, "order event publish failed", "type", ev.Type, "order_id", string(ev.OrderID), "err", err)
	}
}
