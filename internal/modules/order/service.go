// README: Order service validates writes, derives trip totals and persists orders.
package order

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"orderdesk/internal/modules/pricing"
	"orderdesk/internal/types"
)

var (
	ErrNotFound   = errors.New("order not found")
	ErrBadRequest = errors.New("bad request")
)

// MaxEquipmentCount bounds bogie and wheel counts so cost arithmetic stays in int64.
const MaxEquipmentCount = 100000

type Repository interface {
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id types.ID) (*Order, error)
	Upsert(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id types.ID) error
}

// ListCache stores the listing tagged with a write generation. Invalidate bumps
// the generation; SetList must drop a listing read under an older one.
type ListCache interface {
	GetList(ctx context.Context) ([]Order, bool, error)
	Generation(ctx context.Context) (int64, error)
	SetList(ctx context.Context, gen int64, orders []Order) error
	Invalidate(ctx context.Context) error
}

type Pricing interface {
	ComputeTrip(in pricing.TripInput) pricing.TripResult
}

type Service struct {
	store     Repository
	pricing   Pricing
	cache     ListCache
	publisher Publisher
	now       func() time.Time
}

// NewService wires the order service. A nil pricing uses the built-in distance
// table and a nil cache disables listing cache.
func NewService(store Repository, p Pricing, cache ListCache) *Service {
	if p == nil {
		p = pricing.NewService(nil)
	}
	return &Service{store: store, pricing: p, cache: cache, now: time.Now}
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	fill := false
	var gen int64
	if s.cache != nil {
		orders, ok, err := s.cache.GetList(ctx)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "order list cache read failed", "err", err)
		case ok:
			return orders, nil
		}
		// The generation is read before the store so a write landing in between
		// makes SetList discard this listing.
		if gen, err = s.cache.Generation(ctx); err != nil {
			slog.WarnContext(ctx, "order list cache generation read failed", "err", err)
		} else {
			fill = true
		}
	}

	orders, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if fill {
		if err := s.cache.SetList(ctx, gen, orders); err != nil {
			slog.WarnContext(ctx, "order list cache write failed", "err", err)
		}
	}
	return orders, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	if id == "" {
		return nil, ErrBadRequest
	}
	return s.store.Get(ctx, id)
}

// Upsert creates the order when cmd.ID is empty, otherwise writes it under
// cmd.ID. TotalDays and TotalCost are recomputed on every call. City names are
// stored and priced exactly as given.
func (s *Service) Upsert(ctx context.Context, cmd UpsertCommand) (*Order, error) {
	if err := validate(cmd); err != nil {
		return nil, err
	}

	id := cmd.ID
	if id == "" {
		id = types.NewID()
	}
	trip := s.pricing.ComputeTrip(cmd.tripInput())

	o := &Order{
		ID:              id,
		SourceCity:      cmd.SourceCity,
		DestinationCity: cmd.DestinationCity,
		DepartureDate:   cmd.DepartureDate,
		ArrivalDate:     cmd.ArrivalDate,
		BogieCount:      cmd.BogieCount,
		WheelCount:      cmd.WheelCount,
		TotalDays:       trip.TotalDays,
		TotalCost:       trip.TotalCost,
	}
	if err := s.store.Upsert(ctx, o); err != nil {
		return nil, err
	}
	ordersWritten.WithLabelValues("upsert").Inc()
	s.invalidate(ctx)
	s.publish(ctx, Event{Type: EventUpserted, OrderID: o.ID, Order: o})

	slog.InfoContext(ctx, "order upserted",
		"order_id", string(o.ID),
		"total_days", o.TotalDays,
		"total_cost", o.TotalCost,
	)
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id types.ID) error {
	if id == "" {
		return ErrBadRequest
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	ordersWritten.WithLabelValues("delete").Inc()
	s.invalidate(ctx)
	s.publish(ctx, Event{Type: EventDeleted, OrderID: id})
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "order list cache invalidate failed", "err", err)
	}
}

func validate(cmd UpsertCommand) error {
	switch {
	case cmd.ID != "" && !cmd.ID.Valid():
		return ErrBadRequest
	case strings.TrimSpace(cmd.SourceCity) == "" || strings.TrimSpace(cmd.DestinationCity) == "":
		return ErrBadRequest
	case cmd.DepartureDate.IsZero() || cmd.ArrivalDate.IsZero():
		return ErrBadRequest
	case cmd.BogieCount < 0 || cmd.WheelCount < 0:
		return ErrBadRequest
	case cmd.BogieCount > MaxEquipmentCount || cmd.WheelCount > MaxEquipmentCount:
		return ErrBadRequest
	}
	return nil
}
