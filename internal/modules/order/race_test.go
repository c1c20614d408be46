// README: Concurrency tests for order writes (run with -race).
package order

import (
	"context"
	"sync"
	"testing"

	"orderdesk/internal/types"
)

func TestConcurrentUpsertSameOrder(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	svc := NewService(store, nil, nil)

	id := types.NewID()
	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		cmd := delhiMumbai()
		cmd.ID = id
		cmd.BogieCount = i
		wg.Add(1)
		go func(c UpsertCommand) {
			defer wg.Done()
			_, err := svc.Upsert(ctx, c)
			errs <- err
		}(cmd)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	orders, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected a single row, got %d", len(orders))
	}
	// Whichever writer won, its totals must match its own counts.
	o := orders[0]
	want := svc.pricing.ComputeTrip(o.Trip())
	if o.TotalDays != want.TotalDays || o.TotalCost != want.TotalCost {
		t.Fatalf("totals (%d, %d) do not match counts, want (%d, %d)", o.TotalDays, o.TotalCost, want.TotalDays, want.TotalCost)
	}
}

func TestConcurrentUpsertDistinctOrders(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	svc := NewService(store, nil, nil)

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Upsert(ctx, delhiMumbai())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	orders, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != writers {
		t.Fatalf("expected %d orders, got %d", writers, len(orders))
	}
}
