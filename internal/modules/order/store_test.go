// README: Postgres-backed order store tests (skipped without ORDERDESK_TEST_DSN).
package order

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"orderdesk/internal/infra"
	"orderdesk/internal/types"
)

func TestStoreUpsertGetListDelete(t *testing.T) {
	store := setupTestStore(t)
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, delhiMumbai())
	if err != nil {
		t.Fatalf("upsert first: %v", err)
	}
	cmd := delhiMumbai()
	cmd.DestinationCity = "Chennai"
	second, err := svc.Upsert(ctx, cmd)
	if err != nil {
		t.Fatalf("upsert second: %v", err)
	}

	got, err := store.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalDays != 2 || got.TotalCost != 310640 {
		t.Fatalf("persisted totals = (%d, %d), want (2, 310640)", got.TotalDays, got.TotalCost)
	}
	if !got.DepartureDate.Equal(day(1)) || !got.ArrivalDate.Equal(day(3)) {
		t.Fatalf("dates did not round-trip: %v %v", got.DepartureDate, got.ArrivalDate)
	}

	orders, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", orders)
	}

	if err := store.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted: expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, types.NewID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete unknown: expected ErrNotFound, got %v", err)
	}
}

func TestStoreUpsertKeepsCreatedAt(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	o := &Order{
		ID: types.NewID(), SourceCity: "Delhi", DestinationCity: "Mumbai",
		DepartureDate: day(1), ArrivalDate: day(3), BogieCount: 1,
	}
	if err := store.Upsert(ctx, o); err != nil {
		t.Fatalf("insert: %v", err)
	}
	created := o.CreatedAt

	o.BogieCount = 5
	if err := store.Upsert(ctx, o); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !o.CreatedAt.Equal(created) {
		t.Fatalf("created_at changed: %v -> %v", created, o.CreatedAt)
	}
	got, err := store.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BogieCount != 5 {
		t.Fatalf("bogie_count = %d, want 5", got.BogieCount)
	}
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("ORDERDESK_TEST_DSN")
	if dsn == "" {
		t.Skip("ORDERDESK_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := infra.ApplyMigrations(ctx, db, filepath.Join("..", "..", "..", "migrations")); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE orders"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return NewStore(db)
}
