// README: Order store backed by PostgreSQL.
package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"orderdesk/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const orderColumns = `
	id, source_city, destination_city, departure_date, arrival_date,
	bogie_count, wheel_count, total_days, total_cost, created_at, updated_at`

func (s *Store) List(ctx context.Context) ([]Order, error) {
	rows, err := s.db.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, string(id))
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Upsert inserts o or overwrites the row with the same id. created_at of an
// existing row is kept; o's timestamps are refreshed from the database.
func (s *Store) Upsert(ctx context.Context, o *Order) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO orders (
			id, source_city, destination_city, departure_date, arrival_date,
			bogie_count, wheel_count, total_days, total_cost, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			source_city = EXCLUDED.source_city,
			destination_city = EXCLUDED.destination_city,
			departure_date = EXCLUDED.departure_date,
			arrival_date = EXCLUDED.arrival_date,
			bogie_count = EXCLUDED.bogie_count,
			wheel_count = EXCLUDED.wheel_count,
			total_days = EXCLUDED.total_days,
			total_cost = EXCLUDED.total_cost,
			updated_at = NOW()
		RETURNING created_at, updated_at`,
		string(o.ID),
		o.SourceCity,
		o.DestinationCity,
		o.DepartureDate,
		o.ArrivalDate,
		o.BogieCount,
		o.WheelCount,
		o.TotalDays,
		o.TotalCost,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if isCheckViolation(err) {
		return ErrBadRequest
	}
	return err
}

func (s *Store) Delete(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var id string
	err := row.Scan(
		&id, &o.SourceCity, &o.DestinationCity, &o.DepartureDate, &o.ArrivalDate,
		&o.BogieCount, &o.WheelCount, &o.TotalDays, &o.TotalCost, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.ID = types.ID(id)
	return &o, nil
}

const sqlStateCheckViolation = "23514"

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateCheckViolation
}
