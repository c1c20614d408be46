// README: Spreadsheet record store backed by PostgreSQL.
package spreadsheet

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, sp *Spreadsheet) error {
	return s.db.QueryRow(ctx, `
		INSERT INTO spreadsheets (id, sheet_id, name, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at`,
		sp.ID, sp.SheetID, sp.Name,
	).Scan(&sp.CreatedAt)
}

func (s *Store) Get(ctx context.Context, id string) (*Spreadsheet, error) {
	var sp Spreadsheet
	err := s.db.QueryRow(ctx, `
		SELECT id, sheet_id, name, created_at FROM spreadsheets WHERE id = $1`, id,
	).Scan(&sp.ID, &sp.SheetID, &sp.Name, &sp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (s *Store) List(ctx context.Context) ([]Spreadsheet, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, sheet_id, name, created_at FROM spreadsheets ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Spreadsheet{}
	for rows.Next() {
		var sp Spreadsheet
		if err := rows.Scan(&sp.ID, &sp.SheetID, &sp.Name, &sp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}
