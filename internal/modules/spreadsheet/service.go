// README: Spreadsheet service creates export targets and pushes all orders into them.
package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"orderdesk/internal/modules/order"
)

type Repository interface {
	Create(ctx context.Context, sp *Spreadsheet) error
	Get(ctx context.Context, id string) (*Spreadsheet, error)
	List(ctx context.Context) ([]Spreadsheet, error)
}

type OrderLister interface {
	List(ctx context.Context) ([]order.Order, error)
}

type Exporter interface {
	CreateSpreadsheet(ctx context.Context, title, credential string) (Spreadsheet, error)
	Sync(ctx context.Context, spreadsheetID string, sheetID int64, orders []order.Order, credential string) error
}

type Service struct {
	store    Repository
	orders   OrderLister
	exporter Exporter
	now      func() time.Time
}

func NewService(store Repository, orders OrderLister, exporter Exporter) *Service {
	return &Service{store: store, orders: orders, exporter: exporter, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Spreadsheet, error) {
	return s.store.List(ctx)
}

// Create makes a new external spreadsheet titled after the current time and records it.
func (s *Service) Create(ctx context.Context, credential string) (*Spreadsheet, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrUnauthorized
	}

	title := fmt.Sprintf("Orders (%s)", s.now().Format(time.TimeOnly))
	sp, err := s.exporter.CreateSpreadsheet(ctx, title, credential)
	if err != nil {
		exportsTotal.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	exportsTotal.WithLabelValues("create", "ok").Inc()

	if err := s.store.Create(ctx, &sp); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "spreadsheet created", "spreadsheet_id", sp.ID, "name", sp.Name)
	return &sp, nil
}

// Sync overwrites the spreadsheet with every order and returns how many were written.
func (s *Service) Sync(ctx context.Context, id, credential string) (int, error) {
	if strings.TrimSpace(credential) == "" {
		return 0, ErrUnauthorized
	}

	sp, err := s.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.exporter.Sync(ctx, sp.ID, sp.SheetID, orders, credential); err != nil {
		exportsTotal.WithLabelValues("sync", "error").Inc()
		return 0, fmt.Errorf("%w: %v", ErrExport, err)
	}
	exportsTotal.WithLabelValues("sync", "ok").Inc()
	slog.InfoContext(ctx, "spreadsheet synced", "spreadsheet_id", sp.ID, "orders", len(orders))
	return len(orders), nil
}

// Download writes every order as an XLSX workbook. No credential is involved.
func (s *Service) Download(ctx context.Context, w io.Writer) (int, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := WriteWorkbook(w, orders); err != nil {
		exportsTotal.WithLabelValues("download", "error").Inc()
		return 0, err
	}
	exportsTotal.WithLabelValues("download", "ok").Inc()
	return len(orders), nil
}
