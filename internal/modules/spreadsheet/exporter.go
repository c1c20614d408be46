// README: Google Sheets exporter; creates spreadsheets and overwrites them with orders.
package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/sheets/v4"

	"orderdesk/internal/infra"
	"orderdesk/internal/modules/order"
)

const sheetTitle = "Orders"

var columns = []string{
	"ID",
	"Source City",
	"Destination City",
	"Departure Date",
	"Arrival Date",
	"Bogie Count",
	"Wheel Count",
	"Total Days",
	"Total Cost",
	"Created At",
}

type SheetsExporter struct {
	cfg infra.SheetsConfig
}

func NewSheetsExporter(cfg infra.SheetsConfig) *SheetsExporter {
	return &SheetsExporter{cfg: cfg}
}

func (e *SheetsExporter) CreateSpreadsheet(ctx context.Context, title, credential string) (Spreadsheet, error) {
	svc, err := infra.NewSheets(ctx, e.cfg, credential)
	if err != nil {
		return Spreadsheet{}, err
	}

	resp, err := svc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{{
			Properties: &sheets.SheetProperties{
				Title: sheetTitle,
				GridProperties: &sheets.GridProperties{
					ColumnCount:    int64(len(columns)),
					FrozenRowCount: 1,
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return Spreadsheet{}, fmt.Errorf("create spreadsheet: %w", err)
	}
	if len(resp.Sheets) == 0 || resp.Sheets[0].Properties == nil {
		return Spreadsheet{}, errors.New("create spreadsheet: response has no sheets")
	}

	name := title
	if resp.Properties != nil && resp.Properties.Title != "" {
		name = resp.Properties.Title
	}
	return Spreadsheet{
		ID:      resp.SpreadsheetId,
		SheetID: resp.Sheets[0].Properties.SheetId,
		Name:    name,
	}, nil
}

// Sync replaces the sheet contents with a header row plus one row per order,
// sized exactly to fit, in a single batchUpdate.
func (e *SheetsExporter) Sync(ctx context.Context, spreadsheetID string, sheetID int64, orders []order.Order, credential string) error {
	svc, err := infra.NewSheets(ctx, e.cfg, credential)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{Requests: syncRequests(sheetID, orders)}
	if _, err := svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sync spreadsheet %s: %w", spreadsheetID, err)
	}
	return nil
}

func syncRequests(sheetID int64, orders []order.Order) []*sheets.Request {
	rows := make([]*sheets.RowData, 0, len(orders)+1)
	rows = append(rows, headerRow())
	for _, o := range orders {
		rows = append(rows, orderRow(o))
	}

	return []*sheets.Request{
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(len(rows)),
						ColumnCount: int64(len(columns)),
					},
					ForceSendFields: []string{"SheetId"},
				},
				Fields: "gridProperties(rowCount,columnCount)",
			},
		},
		{
			UpdateCells: &sheets.UpdateCellsRequest{
				Start: &sheets.GridCoordinate{
					SheetId:         sheetID,
					ForceSendFields: []string{"SheetId", "RowIndex", "ColumnIndex"},
				},
				Rows:   rows,
				Fields: "*",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "COLUMNS",
					StartIndex:      0,
					EndIndex:        int64(len(columns)),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		},
	}
}

func headerRow() *sheets.RowData {
	cells := make([]*sheets.CellData, len(columns))
	for i, c := range columns {
		cells[i] = stringCell(c)
		cells[i].UserEnteredFormat = &sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true}}
	}
	return &sheets.RowData{Values: cells}
}

func orderRow(o order.Order) *sheets.RowData {
	values := rowValues(o)
	cells := make([]*sheets.CellData, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case string:
			cells[i] = stringCell(v)
		case int:
			cells[i] = numberCell(float64(v))
		case int64:
			cells[i] = numberCell(float64(v))
		}
	}
	return &sheets.RowData{Values: cells}
}

// rowValues is one order in column order. Shared by the Sheets and XLSX exports.
func rowValues(o order.Order) []any {
	return []any{
		string(o.ID),
		o.SourceCity,
		o.DestinationCity,
		o.DepartureDate.UTC().Format(time.DateOnly),
		o.ArrivalDate.UTC().Format(time.DateOnly),
		o.BogieCount,
		o.WheelCount,
		o.TotalDays,
		o.TotalCost,
		o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func stringCell(v string) *sheets.CellData {
	return &sheets.CellData{UserEnteredValue: &sheets.ExtendedValue{StringValue: &v}}
}

func numberCell(v float64) *sheets.CellData {
	return &sheets.CellData{UserEnteredValue: &sheets.ExtendedValue{NumberValue: &v}}
}
