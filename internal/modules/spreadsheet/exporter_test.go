// README: Exporter tests against an in-process fake of the Sheets v4 REST API.
package spreadsheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"google.golang.org/api/sheets/v4"

	"orderdesk/internal/infra"
	"orderdesk/internal/modules/order"
)

type fakeSheetsAPI struct {
	mu      sync.Mutex
	auth    []string
	created *sheets.Spreadsheet
	batch   *sheets.BatchUpdateSpreadsheetRequest
	fail    bool
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))

	if f.fail {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v4/spreadsheets":
		var body sheets.Spreadsheet
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.created = &body
		writeJSONBody(w, map[string]any{
			"spreadsheetId": "ss-1",
			"properties":    map[string]any{"title": body.Properties.Title},
			"sheets": []any{
				map[string]any{"properties": map[string]any{"sheetId": 42, "title": "Orders"}},
			},
		})
	case r.Method == http.MethodPost && r.URL.Path == "/v4/spreadsheets/ss-1:batchUpdate":
		var body sheets.BatchUpdateSpreadsheetRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.batch = &body
		writeJSONBody(w, map[string]any{"spreadsheetId": "ss-1"})
	default:
		http.NotFound(w, r)
	}
}

func writeJSONBody(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestExporter(t *testing.T, api *fakeSheetsAPI) *SheetsExporter {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewSheetsExporter(infra.SheetsConfig{Endpoint: srv.URL + "/", HTTPClient: srv.Client()})
}

func sampleOrders() []order.Order {
	created := time.Date(2016, 1, 1, 9, 30, 0, 0, time.UTC)
	return []order.Order{
		{
			ID: "o-2", SourceCity: "Delhi", DestinationCity: "Mumbai",
			DepartureDate: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
			ArrivalDate:   time.Date(2016, 1, 3, 0, 0, 0, 0, time.UTC),
			BogieCount:    2, WheelCount: 4, TotalDays: 2, TotalCost: 310640,
			CreatedAt: created.Add(time.Hour),
		},
		{
			ID: "o-1", SourceCity: "Xxx", DestinationCity: "Yyy",
			DepartureDate: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
			ArrivalDate:   time.Date(2016, 1, 9, 0, 0, 0, 0, time.UTC),
			TotalDays:     8, CreatedAt: created,
		},
	}
}

func TestSheetsExporterCreateSpreadsheet(t *testing.T) {
	api := &fakeSheetsAPI{}
	exp := newTestExporter(t, api)

	sp, err := exp.CreateSpreadsheet(context.Background(), "Orders (10:00:00)", "tok-123")
	if err != nil {
		t.Fatalf("CreateSpreadsheet() error = %v", err)
	}
	if sp.ID != "ss-1" || sp.SheetID != 42 || sp.Name != "Orders (10:00:00)" {
		t.Fatalf("unexpected spreadsheet %+v", sp)
	}
	if len(api.auth) != 1 || api.auth[0] != "Bearer tok-123" {
		t.Fatalf("expected bearer credential to be forwarded, got %q", api.auth)
	}
	if api.created == nil || len(api.created.Sheets) != 1 {
		t.Fatalf("expected one sheet in create request, got %+v", api.created)
	}
	grid := api.created.Sheets[0].Properties.GridProperties
	if grid.FrozenRowCount != 1 || grid.ColumnCount != int64(len(columns)) {
		t.Fatalf("unexpected grid properties %+v", grid)
	}
}

func TestSheetsExporterSync(t *testing.T) {
	api := &fakeSheetsAPI{}
	exp := newTestExporter(t, api)

	if err := exp.Sync(context.Background(), "ss-1", 42, sampleOrders(), "tok-456"); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if api.batch == nil || len(api.batch.Requests) != 3 {
		t.Fatalf("expected 3 batch requests, got %+v", api.batch)
	}
	if api.auth[0] != "Bearer tok-456" {
		t.Fatalf("unexpected auth header %q", api.auth[0])
	}

	resize := api.batch.Requests[0].UpdateSheetProperties
	if resize == nil || resize.Properties.SheetId != 42 || resize.Properties.GridProperties.RowCount != 3 {
		t.Fatalf("unexpected resize request %+v", resize)
	}

	cells := api.batch.Requests[1].UpdateCells
	if cells == nil || len(cells.Rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %+v", cells)
	}
	if got := *cells.Rows[0].Values[0].UserEnteredValue.StringValue; got != "ID" {
		t.Fatalf("header[0] = %q, want ID", got)
	}
	first := cells.Rows[1].Values
	if got := *first[0].UserEnteredValue.StringValue; got != "o-2" {
		t.Fatalf("row 1 id = %q, want o-2", got)
	}
	if got := *first[3].UserEnteredValue.StringValue; got != "2016-01-01" {
		t.Fatalf("row 1 departure = %q", got)
	}
	if got := *first[8].UserEnteredValue.NumberValue; got != 310640 {
		t.Fatalf("row 1 total cost = %v, want 310640", got)
	}

	if api.batch.Requests[2].AutoResizeDimensions == nil {
		t.Fatalf("expected auto-resize request")
	}
}

func TestSheetsExporterSurfacesAPIErrors(t *testing.T) {
	api := &fakeSheetsAPI{fail: true}
	exp := newTestExporter(t, api)

	if _, err := exp.CreateSpreadsheet(context.Background(), "t", "tok"); err == nil {
		t.Fatal("expected create error")
	}
	if err := exp.Sync(context.Background(), "ss-1", 0, nil, "tok"); err == nil {
		t.Fatal("expected sync error")
	}
}

func TestSyncRequestsEmptyOrders(t *testing.T) {
	reqs := syncRequests(0, nil)
	rows := reqs[1].UpdateCells.Rows
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
	if len(rows[0].Values) != len(columns) {
		t.Fatalf("header has %d cells, want %d", len(rows[0].Values), len(columns))
	}
	if !rows[0].Values[0].UserEnteredFormat.TextFormat.Bold {
		t.Fatalf("header should be bold")
	}
	if reqs[0].UpdateSheetProperties.Properties.GridProperties.RowCount != 1 {
		t.Fatalf("grid should be resized to the header row")
	}
}

func TestRowValuesFormatsInUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	o := order.Order{
		ID:            "a",
		DepartureDate: time.Date(2016, 1, 2, 0, 30, 0, 0, ist),
		ArrivalDate:   time.Date(2016, 1, 4, 3, 0, 0, 0, ist),
		CreatedAt:     time.Date(2016, 1, 2, 1, 0, 0, 0, ist),
	}
	row := rowValues(o)
	if row[3] != "2016-01-01" || row[4] != "2016-01-03" {
		t.Fatalf("dates = %v, %v; want 2016-01-01, 2016-01-03", row[3], row[4])
	}
	if row[9] != "2016-01-01T19:30:00Z" {
		t.Fatalf("created_at = %v", row[9])
	}
}
