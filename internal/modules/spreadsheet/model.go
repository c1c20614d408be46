// README: Spreadsheet record mirroring an exported Google spreadsheet.
package spreadsheet

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("spreadsheet not found")
	ErrUnauthorized = errors.New("authorization required")
	ErrExport       = errors.New("spreadsheet export failed")
)

type Spreadsheet struct {
	ID        string    `json:"id"`
	SheetID   int64     `json:"sheet_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
