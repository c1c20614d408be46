// README: Base handler utilities (JSON helpers, date parsing, error mapping).
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"orderdesk/internal/modules/order"
	"orderdesk/internal/modules/spreadsheet"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeSpreadsheetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, spreadsheet.ErrUnauthorized):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, spreadsheet.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, spreadsheet.ErrExport):
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		writeOrderError(c, err)
	}
}

// parseDate accepts a calendar date (taken as UTC midnight) or an RFC 3339 timestamp.
func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
