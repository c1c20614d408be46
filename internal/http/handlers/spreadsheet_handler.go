// README: Spreadsheet export handlers. Create and sync act with the caller's Google token.
package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"orderdesk/internal/http/middleware"
	"orderdesk/internal/modules/spreadsheet"
)

type SpreadsheetHandler struct {
	spreadsheet *spreadsheet.Service
}

func NewSpreadsheetHandler(svc *spreadsheet.Service) *SpreadsheetHandler {
	return &SpreadsheetHandler{spreadsheet: svc}
}

func (h *SpreadsheetHandler) List(c *gin.Context) {
	list, err := h.spreadsheet.List(c.Request.Context())
	if err != nil {
		writeSpreadsheetError(c, err)
		return
	}
	if list == nil {
		list = []spreadsheet.Spreadsheet{}
	}
	writeJSON(c, http.StatusOK, gin.H{"spreadsheets": list})
}

func (h *SpreadsheetHandler) Create(c *gin.Context) {
	sp, err := h.spreadsheet.Create(c.Request.Context(), middleware.BearerToken(c))
	if err != nil {
		writeSpreadsheetError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, sp)
}

func (h *SpreadsheetHandler) Sync(c *gin.Context) {
	n, err := h.spreadsheet.Sync(c.Request.Context(), c.Param("id"), middleware.BearerToken(c))
	if err != nil {
		writeSpreadsheetError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"synced": n})
}

// Download serves all orders as an XLSX workbook.
func (h *SpreadsheetHandler) Download(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := h.spreadsheet.Download(c.Request.Context(), &buf); err != nil {
		writeSpreadsheetError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="orders.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
