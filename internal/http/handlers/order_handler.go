// README: Order handlers for list/get/create/update/delete, PDF cost sheets and quotes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orderdesk/internal/modules/order"
	"orderdesk/internal/modules/pricing"
	"orderdesk/internal/types"
)

type OrderHandler struct {
	order   *order.Service
	pricing *pricing.Service
}

func NewOrderHandler(svc *order.Service, p *pricing.Service) *OrderHandler {
	if p == nil {
		p = pricing.NewService(nil)
	}
	return &OrderHandler{order: svc, pricing: p}
}

// tripReq is the editable part of an order. Client-supplied total_days and
// total_cost are not bound and therefore ignored.
type tripReq struct {
	SourceCity      string `json:"source_city" binding:"required"`
	DestinationCity string `json:"destination_city" binding:"required"`
	DepartureDate   string `json:"departure_date" binding:"required"`
	ArrivalDate     string `json:"arrival_date" binding:"required"`
	BogieCount      int    `json:"bogie_count" binding:"min=0,max=100000"`
	WheelCount      int    `json:"wheel_count" binding:"min=0,max=100000"`
}

func (r tripReq) command(id types.ID) (order.UpsertCommand, bool) {
	dep, err := parseDate(r.DepartureDate)
	if err != nil {
		return order.UpsertCommand{}, false
	}
	arr, err := parseDate(r.ArrivalDate)
	if err != nil {
		return order.UpsertCommand{}, false
	}
	return order.UpsertCommand{
		ID:              id,
		SourceCity:      r.SourceCity,
		DestinationCity: r.DestinationCity,
		DepartureDate:   dep,
		ArrivalDate:     arr,
		BogieCount:      r.BogieCount,
		WheelCount:      r.WheelCount,
	}, true
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.order.List(c.Request.Context())
	if err != nil {
		writeOrderError(c, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(c, http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.order.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *OrderHandler) Create(c *gin.Context) {
	h.upsert(c, "", http.StatusCreated)
}

func (h *OrderHandler) Update(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if !id.Valid() {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return
	}
	h.upsert(c, id, http.StatusOK)
}

func (h *OrderHandler) upsert(c *gin.Context, id types.ID, status int) {
	var req tripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid order payload")
		return
	}
	cmd, ok := req.command(id)
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid date")
		return
	}
	o, err := h.order.Upsert(c.Request.Context(), cmd)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, status, o)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.order.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Invoice serves the order's PDF cost sheet.
func (h *OrderHandler) Invoice(c *gin.Context) {
	o, err := h.order.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	pdf, name, err := order.RenderInvoice(*o, h.pricing.Quote(o.Trip()))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Quote prices a trip without storing anything.
func (h *OrderHandler) Quote(c *gin.Context) {
	var req tripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid quote payload")
		return
	}
	cmd, ok := req.command("")
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid date")
		return
	}
	q := h.pricing.Quote(order.Order{
		SourceCity:      cmd.SourceCity,
		DestinationCity: cmd.DestinationCity,
		DepartureDate:   cmd.DepartureDate,
		ArrivalDate:     cmd.ArrivalDate,
		BogieCount:      cmd.BogieCount,
		WheelCount:      cmd.WheelCount,
	}.Trip())
	writeJSON(c, http.StatusOK, gin.H{
		"source_code":      q.SourceCode,
		"destination_code": q.DestinationCode,
		"distance_km":      q.DistanceKm,
		"total_days":       q.TotalDays,
		"total_cost":       q.TotalCost,
	})
}
