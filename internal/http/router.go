// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orderdesk/internal/http/handlers"
	"orderdesk/internal/http/middleware"
)

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Metrics(),
		middleware.Recovery(),
		middleware.CORS(s.corsOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	orderHandler := handlers.NewOrderHandler(s.order, s.pricing)
	api.GET("/orders", orderHandler.List)
	api.GET("/orders/:id", orderHandler.Get)
	api.POST("/orders", orderHandler.Create)
	api.PUT("/orders/:id", orderHandler.Update)
	api.DELETE("/orders/:id", orderHandler.Delete)
	api.GET("/orders/:id/invoice", orderHandler.Invoice)
	api.POST("/quotes", orderHandler.Quote)

	sheetHandler := handlers.NewSpreadsheetHandler(s.spreadsheet)
	api.GET("/spreadsheets", sheetHandler.List)
	api.POST("/spreadsheets", middleware.RequireBearer(), sheetHandler.Create)
	api.POST("/spreadsheets/:id/sync", middleware.RequireBearer(), sheetHandler.Sync)
	api.GET("/exports/orders.xlsx", sheetHandler.Download)

	return r
}
