// README: API gateway; owns module services and builds the gin engine.
package http

import (
	"orderdesk/internal/modules/order"
	"orderdesk/internal/modules/pricing"
	"orderdesk/internal/modules/spreadsheet"
)

type ServerDeps struct {
	Order       *order.Service
	Pricing     *pricing.Service
	Spreadsheet *spreadsheet.Service
	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string
}

type Server struct {
	order       *order.Service
	pricing     *pricing.Service
	spreadsheet *spreadsheet.Service
	corsOrigins []string
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		order:       deps.Order,
		pricing:     deps.Pricing,
		spreadsheet: deps.Spreadsheet,
		corsOrigins: deps.CORSOrigins,
	}
}
