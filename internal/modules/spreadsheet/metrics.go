package spreadsheet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "orderdesk_spreadsheet_exports_total",
	Help: "Calls to the spreadsheet service by action and result.",
}, []string{"action", "result"})
