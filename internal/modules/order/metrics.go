package order

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ordersWritten = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "orderdesk_orders_written_total",
	Help: "Order writes by operation (upsert, delete).",
}, []string{"op"})

var eventsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "orderdesk_order_events_failed_total",
	Help: "Order events that could not be published, by event type.",
}, []string{"type"})
