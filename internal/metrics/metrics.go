package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	OrdersCreated  prometheus.Counter
	ItemsEdited    prometheus.Counter
	ItemsDeleted   prometheus.Counter
	SessionsClosed prometheus.Counter
	ReceiptTotal   prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "tableside_orders_created_total",
			Help: "Orders accepted from customer checkouts.",
		}),
		ItemsEdited: f.NewCounter(prometheus.CounterOpts{
			Name: "tableside_items_edited_total",
			Help: "Line item quantity edits applied by staff.",
		}),
		ItemsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "tableside_items_deleted_total",
			Help: "Line items removed by staff.",
		}),
		SessionsClosed: f.NewCounter(prometheus.CounterOpts{
			Name: "tableside_sessions_closed_total",
			Help: "Table sessions closed into receipts.",
		}),
		ReceiptTotal: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tableside_receipt_total",
			Help:    "Receipt totals in minor currency units.",
			Buckets: prometheus.ExponentialBuckets(100, 4, 8),
		}),
	}
}
