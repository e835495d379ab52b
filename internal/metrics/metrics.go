package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printhub_orders_created_total",
		Help: "Total number of order lines successfully created.",
	})

	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printhub_order_transitions_total",
		Help: "Total number of successfully applied order status transitions.",
	},
		[]string{"action"},
	)

	NotificationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printhub_notifications_created_total",
		Help: "Total number of notifications written by status transitions.",
	})

	DeliveryFeesSettledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printhub_delivery_fees_settled_total",
		Help: "Total number of delivery fee settlements applied to order groups.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printhub_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	OrderCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "printhub_order_cache_items",
		Help: "Current number of items in the order cache.",
	})
)
