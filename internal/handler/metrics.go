package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shop_service",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Total number of successfully placed orders",
		},
	)

	ordersFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shop_service",
			Subsystem: "orders",
			Name:      "failed_total",
			Help:      "Total number of failed order placements",
		},
	)

	cartItemsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shop_service",
			Subsystem: "cart",
			Name:      "items_added_total",
			Help:      "Total number of cart line additions",
		},
	)
)
