package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	invoiceEventsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "router_invoice_events_total",
		Help: "Committed invoice transitions by event type",
	}, []string{"type"})

	feeRateGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "router_fee_rate_per_mille",
		Help: "Current router fee rate in per mille",
	})

	webhookFailuresCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "router_webhook_failures_total",
		Help: "Invoice events that could not be delivered to the webhook",
	})
)
