// Package metrics exposes the process Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts API requests by method and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumkit_http_requests_total",
		Help: "API requests served, by method and status class.",
	}, []string{"method", "class"})

	// WebhookDeliveries counts webhook delivery attempts by outcome.
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumkit_webhook_deliveries_total",
		Help: "Webhook delivery attempts, by outcome (ok, failed, error).",
	}, []string{"outcome"})

	// WebhookDispatches counts dispatch fan-outs by event type.
	WebhookDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumkit_webhook_dispatches_total",
		Help: "Webhook dispatch fan-outs, by event type.",
	}, []string{"event"})
)
