package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebhookEvents counts provider deliveries by event kind and evaluation outcome.
var WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "doccheck",
	Name:      "webhook_events_total",
	Help:      "Payment webhook deliveries by event kind and outcome",
}, []string{"event", "outcome"})

// JobsDispatched counts processing jobs handed to the report worker.
var JobsDispatched = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "doccheck",
	Name:      "jobs_dispatched_total",
	Help:      "Report processing jobs dispatched to the worker queue",
})

// RateLimitDenied counts denied requests per action.
var RateLimitDenied = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "doccheck",
	Name:      "rate_limit_denied_total",
	Help:      "Requests denied by the fixed-window rate limiter",
}, []string{"action"})

// Refunds counts refund attempts by final state.
var Refunds = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "doccheck",
	Name:      "refunds_total",
	Help:      "Admin refund attempts by resulting purchase status",
}, []string{"result"})
