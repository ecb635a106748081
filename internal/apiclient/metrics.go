package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_upstream_requests_total",
		Help: "Calls made to the property management API by operation and outcome.",
	}, []string{"operation", "outcome"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_upstream_request_duration_seconds",
		Help:    "Latency of calls to the property management API.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

const (
	outcomeOK      = "ok"
	outcomeHTTP    = "http_error"
	outcomeNetwork = "network_error"
)
