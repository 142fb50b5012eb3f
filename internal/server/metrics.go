package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "slmw_http_request_duration_seconds",
	Help:    "HTTP request latency by method, route, and status.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route", "status"})
