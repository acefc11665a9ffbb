package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPRequests counts handled HTTP requests. The version label lets a
// traffic split between deployed variants be read off one dashboard.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "HTTP requests by method, path, status and deployment version.",
}, []string{"method", "path", "status", "version"})

// HTTPDuration observes request latency per route.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path"})

// Votes counts recorded votes per product.
var Votes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "votes_total",
	Help: "Votes recorded by product and deployment version.",
}, []string{"product", "version"})
