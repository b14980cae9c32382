package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpilot_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		},
		[]string{"route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adpilot_http_request_duration_seconds",
			Help:    "HTTP request latency, by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	LaunchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpilot_campaign_launches_total",
			Help: "Launch attempts, by outcome.",
		},
		[]string{"result"},
	)

	PlatformErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpilot_platform_errors_total",
			Help: "Classified ad platform errors, by kind.",
		},
		[]string{"kind"},
	)
)
