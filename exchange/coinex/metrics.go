package coinex

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK        = "ok"
	outcomeMalformed = "malformed"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinex_client",
			Name:      "requests_total",
			Help:      "Requests sent to the CoinEx API by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coinex_client",
			Name:      "request_duration_seconds",
			Help:      "Time from sending a request to the CoinEx API until its response was normalized.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)
