package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landesnetz",
		Subsystem: "ratelimit",
		Name:      "rejections_total",
		Help:      "Requests rejected by a rate limiter, by policy and reason.",
	}, []string{"policy", "reason"})

	lockoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landesnetz",
		Subsystem: "ratelimit",
		Name:      "lockouts_total",
		Help:      "Lockouts started, by policy and scope (global or caller).",
	}, []string{"policy", "scope"})
)
