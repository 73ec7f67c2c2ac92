// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SignInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bindvalue_signins_total",
		Help: "Sign-in attempts by result (success, failure, sso).",
	}, []string{"result"})

	SignUpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bindvalue_signups_total",
		Help: "Sign-up attempts by result.",
	}, []string{"result"})

	SignOutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bindvalue_signouts_total",
		Help: "Sign-outs by result.",
	}, []string{"result"})

	NavigationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bindvalue_navigations_total",
		Help: "Session-driven redirects by destination.",
	}, []string{"route"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bindvalue_rate_limited_total",
		Help: "Auth requests rejected by the rate limiter.",
	})

	UsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bindvalue_users_total",
		Help: "Total number of registered users.",
	})
)
