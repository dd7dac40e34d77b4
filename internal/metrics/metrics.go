package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// connection metrics.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "caro_connections_active",
		Help: "The current number of active game connections.",
	})
	TotalConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caro_connections_total",
		Help: "The total number of game connections accepted.",
	})

	// auth metrics.
	AuthSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caro_auth_success_total",
		Help: "The total number of connections that passed the shared-secret check.",
	})
	AuthFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caro_auth_failures_total",
		Help: "The total number of connections rejected by the shared-secret check.",
	})

	// game metrics.
	MovesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caro_moves_total",
		Help: "The total number of accepted moves.",
	})
	GamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caro_games_finished_total",
		Help: "The total number of finished games by outcome.",
	}, []string{"outcome"})
)
