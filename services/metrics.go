package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	scoresCalculatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trust_scores_calculated_total",
		Help: "Total number of trust score aggregation runs.",
	})
	signalsVerifiedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signals_verified_total",
		Help: "Total number of community signals auto-verified.",
	})
	signalsRejectedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signals_rejected_total",
		Help: "Total number of community signals rejected.",
	})
	oracleCallsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "oracle_calls_total",
		Help: "Total number of fact-checking oracle requests.",
	})
	oracleFailuresCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "oracle_failures_total",
		Help: "Total number of failed or unparsable oracle responses.",
	})
)

func init() {
	prometheus.MustRegister(
		scoresCalculatedCounter,
		signalsVerifiedCounter,
		signalsRejectedCounter,
		oracleCallsCounter,
		oracleFailuresCounter,
	)
}
