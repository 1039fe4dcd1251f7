package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_http_requests_total",
			Help: "HTTP requests served, by route and status class",
		},
		[]string{"route", "status"},
	)
	Deposits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_deposits_total",
			Help: "Deposit attempts by stage and result",
		},
		[]string{"stage", "result"},
	)
	Withdrawals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_withdrawals_total",
			Help: "Withdrawal submissions by result",
		},
		[]string{"result"},
	)
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_rate_limited_total",
			Help: "Requests blocked by the rate limiter",
		},
		[]string{"route"},
	)
	LiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallet_live_connections",
			Help: "Open live balance websocket connections",
		},
	)
	BalancePolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_balance_polls_total",
			Help: "Snapshot refreshes made by the balance poller",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, Deposits, Withdrawals, RateLimited, LiveConnections, BalancePolls)
}

// Result labels an outcome as ok or error.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
