package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PointsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "price_points_total", Help: "Count of price points ingested"},
		[]string{"asset"},
	)
	FetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "kline_fetch_failures_total", Help: "Failed candle fetch attempts per endpoint"},
		[]string{"endpoint"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Signals emitted"},
		[]string{"asset", "direction"},
	)
	FinalizeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "finalize_emissions_total", Help: "Finalize emissions written"},
	)
	ConfidenceGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "signal_confidence", Help: "Latest signal confidence per asset"},
		[]string{"asset"},
	)
)

func init() {
	prometheus.MustRegister(PointsTotal, FetchFailures, SignalsTotal, FinalizeTotal, ConfidenceGauge)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
