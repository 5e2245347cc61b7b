package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saferoute_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	RouteRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saferoute_route_requests_total",
		Help: "Route plans by outcome (ok, no_stops, invalid, error)",
	}, []string{"outcome"})
	RouteDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "saferoute_route_duration_ms",
		Help:    "Route planning duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	RiskAssessmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saferoute_risk_assessments_total",
		Help: "Risk assessments computed by resulting tier",
	}, []string{"tier"})
	AdviceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saferoute_advice_requests_total",
		Help: "Advice requests by kind and whether the generator or the fallback answered",
	}, []string{"kind", "source"})
	AdviceCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saferoute_advice_cache_total",
		Help: "Advice cache lookups by result (hit, miss, error)",
	}, []string{"result"})
	GeneratorDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "saferoute_generator_duration_ms",
		Help:    "Text generator call duration in milliseconds",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
	HazardLogReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saferoute_hazard_log_reloads_total",
		Help: "Hazard log reloads by status",
	}, []string{"status"})
	HazardLogEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "saferoute_hazard_log_events",
		Help: "Events in the current hazard log snapshot",
	})
	FeedSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "saferoute_hazard_feed_subscribers",
		Help: "Connected hazard feed subscribers",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(RouteRequestsTotal)
	prometheus.MustRegister(RouteDurationMs)
	prometheus.MustRegister(RiskAssessmentsTotal)
	prometheus.MustRegister(AdviceRequestsTotal)
	prometheus.MustRegister(AdviceCacheTotal)
	prometheus.MustRegister(GeneratorDurationMs)
	prometheus.MustRegister(HazardLogReloadsTotal)
	prometheus.MustRegister(HazardLogEvents)
	prometheus.MustRegister(FeedSubscribers)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
