package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/cpu"
)

// Metrics is the set of collectors updated by the request middleware.
// A nil *Metrics records nothing.
type Metrics struct {
	Requests      *prometheus.CounterVec
	RequestsNow   prometheus.Gauge
	ResponseBytes prometheus.Histogram
	CPU           prometheus.GaugeFunc
}

// New creates the collectors and registers them in reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folioserv_requests_total",
			Help: "How many requests were served, by method and status code",
		}, []string{"method", "code"}),
		RequestsNow: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "folioserv_requests_in_flight",
			Help: "How many requests are being served",
		}),
		ResponseBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "folioserv_response_bytes",
			Help:    "Size of the response bodies",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		}),
		CPU: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "folioserv_cpu_usage_percent",
			Help: "CPU usage of the host",
		}, cpuPercent),
	}
	reg.MustRegister(
		m.Requests,
		m.RequestsNow,
		m.ResponseBytes,
		m.CPU,
	)
	return m
}

// cpu.Percent with a zero interval compares against the previous call.
func cpuPercent() float64 {
	p, err := cpu.Percent(0, false)
	if err != nil || len(p) == 0 {
		return 0
	}
	return p[0]
}

// Started marks a request as being served.
func (m *Metrics) Started() {
	if m == nil {
		return
	}
	m.RequestsNow.Inc()
}

// Finished records a served request. Methods other than GET and HEAD are
// counted as OTHER to keep the label set bounded.
func (m *Metrics) Finished(method string, code int, size int64) {
	if m == nil {
		return
	}
	m.RequestsNow.Dec()
	m.Requests.WithLabelValues(methodLabel(method), strconv.Itoa(code)).Inc()
	m.ResponseBytes.Observe(float64(size))
}

func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return method
	default:
		return "OTHER"
	}
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
