package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// document store
	StoreOpDuration *prometheus.HistogramVec
	StoreErrsTotal  *prometheus.CounterVec

	// session verification
	SessionVerifyDuration *prometheus.HistogramVec
	SessionVerifyTotal    *prometheus.CounterVec

	// banking link flow
	BankLinksTotal *prometheus.CounterVec

	// user document cache
	CacheOpsTotal *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bizdash",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bizdash",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				// Sane initial defaults
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "bizdash",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		StoreOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bizdash",
				Subsystem: "store",
				Name:      "op_duration_seconds",
				Help:      "Document store latency (logical op, not raw RPC)",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		StoreErrsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bizdash",
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Document store errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		SessionVerifyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bizdash",
				Subsystem: "session",
				Name:      "verify_duration_seconds",
				Help:      "Session cookie verification latency by result",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"result"},
		),
		SessionVerifyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bizdash",
				Subsystem: "session",
				Name:      "verify_total",
				Help:      "Session verifications by result.",
			},
			[]string{"result"}, // result=ok|no_session|invalid|provider_down
		),
		BankLinksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bizdash",
				Subsystem: "banking",
				Name:      "links_total",
				Help:      "Bank link callbacks by outcome.",
			},
			[]string{"outcome"}, // outcome=linked|bad_state|bad_signature|store_error
		),
		CacheOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bizdash",
				Subsystem: "cache",
				Name:      "ops_total",
				Help:      "User document cache lookups by outcome.",
			},
			[]string{"outcome"}, // outcome=hit|miss|error
		),
	}
	reg.MustRegister(p.RequestsTotal, p.RequestsDuration, p.InFlight, p.StoreOpDuration, p.StoreErrsTotal, p.SessionVerifyDuration, p.SessionVerifyTotal, p.BankLinksTotal, p.CacheOpsTotal)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}
