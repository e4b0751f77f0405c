package server

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"simdiag/internal/domain"
	"simdiag/internal/repository"
	"simdiag/internal/service"
)

type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	analyses        *prometheus.CounterVec
}

func NewMetrics(history repository.HistoryRepository) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			}, []string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			}, []string{"path"},
		),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simdiag_analyses_total",
				Help: "Completed simulated analyses by diagnostic",
			}, []string{"diagnostic"},
		),
	}

	m.registry.MustRegister(
		m.requestCount,
		m.requestDuration,
		m.analyses,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "simdiag_history_size",
			Help: "Number of records held in the upload history",
		}, func() float64 { return float64(history.Len()) }),
	)

	return m
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestCount.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Instrument counts every successful analysis by its diagnostic.
func (m *Metrics) Instrument(next service.Analyzer) service.Analyzer {
	return &instrumentedAnalyzer{next: next, analyses: m.analyses}
}

type instrumentedAnalyzer struct {
	next     service.Analyzer
	analyses *prometheus.CounterVec
}

func (a *instrumentedAnalyzer) Analyze(ctx context.Context) (domain.AnalysisResult, error) {
	res, err := a.next.Analyze(ctx)
	if err == nil {
		a.analyses.WithLabelValues(res.Diagnostic).Inc()
	}
	return res, err
}
