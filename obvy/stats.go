package epicycle

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsInternal holds the internal prometheus registry and its metrics.
// Each View gets its own registry so tests never collide on registration.
type StatsInternal struct {
	Registry    *prometheus.Registry
	FrameTimer  prometheus.Histogram   // seconds spent building and drawing one frame
	Frames      prometheus.Counter     // frames drawn
	TraceFill   *prometheus.GaugeVec   // outline fill per set, 0.0 - 1.0
	Cycles      *prometheus.CounterVec // completed outlines per set
	TraceWrites *prometheus.CounterVec // output plugin writes by output and result
	WWW         *prometheus.CounterVec // web requests by code and method
}

func NewStatsInternal() *StatsInternal {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &StatsInternal{
		Registry: reg,
		FrameTimer: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "epicycle",
			Name:      "frame_seconds",
			Help:      "Time taken to advance every set and draw one frame",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "epicycle",
			Name:      "frames_total",
			Help:      "Frames drawn",
		}),
		TraceFill: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "epicycle",
			Name:      "trace_fill_ratio",
			Help:      "How much of the outline has been traced this cycle",
		}, []string{"set"}),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "epicycle",
			Name:      "cycles_completed_total",
			Help:      "Outlines fully traced",
		}, []string{"set"}),
		TraceWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "epicycle",
			Name:      "trace_writes_total",
			Help:      "Completed traces handed to the output plugin",
		}, []string{"output", "result"}),
		WWW: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "epicycle",
			Name:      "http_requests_total",
			Help:      "Requests served under /api",
		}, []string{"code", "method"}),
	}

	reg.MustRegister(s.FrameTimer, s.Frames, s.TraceFill, s.Cycles, s.TraceWrites, s.WWW)
	return s
}

// Handler serves this registry for the /metrics route
func (s *StatsInternal) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{Registry: s.Registry})
}

// RecFrameTimer records one frame's duration in seconds
func (s *StatsInternal) RecFrameTimer(seconds float64) {
	s.FrameTimer.Observe(seconds)
	s.Frames.Inc()
}

func (s *StatsInternal) RecTraceFill(set string, fill float64) {
	s.TraceFill.WithLabelValues(set).Set(fill)
}

func (s *StatsInternal) RecCycle(set string) {
	s.Cycles.WithLabelValues(set).Inc()
}

// RecTraceWrite counts a plugin write, result is "ok" or "error"
func (s *StatsInternal) RecTraceWrite(output string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.TraceWrites.WithLabelValues(output, result).Inc()
}

func (s *StatsInternal) RecWWW(code, method string) {
	s.WWW.WithLabelValues(code, method).Inc()
}
