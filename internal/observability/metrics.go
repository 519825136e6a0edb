package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	translateRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "b2e_translate_requests_total",
		Help: "Total translation requests by input kind and outcome",
	}, []string{"kind", "status"})

	translateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "b2e_translate_latency_seconds",
		Help:    "End-to-end translation call latency, retries included",
		Buckets: []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	})

	translateRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "b2e_translate_retries_total",
		Help: "Total translation attempts retried after a rate limit",
	})

	recordingCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "b2e_recording_cycles_total",
		Help: "Completed recording cycles by outcome",
	}, []string{"outcome"})

	transcriptItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "b2e_transcript_items",
		Help: "Current number of transcript items",
	})
)

// ObserveTranslateRequest records a translation call outcome.
func ObserveTranslateRequest(kind, status string, elapsed time.Duration) {
	translateRequests.WithLabelValues(kind, status).Inc()
	translateLatency.Observe(elapsed.Seconds())
}

// ObserveTranslateRetry counts one retried attempt.
func ObserveTranslateRetry() {
	translateRetries.Inc()
}

// ObserveRecordingCycle records a finished recording cycle.
func ObserveRecordingCycle(outcome string) {
	recordingCycles.WithLabelValues(outcome).Inc()
}

// SetTranscriptSize tracks the transcript length.
func SetTranscriptSize(n int) {
	transcriptItems.Set(float64(n))
}

// StartMetricsServer exposes /metrics on addr. Intended for local debugging
// of the desktop app; disabled unless an address is configured.
func StartMetricsServer(addr string) {
	if addr == "" {
		return
	}
	logger := ComponentLogger("metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics listener starting")
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error().Err(err).Msg("metrics listener stopped")
		}
	}()
}
