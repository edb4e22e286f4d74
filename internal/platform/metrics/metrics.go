package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestCount counts completed lint runs.
	// Labels: profile, exit_code (the tool's code, or the sentinel).
	requestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ansible_lint",
		Name:      "requests_total",
		Help:      "Total ansible-lint requests",
	}, []string{"profile", "exit_code"})

	// requestLatency measures wall-clock duration of lint runs.
	// Labels: profile
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ansible_lint",
		Name:      "request_latency_seconds",
		Help:      "Latency of ansible-lint requests",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"profile"})

	// timeoutCount counts runs terminated by the wall-clock timeout.
	timeoutCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ansible_lint",
		Name:      "timeouts_total",
		Help:      "Number of ansible-lint timeouts",
	})

	// errorCount counts internal failures in the lint runner (launch errors
	// and other non-timeout abnormal completions).
	errorCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ansible_lint",
		Name:      "errors_total",
		Help:      "Number of internal errors in lint runner",
	})

	// dispatchCount counts tool-dispatch invocations by outcome.
	// Labels: tool, success ("true"/"false")
	dispatchCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ansible_lint",
		Subsystem: "dispatch",
		Name:      "invocations_total",
		Help:      "Total tool-dispatch invocations",
	}, []string{"tool", "success"})
)

// ObserveLintRun records one completed lint run.
func ObserveLintRun(profile string, exitCode int, duration time.Duration) {
	requestLatency.WithLabelValues(profile).Observe(duration.Seconds())
	requestCount.WithLabelValues(profile, strconv.Itoa(exitCode)).Inc()
}

// IncTimeout records a run killed by the wall-clock timeout.
func IncTimeout() {
	timeoutCount.Inc()
}

// IncInternalError records a run that failed before or during launch.
func IncInternalError() {
	errorCount.Inc()
}

// ObserveDispatch records one dispatcher invocation outcome.
func ObserveDispatch(tool string, success bool) {
	dispatchCount.WithLabelValues(tool, strconv.FormatBool(success)).Inc()
}
