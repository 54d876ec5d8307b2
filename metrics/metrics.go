package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yards_http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yards_http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	predictionsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yards_staffing_predictions_total",
		Help: "Total number of staffing predictions served.",
	})
	predictionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yards_staffing_predictions_failed_total",
		Help: "Total number of staffing predictions that produced no usable value.",
	})
	predictedHeadcount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "yards_staffing_predicted_headcount",
		Help:    "Distribution of predicted headcounts.",
		Buckets: []float64{5, 10, 15, 20, 25, 30, 35, 40, 50},
	})
	trainingDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yards_staffing_training_duration_seconds",
		Help: "Wall time spent fitting the staffing model at startup.",
	})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yards_auth_login_attempts_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObservePrediction(headcount int) {
	predictionsServed.Inc()
	predictedHeadcount.Observe(float64(headcount))
}

func IncPredictionFailed() {
	predictionsFailed.Inc()
}

func ObserveTraining(d time.Duration) {
	trainingDuration.Set(d.Seconds())
}

// ObserveLogin records a login attempt; result is "success", "invalid" or "error".
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}
