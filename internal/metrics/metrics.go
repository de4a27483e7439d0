package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartcity_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smartcity_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"method", "route"})
	ComplaintsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartcity_complaints_created_total",
		Help: "Complaints accepted by initial status",
	}, []string{"status"})
	StatusChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartcity_status_changes_total",
		Help: "Complaint status changes by target status",
	}, []string{"status"})
	DuplicatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smartcity_duplicates_total",
		Help: "Complaints detected as geo duplicates",
	})
	ClassifierFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartcity_classifier_fail_total",
		Help: "Inference service failures that fell back to rules",
	}, []string{"stage"})
	ClassifierDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smartcity_classifier_duration_ms",
		Help:    "Inference call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
	}, []string{"stage"})
	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartcity_notifications_total",
		Help: "Notification events by event name and outcome",
	}, []string{"event", "outcome"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(ComplaintsCreatedTotal)
	prometheus.MustRegister(StatusChangesTotal)
	prometheus.MustRegister(DuplicatesTotal)
	prometheus.MustRegister(ClassifierFailTotal)
	prometheus.MustRegister(ClassifierDurationMs)
	prometheus.MustRegister(NotificationsTotal)
}

// Handler exposes the registered metrics for scraping
func Handler() http.Handler { return promhttp.Handler() }
