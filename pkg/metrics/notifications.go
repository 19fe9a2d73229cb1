package metrics

import "github.com/prometheus/client_golang/prometheus"

// NotificationMetrics records delivery outcomes per channel.
type NotificationMetrics struct {
	attempts *prometheus.CounterVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewNotificationMetrics registers the notification metrics on the provided registerer.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_attempts_total",
		Help: "Delivery attempts by channel.",
	}, []string{"channel"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_success_total",
		Help: "Successful deliveries by channel.",
	}, []string{"channel"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_failure_total",
		Help: "Exhausted deliveries by channel.",
	}, []string{"channel"})
	reg.MustRegister(attempts, success, failure)
	return &NotificationMetrics{
		attempts: attempts,
		success:  success,
		failure:  failure,
	}
}

// IncAttempt increments the attempt counter for the channel.
func (n *NotificationMetrics) IncAttempt(channel string) {
	if n == nil || n.attempts == nil {
		return
	}
	n.attempts.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncSuccess increments the success counter for the channel.
func (n *NotificationMetrics) IncSuccess(channel string) {
	if n == nil || n.success == nil {
		return
	}
	n.success.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncFailure increments the failure counter for the channel.
func (n *NotificationMetrics) IncFailure(channel string) {
	if n == nil || n.failure == nil {
		return
	}
	n.failure.WithLabelValues(normalizeLabel(channel)).Inc()
}
