package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// 通知分发计数
	NotificationDispatchCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatch_total",
			Help: "Total number of notification dispatch attempts",
		},
		[]string{"channel", "type", "status"}, // status: sent, failed
	)

	// 偏好门控拒绝计数
	NotificationGateRejectCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_gate_reject_total",
			Help: "Total number of notifications rejected by user preferences",
		},
		[]string{"gate"}, // gate: type, channel
	)

	// 限流拒绝计数
	RateLimitRejectCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_reject_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"path"},
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementNotificationDispatch 增加通知分发计数
func IncrementNotificationDispatch(channel, notificationType, status string) {
	NotificationDispatchCount.WithLabelValues(channel, notificationType, status).Inc()
}

// IncrementGateReject 增加门控拒绝计数
func IncrementGateReject(gate string) {
	NotificationGateRejectCount.WithLabelValues(gate).Inc()
}

// IncrementRateLimitReject 增加限流拒绝计数
func IncrementRateLimitReject(path string) {
	RateLimitRejectCount.WithLabelValues(path).Inc()
}
