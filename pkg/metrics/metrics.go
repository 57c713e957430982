package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// FeedDropped 信息流中被过滤的帖子数
	FeedDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bingo_feed_dropped_posts_total",
			Help: "Posts excluded from a feed, by feed and reason",
		},
		[]string{"feed", "reason"},
	)

	// SweeperDeleted 过期清理删除的记录数
	SweeperDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bingo_sweeper_deleted_total",
			Help: "Rows removed by the expiry sweeper",
		},
		[]string{"kind"},
	)

	// NotificationsSent 已写入的通知数
	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bingo_notifications_sent_total",
			Help: "Notifications created, by type",
		},
		[]string{"type"},
	)
)

// HTTP 请求数与耗时，path 取路由模板
var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bingo_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bingo_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "path"},
	)
)

func init() {
	prometheus.MustRegister(FeedDropped, SweeperDeleted, NotificationsSent, HTTPRequests, HTTPDuration)
}
