// Package metrics はPrometheus形式のメトリクス収集と公開を提供する。
//
// 受信リクエストはGinミドルウェアで、サービス間の送信リクエストは
// httpclient から ObserveOutbound で記録する。
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// namespace は全メトリクス共通の名前空間。
const namespace = "clouddemo"

var (
	// Registry はアプリケーション固有のコレクタを保持する。
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "処理中のHTTPリクエスト数。",
		},
		[]string{"service"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "処理したHTTPリクエストの総数。",
		},
		[]string{"service", "method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTPリクエストの処理時間。",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms〜約5s
		},
		[]string{"service", "method", "route"},
	)

	outboundRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "サービス間HTTPリクエストの総数。",
		},
		[]string{"target", "outcome"},
	)

	outboundDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "サービス間HTTPリクエストの所要時間。",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"target"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		outboundRequests,
		outboundDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler は登録済みメトリクスを公開するGinハンドラを返す。
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Middleware は受信リクエストのメトリクスを記録するGinミドルウェアを返す。
// ルートはマッチしたパターン（例: /user/:id）で集計し、未マッチは "unmatched" とする。
func Middleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		inFlight := httpInFlight.WithLabelValues(service)
		inFlight.Inc()
		defer inFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(service, method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(service, method, route).Observe(time.Since(start).Seconds())
	}
}

// Outcome はサービス間リクエストの結果区分。
type Outcome string

const (
	// OutcomeSuccess は2xxレスポンスを受け取ったことを表す。
	OutcomeSuccess Outcome = "success"
	// OutcomeHTTPError は2xx以外のレスポンスを受け取ったことを表す。
	OutcomeHTTPError Outcome = "http_error"
	// OutcomeTransportError は接続失敗やタイムアウトなど、レスポンスを受け取れなかったことを表す。
	OutcomeTransportError Outcome = "transport_error"
	// OutcomeResolveError は接続先の名前解決に失敗したことを表す。
	OutcomeResolveError Outcome = "resolve_error"
)

// ObserveOutbound はサービス間リクエストの結果と所要時間を記録する。
func ObserveOutbound(target string, outcome Outcome, d time.Duration) {
	outboundRequests.WithLabelValues(target, string(outcome)).Inc()
	outboundDuration.WithLabelValues(target).Observe(d.Seconds())
}
