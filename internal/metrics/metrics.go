// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス収集のインターフェース。
// サービス層から利用する。
type Recorder interface {
	RecordLikeOperation(op string, outcome string)
	RecordCatalogLatency(duration time.Duration)
	RecordCleanupFailure(kind string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	likeOps         *prometheus.CounterVec
	catalogLatency  prometheus.Histogram
	cleanupFailures *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		likeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellmate_like_operations_total",
			Help: "いいね操作の合計数（操作・結果別）",
		}, []string{"op", "outcome"}),
		catalogLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wellmate_catalog_lookup_latency_seconds",
			Help:    "レシピカタログ照会のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		cleanupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellmate_cleanup_failures_total",
			Help: "ログのみ記録して握りつぶしたクリーンアップ失敗の合計数（種別別）",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		c.likeOps,
		c.catalogLatency,
		c.cleanupFailures,
	)

	return c
}

// RecordLikeOperation はいいね操作の結果を記録する。
// op: like, unlike, is_liked, list。outcome: ok, invalid, not_found, error。
func (c *Collector) RecordLikeOperation(op string, outcome string) {
	c.likeOps.WithLabelValues(op, outcome).Inc()
}

// RecordCatalogLatency はカタログ照会のレイテンシを記録する。
func (c *Collector) RecordCatalogLatency(duration time.Duration) {
	c.catalogLatency.Observe(duration.Seconds())
}

// RecordCleanupFailure は握りつぶしたクリーンアップ失敗を記録する。
// 呼び出し元にはエラーを返さない経路でも、ここで失敗を観測可能にする。
// kind: mealplan_save, mealplan_unsave, profile_cleanup。
func (c *Collector) RecordCleanupFailure(kind string) {
	c.cleanupFailures.WithLabelValues(kind).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ Recorder = (*Collector)(nil)
