// internal/metrics/metrics.go
// 收集并暴露 Prometheus 指标，由 bootstrap 挂载的 /metrics 端点抓取
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StatusUpdates 按结果统计员工侧状态更新
	// outcome: ok | invalid | not_found | not_permitted | conflict | error
	StatusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trackdesk_status_updates_total",
		Help: "Total number of staff status update attempts by outcome",
	}, []string{"outcome"})

	// VerificationAttempts 按结果统计客户身份核验
	// outcome: ok | failed | throttled
	// 注意这里只区分内部审计用途，对外响应不区分失败原因
	VerificationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trackdesk_verification_attempts_total",
		Help: "Total number of customer verification attempts by outcome",
	}, []string{"outcome"})

	// AliasFallbacks 统计归一化兜底命中次数
	// 持续增长说明上游又出现了新的状态拼写，需要补充别名表
	AliasFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trackdesk_status_alias_fallback_total",
		Help: "Raw status strings that did not match any alias and fell back to the default status",
	})

	// SearchRequests 统计客户搜索请求量，配合外部限流策略观察
	SearchRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trackdesk_customer_search_total",
		Help: "Total number of customer search requests",
	})
)
