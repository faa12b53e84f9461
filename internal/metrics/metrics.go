// Package metrics exposes prometheus counters for the promotion wizard and import pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultFailed  = "failed"
	ResultBusy    = "busy"
)

var (
	// MatchStrategy 商品匹配命中策略计数
	MatchStrategy = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_match_strategy_total",
		Help: "Product name matches grouped by the winning strategy.",
	}, []string{"strategy"})

	// ImportRows 导入预览行计数
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_import_rows_total",
		Help: "Import preview rows grouped by status.",
	}, []string{"status"})

	// ImportApplied 导入提交计数
	ImportApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_import_applied_total",
		Help: "Promotions written by import confirm grouped by result.",
	}, []string{"result"})

	// WizardSubmits 向导提交计数
	WizardSubmits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_wizard_submit_total",
		Help: "Wizard submissions grouped by result.",
	}, []string{"result"})

	// HTTPRequests 管理端接口请求计数
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_admin_http_requests_total",
		Help: "Admin API requests grouped by route and status.",
	}, []string{"method", "route", "status"})

	// PromotionsExpired 到期自动停用计数
	PromotionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promo_expired_total",
		Help: "Promotions deactivated by the expiry worker.",
	})
)

// ObserveMatch 记录匹配策略
func ObserveMatch(strategy string) {
	MatchStrategy.WithLabelValues(strategy).Inc()
}
