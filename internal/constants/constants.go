package constants

// 活动类型常量
const (
	PromotionTypeFixedPrice    = "fixed_price"
	PromotionTypeBulkPurchase  = "bulk_purchase"
	PromotionTypeAssortedItems = "assorted_items"
)

// 活动选品方式常量（仅 bulk_purchase 可选）
const (
	SelectionModeProducts   = "products"
	SelectionModeCategories = "categories"
	SelectionModeAll        = "all"
)

// 默认单位占位（商品尚未加载单位时使用，不落库）
const (
	PlaceholderUnitName = "pcs"
	PlaceholderUnitType = "pcs"
)

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskPromotionExpire = "promotion:expire"
)

// 会话存储 key 前缀
const (
	SessionKeyWizard        = "wizard"
	SessionKeyImportPreview = "import_preview"
	SessionKeyLock          = "lock"
)

// IsPromotionType 判断活动类型是否合法
func IsPromotionType(value string) bool {
	switch value {
	case PromotionTypeFixedPrice, PromotionTypeBulkPurchase, PromotionTypeAssortedItems:
		return true
	default:
		return false
	}
}

// IsSelectionMode 判断选品方式是否合法
func IsSelectionMode(value string) bool {
	switch value {
	case SelectionModeProducts, SelectionModeCategories, SelectionModeAll:
		return true
	default:
		return false
	}
}
