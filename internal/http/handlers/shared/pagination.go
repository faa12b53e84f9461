package shared

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageBounds 分页默认条数与上限
type PageBounds struct {
	Default int
	Max     int
}

// DefaultPageBounds 列表接口的默认分页边界
var DefaultPageBounds = PageBounds{Default: 20, Max: 100}

// Normalize 归一化分页参数
func (b PageBounds) Normalize(page, pageSize int) (int, int) {
	if b.Default <= 0 {
		b.Default = DefaultPageBounds.Default
	}
	if b.Max < b.Default {
		b.Max = b.Default
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = b.Default
	}
	if pageSize > b.Max {
		pageSize = b.Max
	}
	return page, pageSize
}

// NormalizePagination 按默认边界归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	return DefaultPageBounds.Normalize(page, pageSize)
}

// QueryPagination 读取 page / page_size 查询参数，非法值按默认处理
func QueryPagination(c *gin.Context, bounds PageBounds) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return bounds.Normalize(page, pageSize)
}
