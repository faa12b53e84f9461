package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	CategoryID uint
	Search     string
	OnlyActive bool
}

// PromotionListFilter 查询活动列表（分组）的过滤条件
type PromotionListFilter struct {
	Page       int
	PageSize   int
	Type       string
	OnlyActive bool
}

// PromotionFilter 查询活动的过滤条件
type PromotionFilter struct {
	Page            int
	PageSize        int
	PromotionListID uint
	Type            string
	IsActive        *bool
	EndsBefore      *time.Time
}
