package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                         // 分类ID
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	SKU         string         `gorm:"column:sku;type:varchar(64);index" json:"sku"`              // 商品编码
	TitleJSON   JSON           `gorm:"type:json;not null" json:"title"`                           // 多语言名称
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 基础价格
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                       // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Units []ProductUnit `gorm:"foreignKey:ProductID" json:"units,omitempty"` // 销售单位
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// DisplayName 按语言解析商品名称
func (p *Product) DisplayName(locale string, fallbackChain ...string) string {
	if p == nil {
		return ""
	}
	return p.TitleJSON.Localized().Resolve(locale, fallbackChain...)
}
