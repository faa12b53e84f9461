package models

import (
	"time"

	"gorm.io/gorm"
)

// Promotion 活动（一口价 / 买赠 / 任选）
type Promotion struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                     // 主键
	PromotionListID   uint           `gorm:"index;not null" json:"promotion_list_id"`                  // 所属活动列表
	Type              string         `gorm:"type:varchar(32);not null" json:"type"`                    // 类型（fixed_price/bulk_purchase/assorted_items）
	Value             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"value"`       // 活动价/总价
	MinQty            *int           `json:"min_qty"`                                                  // 最小购买数量
	MaxQty            *int           `json:"max_qty"`                                                  // 最大购买数量
	RequiredQty       *int           `json:"required_qty"`                                             // 买赠：需购买数量
	FreeQty           *int           `json:"free_qty"`                                                 // 买赠：赠送数量
	MinPurchaseAmount *Money         `gorm:"type:decimal(20,2)" json:"min_purchase_amount"`            // 买赠：满额门槛
	RequiredItemCount *int           `json:"required_item_count"`                                      // 任选：需选件数
	SelectionMode     string         `gorm:"type:varchar(20);not null;default:'products'" json:"selection_mode"` // 选品方式
	StartsAt          *time.Time     `gorm:"index" json:"starts_at"`                                   // 生效时间
	EndsAt            *time.Time     `gorm:"index" json:"ends_at"`                                     // 失效时间
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`                   // 是否启用
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	Items      []PromotionItem     `gorm:"foreignKey:PromotionID" json:"items,omitempty"`      // 活动商品单位
	Categories []PromotionCategory `gorm:"foreignKey:PromotionID" json:"categories,omitempty"` // 活动分类
}

// TableName 指定表名
func (Promotion) TableName() string {
	return "promotions"
}

// PromotionItem 活动商品单位
type PromotionItem struct {
	ID            uint `gorm:"primarykey" json:"id"`                            // 主键
	PromotionID   uint `gorm:"index;not null" json:"promotion_id"`              // 活动ID
	ProductID     uint `gorm:"index;not null" json:"product_id"`                // 商品ID
	ProductUnitID uint `gorm:"index;not null" json:"product_unit_id"`           // 商品单位ID
	SortOrder     int  `gorm:"not null;default:0" json:"sort_order"`            // 选中顺序

	Product     *Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`          // 关联商品
	ProductUnit *ProductUnit `gorm:"foreignKey:ProductUnitID" json:"product_unit,omitempty"` // 关联单位
}

// TableName 指定表名
func (PromotionItem) TableName() string {
	return "promotion_items"
}

// PromotionCategory 活动分类
type PromotionCategory struct {
	ID          uint `gorm:"primarykey" json:"id"`               // 主键
	PromotionID uint `gorm:"index;not null" json:"promotion_id"` // 活动ID
	CategoryID  uint `gorm:"index;not null" json:"category_id"`  // 分类ID
}

// TableName 指定表名
func (PromotionCategory) TableName() string {
	return "promotion_categories"
}
