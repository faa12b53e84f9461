package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductUnit 商品销售单位表（如 kg / box / pcs）
type ProductUnit struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	ProductID   uint           `gorm:"not null;index" json:"product_id"`                          // 商品ID
	UnitName    string         `gorm:"type:varchar(64);not null" json:"unit_name"`                // 单位名称
	UnitType    string         `gorm:"type:varchar(32)" json:"unit_type"`                         // 单位类型
	UnitValue   float64        `gorm:"not null;default:1" json:"unit_value"`                      // 单位数值（如 0.5 kg）
	PackQty     int            `gorm:"not null;default:1" json:"pack_qty"`                        // 每包数量
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 单位价格
	IsDefault   bool           `gorm:"not null;default:false" json:"is_default"`                  // 是否默认单位
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (ProductUnit) TableName() string {
	return "product_units"
}
