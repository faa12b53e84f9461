package models

import (
	"time"

	"gorm.io/gorm"
)

// PromotionList 活动列表（首页活动分组，决定活动类型）
type PromotionList struct {
	ID        uint           `gorm:"primarykey" json:"id"`                       // 主键
	Name      string         `gorm:"type:varchar(128);not null" json:"name"`     // 名称
	Type      string         `gorm:"type:varchar(32);not null;index" json:"type"` // 活动类型
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`     // 是否启用
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`          // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                 // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (PromotionList) TableName() string {
	return "promotion_lists"
}
