package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/freshcart-admin/internal/i18n"

	"gorm.io/gorm"
)

// JSON 类型定义，用于存储多语言内容
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return nil
	}
}

// Localized 转换为多语言文本
func (j JSON) Localized() i18n.LocalizedText {
	return i18n.NewLocalizedText(j)
}

// Category 分类表（支持父子层级）
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // 主键
	ParentID  *uint          `gorm:"index" json:"parent_id"`            // 父分类ID（顶级为空）
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`  // 唯一标识
	NameJSON  JSON           `gorm:"type:json;not null" json:"name"`    // 多语言名称
	Icon      string         `gorm:"type:varchar(500)" json:"icon"`     // 分类图标（图片路径）
	SortOrder int            `gorm:"default:0;index" json:"sort_order"` // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间

	Children []Category `gorm:"-" json:"children,omitempty"` // 子分类（仅结构，由仓库组装）
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
