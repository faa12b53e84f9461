// Package promotion holds the promotion draft, the three-step creation wizard and the
// validation rules shared by the wizard, the spreadsheet import and the persistence service.
package promotion

import (
	"errors"
	"time"

	"github.com/freshcart-admin/internal/constants"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownField       = errors.New("unknown promotion field")
	ErrInvalidFieldValue  = errors.New("invalid promotion field value")
	ErrInvalidStep        = errors.New("invalid wizard step")
	ErrNoForwardStep      = errors.New("last wizard step has no forward transition")
	ErrWizardFinished     = errors.New("wizard already submitted or closed")
	ErrValidationFailed   = errors.New("promotion validation failed")
	ErrProductNotSelected = errors.New("product is not selected")
)

// 字段 key（同时作为校验错误的字段名）
const (
	FieldType               = "type"
	FieldPromotionListID    = "promotion_list_id"
	FieldValue              = "value"
	FieldMinQty             = "min_qty"
	FieldMaxQty             = "max_qty"
	FieldRequiredQty        = "required_qty"
	FieldFreeQty            = "free_qty"
	FieldMinPurchaseAmount  = "min_purchase_amount"
	FieldRequiredItemCount  = "required_item_count"
	FieldStartDate          = "start_date"
	FieldEndDate            = "end_date"
	FieldIsActive           = "is_active"
	FieldSelectionMode      = "selection_mode"
	FieldSelectedProducts   = "selected_products"
	FieldSelectedCategories = "selected_categories"
	FieldUnitSelections     = "unit_selections"
)

// FieldErrors 字段 -> i18n 错误 key
type FieldErrors map[string]string

// Empty 是否无错误
func (e FieldErrors) Empty() bool { return len(e) == 0 }

func (e FieldErrors) add(field, key string) {
	if _, exists := e[field]; exists {
		return
	}
	e[field] = key
}

func (e FieldErrors) merge(other FieldErrors) {
	for field, key := range other {
		e.add(field, key)
	}
}

// ProductUnitRef 商品 + 单位
type ProductUnitRef struct {
	ProductID     uint `json:"product_id"`
	ProductUnitID uint `json:"product_unit_id"`
}

// Draft 活动草稿（提交前仅存在于会话中）
type Draft struct {
	PromotionID        uint             `json:"promotion_id,omitempty"`
	Type               string           `json:"type"`
	PromotionListID    uint             `json:"promotion_list_id"`
	Value              *decimal.Decimal `json:"value"`
	MinQty             *int             `json:"min_qty"`
	MaxQty             *int             `json:"max_qty"`
	RequiredQty        *int             `json:"required_qty"`
	FreeQty            *int             `json:"free_qty"`
	MinPurchaseAmount  *decimal.Decimal `json:"min_purchase_amount"`
	RequiredItemCount  *int             `json:"required_item_count"`
	StartDate          *time.Time       `json:"start_date"`
	EndDate            *time.Time       `json:"end_date"`
	IsActive           bool             `json:"is_active"`
	SelectionMode      string           `json:"selection_mode"`
	SelectedProducts   []uint           `json:"selected_products"`
	UnitSelections     map[uint]uint    `json:"unit_selections"`
	SelectedCategories []uint           `json:"selected_categories"`

	// Original 编辑时加载的已持久化载荷，仅用于展示原始单位/价格
	Original *Payload `json:"original,omitempty"`
}

// NewDraft 创建空草稿
func NewDraft() Draft {
	return Draft{
		Type:               constants.PromotionTypeFixedPrice,
		IsActive:           true,
		SelectionMode:      constants.SelectionModeProducts,
		SelectedProducts:   []uint{},
		UnitSelections:     map[uint]uint{},
		SelectedCategories: []uint{},
	}
}

// EffectiveSelectionMode 非 bulk_purchase 类型固定为 products
func (d Draft) EffectiveSelectionMode() string {
	if d.Type != constants.PromotionTypeBulkPurchase {
		return constants.SelectionModeProducts
	}
	if d.SelectionMode == "" {
		return constants.SelectionModeProducts
	}
	return d.SelectionMode
}

// Pairs 返回已选择单位的商品（按选择顺序）
func (d Draft) Pairs() []ProductUnitRef {
	pairs := make([]ProductUnitRef, 0, len(d.SelectedProducts))
	for _, productID := range d.SelectedProducts {
		unitID := d.UnitSelections[productID]
		if unitID == 0 {
			continue
		}
		pairs = append(pairs, ProductUnitRef{ProductID: productID, ProductUnitID: unitID})
	}
	return pairs
}

// missingUnits 已选商品中未选择单位的数量
func (d Draft) missingUnits() int {
	missing := 0
	for _, productID := range d.SelectedProducts {
		if d.UnitSelections[productID] == 0 {
			missing++
		}
	}
	return missing
}

// IsProductSelected 判断商品是否已选
func (d Draft) IsProductSelected(productID uint) bool {
	return indexOf(d.SelectedProducts, productID) >= 0
}

// IsCategorySelected 判断分类是否已选
func (d Draft) IsCategorySelected(categoryID uint) bool {
	return indexOf(d.SelectedCategories, categoryID) >= 0
}

func indexOf(values []uint, target uint) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return -1
}

func removeAt(values []uint, idx int) []uint {
	out := make([]uint, 0, len(values)-1)
	out = append(out, values[:idx]...)
	return append(out, values[idx+1:]...)
}
