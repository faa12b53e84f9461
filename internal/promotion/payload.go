package promotion

import (
	"sort"
	"time"

	"github.com/freshcart-admin/internal/constants"
	"github.com/freshcart-admin/internal/models"

	"github.com/shopspring/decimal"
)

// Payload 提交给持久化层的规范化活动数据
type Payload struct {
	Type              string           `json:"type"`
	PromotionListID   uint             `json:"promotion_list_id"`
	Value             decimal.Decimal  `json:"value"`
	MinQty            *int             `json:"min_qty,omitempty"`
	MaxQty            *int             `json:"max_qty,omitempty"`
	RequiredQty       *int             `json:"required_qty,omitempty"`
	FreeQty           *int             `json:"free_qty,omitempty"`
	MinPurchaseAmount *decimal.Decimal `json:"min_purchase_amount,omitempty"`
	RequiredItemCount *int             `json:"required_item_count,omitempty"`
	StartDate         *time.Time       `json:"start_date,omitempty"`
	EndDate           *time.Time       `json:"end_date,omitempty"`
	IsActive          bool             `json:"is_active"`
	SelectionMode     string           `json:"selection_mode,omitempty"`
	ProductUnit       *ProductUnitRef  `json:"product_unit,omitempty"`
	ProductUnits      []ProductUnitRef `json:"product_units,omitempty"`
	Categories        []uint           `json:"categories,omitempty"`
}

// Refs 返回载荷中的全部商品单位
func (p Payload) Refs() []ProductUnitRef {
	if p.ProductUnit != nil {
		return []ProductUnitRef{*p.ProductUnit}
	}
	return p.ProductUnits
}

// BuildPayload 按活动类型生成规范化载荷，其他类型的专属字段不会出现
func BuildPayload(d Draft) Payload {
	p := Payload{
		Type:            d.Type,
		PromotionListID: d.PromotionListID,
		MinQty:          d.MinQty,
		MaxQty:          d.MaxQty,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		IsActive:        d.IsActive,
	}
	if d.Value != nil {
		p.Value = *d.Value
	}
	pairs := d.Pairs()
	switch d.Type {
	case constants.PromotionTypeFixedPrice:
		if len(pairs) > 0 {
			first := pairs[0]
			p.ProductUnit = &first
		}
	case constants.PromotionTypeAssortedItems:
		p.RequiredItemCount = d.RequiredItemCount
		p.ProductUnits = pairs
	case constants.PromotionTypeBulkPurchase:
		p.RequiredQty = d.RequiredQty
		p.FreeQty = d.FreeQty
		p.MinPurchaseAmount = d.MinPurchaseAmount
		p.SelectionMode = d.EffectiveSelectionMode()
		switch p.SelectionMode {
		case constants.SelectionModeProducts:
			p.ProductUnits = pairs
		case constants.SelectionModeCategories:
			p.Categories = append([]uint{}, d.SelectedCategories...)
		}
	}
	return p
}

// DraftFromPayload 载荷还原为草稿（编辑与导入校验共用）
func DraftFromPayload(p Payload) Draft {
	d := NewDraft()
	d.Type = p.Type
	d.PromotionListID = p.PromotionListID
	value := p.Value
	d.Value = &value
	d.MinQty = p.MinQty
	d.MaxQty = p.MaxQty
	d.RequiredQty = p.RequiredQty
	d.FreeQty = p.FreeQty
	d.MinPurchaseAmount = p.MinPurchaseAmount
	d.RequiredItemCount = p.RequiredItemCount
	d.StartDate = p.StartDate
	d.EndDate = p.EndDate
	d.IsActive = p.IsActive
	if p.SelectionMode != "" {
		d.SelectionMode = p.SelectionMode
	}
	for _, ref := range p.Refs() {
		if d.IsProductSelected(ref.ProductID) {
			continue
		}
		d.SelectedProducts = append(d.SelectedProducts, ref.ProductID)
		d.UnitSelections[ref.ProductID] = ref.ProductUnitID
	}
	d.SelectedCategories = append(d.SelectedCategories, p.Categories...)
	return d
}

// ValidatePayload 对载荷执行与向导提交相同的校验
func ValidatePayload(p Payload) FieldErrors {
	return Validate(DraftFromPayload(p))
}

// PayloadFromModel 已持久化活动转为载荷
func PayloadFromModel(m *models.Promotion) Payload {
	p := Payload{
		Type:              m.Type,
		PromotionListID:   m.PromotionListID,
		Value:             m.Value.Decimal,
		MinQty:            m.MinQty,
		MaxQty:            m.MaxQty,
		RequiredQty:       m.RequiredQty,
		FreeQty:           m.FreeQty,
		MinPurchaseAmount: m.MinPurchaseAmount.DecimalPtr(),
		RequiredItemCount: m.RequiredItemCount,
		StartDate:         m.StartsAt,
		EndDate:           m.EndsAt,
		IsActive:          m.IsActive,
	}
	items := append([]models.PromotionItem{}, m.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
	refs := make([]ProductUnitRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, ProductUnitRef{ProductID: item.ProductID, ProductUnitID: item.ProductUnitID})
	}
	switch m.Type {
	case constants.PromotionTypeFixedPrice:
		if len(refs) > 0 {
			p.ProductUnit = &refs[0]
		}
	case constants.PromotionTypeAssortedItems:
		p.ProductUnits = refs
	case constants.PromotionTypeBulkPurchase:
		p.SelectionMode = m.SelectionMode
		if p.SelectionMode == "" {
			p.SelectionMode = constants.SelectionModeProducts
		}
		switch p.SelectionMode {
		case constants.SelectionModeProducts:
			p.ProductUnits = refs
		case constants.SelectionModeCategories:
			for _, category := range m.Categories {
				p.Categories = append(p.Categories, category.CategoryID)
			}
		}
	}
	return p
}

// ToModel 载荷转为持久化模型（不含 ID）
func (p Payload) ToModel() *models.Promotion {
	m := &models.Promotion{
		PromotionListID:   p.PromotionListID,
		Type:              p.Type,
		Value:             models.NewMoneyFromDecimal(p.Value),
		MinQty:            p.MinQty,
		MaxQty:            p.MaxQty,
		RequiredQty:       p.RequiredQty,
		FreeQty:           p.FreeQty,
		MinPurchaseAmount: models.MoneyPtr(p.MinPurchaseAmount),
		RequiredItemCount: p.RequiredItemCount,
		SelectionMode:     constants.SelectionModeProducts,
		StartsAt:          p.StartDate,
		EndsAt:            p.EndDate,
		IsActive:          p.IsActive,
	}
	if p.SelectionMode != "" {
		m.SelectionMode = p.SelectionMode
	}
	for idx, ref := range p.Refs() {
		m.Items = append(m.Items, models.PromotionItem{
			ProductID:     ref.ProductID,
			ProductUnitID: ref.ProductUnitID,
			SortOrder:     idx,
		})
	}
	for _, categoryID := range p.Categories {
		m.Categories = append(m.Categories, models.PromotionCategory{CategoryID: categoryID})
	}
	return m
}
