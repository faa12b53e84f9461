package promotion

import (
	"github.com/freshcart-admin/internal/constants"
	"github.com/freshcart-admin/internal/models"

	"github.com/shopspring/decimal"
)

// Status 向导状态
type Status string

const (
	StatusEditing   Status = "editing"
	StatusSubmitted Status = "submitted"
	StatusClosed    Status = "closed"
)

// UnitOption 可选单位（含未加载单位时的占位单位）
type UnitOption struct {
	ID          uint            `json:"id"`
	Name        string          `json:"unit_name"`
	Type        string          `json:"unit_type"`
	UnitValue   float64         `json:"unit_value"`
	PackQty     int             `json:"pack_qty"`
	Price       decimal.Decimal `json:"price"`
	IsDefault   bool            `json:"is_default"`
	Placeholder bool            `json:"placeholder,omitempty"`
}

// PlaceholderUnit 商品尚无单位时的占位选项，ID 为 0 因此不会计入已选商品单位
func PlaceholderUnit(basePrice decimal.Decimal) UnitOption {
	return UnitOption{
		Name:        constants.PlaceholderUnitName,
		Type:        constants.PlaceholderUnitType,
		UnitValue:   1,
		PackQty:     1,
		Price:       basePrice,
		IsDefault:   true,
		Placeholder: true,
	}
}

// UnitOptionsFor 商品单位转为可选项，为空时返回占位单位
func UnitOptionsFor(product *models.Product, units []models.ProductUnit) []UnitOption {
	if len(units) == 0 {
		base := decimal.Zero
		if product != nil {
			base = product.PriceAmount.Decimal
		}
		return []UnitOption{PlaceholderUnit(base)}
	}
	options := make([]UnitOption, 0, len(units))
	for _, unit := range units {
		options = append(options, UnitOption{
			ID:        unit.ID,
			Name:      unit.UnitName,
			Type:      unit.UnitType,
			UnitValue: unit.UnitValue,
			PackQty:   unit.PackQty,
			Price:     unit.PriceAmount.Decimal,
			IsDefault: unit.IsDefault,
		})
	}
	return options
}

// Wizard 三步创建/编辑活动的向导状态
type Wizard struct {
	Step        Step                  `json:"step"`
	Status      Status                `json:"status"`
	Draft       Draft                 `json:"draft"`
	Errors      FieldErrors           `json:"errors"`
	UnitOptions map[uint][]UnitOption `json:"unit_options"`
}

// NewWizard 创建新向导
func NewWizard() *Wizard {
	return &Wizard{
		Step:        StepTypeAndList,
		Status:      StatusEditing,
		Draft:       NewDraft(),
		Errors:      FieldErrors{},
		UnitOptions: map[uint][]UnitOption{},
	}
}

// NewWizardFromPromotion 基于已有活动打开编辑向导
func NewWizardFromPromotion(m *models.Promotion) *Wizard {
	w := NewWizard()
	payload := PayloadFromModel(m)
	w.Draft = DraftFromPayload(payload)
	w.Draft.PromotionID = m.ID
	w.Draft.Original = &payload
	for _, item := range m.Items {
		if item.ProductUnit == nil {
			continue
		}
		w.UnitOptions[item.ProductID] = UnitOptionsFor(item.Product, []models.ProductUnit{*item.ProductUnit})
	}
	return w
}

func (w *Wizard) ensureEditable() error {
	if w.Status != StatusEditing {
		return ErrWizardFinished
	}
	if w.Errors == nil {
		w.Errors = FieldErrors{}
	}
	if w.Draft.UnitSelections == nil {
		w.Draft.UnitSelections = map[uint]uint{}
	}
	return nil
}

// ToggleProduct 切换商品选中状态：任选为多选，其余类型为单选（再次点击取消）
func (w *Wizard) ToggleProduct(productID uint) error {
	if err := w.ensureEditable(); err != nil {
		return err
	}
	d := &w.Draft
	idx := indexOf(d.SelectedProducts, productID)
	switch {
	case idx >= 0:
		d.SelectedProducts = removeAt(d.SelectedProducts, idx)
	case d.Type == constants.PromotionTypeAssortedItems:
		d.SelectedProducts = append(d.SelectedProducts, productID)
	default:
		d.SelectedProducts = []uint{productID}
	}
	delete(w.Errors, FieldSelectedProducts)
	return nil
}

// ToggleCategory 切换分类选中状态
func (w *Wizard) ToggleCategory(categoryID uint) error {
	if err := w.ensureEditable(); err != nil {
		return err
	}
	d := &w.Draft
	if idx := indexOf(d.SelectedCategories, categoryID); idx >= 0 {
		d.SelectedCategories = removeAt(d.SelectedCategories, idx)
	} else {
		d.SelectedCategories = append(d.SelectedCategories, categoryID)
	}
	delete(w.Errors, FieldSelectedCategories)
	return nil
}

// SetUnit 为已选商品指定单位；单位映射独立保存，不影响选中状态
func (w *Wizard) SetUnit(productID, unitID uint) error {
	if err := w.ensureEditable(); err != nil {
		return err
	}
	if !w.Draft.IsProductSelected(productID) {
		return ErrProductNotSelected
	}
	if unitID == 0 {
		delete(w.Draft.UnitSelections, productID)
	} else {
		w.Draft.UnitSelections[productID] = unitID
	}
	delete(w.Errors, FieldUnitSelections)
	return nil
}

// SetUnitOptions 缓存商品的可选单位
func (w *Wizard) SetUnitOptions(productID uint, options []UnitOption) {
	if w.UnitOptions == nil {
		w.UnitOptions = map[uint][]UnitOption{}
	}
	w.UnitOptions[productID] = options
}

// Next 校验当前步骤，通过则前进一步；失败时错误写入向导
func (w *Wizard) Next() (StepResult, error) {
	if err := w.ensureEditable(); err != nil {
		return StepResult{}, err
	}
	if w.Step >= StepDetails {
		return StepResult{}, ErrNoForwardStep
	}
	result := ValidateStep(w.Draft, w.Step)
	if !result.OK {
		w.Errors = result.Errors
		return result, nil
	}
	w.Errors = FieldErrors{}
	w.Step++
	return result, nil
}

// Back 回到之前的任一步骤，不做校验
func (w *Wizard) Back(to Step) error {
	if err := w.ensureEditable(); err != nil {
		return err
	}
	if !to.Valid() || to >= w.Step {
		return ErrInvalidStep
	}
	w.Step = to
	return nil
}

// Validate 校验指定步骤并把错误写入向导
func (w *Wizard) Validate(step Step) (StepResult, error) {
	if !step.Valid() {
		return StepResult{}, ErrInvalidStep
	}
	result := ValidateStep(w.Draft, step)
	w.Errors = result.Errors
	if w.Errors == nil {
		w.Errors = FieldErrors{}
	}
	return result, nil
}

// PrepareSubmit 完整校验并生成载荷；校验失败时返回 ErrValidationFailed 且草稿保持不变
func (w *Wizard) PrepareSubmit() (Payload, StepResult, error) {
	if err := w.ensureEditable(); err != nil {
		return Payload{}, StepResult{}, err
	}
	errs := Validate(w.Draft)
	result := resultOf(errs)
	if !result.OK {
		w.Errors = errs
		return Payload{}, result, ErrValidationFailed
	}
	w.Errors = FieldErrors{}
	return BuildPayload(w.Draft), result, nil
}

// MarkSubmitted 提交成功后标记完成
func (w *Wizard) MarkSubmitted(promotionID uint) {
	w.Draft.PromotionID = promotionID
	w.Status = StatusSubmitted
}

// Close 关闭向导
func (w *Wizard) Close() {
	w.Status = StatusClosed
}

// IsEditing 判断向导是否可编辑
func (w *Wizard) IsEditing() bool {
	return w.Status == StatusEditing
}
