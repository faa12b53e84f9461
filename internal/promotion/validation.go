package promotion

import (
	"github.com/freshcart-admin/internal/constants"

	"github.com/shopspring/decimal"
)

// Step 向导步骤
type Step int

const (
	StepTypeAndList Step = 1
	StepSelection   Step = 2
	StepDetails     Step = 3
)

// Valid 判断步骤是否合法
func (s Step) Valid() bool {
	return s >= StepTypeAndList && s <= StepDetails
}

// StepResult 步骤校验结果
type StepResult struct {
	OK     bool        `json:"ok"`
	Errors FieldErrors `json:"errors,omitempty"`
}

func resultOf(errs FieldErrors) StepResult {
	return StepResult{OK: errs.Empty(), Errors: errs}
}

// ValidateStep 校验指定步骤（纯函数，不修改草稿）
func ValidateStep(d Draft, step Step) StepResult {
	switch step {
	case StepTypeAndList:
		return resultOf(validateType(d))
	case StepSelection:
		return resultOf(validateSelection(d))
	default:
		return resultOf(Validate(d))
	}
}

// Validate 完整校验，一次返回全部违反的规则
func Validate(d Draft) FieldErrors {
	errs := validateType(d)
	if d.PromotionListID == 0 {
		errs.add(FieldPromotionListID, "promotion.list_required")
	}
	errs.merge(validateValue(d))
	errs.merge(validateQuantities(d))
	if d.StartDate != nil && d.EndDate != nil && !d.StartDate.Before(*d.EndDate) {
		errs.add(FieldEndDate, "promotion.date_range_invalid")
	}
	errs.merge(validateSelection(d))

	switch d.Type {
	case constants.PromotionTypeAssortedItems:
		if d.RequiredItemCount == nil || *d.RequiredItemCount < 2 {
			errs.add(FieldRequiredItemCount, "promotion.required_item_count_invalid")
		}
	case constants.PromotionTypeBulkPurchase:
		hasQty := d.RequiredQty != nil && *d.RequiredQty > 0
		hasAmount := d.MinPurchaseAmount != nil && d.MinPurchaseAmount.GreaterThan(decimal.Zero)
		if !hasQty && !hasAmount {
			errs.add(FieldRequiredQty, "promotion.bulk_qualifier_required")
		}
		if d.FreeQty == nil || *d.FreeQty <= 0 {
			errs.add(FieldFreeQty, "promotion.free_qty_required")
		}
	}
	return errs
}

func validateType(d Draft) FieldErrors {
	errs := FieldErrors{}
	if !constants.IsPromotionType(d.Type) {
		errs.add(FieldType, "promotion.type_invalid")
	}
	return errs
}

func validateValue(d Draft) FieldErrors {
	errs := FieldErrors{}
	if d.Value == nil {
		errs.add(FieldValue, "promotion.value_required")
		return errs
	}
	if d.Type == constants.PromotionTypeBulkPurchase {
		if d.Value.IsNegative() {
			errs.add(FieldValue, "promotion.value_non_negative")
		}
		return errs
	}
	if !d.Value.IsPositive() {
		errs.add(FieldValue, "promotion.value_positive")
	}
	return errs
}

func validateQuantities(d Draft) FieldErrors {
	errs := FieldErrors{}
	if d.MinQty != nil && *d.MinQty < 1 {
		errs.add(FieldMinQty, "promotion.min_qty_invalid")
	}
	if d.MaxQty != nil && *d.MaxQty < 1 {
		errs.add(FieldMaxQty, "promotion.max_qty_invalid")
	}
	if d.MinQty != nil && d.MaxQty != nil && *d.MinQty > *d.MaxQty {
		errs.add(FieldMinQty, "promotion.qty_range_invalid")
	}
	return errs
}

// validateSelection 第二步的选品守卫，规则随活动类型变化
func validateSelection(d Draft) FieldErrors {
	errs := FieldErrors{}
	switch d.Type {
	case constants.PromotionTypeFixedPrice:
		if len(d.SelectedProducts) != 1 {
			errs.add(FieldSelectedProducts, "promotion.product_exactly_one")
		}
	case constants.PromotionTypeAssortedItems:
		if len(d.SelectedProducts) < 2 {
			errs.add(FieldSelectedProducts, "promotion.products_min_two")
		}
	case constants.PromotionTypeBulkPurchase:
		switch d.SelectionMode {
		case constants.SelectionModeProducts, "":
			if len(d.SelectedProducts) < 1 {
				errs.add(FieldSelectedProducts, "promotion.products_required")
			}
		case constants.SelectionModeCategories:
			if len(d.SelectedCategories) < 1 {
				errs.add(FieldSelectedCategories, "promotion.categories_required")
			}
			return errs
		case constants.SelectionModeAll:
			return errs
		default:
			errs.add(FieldSelectionMode, "promotion.selection_mode_invalid")
			return errs
		}
	default:
		return errs
	}
	if d.missingUnits() > 0 {
		errs.add(FieldUnitSelections, "promotion.unit_required")
	}
	return errs
}
