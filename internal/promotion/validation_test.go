package promotion

import (
	"testing"
	"time"

	"github.com/freshcart-admin/internal/constants"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func validFixedDraft() Draft {
	d := NewDraft()
	d.Type = constants.PromotionTypeFixedPrice
	d.PromotionListID = 7
	d.Value = decPtr(10)
	d.SelectedProducts = []uint{1}
	d.UnitSelections[1] = 11
	return d
}

func validAssortedDraft() Draft {
	d := NewDraft()
	d.Type = constants.PromotionTypeAssortedItems
	d.PromotionListID = 7
	d.Value = decPtr(25)
	d.RequiredItemCount = intPtr(2)
	d.SelectedProducts = []uint{1, 2}
	d.UnitSelections[1] = 11
	d.UnitSelections[2] = 21
	return d
}

func validBulkDraft() Draft {
	d := NewDraft()
	d.Type = constants.PromotionTypeBulkPurchase
	d.PromotionListID = 7
	d.Value = decPtr(0)
	d.RequiredQty = intPtr(3)
	d.FreeQty = intPtr(1)
	d.SelectionMode = constants.SelectionModeProducts
	d.SelectedProducts = []uint{1}
	d.UnitSelections[1] = 11
	return d
}

func TestValidateRequiresPromotionListForEveryType(t *testing.T) {
	for _, d := range []Draft{validFixedDraft(), validAssortedDraft(), validBulkDraft()} {
		if errs := Validate(d); !errs.Empty() {
			t.Fatalf("expected %s draft valid, got %v", d.Type, errs)
		}
		d.PromotionListID = 0
		errs := Validate(d)
		if errs[FieldPromotionListID] != "promotion.list_required" {
			t.Fatalf("expected list_required for %s, got %v", d.Type, errs)
		}
		if len(errs) != 1 {
			t.Fatalf("expected only list error for %s, got %v", d.Type, errs)
		}
	}
}

func TestValidateFixedPriceCardinality(t *testing.T) {
	d := validFixedDraft()
	d.SelectedProducts = []uint{}
	if errs := Validate(d); errs[FieldSelectedProducts] != "promotion.product_exactly_one" {
		t.Fatalf("expected exactly-one error, got %v", errs)
	}

	d = validFixedDraft()
	d.SelectedProducts = []uint{1, 2}
	d.UnitSelections[2] = 21
	if errs := Validate(d); errs[FieldSelectedProducts] != "promotion.product_exactly_one" {
		t.Fatalf("expected exactly-one error for two products, got %v", errs)
	}

	d = validFixedDraft()
	delete(d.UnitSelections, 1)
	if errs := Validate(d); errs[FieldUnitSelections] != "promotion.unit_required" {
		t.Fatalf("expected unit error, got %v", errs)
	}

	d = validFixedDraft()
	d.Value = decPtr(0)
	if errs := Validate(d); errs[FieldValue] != "promotion.value_positive" {
		t.Fatalf("expected positive value error, got %v", errs)
	}
}

func TestValidateAssortedItemsRules(t *testing.T) {
	d := validAssortedDraft()
	d.RequiredItemCount = intPtr(1)
	if errs := Validate(d); errs[FieldRequiredItemCount] != "promotion.required_item_count_invalid" {
		t.Fatalf("expected required item count error, got %v", errs)
	}

	d = validAssortedDraft()
	d.RequiredItemCount = nil
	d.SelectedProducts = []uint{1}
	errs := Validate(d)
	if errs[FieldSelectedProducts] != "promotion.products_min_two" || errs[FieldRequiredItemCount] == "" {
		t.Fatalf("expected all violations at once, got %v", errs)
	}
}

func TestValidateBulkPurchaseRules(t *testing.T) {
	d := validBulkDraft()
	d.RequiredQty = intPtr(0)
	d.MinPurchaseAmount = nil
	if errs := Validate(d); errs[FieldRequiredQty] != "promotion.bulk_qualifier_required" {
		t.Fatalf("expected qualifier error, got %v", errs)
	}

	d = validBulkDraft()
	d.FreeQty = intPtr(0)
	if errs := Validate(d); errs[FieldFreeQty] != "promotion.free_qty_required" {
		t.Fatalf("expected free qty error, got %v", errs)
	}

	d = validBulkDraft()
	d.SelectionMode = constants.SelectionModeCategories
	if errs := Validate(d); errs[FieldSelectedCategories] != "promotion.categories_required" {
		t.Fatalf("expected categories error, got %v", errs)
	}
	d.SelectedCategories = []uint{4}
	if errs := Validate(d); !errs.Empty() {
		t.Fatalf("expected categories mode valid, got %v", errs)
	}

	d = validBulkDraft()
	d.Value = decPtr(-1)
	if errs := Validate(d); errs[FieldValue] != "promotion.value_non_negative" {
		t.Fatalf("expected non-negative value error, got %v", errs)
	}
}

func TestValidateBulkPurchaseAllModeWithMinPurchaseAmount(t *testing.T) {
	d := NewDraft()
	d.Type = constants.PromotionTypeBulkPurchase
	d.PromotionListID = 3
	d.Value = decPtr(0)
	d.SelectionMode = constants.SelectionModeAll
	d.RequiredQty = intPtr(0)
	d.MinPurchaseAmount = decPtr(200)
	d.FreeQty = intPtr(50)

	if errs := Validate(d); !errs.Empty() {
		t.Fatalf("expected valid draft, got %v", errs)
	}
}

func TestValidateQuantityOrdering(t *testing.T) {
	d := validFixedDraft()
	d.MinQty = intPtr(5)
	d.MaxQty = intPtr(2)
	if errs := Validate(d); errs[FieldMinQty] != "promotion.qty_range_invalid" {
		t.Fatalf("expected range error, got %v", errs)
	}
	d.MaxQty = intPtr(5)
	if errs := Validate(d); !errs.Empty() {
		t.Fatalf("expected equal bounds valid, got %v", errs)
	}
	d.MinQty = intPtr(0)
	if errs := Validate(d); errs[FieldMinQty] != "promotion.min_qty_invalid" {
		t.Fatalf("expected min qty error, got %v", errs)
	}
}

func TestValidateDateOrdering(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	d := validFixedDraft()
	d.StartDate = &start
	d.EndDate = &start
	if errs := Validate(d); errs[FieldEndDate] != "promotion.date_range_invalid" {
		t.Fatalf("expected equal dates rejected, got %v", errs)
	}
	before := start.Add(-time.Hour)
	d.EndDate = &before
	if errs := Validate(d); errs[FieldEndDate] != "promotion.date_range_invalid" {
		t.Fatalf("expected reversed dates rejected, got %v", errs)
	}
	after := start.Add(time.Hour)
	d.EndDate = &after
	if errs := Validate(d); !errs.Empty() {
		t.Fatalf("expected ordered dates valid, got %v", errs)
	}
}

func TestValidateStepDoesNotMutateDraft(t *testing.T) {
	d := validAssortedDraft()
	d.SelectedProducts = []uint{1}
	before := len(d.SelectedProducts)
	result := ValidateStep(d, StepSelection)
	if result.OK {
		t.Fatalf("expected selection step to fail")
	}
	if len(d.SelectedProducts) != before {
		t.Fatalf("draft mutated")
	}
	if !ValidateStep(d, StepTypeAndList).OK {
		t.Fatalf("expected step 1 to pass")
	}
}

func TestBuildPayloadNormalizesPerType(t *testing.T) {
	fixed := validFixedDraft()
	fixed.RequiredQty = intPtr(9)
	p := BuildPayload(fixed)
	if p.ProductUnit == nil || p.ProductUnit.ProductUnitID != 11 || len(p.ProductUnits) != 0 {
		t.Fatalf("unexpected fixed payload: %+v", p)
	}
	if p.RequiredQty != nil || p.SelectionMode != "" {
		t.Fatalf("fixed payload carries bulk fields: %+v", p)
	}

	bulk := validBulkDraft()
	bulk.SelectionMode = constants.SelectionModeCategories
	bulk.SelectedCategories = []uint{5, 6}
	p = BuildPayload(bulk)
	if len(p.Categories) != 2 || len(p.ProductUnits) != 0 || p.SelectionMode != constants.SelectionModeCategories {
		t.Fatalf("unexpected bulk payload: %+v", p)
	}

	assorted := validAssortedDraft()
	p = BuildPayload(assorted)
	if len(p.ProductUnits) != 2 || p.RequiredItemCount == nil || p.FreeQty != nil {
		t.Fatalf("unexpected assorted payload: %+v", p)
	}
	if errs := ValidatePayload(p); !errs.Empty() {
		t.Fatalf("payload should round-trip validation, got %v", errs)
	}
}

func TestPayloadModelRoundTripKeepsSelectionOrder(t *testing.T) {
	p := BuildPayload(validAssortedDraft())
	model := p.ToModel()
	model.ID = 42
	back := PayloadFromModel(model)
	if len(back.ProductUnits) != 2 || back.ProductUnits[0].ProductID != 1 || back.ProductUnits[1].ProductID != 2 {
		t.Fatalf("unexpected refs: %+v", back.ProductUnits)
	}
	if !back.Value.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("unexpected value: %s", back.Value)
	}
}
