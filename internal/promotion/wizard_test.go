package promotion

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/freshcart-admin/internal/constants"
	"github.com/freshcart-admin/internal/models"

	"github.com/shopspring/decimal"
)

func TestWizardAssortedNeedsTwoProductsToLeaveSelectionStep(t *testing.T) {
	w := NewWizard()
	if err := w.SetField(FieldType, constants.PromotionTypeAssortedItems); err != nil {
		t.Fatalf("set type failed: %v", err)
	}
	if err := w.SetField(FieldRequiredItemCount, float64(5)); err != nil {
		t.Fatalf("set required item count failed: %v", err)
	}
	if _, err := w.Next(); err != nil || w.Step != StepSelection {
		t.Fatalf("expected step 2, got step=%d err=%v", w.Step, err)
	}
	if err := w.ToggleProduct(1); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if err := w.SetUnit(1, 11); err != nil {
		t.Fatalf("set unit failed: %v", err)
	}

	result, err := w.Next()
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if result.OK || w.Step != StepSelection {
		t.Fatalf("expected transition blocked, got step=%d", w.Step)
	}
	if w.Errors[FieldSelectedProducts] != "promotion.products_min_two" {
		t.Fatalf("unexpected errors: %v", w.Errors)
	}

	if err := w.ToggleProduct(2); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if _, ok := w.Errors[FieldSelectedProducts]; ok {
		t.Fatalf("expected selection error cleared by toggle")
	}
	if err := w.SetUnit(2, 21); err != nil {
		t.Fatalf("set unit failed: %v", err)
	}
	if result, _ := w.Next(); !result.OK || w.Step != StepDetails {
		t.Fatalf("expected step 3, got %+v step=%d", result, w.Step)
	}
	if _, err := w.Next(); !errors.Is(err, ErrNoForwardStep) {
		t.Fatalf("expected no forward step, got %v", err)
	}
}

func TestWizardToggleProductSingleSelectForNonAssorted(t *testing.T) {
	w := NewWizard()
	_ = w.ToggleProduct(1)
	_ = w.ToggleProduct(2)
	if len(w.Draft.SelectedProducts) != 1 || w.Draft.SelectedProducts[0] != 2 {
		t.Fatalf("expected replacement, got %v", w.Draft.SelectedProducts)
	}
	_ = w.ToggleProduct(2)
	if len(w.Draft.SelectedProducts) != 0 {
		t.Fatalf("expected cleared selection, got %v", w.Draft.SelectedProducts)
	}
}

func TestWizardSetUnitKeepsSelection(t *testing.T) {
	w := NewWizard()
	_ = w.SetField(FieldType, constants.PromotionTypeAssortedItems)
	_ = w.ToggleProduct(1)
	_ = w.ToggleProduct(2)
	_ = w.SetUnit(1, 11)
	_ = w.SetUnit(1, 12)
	if len(w.Draft.SelectedProducts) != 2 || w.Draft.UnitSelections[1] != 12 {
		t.Fatalf("unexpected state: %+v", w.Draft)
	}
	if err := w.SetUnit(9, 91); !errors.Is(err, ErrProductNotSelected) {
		t.Fatalf("expected not selected error, got %v", err)
	}
}

func TestWizardSelectionModeAllClearsSelections(t *testing.T) {
	w := NewWizard()
	_ = w.SetField(FieldType, constants.PromotionTypeBulkPurchase)
	_ = w.ToggleProduct(1)
	_ = w.ToggleCategory(3)
	_ = w.ToggleCategory(4)
	_ = w.ToggleCategory(3)
	if len(w.Draft.SelectedCategories) != 1 || w.Draft.SelectedCategories[0] != 4 {
		t.Fatalf("unexpected categories: %v", w.Draft.SelectedCategories)
	}
	if err := w.SetField(FieldSelectionMode, constants.SelectionModeAll); err != nil {
		t.Fatalf("set selection mode failed: %v", err)
	}
	if len(w.Draft.SelectedProducts) != 0 || len(w.Draft.SelectedCategories) != 0 {
		t.Fatalf("expected selections cleared, got %+v", w.Draft)
	}
	if err := w.SetField(FieldSelectionMode, "everything"); !errors.Is(err, ErrInvalidFieldValue) {
		t.Fatalf("expected invalid value, got %v", err)
	}
}

func TestWizardSetFieldClearsOnlyThatError(t *testing.T) {
	w := NewWizard()
	_, _, err := w.PrepareSubmit()
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if w.Errors[FieldPromotionListID] == "" || w.Errors[FieldValue] == "" {
		t.Fatalf("expected list and value errors, got %v", w.Errors)
	}
	if err := w.SetField(FieldPromotionListID, "7"); err != nil {
		t.Fatalf("set list failed: %v", err)
	}
	if _, ok := w.Errors[FieldPromotionListID]; ok {
		t.Fatalf("expected list error cleared")
	}
	if w.Errors[FieldValue] == "" {
		t.Fatalf("expected value error kept")
	}
	if err := w.SetField("color", "red"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected unknown field, got %v", err)
	}
}

func TestWizardBackAndTerminalStates(t *testing.T) {
	w := NewWizard()
	if err := w.Back(StepTypeAndList); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("expected invalid back from step 1, got %v", err)
	}
	w.Step = StepDetails
	if err := w.Back(StepTypeAndList); err != nil || w.Step != StepTypeAndList {
		t.Fatalf("expected back to step 1, got step=%d err=%v", w.Step, err)
	}
	w.MarkSubmitted(5)
	if err := w.ToggleProduct(1); !errors.Is(err, ErrWizardFinished) {
		t.Fatalf("expected finished error, got %v", err)
	}
}

func TestWizardSurvivesJSONRoundTrip(t *testing.T) {
	w := NewWizard()
	_ = w.SetField(FieldType, constants.PromotionTypeFixedPrice)
	_ = w.SetField(FieldValue, "12.50")
	_ = w.SetField(FieldStartDate, "2026-03-01")
	_ = w.ToggleProduct(8)
	_ = w.SetUnit(8, 81)
	w.SetUnitOptions(8, []UnitOption{PlaceholderUnit(decimal.NewFromInt(3))})

	raw, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var restored Wizard
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if restored.Draft.UnitSelections[8] != 81 || !restored.Draft.Value.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected restored draft: %+v", restored.Draft)
	}
	if len(restored.UnitOptions[8]) != 1 || !restored.UnitOptions[8][0].Placeholder {
		t.Fatalf("unexpected unit options: %+v", restored.UnitOptions)
	}
}

func TestNewWizardFromPromotionKeepsOriginal(t *testing.T) {
	m := &models.Promotion{
		ID:              9,
		PromotionListID: 2,
		Type:            constants.PromotionTypeFixedPrice,
		Value:           models.NewMoneyFromInt(15),
		IsActive:        true,
		Items: []models.PromotionItem{{
			ProductID:     4,
			ProductUnitID: 40,
			Product:       &models.Product{ID: 4, PriceAmount: models.NewMoneyFromInt(20)},
			ProductUnit:   &models.ProductUnit{ID: 40, UnitName: "box", PackQty: 6, UnitValue: 1},
		}},
	}
	w := NewWizardFromPromotion(m)
	if w.Draft.PromotionID != 9 || w.Draft.Original == nil || w.Draft.Original.ProductUnit.ProductUnitID != 40 {
		t.Fatalf("unexpected hydrated draft: %+v", w.Draft)
	}
	if !ValidateStep(w.Draft, StepDetails).OK {
		t.Fatalf("expected hydrated draft valid, got %v", Validate(w.Draft))
	}
	if options := w.UnitOptions[4]; len(options) != 1 || options[0].Name != "box" {
		t.Fatalf("unexpected unit options: %+v", options)
	}
}

func TestUnitOptionsForUsesPlaceholderWhenEmpty(t *testing.T) {
	product := &models.Product{ID: 1, PriceAmount: models.NewMoneyFromInt(7)}
	options := UnitOptionsFor(product, nil)
	if len(options) != 1 {
		t.Fatalf("expected placeholder, got %+v", options)
	}
	placeholder := options[0]
	if placeholder.ID != 0 || placeholder.Name != constants.PlaceholderUnitName || placeholder.PackQty != 1 {
		t.Fatalf("unexpected placeholder: %+v", placeholder)
	}
	if !placeholder.Price.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected base price, got %s", placeholder.Price)
	}
}
