package matching

import (
	"context"
	"strings"

	"github.com/freshcart-admin/internal/i18n"
	"github.com/freshcart-admin/internal/models"
)

// ResolveUnit 解析单位标签：空标签取基础单位，否则依次按名称、类型、包含关系匹配
func (m *Matcher) ResolveUnit(ctx context.Context, product models.Product, productName, label string) (*models.ProductUnit, error) {
	units, err := m.units.UnitsFor(ctx, product.ID)
	if err != nil {
		return nil, m.unavailable(err)
	}
	if len(units) == 0 {
		return nil, &MatchError{Code: CodeNoUnits, Message: i18n.NewMessage("import.product_no_units", productName)}
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return BaseUnit(units), nil
	}
	if unit := MatchUnitLabel(units, label); unit != nil {
		return unit, nil
	}
	available := UnitLabels(units)
	return nil, &MatchError{
		Code:           CodeUnitNotFound,
		Message:        i18n.NewMessage("import.unit_not_found", label, productName, strings.Join(available, ", ")),
		AvailableUnits: available,
	}
}

// BaseUnit 基础单位：默认单位优先，其次 unit_value=1 且 pack_qty=1，最后取 unit_value 最小者
func BaseUnit(units []models.ProductUnit) *models.ProductUnit {
	if len(units) == 0 {
		return nil
	}
	for i := range units {
		if units[i].IsDefault {
			return &units[i]
		}
	}
	for i := range units {
		if units[i].UnitValue == 1 && units[i].PackQty == 1 {
			return &units[i]
		}
	}
	smallest := 0
	for i := range units {
		if units[i].UnitValue < units[smallest].UnitValue {
			smallest = i
		}
	}
	return &units[smallest]
}

// MatchUnitLabel 非空标签按名称、类型、包含关系依次匹配
func MatchUnitLabel(units []models.ProductUnit, label string) *models.ProductUnit {
	for i := range units {
		if strings.EqualFold(units[i].UnitName, label) {
			return &units[i]
		}
	}
	for i := range units {
		if units[i].UnitType != "" && strings.EqualFold(units[i].UnitType, label) {
			return &units[i]
		}
	}
	lowerLabel := strings.ToLower(label)
	for i := range units {
		name := strings.ToLower(units[i].UnitName)
		if name == "" {
			continue
		}
		if strings.Contains(name, lowerLabel) || strings.Contains(lowerLabel, name) {
			return &units[i]
		}
	}
	return nil
}

// UnitLabels 返回全部单位名称
func UnitLabels(units []models.ProductUnit) []string {
	labels := make([]string, 0, len(units))
	for _, unit := range units {
		labels = append(labels, unit.UnitName)
	}
	return labels
}
