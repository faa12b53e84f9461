package matching

import (
	"context"
	"testing"

	"github.com/freshcart-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseUnitPrefersDefaultFlag(t *testing.T) {
	units := []models.ProductUnit{
		{ID: 1, UnitName: "kg", PackQty: 1, UnitValue: 1},
		{ID: 2, UnitName: "box", PackQty: 1, UnitValue: 1, IsDefault: true},
	}
	unit := BaseUnit(units)
	require.NotNil(t, unit)
	assert.Equal(t, "box", unit.UnitName)
}

func TestBaseUnitFallbacks(t *testing.T) {
	units := []models.ProductUnit{
		{ID: 1, UnitName: "carton", PackQty: 12, UnitValue: 12},
		{ID: 2, UnitName: "piece", PackQty: 1, UnitValue: 1},
	}
	assert.Equal(t, uint(2), BaseUnit(units).ID)

	units = []models.ProductUnit{
		{ID: 3, UnitName: "2kg", PackQty: 1, UnitValue: 2},
		{ID: 4, UnitName: "500g", PackQty: 1, UnitValue: 0.5},
		{ID: 5, UnitName: "half", PackQty: 2, UnitValue: 0.5},
	}
	assert.Equal(t, uint(4), BaseUnit(units).ID)
	assert.Nil(t, BaseUnit(nil))
}

func TestMatchUnitLabelOrder(t *testing.T) {
	units := []models.ProductUnit{
		{ID: 1, UnitName: "Carton 12", UnitType: "box"},
		{ID: 2, UnitName: "Box", UnitType: "pack"},
		{ID: 3, UnitName: "Kilogram", UnitType: "kg"},
	}
	assert.Equal(t, uint(2), MatchUnitLabel(units, "box").ID, "name beats type")
	assert.Equal(t, uint(3), MatchUnitLabel(units, "KG").ID)
	assert.Equal(t, uint(1), MatchUnitLabel(units, "carton").ID)
	assert.Nil(t, MatchUnitLabel(units, "litre"))
}

func TestResolveUnitNotFoundListsAvailableUnits(t *testing.T) {
	catalog := &fakeCatalog{
		units: map[uint][]models.ProductUnit{
			1: {{ID: 10, UnitName: "cup"}, {ID: 11, UnitName: "tray"}},
		},
	}
	m := newFakeMatcher(catalog)

	_, err := m.ResolveUnit(context.Background(), product(1, "Yoghurt"), "Yoghurt", "litre")
	matchErr, ok := AsMatchError(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnitNotFound, matchErr.Code)
	assert.Equal(t, []string{"cup", "tray"}, matchErr.AvailableUnits)
	assert.Equal(t, "Unit \"litre\" not found for product \"Yoghurt\". Available units: cup, tray", matchErr.Message.String())
}

func TestResolveUnitWithoutUnits(t *testing.T) {
	m := newFakeMatcher(&fakeCatalog{})
	_, err := m.ResolveUnit(context.Background(), product(9, "Water"), "Water", "")
	matchErr, ok := AsMatchError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNoUnits, matchErr.Code)
}
