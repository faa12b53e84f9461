package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/freshcart-admin/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, slug string, title models.JSON, sku string) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:  1,
		Slug:        slug,
		SKU:         sku,
		TitleJSON:   title,
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		IsActive:    true,
	}
	if err := NewProductRepository(db).Create(context.Background(), product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestUnit(t *testing.T, db *gorm.DB, productID uint, name string, isDefault bool) *models.ProductUnit {
	t.Helper()
	unit := &models.ProductUnit{
		ProductID:   productID,
		UnitName:    name,
		UnitType:    name,
		UnitValue:   1,
		PackQty:     1,
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		IsDefault:   isDefault,
	}
	if err := NewProductUnitRepository(db).Create(context.Background(), unit); err != nil {
		t.Fatalf("create unit failed: %v", err)
	}
	return unit
}
