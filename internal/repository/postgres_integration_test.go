//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/freshcart-admin/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.PromotionCategory{},
		&models.PromotionItem{},
		&models.Promotion{},
		&models.PromotionList{},
		&models.ProductUnit{},
		&models.Product{},
		&models.Category{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresLocalizedProductSearch(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	ctx := context.Background()

	productRepo := NewProductRepository(db)
	product := &models.Product{
		CategoryID:  1,
		Slug:        "pg-nadec-yoghurt",
		SKU:         "PG-NDC",
		TitleJSON:   models.JSON{"en": "NADEC FRESH YOGHURT", "ar": "زبادي نادك"},
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(4)),
		IsActive:    true,
	}
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	rows, err := productRepo.Search(ctx, "fresh yoghurt", 10)
	if err != nil {
		t.Fatalf("search en failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("search en want 1 got %d", len(rows))
	}

	rows, total, err := productRepo.List(ctx, ProductListFilter{Page: 1, PageSize: 10, Search: "نادك"})
	if err != nil {
		t.Fatalf("list search ar failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("list search ar want 1 got total=%d len=%d", total, len(rows))
	}
}
