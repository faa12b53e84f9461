package repository

import (
	"context"
	"testing"

	"github.com/freshcart-admin/internal/models"
)

func TestProductSearchMatchesLocalizedTitleAndSKU(t *testing.T) {
	db := setupRepositoryTestDB(t)
	ctx := context.Background()
	yoghurt := createTestProduct(t, db, "nadec-yoghurt", models.JSON{"en": "NADEC FRESH YOGHURT", "ar": "زبادي نادك"}, "NDC-170")
	createTestProduct(t, db, "almarai-milk", models.JSON{"en": "Almarai Milk"}, "ALM-1L")
	repo := NewProductRepository(db)

	rows, err := repo.Search(ctx, "fresh", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != yoghurt.ID {
		t.Fatalf("expected yoghurt, got %+v", rows)
	}

	rows, err = repo.Search(ctx, "نادك", 10)
	if err != nil {
		t.Fatalf("search arabic failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != yoghurt.ID {
		t.Fatalf("expected arabic match, got %+v", rows)
	}

	rows, err = repo.Search(ctx, "ALM-1", 10)
	if err != nil {
		t.Fatalf("search sku failed: %v", err)
	}
	if len(rows) != 1 || rows[0].DisplayName("en") != "Almarai Milk" {
		t.Fatalf("expected sku match, got %+v", rows)
	}

	rows, err = repo.Search(ctx, "  ", 10)
	if err != nil || len(rows) != 0 {
		t.Fatalf("expected blank query to return nothing, got %+v err=%v", rows, err)
	}
}

func TestProductListAndGetByIDWithUnits(t *testing.T) {
	db := setupRepositoryTestDB(t)
	ctx := context.Background()
	first := createTestProduct(t, db, "p-1", models.JSON{"en": "Tomato"}, "")
	createTestProduct(t, db, "p-2", models.JSON{"en": "Cucumber"}, "")
	createTestUnit(t, db, first.ID, "kg", true)
	createTestUnit(t, db, first.ID, "box", false)
	repo := NewProductRepository(db)

	rows, total, err := repo.List(ctx, ProductListFilter{Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(rows) != 1 || rows[0].ID != first.ID {
		t.Fatalf("unexpected page: total=%d rows=%+v", total, rows)
	}

	product, err := repo.GetByID(ctx, first.ID)
	if err != nil || product == nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if len(product.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(product.Units))
	}

	missing, err := repo.GetByID(ctx, 999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing product, got %+v err=%v", missing, err)
	}
}

func TestBuildCategoryTree(t *testing.T) {
	parentID := uint(1)
	orphanParent := uint(99)
	tree := BuildCategoryTree([]models.Category{
		{ID: 1, Slug: "dairy"},
		{ID: 2, Slug: "yoghurt", ParentID: &parentID},
		{ID: 3, Slug: "milk", ParentID: &parentID},
		{ID: 4, Slug: "orphan", ParentID: &orphanParent},
	})
	if len(tree) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tree))
	}
	if len(tree[0].Children) != 2 || tree[0].Children[0].Slug != "yoghurt" {
		t.Fatalf("unexpected children: %+v", tree[0].Children)
	}
	if tree[1].Slug != "orphan" {
		t.Fatalf("expected orphan as root, got %s", tree[1].Slug)
	}
}

func TestFindPageEmptyAndPaged(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	empty, total, err := repo.List(ctx, ProductListFilter{Page: 1, PageSize: 10})
	if err != nil || total != 0 || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil page, got %v total=%d err=%v", empty, total, err)
	}

	for _, slug := range []string{"apple", "banana", "cherry"} {
		createTestProduct(t, db, slug, models.JSON{"en": slug}, "")
	}
	page, total, err := repo.List(ctx, ProductListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(page) != 1 || page[0].Slug != "cherry" {
		t.Fatalf("unexpected second page %+v total=%d", page, total)
	}
}
