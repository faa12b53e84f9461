package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/freshcart-admin/internal/cache"
	"github.com/freshcart-admin/internal/constants"
	"github.com/freshcart-admin/internal/matching"
	"github.com/freshcart-admin/internal/models"
	"github.com/freshcart-admin/internal/promotion"
	"github.com/freshcart-admin/internal/queue"
	"github.com/freshcart-admin/internal/repository"
	"github.com/freshcart-admin/internal/spreadsheet"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordedExpiry struct {
	PromotionID uint
	ProcessAt   time.Time
}

type fakeExpiryScheduler struct {
	mu    sync.Mutex
	calls []recordedExpiry
}

func (f *fakeExpiryScheduler) EnqueuePromotionExpire(payload queue.PromotionExpirePayload, processAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedExpiry{PromotionID: payload.PromotionID, ProcessAt: processAt})
	return nil
}

func (f *fakeExpiryScheduler) recorded() []recordedExpiry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedExpiry(nil), f.calls...)
}

// rejectingPromotionRepository 对包含指定商品的活动写入失败
type rejectingPromotionRepository struct {
	repository.PromotionRepository
	rejectProductID uint
}

func (r *rejectingPromotionRepository) Create(ctx context.Context, p *models.Promotion) error {
	for _, item := range p.Items {
		if item.ProductID == r.rejectProductID {
			return fmt.Errorf("backend rejected product %d", item.ProductID)
		}
	}
	return r.PromotionRepository.Create(ctx, p)
}

// hookedPromotionRepository 写入前回调 beforeCreate，回调返回错误时写入失败
type hookedPromotionRepository struct {
	repository.PromotionRepository
	beforeCreate func(p *models.Promotion) error
}

func (r *hookedPromotionRepository) Create(ctx context.Context, p *models.Promotion) error {
	if r.beforeCreate != nil {
		if err := r.beforeCreate(p); err != nil {
			return err
		}
	}
	return r.PromotionRepository.Create(ctx, p)
}

type serviceFixture struct {
	db        *gorm.DB
	store     *cache.MemoryStore
	expiry    *fakeExpiryScheduler
	promoRepo repository.PromotionRepository
	admin     *PromotionAdminService
	wizard    *PromotionWizardService
	importer  *PromotionImportService

	fixedList    *models.PromotionList
	bulkList     *models.PromotionList
	assortedList *models.PromotionList

	fresh *models.Category
	dairy *models.Category

	yoghurt     *models.Product
	yoghurtCup  *models.ProductUnit
	yoghurtTray *models.ProductUnit
	milk        *models.Product
	milkBottle  *models.ProductUnit
	rice        *models.Product
	riceBag     *models.ProductUnit
	tomato      *models.Product
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db failed: %v", err)
	}
	// 共享缓存的内存库并发写会加表锁
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// newServiceFixture 构建服务与一份小型生鲜目录；wrap 可替换活动仓库
func newServiceFixture(t *testing.T, wrap func(repository.PromotionRepository) repository.PromotionRepository) *serviceFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	ctx := context.Background()
	f := &serviceFixture{db: db, store: cache.NewMemoryStore(), expiry: &fakeExpiryScheduler{}}

	listRepo := repository.NewPromotionListRepository(db)
	f.fixedList = createTestList(t, listRepo, "Weekly fixed", constants.PromotionTypeFixedPrice)
	f.bulkList = createTestList(t, listRepo, "Buy more", constants.PromotionTypeBulkPurchase)
	f.assortedList = createTestList(t, listRepo, "Mix and match", constants.PromotionTypeAssortedItems)

	categoryRepo := repository.NewCategoryRepository(db)
	f.fresh = &models.Category{Slug: "fresh", NameJSON: models.JSON{"en": "Fresh", "ar": "طازج"}}
	if err := categoryRepo.Create(ctx, f.fresh); err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	f.dairy = &models.Category{Slug: "dairy", ParentID: &f.fresh.ID, NameJSON: models.JSON{"en": "Dairy"}}
	if err := categoryRepo.Create(ctx, f.dairy); err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	unitRepo := repository.NewProductUnitRepository(db)
	f.yoghurt = createServiceProduct(t, productRepo, f.dairy.ID, "nadec-fresh-yoghurt", "NADEC FRESH YOGHURT")
	f.yoghurtCup = createServiceUnit(t, unitRepo, f.yoghurt.ID, "cup", true)
	f.yoghurtTray = createServiceUnit(t, unitRepo, f.yoghurt.ID, "tray", false)
	f.milk = createServiceProduct(t, productRepo, f.dairy.ID, "almarai-milk", "Almarai Milk")
	f.milkBottle = createServiceUnit(t, unitRepo, f.milk.ID, "bottle", true)
	f.rice = createServiceProduct(t, productRepo, f.fresh.ID, "basmati-rice-5kg", "Basmati Rice 5kg")
	f.riceBag = createServiceUnit(t, unitRepo, f.rice.ID, "bag", true)
	f.tomato = createServiceProduct(t, productRepo, f.fresh.ID, "tomato", "Tomato")

	f.promoRepo = repository.NewPromotionRepository(db)
	if wrap != nil {
		f.promoRepo = wrap(f.promoRepo)
	}
	f.admin = NewPromotionAdminService(f.promoRepo, listRepo, f.expiry)
	f.wizard = NewPromotionWizardService(f.store, f.admin, productRepo, unitRepo, categoryRepo, listRepo, WizardOptions{})
	catalog := NewRepositoryCatalog(productRepo, unitRepo)
	matcher := matching.NewMatcher(catalog, catalog, matching.DefaultConfig())
	f.importer = NewPromotionImportService(f.store, f.admin, listRepo, f.promoRepo, matcher, ImportOptions{Concurrency: 4})
	return f
}

func createTestList(t *testing.T, repo repository.PromotionListRepository, name, promotionType string) *models.PromotionList {
	t.Helper()
	list := &models.PromotionList{Name: name, Type: promotionType, IsActive: true}
	if err := repo.Create(context.Background(), list); err != nil {
		t.Fatalf("create promotion list failed: %v", err)
	}
	return list
}

func createServiceProduct(t *testing.T, repo repository.ProductRepository, categoryID uint, slug, title string) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:  categoryID,
		Slug:        slug,
		TitleJSON:   models.JSON{"en": title},
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(12)),
		IsActive:    true,
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createServiceUnit(t *testing.T, repo repository.ProductUnitRepository, productID uint, name string, isDefault bool) *models.ProductUnit {
	t.Helper()
	unit := &models.ProductUnit{
		ProductID:   productID,
		UnitName:    name,
		UnitType:    name,
		UnitValue:   1,
		PackQty:     1,
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(12)),
		IsDefault:   isDefault,
	}
	if err := repo.Create(context.Background(), unit); err != nil {
		t.Fatalf("create unit failed: %v", err)
	}
	return unit
}

func buildWorkbook(t *testing.T, promotionType string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, promotion.Headers(promotionType), rows); err != nil {
		t.Fatalf("write workbook failed: %v", err)
	}
	return &buf
}

func countPromotions(t *testing.T, f *serviceFixture, listID uint) int64 {
	t.Helper()
	_, total, err := f.promoRepo.List(context.Background(), repository.PromotionFilter{Page: 1, PageSize: 100, PromotionListID: listID})
	if err != nil {
		t.Fatalf("list promotions failed: %v", err)
	}
	return total
}
