package main

import (
	"errors"
	"flag"

	"github.com/freshcart-admin/internal/app"
	"github.com/freshcart-admin/internal/config"
	"github.com/freshcart-admin/internal/constants"
	"github.com/freshcart-admin/internal/logger"
	"github.com/freshcart-admin/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedUnit struct {
	name      string
	unitType  string
	value     float64
	packQty   int
	price     float64
	isDefault bool
}

type seedProduct struct {
	slug     string
	sku      string
	category string
	title    map[string]interface{}
	price    float64
	units    []seedUnit
}

type seedCategory struct {
	slug   string
	parent string
	name   map[string]interface{}
}

var categories = []seedCategory{
	{slug: "fresh", name: map[string]interface{}{"en": "Fresh Food", "ar": "أغذية طازجة"}},
	{slug: "dairy", parent: "fresh", name: map[string]interface{}{"en": "Dairy & Eggs", "ar": "ألبان وبيض"}},
	{slug: "produce", parent: "fresh", name: map[string]interface{}{"en": "Fruits & Vegetables", "ar": "فواكه وخضروات"}},
	{slug: "pantry", name: map[string]interface{}{"en": "Pantry", "ar": "مواد غذائية"}},
	{slug: "beverages", name: map[string]interface{}{"en": "Beverages", "ar": "مشروبات"}},
}

var products = []seedProduct{
	{
		slug: "nadec-fresh-yoghurt", sku: "5281001112021", category: "dairy", price: 2.5,
		title: map[string]interface{}{"en": "NADEC Fresh Yoghurt", "ar": "زبادي نادك طازج"},
		units: []seedUnit{
			{name: "cup", unitType: "pcs", value: 170, packQty: 1, price: 2.5, isDefault: true},
			{name: "tray", unitType: "box", value: 170, packQty: 6, price: 13.5},
		},
	},
	{
		slug: "almarai-fresh-milk-1l", sku: "6281007030110", category: "dairy", price: 6.5,
		title: map[string]interface{}{"en": "Almarai Fresh Milk 1L", "ar": "حليب المراعي طازج ١ لتر"},
		units: []seedUnit{
			{name: "bottle", unitType: "pcs", value: 1, packQty: 1, price: 6.5, isDefault: true},
			{name: "carton", unitType: "box", value: 1, packQty: 4, price: 24},
		},
	},
	{
		slug: "white-eggs-30", sku: "6281100220304", category: "dairy", price: 22,
		title: map[string]interface{}{"en": "White Eggs 30 pcs", "ar": "بيض أبيض ٣٠ حبة"},
		units: []seedUnit{
			{name: "tray", unitType: "box", value: 30, packQty: 1, price: 22, isDefault: true},
		},
	},
	{
		slug: "tomato", sku: "2000000000015", category: "produce", price: 4.75,
		title: map[string]interface{}{"en": "Tomato", "ar": "طماطم"},
		units: []seedUnit{
			{name: "kg", unitType: "kg", value: 1, packQty: 1, price: 4.75, isDefault: true},
			{name: "500 g", unitType: "kg", value: 0.5, packQty: 1, price: 2.5},
		},
	},
	{
		slug: "banana", sku: "2000000000022", category: "produce", price: 5.95,
		title: map[string]interface{}{"en": "Banana", "ar": "موز"},
	},
	{
		slug: "basmati-rice-5kg", sku: "8901234500051", category: "pantry", price: 39.95,
		title: map[string]interface{}{"en": "Basmati Rice 5kg", "ar": "أرز بسمتي ٥ كجم"},
		units: []seedUnit{
			{name: "bag", unitType: "pcs", value: 5, packQty: 1, price: 39.95, isDefault: true},
		},
	},
	{
		slug: "sunflower-oil-1-5l", sku: "6281034200152", category: "pantry", price: 15.25,
		title: map[string]interface{}{"en": "Sunflower Oil 1.5L", "ar": "زيت دوار الشمس ١.٥ لتر"},
		units: []seedUnit{
			{name: "bottle", unitType: "pcs", value: 1.5, packQty: 1, price: 15.25, isDefault: true},
		},
	},
	{
		slug: "mineral-water-330ml", sku: "6281025330240", category: "beverages", price: 1,
		title: map[string]interface{}{"en": "Mineral Water 330ml", "ar": "مياه معدنية ٣٣٠ مل"},
		units: []seedUnit{
			{name: "bottle", unitType: "pcs", value: 0.33, packQty: 1, price: 1, isDefault: true},
			{name: "pack", unitType: "box", value: 0.33, packQty: 40, price: 18.5},
		},
	},
}

var promotionLists = []models.PromotionList{
	{Name: "Weekly Deals", Type: constants.PromotionTypeFixedPrice, IsActive: true, SortOrder: 30},
	{Name: "Buy More Save More", Type: constants.PromotionTypeBulkPurchase, IsActive: true, SortOrder: 20},
	{Name: "Mix & Match", Type: constants.PromotionTypeAssortedItems, IsActive: true, SortOrder: 10},
}

func main() {
	configPath := flag.String("config", "", "配置文件路径，默认查找 ./config.yml")
	flag.Parse()

	cfg := config.LoadFrom(*configPath)
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 连接数据库（含自动迁移）
	cfg.Database.AutoMigrate = true
	db, err := app.OpenDatabase(cfg)
	if err != nil {
		stdLog.Fatalf("Failed to open database: %v", err)
	}

	categoryIDs := map[string]uint{}
	for _, item := range categories {
		var existing models.Category
		err := db.Where("slug = ?", item.slug).First(&existing).Error
		if err == nil {
			categoryIDs[item.slug] = existing.ID
			stdLog.Printf("Category already exists: %s", item.slug)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			stdLog.Fatalf("Failed to load category %s: %v", item.slug, err)
		}
		category := models.Category{Slug: item.slug, NameJSON: models.JSON(item.name)}
		if parentID, ok := categoryIDs[item.parent]; ok {
			category.ParentID = &parentID
		}
		if err := db.Create(&category).Error; err != nil {
			stdLog.Fatalf("Failed to create category %s: %v", item.slug, err)
		}
		categoryIDs[item.slug] = category.ID
		stdLog.Printf("Created category: %s", item.slug)
	}

	for _, item := range products {
		var existing models.Product
		err := db.Where("slug = ?", item.slug).First(&existing).Error
		if err == nil {
			stdLog.Printf("Product already exists: %s", item.slug)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			stdLog.Fatalf("Failed to load product %s: %v", item.slug, err)
		}
		product := models.Product{
			CategoryID:  categoryIDs[item.category],
			Slug:        item.slug,
			SKU:         item.sku,
			TitleJSON:   models.JSON(item.title),
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(item.price)),
			IsActive:    true,
		}
		for i, unit := range item.units {
			product.Units = append(product.Units, models.ProductUnit{
				UnitName:    unit.name,
				UnitType:    unit.unitType,
				UnitValue:   unit.value,
				PackQty:     unit.packQty,
				PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(unit.price)),
				IsDefault:   unit.isDefault,
				SortOrder:   len(item.units) - i,
			})
		}
		if err := db.Create(&product).Error; err != nil {
			stdLog.Fatalf("Failed to create product %s: %v", item.slug, err)
		}
		stdLog.Printf("Created product: %s (%d units)", item.slug, len(product.Units))
	}

	for _, list := range promotionLists {
		var count int64
		if err := db.Model(&models.PromotionList{}).Where("name = ?", list.Name).Count(&count).Error; err != nil {
			stdLog.Fatalf("Failed to check promotion list %s: %v", list.Name, err)
		}
		if count > 0 {
			stdLog.Printf("Promotion list already exists: %s", list.Name)
			continue
		}
		item := list
		if err := db.Create(&item).Error; err != nil {
			stdLog.Fatalf("Failed to create promotion list %s: %v", list.Name, err)
		}
		stdLog.Printf("Created promotion list: %s (%s)", item.Name, item.Type)
	}

	stdLog.Println("Seed completed")
}
