package repository

import (
	"context"
	"errors"

	"github.com/freshcart-admin/internal/models"

	"gorm.io/gorm"
)

// ProductUnitRepository 商品单位数据访问接口
type ProductUnitRepository interface {
	ListByProduct(ctx context.Context, productID uint) ([]models.ProductUnit, error)
	GetByID(ctx context.Context, id uint) (*models.ProductUnit, error)
	Create(ctx context.Context, unit *models.ProductUnit) error
}

// GormProductUnitRepository GORM 实现
type GormProductUnitRepository struct {
	db *gorm.DB
}

// NewProductUnitRepository 创建商品单位仓库
func NewProductUnitRepository(db *gorm.DB) *GormProductUnitRepository {
	return &GormProductUnitRepository{db: db}
}

// ListByProduct 获取商品全部单位
func (r *GormProductUnitRepository) ListByProduct(ctx context.Context, productID uint) ([]models.ProductUnit, error) {
	var units []models.ProductUnit
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order DESC, id ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// GetByID 根据 ID 获取单位
func (r *GormProductUnitRepository) GetByID(ctx context.Context, id uint) (*models.ProductUnit, error) {
	var unit models.ProductUnit
	if err := r.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

// Create 创建单位
func (r *GormProductUnitRepository) Create(ctx context.Context, unit *models.ProductUnit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}
