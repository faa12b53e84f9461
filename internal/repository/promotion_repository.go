package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/freshcart-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PromotionRepository 活动数据访问接口
type PromotionRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Promotion, error)
	Create(ctx context.Context, promotion *models.Promotion) error
	Update(ctx context.Context, promotion *models.Promotion) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter PromotionFilter) ([]models.Promotion, int64, error)
	Deactivate(ctx context.Context, id uint, now time.Time) (int64, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// GormPromotionRepository GORM 实现
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository 创建活动仓库
func NewPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

func preloadPromotionRelations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Items.Product").
		Preload("Items.ProductUnit").
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

// GetByID 根据 ID 获取活动（含商品单位与分类）
func (r *GormPromotionRepository) GetByID(ctx context.Context, id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := preloadPromotionRelations(r.db.WithContext(ctx)).First(&promotion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

// Create 创建活动及其商品单位/分类
func (r *GormPromotionRepository) Create(ctx context.Context, promotion *models.Promotion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := promotion.Items
		categories := promotion.Categories
		promotion.Items = nil
		promotion.Categories = nil
		if err := tx.Omit(clause.Associations).Create(promotion).Error; err != nil {
			return err
		}
		saved, err := replacePromotionRelations(tx, promotion.ID, items, categories)
		if err != nil {
			return err
		}
		promotion.Items = saved.items
		promotion.Categories = saved.categories
		return nil
	})
}

// Update 更新活动，商品单位与分类整体替换
func (r *GormPromotionRepository) Update(ctx context.Context, promotion *models.Promotion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := promotion.Items
		categories := promotion.Categories
		if err := tx.Omit(clause.Associations).Save(promotion).Error; err != nil {
			return err
		}
		if err := tx.Where("promotion_id = ?", promotion.ID).Delete(&models.PromotionItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("promotion_id = ?", promotion.ID).Delete(&models.PromotionCategory{}).Error; err != nil {
			return err
		}
		saved, err := replacePromotionRelations(tx, promotion.ID, items, categories)
		if err != nil {
			return err
		}
		promotion.Items = saved.items
		promotion.Categories = saved.categories
		return nil
	})
}

type promotionRelations struct {
	items      []models.PromotionItem
	categories []models.PromotionCategory
}

func replacePromotionRelations(tx *gorm.DB, promotionID uint, items []models.PromotionItem, categories []models.PromotionCategory) (promotionRelations, error) {
	out := promotionRelations{
		items:      make([]models.PromotionItem, 0, len(items)),
		categories: make([]models.PromotionCategory, 0, len(categories)),
	}
	for idx, item := range items {
		out.items = append(out.items, models.PromotionItem{
			PromotionID:   promotionID,
			ProductID:     item.ProductID,
			ProductUnitID: item.ProductUnitID,
			SortOrder:     idx,
		})
	}
	for _, category := range categories {
		out.categories = append(out.categories, models.PromotionCategory{
			PromotionID: promotionID,
			CategoryID:  category.CategoryID,
		})
	}
	if len(out.items) > 0 {
		if err := tx.Omit(clause.Associations).Create(&out.items).Error; err != nil {
			return out, err
		}
	}
	if len(out.categories) > 0 {
		if err := tx.Create(&out.categories).Error; err != nil {
			return out, err
		}
	}
	return out, nil
}

// Delete 删除活动（软删除）
func (r *GormPromotionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Promotion{}, id).Error
}

// List 活动分页列表
func (r *GormPromotionRepository) List(ctx context.Context, filter PromotionFilter) ([]models.Promotion, int64, error) {
	var promotions []models.Promotion
	query := r.db.WithContext(ctx).Model(&models.Promotion{})

	if filter.PromotionListID != 0 {
		query = query.Where("promotion_list_id = ?", filter.PromotionListID)
	}
	if promotionType := strings.TrimSpace(filter.Type); promotionType != "" {
		query = query.Where("type = ?", promotionType)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.EndsBefore != nil {
		query = query.Where("ends_at IS NOT NULL AND ends_at <= ?", *filter.EndsBefore)
	}

	total, err := findPage(query, filter.Page, filter.PageSize, "id desc", &promotions, preloadPromotionRelations)
	if err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}

// Deactivate 到期下线：仅当活动仍启用且结束时间已过
func (r *GormPromotionRepository) Deactivate(ctx context.Context, id uint, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Promotion{}).
		Where("id = ? AND is_active = ? AND ends_at IS NOT NULL AND ends_at <= ?", id, true, now).
		Updates(map[string]interface{}{"is_active": false, "updated_at": now})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeactivateExpired 批量下线所有已过结束时间的启用活动
func (r *GormPromotionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Promotion{}).
		Where("is_active = ? AND ends_at IS NOT NULL AND ends_at <= ?", true, now).
		Updates(map[string]interface{}{"is_active": false, "updated_at": now})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
