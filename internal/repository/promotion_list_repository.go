package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/freshcart-admin/internal/models"

	"gorm.io/gorm"
)

// PromotionListRepository 活动列表数据访问接口
type PromotionListRepository interface {
	List(ctx context.Context, filter PromotionListFilter) ([]models.PromotionList, int64, error)
	GetByID(ctx context.Context, id uint) (*models.PromotionList, error)
	Create(ctx context.Context, list *models.PromotionList) error
}

// GormPromotionListRepository GORM 实现
type GormPromotionListRepository struct {
	db *gorm.DB
}

// NewPromotionListRepository 创建活动列表仓库
func NewPromotionListRepository(db *gorm.DB) *GormPromotionListRepository {
	return &GormPromotionListRepository{db: db}
}

// List 活动列表分页
func (r *GormPromotionListRepository) List(ctx context.Context, filter PromotionListFilter) ([]models.PromotionList, int64, error) {
	var lists []models.PromotionList
	query := r.db.WithContext(ctx).Model(&models.PromotionList{})
	if listType := strings.TrimSpace(filter.Type); listType != "" {
		query = query.Where("type = ?", listType)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	total, err := findPage(query, filter.Page, filter.PageSize, "sort_order DESC, id ASC", &lists)
	if err != nil {
		return nil, 0, err
	}
	return lists, total, nil
}

// GetByID 根据 ID 获取活动列表
func (r *GormPromotionListRepository) GetByID(ctx context.Context, id uint) (*models.PromotionList, error) {
	var list models.PromotionList
	if err := r.db.WithContext(ctx).First(&list, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

// Create 创建活动列表
func (r *GormPromotionListRepository) Create(ctx context.Context, list *models.PromotionList) error {
	return r.db.WithContext(ctx).Create(list).Error
}
