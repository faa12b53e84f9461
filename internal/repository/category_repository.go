package repository

import (
	"context"
	"errors"

	"github.com/freshcart-admin/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Tree(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List 分类列表（平铺）
func (r *GormCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("sort_order DESC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Tree 分类树（顶级分类及其子分类）；父分类不存在的按顶级处理
func (r *GormCategoryRepository) Tree(ctx context.Context) ([]models.Category, error) {
	categories, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(categories), nil
}

// BuildCategoryTree 由平铺分类组装树，保持原有顺序
func BuildCategoryTree(categories []models.Category) []models.Category {
	known := make(map[uint]bool, len(categories))
	children := make(map[uint][]models.Category)
	for _, category := range categories {
		known[category.ID] = true
	}
	roots := make([]models.Category, 0)
	for _, category := range categories {
		if category.ParentID != nil && *category.ParentID != category.ID && known[*category.ParentID] {
			children[*category.ParentID] = append(children[*category.ParentID], category)
			continue
		}
		roots = append(roots, category)
	}
	var attach func(nodes []models.Category) []models.Category
	attach = func(nodes []models.Category) []models.Category {
		for i := range nodes {
			nodes[i].Children = attach(children[nodes[i].ID])
		}
		return nodes
	}
	return attach(roots)
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// Create 创建分类
func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}
