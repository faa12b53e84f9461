package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/freshcart-admin/internal/cache"
	"github.com/freshcart-admin/internal/i18n"
	"github.com/freshcart-admin/internal/logger"
	"github.com/freshcart-admin/internal/matching"
	"github.com/freshcart-admin/internal/metrics"
	"github.com/freshcart-admin/internal/models"
	"github.com/freshcart-admin/internal/promotion"
	"github.com/freshcart-admin/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultWizardDraftTTL    = 2 * time.Hour
	defaultWizardLockTTL     = 30 * time.Second
	defaultWizardSearchLimit = 20
)

// WizardOptions 向导会话参数
type WizardOptions struct {
	DraftTTL    time.Duration
	LockTTL     time.Duration
	SearchLimit int
}

func (o WizardOptions) normalized() WizardOptions {
	if o.DraftTTL <= 0 {
		o.DraftTTL = defaultWizardDraftTTL
	}
	if o.LockTTL <= 0 {
		o.LockTTL = defaultWizardLockTTL
	}
	if o.SearchLimit <= 0 {
		o.SearchLimit = defaultWizardSearchLimit
	}
	return o
}

// WizardSession 存储在会话存储中的向导
type WizardSession struct {
	ID        string            `json:"id"`
	Wizard    *promotion.Wizard `json:"wizard"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// FlatCategory 扁平化后的分类选项
type FlatCategory struct {
	ID       uint   `json:"id"`
	ParentID *uint  `json:"parent_id"`
	Name     string `json:"name"`
	Depth    int    `json:"depth"`
}

// PromotionWizardService 活动向导服务
type PromotionWizardService struct {
	store        cache.Store
	admin        *PromotionAdminService
	productRepo  repository.ProductRepository
	unitRepo     repository.ProductUnitRepository
	categoryRepo repository.CategoryRepository
	listRepo     repository.PromotionListRepository
	opts         WizardOptions
	now          func() time.Time
}

// NewPromotionWizardService 创建活动向导服务
func NewPromotionWizardService(
	store cache.Store,
	admin *PromotionAdminService,
	productRepo repository.ProductRepository,
	unitRepo repository.ProductUnitRepository,
	categoryRepo repository.CategoryRepository,
	listRepo repository.PromotionListRepository,
	opts WizardOptions,
) *PromotionWizardService {
	return &PromotionWizardService{
		store:        store,
		admin:        admin,
		productRepo:  productRepo,
		unitRepo:     unitRepo,
		categoryRepo: categoryRepo,
		listRepo:     listRepo,
		opts:         opts.normalized(),
		now:          time.Now,
	}
}

// Open 打开向导：promotionID 为空时新建，否则加载已有活动进入编辑
func (s *PromotionWizardService) Open(ctx context.Context, promotionID *uint) (*WizardSession, error) {
	wizard := promotion.NewWizard()
	if promotionID != nil && *promotionID != 0 {
		existing, err := s.admin.Get(ctx, *promotionID)
		if err != nil {
			return nil, err
		}
		wizard = promotion.NewWizardFromPromotion(existing)
		for _, item := range existing.Items {
			if err := s.refreshUnitOptions(ctx, wizard, item.ProductID, item.Product); err != nil {
				return nil, err
			}
		}
	}
	now := s.now()
	session := &WizardSession{
		ID:        uuid.NewString(),
		Wizard:    wizard,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infow("wizard_opened", "wizard_id", session.ID, "promotion_id", wizard.Draft.PromotionID)
	return session, nil
}

// Get 获取向导
func (s *PromotionWizardService) Get(ctx context.Context, id string) (*WizardSession, error) {
	return s.load(ctx, id)
}

// SetField 设置单个字段
func (s *PromotionWizardService) SetField(ctx context.Context, id, key string, value interface{}) (*WizardSession, error) {
	return s.SetFields(ctx, id, map[string]interface{}{key: value})
}

// SetFields 按字段名顺序批量设置字段，任一字段无效时整体不生效
func (s *PromotionWizardService) SetFields(ctx context.Context, id string, fields map[string]interface{}) (*WizardSession, error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return s.mutate(ctx, id, func(session *WizardSession) error {
		for _, key := range keys {
			if err := session.Wizard.SetField(strings.TrimSpace(key), fields[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

// ToggleProduct 切换商品选中；选中时加载单位并默认选中基础单位
func (s *PromotionWizardService) ToggleProduct(ctx context.Context, id string, productID uint) (*WizardSession, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProductFetchFailed, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.mutate(ctx, id, func(session *WizardSession) error {
		w := session.Wizard
		if err := w.ToggleProduct(productID); err != nil {
			return err
		}
		if !w.Draft.IsProductSelected(productID) {
			return nil
		}
		if err := s.refreshUnitOptions(ctx, w, productID, product); err != nil {
			return err
		}
		if _, chosen := w.Draft.UnitSelections[productID]; chosen {
			return nil
		}
		if base := matching.BaseUnit(product.Units); base != nil {
			return w.SetUnit(productID, base.ID)
		}
		return nil
	})
}

// ToggleCategory 切换分类选中；取消已选分类时不再校验分类是否存在
func (s *PromotionWizardService) ToggleCategory(ctx context.Context, id string, categoryID uint) (*WizardSession, error) {
	return s.mutate(ctx, id, func(session *WizardSession) error {
		w := session.Wizard
		if !w.Draft.IsCategorySelected(categoryID) {
			category, err := s.categoryRepo.GetByID(ctx, categoryID)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrCategoryFetchFailed, err)
			}
			if category == nil {
				return fmt.Errorf("%w: category %d", ErrWizardFieldInvalid, categoryID)
			}
		}
		return w.ToggleCategory(categoryID)
	})
}

// SetUnit 为已选商品指定单位；unitID 为 0 表示取消
func (s *PromotionWizardService) SetUnit(ctx context.Context, id string, productID, unitID uint) (*WizardSession, error) {
	if unitID != 0 {
		unit, err := s.unitRepo.GetByID(ctx, unitID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProductFetchFailed, err)
		}
		if unit == nil || unit.ProductID != productID {
			return nil, fmt.Errorf("%w: unit %d does not belong to product %d", ErrWizardFieldInvalid, unitID, productID)
		}
	}
	return s.mutate(ctx, id, func(session *WizardSession) error {
		return session.Wizard.SetUnit(productID, unitID)
	})
}

// Next 校验当前步骤并前进
func (s *PromotionWizardService) Next(ctx context.Context, id string) (*WizardSession, promotion.StepResult, error) {
	var result promotion.StepResult
	session, err := s.mutate(ctx, id, func(session *WizardSession) error {
		var err error
		result, err = session.Wizard.Next()
		return err
	})
	return session, result, err
}

// Back 回到之前的步骤
func (s *PromotionWizardService) Back(ctx context.Context, id string, step promotion.Step) (*WizardSession, error) {
	return s.mutate(ctx, id, func(session *WizardSession) error {
		return session.Wizard.Back(step)
	})
}

// Validate 校验指定步骤（不改变步骤，仅刷新错误提示）
func (s *PromotionWizardService) Validate(ctx context.Context, id string, step promotion.Step) (*WizardSession, promotion.StepResult, error) {
	var result promotion.StepResult
	session, err := s.mutate(ctx, id, func(session *WizardSession) error {
		var err error
		result, err = session.Wizard.Validate(step)
		return err
	})
	return session, result, err
}

// Submit 完整校验并创建或更新活动；持久化失败时草稿保持不变以便重试
func (s *PromotionWizardService) Submit(ctx context.Context, id string) (*WizardSession, *models.Promotion, error) {
	var saved *models.Promotion
	session, err := s.mutate(ctx, id, func(session *WizardSession) error {
		w := session.Wizard
		payload, _, err := w.PrepareSubmit()
		if err != nil {
			if errors.Is(err, promotion.ErrValidationFailed) {
				metrics.WizardSubmits.WithLabelValues(metrics.ResultInvalid).Inc()
			}
			return err
		}
		saved, err = s.admin.Save(ctx, w.Draft.PromotionID, payload)
		if err != nil {
			if validationErr, ok := AsValidationError(err); ok {
				w.Errors = validationErr.Errors
				metrics.WizardSubmits.WithLabelValues(metrics.ResultInvalid).Inc()
				return promotion.ErrValidationFailed
			}
			metrics.WizardSubmits.WithLabelValues(metrics.ResultFailed).Inc()
			logger.FromContext(ctx).Warnw("wizard_submit_failed", "wizard_id", session.ID, "promotion_id", w.Draft.PromotionID, "error", err)
			return err
		}
		metrics.WizardSubmits.WithLabelValues(metrics.ResultOK).Inc()
		exists, err := s.exists(ctx, session.ID)
		if err != nil {
			return err
		}
		if !exists {
			logger.FromContext(ctx).Infow("wizard_submit_discarded_after_close", "wizard_id", session.ID, "promotion_id", saved.ID)
			return ErrWizardNotFound
		}
		w.MarkSubmitted(saved.ID)
		logger.FromContext(ctx).Infow("wizard_submitted", "wizard_id", session.ID, "promotion_id", saved.ID, "type", saved.Type)
		return nil
	})
	if errors.Is(err, ErrWizardBusy) {
		metrics.WizardSubmits.WithLabelValues(metrics.ResultBusy).Inc()
	}
	if err != nil {
		return session, nil, err
	}
	return session, saved, nil
}

// Close 关闭向导并立即丢弃草稿；进行中的请求完成后不会写回会话
func (s *PromotionWizardService) Close(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.store.Del(ctx, cache.WizardKey(id)); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	logger.FromContext(ctx).Infow("wizard_closed", "wizard_id", id)
	return nil
}

// PromotionLists 可选的活动列表，promotionType 为空时返回全部类型
func (s *PromotionWizardService) PromotionLists(ctx context.Context, promotionType string, page, pageSize int) ([]models.PromotionList, int64, error) {
	lists, total, err := s.listRepo.List(ctx, repository.PromotionListFilter{
		Page:       page,
		PageSize:   pageSize,
		Type:       promotionType,
		OnlyActive: true,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPromotionListFetchFailed, err)
	}
	return lists, total, nil
}

// Categories 分类树扁平化（深度优先，保留层级深度）
func (s *PromotionWizardService) Categories(ctx context.Context, locale string) ([]FlatCategory, error) {
	tree, err := s.categoryRepo.Tree(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCategoryFetchFailed, err)
	}
	return FlattenCategories(tree, locale), nil
}

// FlattenCategories 深度优先展开分类树
func FlattenCategories(tree []models.Category, locale string) []FlatCategory {
	out := make([]FlatCategory, 0, len(tree))
	var walk func(nodes []models.Category, depth int)
	walk = func(nodes []models.Category, depth int) {
		for _, node := range nodes {
			out = append(out, FlatCategory{
				ID:       node.ID,
				ParentID: node.ParentID,
				Name:     node.NameJSON.Localized().Resolve(locale, i18n.DefaultFallbackChain...),
				Depth:    depth,
			})
			walk(node.Children, depth+1)
		}
	}
	walk(tree, 0)
	return out
}

// SearchProducts 商品搜索
func (s *PromotionWizardService) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if limit <= 0 || limit > s.opts.SearchLimit {
		limit = s.opts.SearchLimit
	}
	products, err := s.productRepo.Search(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProductFetchFailed, err)
	}
	return products, nil
}

// UnitsFor 商品可选单位（无单位时返回占位单位）
func (s *PromotionWizardService) UnitsFor(ctx context.Context, productID uint) ([]promotion.UnitOption, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProductFetchFailed, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return promotion.UnitOptionsFor(product, product.Units), nil
}

func (s *PromotionWizardService) refreshUnitOptions(ctx context.Context, w *promotion.Wizard, productID uint, product *models.Product) error {
	var units []models.ProductUnit
	if product != nil && len(product.Units) > 0 {
		units = product.Units
	} else {
		loaded, err := s.unitRepo.ListByProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProductFetchFailed, err)
		}
		units = loaded
	}
	w.SetUnitOptions(productID, promotion.UnitOptionsFor(product, units))
	return nil
}

// mutate 持锁读取-修改-写回；校验失败时仍写回以保留字段错误提示。
// 期间向导被关闭时不写回，返回 ErrWizardNotFound
func (s *PromotionWizardService) mutate(ctx context.Context, id string, fn func(session *WizardSession) error) (*WizardSession, error) {
	var out *WizardSession
	err := cache.WithLock(ctx, s.store, cache.WizardKey(id), s.opts.LockTTL, func() error {
		session, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		fnErr := fn(session)
		if fnErr != nil && !errors.Is(fnErr, promotion.ErrValidationFailed) {
			out = session
			return fnErr
		}
		session.UpdatedAt = s.now()
		if err := s.replace(ctx, session); err != nil {
			return err
		}
		out = session
		return fnErr
	})
	return out, translateWizardError(err)
}

func (s *PromotionWizardService) load(ctx context.Context, id string) (*WizardSession, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrWizardNotFound
	}
	var session WizardSession
	found, err := s.store.GetJSON(ctx, cache.WizardKey(id), &session)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	if !found || session.Wizard == nil {
		return nil, ErrWizardNotFound
	}
	return &session, nil
}

func (s *PromotionWizardService) exists(ctx context.Context, id string) (bool, error) {
	var existing WizardSession
	found, err := s.store.GetJSON(ctx, cache.WizardKey(id), &existing)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	return found, nil
}

func (s *PromotionWizardService) save(ctx context.Context, session *WizardSession) error {
	if err := s.store.SetJSON(ctx, cache.WizardKey(session.ID), session, s.opts.DraftTTL); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	return nil
}

// replace 仅覆盖仍存在的会话，已关闭的向导不会被写回
func (s *PromotionWizardService) replace(ctx context.Context, session *WizardSession) error {
	replaced, err := s.store.ReplaceJSON(ctx, cache.WizardKey(session.ID), session, s.opts.DraftTTL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	if !replaced {
		logger.FromContext(ctx).Infow("wizard_update_discarded_after_close", "wizard_id", session.ID)
		return ErrWizardNotFound
	}
	return nil
}

func translateWizardError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, cache.ErrLocked):
		return ErrWizardBusy
	case errors.Is(err, promotion.ErrWizardFinished):
		return ErrWizardClosed
	case errors.Is(err, promotion.ErrValidationFailed):
		return ErrWizardValidationFailed
	case errors.Is(err, promotion.ErrUnknownField),
		errors.Is(err, promotion.ErrInvalidFieldValue),
		errors.Is(err, promotion.ErrProductNotSelected):
		return fmt.Errorf("%w: %v", ErrWizardFieldInvalid, err)
	case errors.Is(err, promotion.ErrInvalidStep), errors.Is(err, promotion.ErrNoForwardStep):
		return fmt.Errorf("%w: %v", ErrWizardStepInvalid, err)
	}
	return err
}
