package service

import (
	"context"
	"fmt"
	"time"

	"github.com/freshcart-admin/internal/logger"
	"github.com/freshcart-admin/internal/metrics"
	"github.com/freshcart-admin/internal/models"
	"github.com/freshcart-admin/internal/promotion"
	"github.com/freshcart-admin/internal/queue"
	"github.com/freshcart-admin/internal/repository"
)

// ExpiryScheduler 活动到期任务投递
type ExpiryScheduler interface {
	EnqueuePromotionExpire(payload queue.PromotionExpirePayload, processAt time.Time) error
}

// PromotionAdminService 活动管理服务（向导提交与批量导入共用的持久化入口）
type PromotionAdminService struct {
	repo     repository.PromotionRepository
	listRepo repository.PromotionListRepository
	expiry   ExpiryScheduler
	now      func() time.Time
}

// NewPromotionAdminService 创建活动管理服务
func NewPromotionAdminService(repo repository.PromotionRepository, listRepo repository.PromotionListRepository, expiry ExpiryScheduler) *PromotionAdminService {
	return &PromotionAdminService{
		repo:     repo,
		listRepo: listRepo,
		expiry:   expiry,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListPromotionsInput 活动列表查询输入
type ListPromotionsInput struct {
	Page            int
	PageSize        int
	PromotionListID uint
	Type            string
	IsActive        *bool
}

// Get 获取活动详情
func (s *PromotionAdminService) Get(ctx context.Context, id uint) (*models.Promotion, error) {
	if id == 0 {
		return nil, ErrPromotionNotFound
	}
	promotion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPromotionFetchFailed, err)
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	return promotion, nil
}

// List 活动分页列表
func (s *PromotionAdminService) List(ctx context.Context, input ListPromotionsInput) ([]models.Promotion, int64, error) {
	rows, total, err := s.repo.List(ctx, repository.PromotionFilter{
		Page:            input.Page,
		PageSize:        input.PageSize,
		PromotionListID: input.PromotionListID,
		Type:            input.Type,
		IsActive:        input.IsActive,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPromotionFetchFailed, err)
	}
	return rows, total, nil
}

// Save 校验并持久化载荷：promotionID 为 0 时创建，否则整体更新
func (s *PromotionAdminService) Save(ctx context.Context, promotionID uint, payload promotion.Payload) (*models.Promotion, error) {
	if errs := promotion.ValidatePayload(payload); !errs.Empty() {
		return nil, &ValidationError{Errors: errs}
	}
	list, err := s.listRepo.GetByID(ctx, payload.PromotionListID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPromotionListFetchFailed, err)
	}
	if list == nil {
		return nil, ErrPromotionListNotFound
	}
	if list.Type != payload.Type {
		return nil, &ValidationError{Errors: promotion.FieldErrors{promotion.FieldPromotionListID: "promotion.list_type_mismatch"}}
	}

	model := payload.ToModel()
	if promotionID == 0 {
		if err := s.repo.Create(ctx, model); err != nil {
			logger.FromContext(ctx).Warnw("promotion_create_failed", "type", payload.Type, "promotion_list_id", payload.PromotionListID, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrPromotionCreateFailed, err)
		}
		logger.FromContext(ctx).Infow("promotion_created", "promotion_id", model.ID, "type", model.Type, "promotion_list_id", model.PromotionListID)
	} else {
		existing, err := s.repo.GetByID(ctx, promotionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPromotionFetchFailed, err)
		}
		if existing == nil {
			return nil, ErrPromotionNotFound
		}
		model.ID = existing.ID
		model.CreatedAt = existing.CreatedAt
		if err := s.repo.Update(ctx, model); err != nil {
			logger.FromContext(ctx).Warnw("promotion_update_failed", "promotion_id", promotionID, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrPromotionUpdateFailed, err)
		}
		logger.FromContext(ctx).Infow("promotion_updated", "promotion_id", model.ID, "type", model.Type)
	}
	s.scheduleExpiry(ctx, model)
	return model, nil
}

// Delete 删除活动
func (s *PromotionAdminService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrPromotionDeleteFailed, err)
	}
	logger.FromContext(ctx).Infow("promotion_deleted", "promotion_id", id)
	return nil
}

// Expire 到期任务：仅当活动仍启用且已过结束时间时下线
func (s *PromotionAdminService) Expire(ctx context.Context, id uint) (bool, error) {
	affected, err := s.repo.Deactivate(ctx, id, s.now())
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPromotionUpdateFailed, err)
	}
	if affected > 0 {
		metrics.PromotionsExpired.Add(float64(affected))
	}
	return affected > 0, nil
}

// ExpireDue 兜底扫描：下线所有已过期但仍启用的活动
func (s *PromotionAdminService) ExpireDue(ctx context.Context) (int64, error) {
	affected, err := s.repo.DeactivateExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPromotionUpdateFailed, err)
	}
	if affected > 0 {
		metrics.PromotionsExpired.Add(float64(affected))
	}
	return affected, nil
}

func (s *PromotionAdminService) scheduleExpiry(ctx context.Context, model *models.Promotion) {
	if s.expiry == nil || model.EndsAt == nil || !model.IsActive {
		return
	}
	payload := queue.PromotionExpirePayload{PromotionID: model.ID}
	if err := s.expiry.EnqueuePromotionExpire(payload, *model.EndsAt); err != nil {
		logger.FromContext(ctx).Warnw("promotion_expire_enqueue_failed", "promotion_id", model.ID, "ends_at", model.EndsAt, "error", err)
	}
}
