package worker

import (
	"context"
	"fmt"

	"github.com/freshcart-admin/internal/logger"
	"github.com/freshcart-admin/internal/provider"
	"github.com/freshcart-admin/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPromotionExpire, c.handlePromotionExpire)
}

// handlePromotionExpire 到期下线；活动已被修改或删除时条件更新不命中，直接确认
func (c *Consumer) handlePromotionExpire(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_promotion_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParsePromotionExpirePayload(task)
	if err != nil {
		logger.Warnw("worker_promotion_expire_unmarshal_failed", "error", err)
		// 载荷损坏重试无意义
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.PromotionID == 0 {
		logger.Debugw("worker_promotion_expire_skip_invalid_payload", "promotion_id", payload.PromotionID)
		return nil
	}
	if c.Container == nil || c.PromotionAdminService == nil {
		logger.Warnw("worker_promotion_expire_skip_service_nil", "promotion_id", payload.PromotionID)
		return nil
	}
	expired, err := c.PromotionAdminService.Expire(ctx, payload.PromotionID)
	if err != nil {
		logger.Warnw("worker_promotion_expire_failed", "promotion_id", payload.PromotionID, "error", err)
		return err
	}
	if !expired {
		logger.Debugw("worker_promotion_expire_skip_not_due", "promotion_id", payload.PromotionID)
		return nil
	}
	logger.Infow("worker_promotion_expired", "promotion_id", payload.PromotionID)
	return nil
}
