package queue

import (
	"encoding/json"

	"github.com/freshcart-admin/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPromotionExpire 活动到期停用任务
	TaskPromotionExpire = constants.TaskPromotionExpire
)

// PromotionExpirePayload 活动到期任务载荷
type PromotionExpirePayload struct {
	PromotionID uint `json:"promotion_id"`
}

// NewPromotionExpireTask 创建活动到期任务
func NewPromotionExpireTask(payload PromotionExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPromotionExpire, body), nil
}

// ParsePromotionExpirePayload 解析活动到期任务载荷
func ParsePromotionExpirePayload(task *asynq.Task) (PromotionExpirePayload, error) {
	var payload PromotionExpirePayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
