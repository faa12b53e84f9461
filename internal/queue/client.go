package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/freshcart-admin/internal/config"
	"github.com/freshcart-admin/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// ExpireQueue 到期停用任务所在队列，影响线上价格因此优先处理
	ExpireQueue = constants.QueueCritical
)

// Client 队列客户端封装
type Client struct {
	client      *asynq.Client
	enabled     bool
	expireQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, expireQueue: ExpireQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:      client,
		enabled:     true,
		expireQueue: ExpireQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueuePromotionExpire 推送活动到期停用任务，processAt 早于当前时间时立即执行
func (c *Client) EnqueuePromotionExpire(payload PromotionExpirePayload, processAt time.Time) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewPromotionExpireTask(payload)
	if err != nil {
		return err
	}
	options := []asynq.Option{
		asynq.Queue(c.expireQueue),
		asynq.ProcessAt(processAt),
		asynq.TaskID(PromotionExpireTaskID(payload.PromotionID, processAt)),
	}
	_, err = c.client.Enqueue(task, options...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// PromotionExpireTaskID 同一活动同一到期时间只排队一次
func PromotionExpireTaskID(promotionID uint, processAt time.Time) string {
	return fmt.Sprintf("promotion-expire-%d-%d", promotionID, processAt.Unix())
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1, ExpireQueue: 2}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = make(map[string]int, len(cfg.Queues)+1)
		for name, weight := range cfg.Queues {
			queues[name] = weight
		}
		// 到期任务队列必须被消费
		if queues[ExpireQueue] <= 0 {
			queues[ExpireQueue] = 1
		}
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
