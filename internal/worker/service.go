package worker

import (
	"context"
	"errors"
	"time"

	"github.com/freshcart-admin/internal/config"
	"github.com/freshcart-admin/internal/logger"
	"github.com/freshcart-admin/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	expireSweepInterval = time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.PromotionAdminService != nil {
		go s.runExpireSweepLoop(ctx)
	}
	// 信号由 app.Runner 统一处理，这里不使用 Run 自带的信号监听
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 停止服务
func (s *Service) Stop(_ context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}

// runExpireSweepLoop 兜底扫描：补偿丢失或早于修改时间投递的到期任务
func (s *Service) runExpireSweepLoop(ctx context.Context) {
	runOnce := func() {
		affected, err := s.consumer.PromotionAdminService.ExpireDue(ctx)
		if err != nil {
			logger.Warnw("worker_promotion_expire_sweep_failed", "error", err)
			return
		}
		if affected > 0 {
			logger.Infow("worker_promotion_expire_sweep_done", "expired", affected)
		}
	}
	runOnce()

	ticker := time.NewTicker(expireSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
