package provider

import (
	"errors"
	"io"
	"time"

	"github.com/freshcart-admin/internal/cache"
	"github.com/freshcart-admin/internal/config"
	"github.com/freshcart-admin/internal/logger"
	"github.com/freshcart-admin/internal/matching"
	"github.com/freshcart-admin/internal/metrics"
	"github.com/freshcart-admin/internal/queue"
	"github.com/freshcart-admin/internal/repository"
	"github.com/freshcart-admin/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client
	Store       cache.Store
	Matcher     *matching.Matcher

	// Repositories
	ProductRepo       repository.ProductRepository
	ProductUnitRepo   repository.ProductUnitRepository
	CategoryRepo      repository.CategoryRepository
	PromotionListRepo repository.PromotionListRepository
	PromotionRepo     repository.PromotionRepository

	// Services
	PromotionAdminService  *service.PromotionAdminService
	PromotionWizardService *service.PromotionWizardService
	PromotionImportService *service.PromotionImportService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
		Store:       cache.NewStore(&cfg.Redis),
	}
	if !cfg.Redis.Enabled {
		logger.Warnw("provider_session_store_in_memory", "hint", "drafts and import previews are lost on restart")
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices()

	return c
}

// Close 释放队列客户端与会话存储连接
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.QueueClient != nil {
		errs = append(errs, c.QueueClient.Close())
	}
	if closer, ok := c.Store.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.ProductRepo = repository.NewProductRepository(db)
	c.ProductUnitRepo = repository.NewProductUnitRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.PromotionListRepo = repository.NewPromotionListRepository(db)
	c.PromotionRepo = repository.NewPromotionRepository(db)
}

func (c *Container) initServices() {
	// 队列未启用时不投递到期任务，由 worker 定时清扫兜底
	var expiry service.ExpiryScheduler
	if c.QueueClient != nil {
		expiry = c.QueueClient
	}
	c.PromotionAdminService = service.NewPromotionAdminService(c.PromotionRepo, c.PromotionListRepo, expiry)

	c.PromotionWizardService = service.NewPromotionWizardService(
		c.Store,
		c.PromotionAdminService,
		c.ProductRepo,
		c.ProductUnitRepo,
		c.CategoryRepo,
		c.PromotionListRepo,
		WizardOptions(c.Config.Wizard),
	)

	catalog := service.NewRepositoryCatalog(c.ProductRepo, c.ProductUnitRepo)
	c.Matcher = matching.NewMatcher(catalog, catalog, MatchConfig(c.Config.Import.Match), matching.WithStrategyObserver(metrics.ObserveMatch))
	c.PromotionImportService = service.NewPromotionImportService(
		c.Store,
		c.PromotionAdminService,
		c.PromotionListRepo,
		c.PromotionRepo,
		c.Matcher,
		ImportOptions(c.Config.Import),
	)
}

// WizardOptions 配置转换为向导参数，未设置的项由服务取默认值
func WizardOptions(cfg config.WizardConfig) service.WizardOptions {
	return service.WizardOptions{
		DraftTTL:    time.Duration(cfg.DraftTTLMinutes) * time.Minute,
		LockTTL:     time.Duration(cfg.LockTTLSeconds) * time.Second,
		SearchLimit: cfg.SearchLimit,
	}
}

// ImportOptions 配置转换为导入参数
func ImportOptions(cfg config.ImportConfig) service.ImportOptions {
	return service.ImportOptions{
		PreviewTTL:  time.Duration(cfg.PreviewTTLMinutes) * time.Minute,
		LockTTL:     time.Duration(cfg.LockTTLSeconds) * time.Second,
		MaxRows:     cfg.MaxRows,
		Concurrency: cfg.Concurrency,
		Locale:      cfg.Match.Locale,
	}
}

// MatchConfig 配置转换为匹配阈值，零值项使用默认阈值
func MatchConfig(cfg config.MatchConfig) matching.Config {
	out := matching.DefaultConfig()
	if cfg.MinOverlapWords > 0 {
		out.MinOverlapWords = cfg.MinOverlapWords
	}
	if cfg.OverlapRatio > 0 {
		out.OverlapRatio = cfg.OverlapRatio
	}
	if cfg.MinSearchWordLen > 0 {
		out.MinSearchWordLen = cfg.MinSearchWordLen
	}
	if cfg.SearchLimit > 0 {
		out.SearchLimit = cfg.SearchLimit
	}
	if cfg.FallbackScanLimit > 0 {
		out.FallbackScanLimit = cfg.FallbackScanLimit
	}
	if cfg.MaxSuggestions > 0 {
		out.MaxSuggestions = cfg.MaxSuggestions
	}
	if cfg.MinContainedNameLen > 0 {
		out.MinContainedNameLen = cfg.MinContainedNameLen
	}
	if cfg.Locale != "" {
		out.Locale = cfg.Locale
	}
	return out
}
