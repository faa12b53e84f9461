package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/freshcart-admin/internal/cache"
	"github.com/freshcart-admin/internal/config"
	adminhandlers "github.com/freshcart-admin/internal/http/handlers/admin"
	"github.com/freshcart-admin/internal/http/response"
	"github.com/freshcart-admin/internal/logger"
	"github.com/freshcart-admin/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const healthCheckTimeout = 2 * time.Second

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "fc"
	}
	var redisClient *redis.Client
	if store, ok := c.Store.(*cache.RedisStore); ok {
		redisClient = store.Client()
	}
	wizardRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:wizard", redisPrefix),
		WindowSeconds: cfg.RateLimit.WindowSeconds,
		MaxRequests:   cfg.RateLimit.MaxRequests,
	}
	importRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:import", redisPrefix),
		WindowSeconds: cfg.RateLimit.WindowSeconds,
		MaxRequests:   cfg.RateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", healthHandler(c))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := r.Group("/api/v1")
	admin := apiV1.Group("/admin")
	{
		// 向导下拉数据
		admin.GET("/promotion-lists", adminHandler.GetPromotionLists)
		admin.GET("/categories/flat", adminHandler.GetFlatCategories)
		admin.GET("/products/search", adminHandler.SearchProducts)
		admin.GET("/products/:id/units", adminHandler.GetProductUnits)

		// 活动
		admin.GET("/promotions", adminHandler.GetAdminPromotions)
		admin.GET("/promotions/export", adminHandler.ExportPromotions)
		admin.GET("/promotions/:id", adminHandler.GetAdminPromotion)
		admin.DELETE("/promotions/:id", adminHandler.DeletePromotion)

		// 活动向导
		wizards := admin.Group("/promotion-wizards")
		wizards.Use(RateLimitMiddleware(redisClient, wizardRule, KeyByIPAndParam("id")))
		{
			wizards.POST("", adminHandler.OpenPromotionWizard)
			wizards.GET("/:id", adminHandler.GetPromotionWizard)
			wizards.DELETE("/:id", adminHandler.ClosePromotionWizard)
			wizards.PATCH("/:id/fields", adminHandler.SetPromotionWizardFields)
			wizards.POST("/:id/products/toggle", adminHandler.TogglePromotionWizardProduct)
			wizards.POST("/:id/categories/toggle", adminHandler.TogglePromotionWizardCategory)
			wizards.PUT("/:id/units", adminHandler.SetPromotionWizardUnit)
			wizards.POST("/:id/next", adminHandler.NextPromotionWizardStep)
			wizards.POST("/:id/back", adminHandler.BackPromotionWizardStep)
			wizards.GET("/:id/validate", adminHandler.ValidatePromotionWizardStep)
			wizards.POST("/:id/submit", adminHandler.SubmitPromotionWizard)
		}

		// 表格导入
		imports := admin.Group("/promotion-imports")
		imports.Use(RateLimitMiddleware(redisClient, importRule, KeyByIPAndParam("id")))
		{
			imports.GET("/template", adminHandler.DownloadPromotionImportTemplate)
			imports.POST("/preview", adminHandler.PreviewPromotionImport)
			imports.GET("/:id", adminHandler.GetPromotionImport)
			imports.DELETE("/:id", adminHandler.CancelPromotionImport)
			imports.POST("/:id/confirm", adminHandler.ConfirmPromotionImport)
		}
	}

	return r
}

// healthHandler 检查数据库与会话存储
func healthHandler(c *provider.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
		defer cancel()
		status := gin.H{"database": "ok", "session_store": "ok"}
		healthy := true
		if c.DB != nil {
			if sqlDB, err := c.DB.DB(); err != nil || sqlDB.PingContext(checkCtx) != nil {
				status["database"] = "unavailable"
				healthy = false
			}
		}
		if c.Store != nil {
			if err := c.Store.Ping(checkCtx); err != nil {
				status["session_store"] = "unavailable"
				healthy = false
			}
		}
		if !healthy {
			response.Unavailable(ctx, "unhealthy", status)
			return
		}
		response.Success(ctx, status)
	}
}
