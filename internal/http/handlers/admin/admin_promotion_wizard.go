package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/freshcart-admin/internal/http/response"
	"github.com/freshcart-admin/internal/i18n"
	"github.com/freshcart-admin/internal/models"
	"github.com/freshcart-admin/internal/promotion"
	"github.com/freshcart-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// fieldErrorView 字段错误（key 与当前语言文本）
type fieldErrorView struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// wizardView 向导响应
type wizardView struct {
	ID          string                          `json:"id"`
	Step        promotion.Step                  `json:"step"`
	Status      promotion.Status                `json:"status"`
	Draft       promotion.Draft                 `json:"draft"`
	Errors      map[string]fieldErrorView       `json:"errors"`
	UnitOptions map[uint][]promotion.UnitOption `json:"unit_options"`
	StepOK      *bool                           `json:"step_ok,omitempty"`
	Promotion   *models.Promotion               `json:"promotion,omitempty"`
	CreatedAt   time.Time                       `json:"created_at"`
	UpdatedAt   time.Time                       `json:"updated_at"`
}

func localizeFieldErrors(errs promotion.FieldErrors, locale string) map[string]fieldErrorView {
	out := make(map[string]fieldErrorView, len(errs))
	for field, key := range errs {
		out[field] = fieldErrorView{Key: key, Text: i18n.T(locale, key)}
	}
	return out
}

func newWizardView(session *service.WizardSession, locale string) *wizardView {
	if session == nil || session.Wizard == nil {
		return nil
	}
	w := session.Wizard
	return &wizardView{
		ID:          session.ID,
		Step:        w.Step,
		Status:      w.Status,
		Draft:       w.Draft,
		Errors:      localizeFieldErrors(w.Errors, locale),
		UnitOptions: w.UnitOptions,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
}

// respondWizard 输出向导；校验失败时附带向导数据以展示字段错误
func (h *Handler) respondWizard(c *gin.Context, session *service.WizardSession, err error, fallbackKey string) {
	locale := requestLocale(c)
	if err == nil {
		response.Success(c, newWizardView(session, locale))
		return
	}
	if errors.Is(err, service.ErrWizardValidationFailed) && session != nil {
		view := newWizardView(session, locale)
		ok := false
		view.StepOK = &ok
		respondErrorWithData(c, response.CodeUnprocessable, "error.wizard_validation_failed", view, nil)
		return
	}
	respondServiceError(c, err, fallbackKey)
}

// OpenWizardRequest 打开向导请求
type OpenWizardRequest struct {
	PromotionID *uint `json:"promotion_id"`
}

// OpenPromotionWizard 打开新建或编辑向导
func (h *Handler) OpenPromotionWizard(c *gin.Context) {
	var req OpenWizardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	session, err := h.PromotionWizardService.Open(c.Request.Context(), req.PromotionID)
	h.respondWizard(c, session, err, "error.promotion_fetch_failed")
}

// GetPromotionWizard 获取向导
func (h *Handler) GetPromotionWizard(c *gin.Context) {
	session, err := h.PromotionWizardService.Get(c.Request.Context(), c.Param("id"))
	h.respondWizard(c, session, err, "error.internal")
}

// ClosePromotionWizard 关闭向导并丢弃草稿
func (h *Handler) ClosePromotionWizard(c *gin.Context) {
	if err := h.PromotionWizardService.Close(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, nil)
}

// SetWizardFieldsRequest 批量设置字段请求
type SetWizardFieldsRequest struct {
	Fields map[string]interface{} `json:"fields" binding:"required"`
}

// SetPromotionWizardFields 设置草稿字段
func (h *Handler) SetPromotionWizardFields(c *gin.Context) {
	var req SetWizardFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Fields) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	session, err := h.PromotionWizardService.SetFields(c.Request.Context(), c.Param("id"), req.Fields)
	h.respondWizard(c, session, err, "error.internal")
}

// ToggleWizardProductRequest 切换商品请求
type ToggleWizardProductRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// TogglePromotionWizardProduct 切换商品选中
func (h *Handler) TogglePromotionWizardProduct(c *gin.Context) {
	var req ToggleWizardProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	session, err := h.PromotionWizardService.ToggleProduct(c.Request.Context(), c.Param("id"), req.ProductID)
	h.respondWizard(c, session, err, "error.product_fetch_failed")
}

// ToggleWizardCategoryRequest 切换分类请求
type ToggleWizardCategoryRequest struct {
	CategoryID uint `json:"category_id" binding:"required"`
}

// TogglePromotionWizardCategory 切换分类选中
func (h *Handler) TogglePromotionWizardCategory(c *gin.Context) {
	var req ToggleWizardCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	session, err := h.PromotionWizardService.ToggleCategory(c.Request.Context(), c.Param("id"), req.CategoryID)
	h.respondWizard(c, session, err, "error.category_fetch_failed")
}

// SetWizardUnitRequest 指定单位请求；unit_id 为 0 表示取消
type SetWizardUnitRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	UnitID    uint `json:"unit_id"`
}

// SetPromotionWizardUnit 指定商品单位
func (h *Handler) SetPromotionWizardUnit(c *gin.Context) {
	var req SetWizardUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	session, err := h.PromotionWizardService.SetUnit(c.Request.Context(), c.Param("id"), req.ProductID, req.UnitID)
	h.respondWizard(c, session, err, "error.product_fetch_failed")
}

// NextPromotionWizardStep 校验当前步骤并前进
func (h *Handler) NextPromotionWizardStep(c *gin.Context) {
	session, result, err := h.PromotionWizardService.Next(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondWizard(c, session, err, "error.internal")
		return
	}
	respondStepResult(c, session, result)
}

// respondStepResult 步骤校验未通过时仍返回成功，由 step_ok 与字段错误表示结果
func respondStepResult(c *gin.Context, session *service.WizardSession, result promotion.StepResult) {
	view := newWizardView(session, requestLocale(c))
	ok := result.OK
	view.StepOK = &ok
	response.Success(c, view)
}

// BackWizardRequest 回退请求
type BackWizardRequest struct {
	Step int `json:"step" binding:"required"`
}

// BackPromotionWizardStep 回到之前的步骤
func (h *Handler) BackPromotionWizardStep(c *gin.Context) {
	var req BackWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	session, err := h.PromotionWizardService.Back(c.Request.Context(), c.Param("id"), promotion.Step(req.Step))
	h.respondWizard(c, session, err, "error.internal")
}

// ValidatePromotionWizardStep 校验指定步骤（默认当前步骤）
func (h *Handler) ValidatePromotionWizardStep(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	var step promotion.Step
	if raw := strings.TrimSpace(c.Query("step")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.wizard_step_invalid", nil)
			return
		}
		step = promotion.Step(value)
	} else {
		current, err := h.PromotionWizardService.Get(ctx, id)
		if err != nil {
			respondServiceError(c, err, "error.internal")
			return
		}
		step = current.Wizard.Step
	}

	session, result, err := h.PromotionWizardService.Validate(ctx, id, step)
	if err != nil {
		h.respondWizard(c, session, err, "error.internal")
		return
	}
	respondStepResult(c, session, result)
}

// SubmitPromotionWizard 提交向导并创建或更新活动
func (h *Handler) SubmitPromotionWizard(c *gin.Context) {
	session, saved, err := h.PromotionWizardService.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondWizard(c, session, err, "error.promotion_create_failed")
		return
	}
	view := newWizardView(session, requestLocale(c))
	view.Promotion = saved
	response.Success(c, view)
}
