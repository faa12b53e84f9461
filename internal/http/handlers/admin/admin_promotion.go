package admin

import (
	"strconv"
	"strings"

	"github.com/freshcart-admin/internal/http/response"
	"github.com/freshcart-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminPromotions 活动列表
func (h *Handler) GetAdminPromotions(c *gin.Context) {
	page, pageSize := queryPagination(c)
	listID, ok := queryUint(c, "promotion_list_id")
	if !ok {
		return
	}
	input := service.ListPromotionsInput{
		Page:            page,
		PageSize:        pageSize,
		PromotionListID: listID,
		Type:            strings.TrimSpace(c.Query("type")),
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		input.IsActive = &active
	}

	promotions, total, err := h.PromotionAdminService.List(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "error.promotion_fetch_failed")
		return
	}
	response.SuccessWithPage(c, promotions, response.BuildPagination(page, pageSize, total))
}

// GetAdminPromotion 活动详情
func (h *Handler) GetAdminPromotion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	promotion, err := h.PromotionAdminService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "error.promotion_fetch_failed")
		return
	}
	response.Success(c, promotion)
}

// DeletePromotion 删除活动
func (h *Handler) DeletePromotion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.PromotionAdminService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "error.promotion_delete_failed")
		return
	}
	response.Success(c, nil)
}
