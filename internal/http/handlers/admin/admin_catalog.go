package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/freshcart-admin/internal/http/handlers/shared"
	"github.com/freshcart-admin/internal/http/response"
	"github.com/freshcart-admin/internal/i18n"
	"github.com/freshcart-admin/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// productOption 商品搜索结果项
type productOption struct {
	ID         uint            `json:"id"`
	CategoryID uint            `json:"category_id"`
	Slug       string          `json:"slug"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	UnitCount  int             `json:"unit_count"`
}

func toProductOptions(products []models.Product, locale string) []productOption {
	out := make([]productOption, 0, len(products))
	for i := range products {
		product := &products[i]
		out = append(out, productOption{
			ID:         product.ID,
			CategoryID: product.CategoryID,
			Slug:       product.Slug,
			SKU:        product.SKU,
			Name:       product.DisplayName(locale, i18n.DefaultFallbackChain...),
			Price:      product.PriceAmount.Decimal,
			UnitCount:  len(product.Units),
		})
	}
	return out
}

// GetPromotionLists 可选活动列表（可按活动类型过滤）
func (h *Handler) GetPromotionLists(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c, h.listPageBounds())
	lists, total, err := h.PromotionWizardService.PromotionLists(c.Request.Context(), strings.TrimSpace(c.Query("type")), page, pageSize)
	if err != nil {
		respondServiceError(c, err, "error.promotion_list_fetch_failed")
		return
	}
	response.SuccessWithPage(c, lists, response.BuildPagination(page, pageSize, total))
}

// GetFlatCategories 扁平化分类树
func (h *Handler) GetFlatCategories(c *gin.Context) {
	categories, err := h.PromotionWizardService.Categories(c.Request.Context(), requestLocale(c))
	if err != nil {
		respondServiceError(c, err, "error.category_fetch_failed")
		return
	}
	response.Success(c, categories)
}

// SearchProducts 按名称或编码搜索商品
func (h *Handler) SearchProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	products, err := h.PromotionWizardService.SearchProducts(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondServiceError(c, err, "error.product_fetch_failed")
		return
	}
	response.Success(c, toProductOptions(products, requestLocale(c)))
}

// GetProductUnits 商品可选单位
func (h *Handler) GetProductUnits(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}
	units, err := h.PromotionWizardService.UnitsFor(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err, "error.product_fetch_failed")
		return
	}
	response.Success(c, units)
}
