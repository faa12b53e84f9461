package admin

import (
	handlershared "github.com/freshcart-admin/internal/http/handlers/shared"
	"github.com/freshcart-admin/internal/http/response"
	"github.com/freshcart-admin/internal/i18n"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context) (uint, bool) {
	return handlershared.ParseUintParam(c, "id")
}

// queryUint 可选的正整数查询参数
func queryUint(c *gin.Context, key string) (uint, bool) {
	value, err := handlershared.ParseOptionalUint(c.Query(key))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return 0, false
	}
	return value, true
}

func queryPagination(c *gin.Context) (int, int) {
	return handlershared.QueryPagination(c, handlershared.DefaultPageBounds)
}

// listPageBounds 向导下拉的活动列表一次取满一页，条数来自 wizard.list_page_size
func (h *Handler) listPageBounds() handlershared.PageBounds {
	bounds := handlershared.DefaultPageBounds
	if h.Config != nil && h.Config.Wizard.ListPageSize > 0 {
		bounds.Default = h.Config.Wizard.ListPageSize
		if bounds.Max < bounds.Default {
			bounds.Max = bounds.Default
		}
	}
	return bounds
}

func requestLocale(c *gin.Context) string {
	return i18n.ResolveLocale(c)
}
