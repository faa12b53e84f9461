package admin

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/freshcart-admin/internal/http/response"
	"github.com/freshcart-admin/internal/i18n"
	"github.com/freshcart-admin/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultMaxImportBytes = 10 << 20
)

func (h *Handler) maxImportBytes() int64 {
	if h.Container != nil && h.Config != nil && h.Config.Import.MaxFileSizeMB > 0 {
		return int64(h.Config.Import.MaxFileSizeMB) << 20
	}
	return defaultMaxImportBytes
}

func sendWorkbook(c *gin.Context, filename string, content []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}

func workbookName(list *models.PromotionList, suffix string) string {
	return fmt.Sprintf("promotions-%d-%s-%s.xlsx", list.ID, strings.ReplaceAll(list.Type, "_", "-"), suffix)
}

func queryListID(c *gin.Context) (uint, bool) {
	listID, ok := queryUint(c, "promotion_list_id")
	if !ok {
		return 0, false
	}
	if listID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return listID, true
}

// DownloadPromotionImportTemplate 下载指定活动列表的导入模板
func (h *Handler) DownloadPromotionImportTemplate(c *gin.Context) {
	listID, ok := queryListID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	list, err := h.PromotionImportService.Template(c.Request.Context(), listID, &buf)
	if err != nil {
		respondServiceError(c, err, "error.export_failed")
		return
	}
	sendWorkbook(c, workbookName(list, "template"), buf.Bytes())
}

// ExportPromotions 按导入格式导出活动
func (h *Handler) ExportPromotions(c *gin.Context) {
	listID, ok := queryListID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	list, err := h.PromotionImportService.Export(c.Request.Context(), listID, &buf)
	if err != nil {
		respondServiceError(c, err, "error.export_failed")
		return
	}
	sendWorkbook(c, workbookName(list, "export"), buf.Bytes())
}

// PreviewPromotionImport 上传表格并生成导入预览（不写入数据）
func (h *Handler) PreviewPromotionImport(c *gin.Context) {
	listID, err := strconv.ParseUint(strings.TrimSpace(c.PostForm("promotion_list_id")), 10, 64)
	if err != nil || listID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if fileHeader.Size > h.maxImportBytes() {
		respondError(c, response.CodeBadRequest, "error.import_file_too_large", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.import_file_invalid", err)
		return
	}
	defer file.Close()

	preview, err := h.PromotionImportService.Preview(c.Request.Context(), uint(listID), fileHeader.Filename, file)
	if err != nil {
		respondServiceError(c, err, "error.import_file_invalid")
		return
	}
	requestLog(c).Infow("admin_promotion_import_previewed",
		"preview_id", preview.ID,
		"promotion_list_id", preview.PromotionListID,
		"total", preview.Total,
		"valid", preview.Valid,
		"invalid", preview.Invalid,
	)
	preview.Localize(requestLocale(c))
	response.Success(c, preview)
}

// GetPromotionImport 获取导入预览
func (h *Handler) GetPromotionImport(c *gin.Context) {
	preview, err := h.PromotionImportService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	preview.Localize(requestLocale(c))
	response.Success(c, preview)
}

// CancelPromotionImport 丢弃导入预览
func (h *Handler) CancelPromotionImport(c *gin.Context) {
	if err := h.PromotionImportService.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, nil)
}

// ConfirmPromotionImport 提交预览中的有效活动；部分失败不回滚
func (h *Handler) ConfirmPromotionImport(c *gin.Context) {
	result, err := h.PromotionImportService.Apply(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "error.import_apply_failed")
		return
	}
	locale := requestLocale(c)
	result.Localize(locale)
	if result.Failed > 0 {
		response.SuccessWithMsg(c, i18n.Tf(locale, "error.import_partial", result.Imported, result.Failed), result)
		return
	}
	response.Success(c, result)
}
