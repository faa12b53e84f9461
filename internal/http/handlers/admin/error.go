package admin

import (
	"errors"

	handlershared "github.com/freshcart-admin/internal/http/handlers/shared"
	"github.com/freshcart-admin/internal/http/response"
	"github.com/freshcart-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorWithData(c *gin.Context, code int, key string, data interface{}, err error) {
	handlershared.RespondErrorWithData(c, code, key, data, err)
}

type errorMapping struct {
	target   error
	code     int
	key      string
	internal bool
}

// serviceErrorMappings 顺序即匹配优先级
var serviceErrorMappings = []errorMapping{
	{target: service.ErrWizardNotFound, code: response.CodeNotFound, key: "error.wizard_not_found"},
	{target: service.ErrWizardBusy, code: response.CodeConflict, key: "error.wizard_busy"},
	{target: service.ErrWizardClosed, code: response.CodeConflict, key: "error.wizard_closed"},
	{target: service.ErrWizardFieldInvalid, code: response.CodeBadRequest, key: "error.wizard_field_invalid"},
	{target: service.ErrWizardStepInvalid, code: response.CodeBadRequest, key: "error.wizard_step_invalid"},
	{target: service.ErrWizardValidationFailed, code: response.CodeUnprocessable, key: "error.wizard_validation_failed"},
	{target: service.ErrPromotionInvalid, code: response.CodeBadRequest, key: "error.promotion_invalid"},
	{target: service.ErrPromotionNotFound, code: response.CodeNotFound, key: "error.promotion_not_found"},
	{target: service.ErrPromotionListNotFound, code: response.CodeNotFound, key: "error.promotion_list_not_found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrImportFileInvalid, code: response.CodeBadRequest, key: "error.import_file_invalid"},
	{target: service.ErrImportEmpty, code: response.CodeBadRequest, key: "error.import_empty"},
	{target: service.ErrImportTooManyRows, code: response.CodeBadRequest, key: "error.import_too_many_rows"},
	{target: service.ErrImportPreviewNotFound, code: response.CodeNotFound, key: "error.import_preview_not_found"},
	{target: service.ErrImportBusy, code: response.CodeConflict, key: "error.import_busy"},
	{target: service.ErrSessionStoreUnavailable, code: response.CodeServiceUnavailable, key: "error.session_store_unavailable", internal: true},
	{target: service.ErrPromotionCreateFailed, code: response.CodeInternal, key: "error.promotion_create_failed", internal: true},
	{target: service.ErrPromotionUpdateFailed, code: response.CodeInternal, key: "error.promotion_update_failed", internal: true},
	{target: service.ErrPromotionDeleteFailed, code: response.CodeInternal, key: "error.promotion_delete_failed", internal: true},
	{target: service.ErrPromotionFetchFailed, code: response.CodeInternal, key: "error.promotion_fetch_failed", internal: true},
	{target: service.ErrPromotionListFetchFailed, code: response.CodeInternal, key: "error.promotion_list_fetch_failed", internal: true},
	{target: service.ErrCategoryFetchFailed, code: response.CodeInternal, key: "error.category_fetch_failed", internal: true},
	{target: service.ErrProductFetchFailed, code: response.CodeInternal, key: "error.product_fetch_failed", internal: true},
	{target: service.ErrExportFailed, code: response.CodeInternal, key: "error.export_failed", internal: true},
	{target: service.ErrImportApplyFailed, code: response.CodeInternal, key: "error.import_apply_failed", internal: true},
}

// mapServiceError 服务层错误 -> 业务码与消息 key；未识别的错误按 fallbackKey 归为内部错误
func mapServiceError(err error, fallbackKey string) *response.AppError {
	for _, mapping := range serviceErrorMappings {
		if errors.Is(err, mapping.target) {
			appErr := &response.AppError{Code: mapping.code, Key: mapping.key}
			if mapping.internal {
				appErr.Cause = err
			}
			return appErr
		}
	}
	if fallbackKey == "" {
		fallbackKey = "error.internal"
	}
	return &response.AppError{Code: response.CodeInternal, Key: fallbackKey, Cause: err}
}

func respondServiceError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondAppError(c, mapServiceError(err, fallbackKey))
}
