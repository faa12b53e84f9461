package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/freshcart-admin/internal/promotion"
)

var (
	ErrPromotionInvalid         = errors.New("promotion invalid")
	ErrPromotionNotFound        = errors.New("promotion not found")
	ErrPromotionCreateFailed    = errors.New("promotion create failed")
	ErrPromotionUpdateFailed    = errors.New("promotion update failed")
	ErrPromotionDeleteFailed    = errors.New("promotion delete failed")
	ErrPromotionFetchFailed     = errors.New("promotion fetch failed")
	ErrPromotionListNotFound    = errors.New("promotion list not found")
	ErrPromotionListFetchFailed = errors.New("promotion list fetch failed")
	ErrCategoryFetchFailed      = errors.New("category fetch failed")
	ErrProductFetchFailed       = errors.New("product fetch failed")
	ErrProductNotFound          = errors.New("product not found")
	ErrSessionStoreUnavailable  = errors.New("session store unavailable")
)

var (
	ErrWizardNotFound         = errors.New("wizard session not found")
	ErrWizardBusy             = errors.New("wizard session busy")
	ErrWizardClosed           = errors.New("wizard session finished")
	ErrWizardFieldInvalid     = errors.New("wizard field invalid")
	ErrWizardStepInvalid      = errors.New("wizard step invalid")
	ErrWizardValidationFailed = errors.New("wizard validation failed")
)

var (
	ErrImportFileInvalid     = errors.New("import file invalid")
	ErrImportEmpty           = errors.New("import file has no rows")
	ErrImportTooManyRows     = errors.New("import file has too many rows")
	ErrImportPreviewNotFound = errors.New("import preview not found")
	ErrImportBusy            = errors.New("import preview busy")
	ErrImportApplyFailed     = errors.New("import apply failed")
	ErrExportFailed          = errors.New("export failed")
)

// ValidationError 字段校验失败，Errors 为字段到 i18n key 的映射
type ValidationError struct {
	Errors promotion.FieldErrors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field, key := range e.Errors {
		fields = append(fields, field+"="+key)
	}
	sort.Strings(fields)
	return "promotion invalid: " + strings.Join(fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrPromotionInvalid }

// AsValidationError 提取字段校验错误
func AsValidationError(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
