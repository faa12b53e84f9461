package admin

import (
	"errors"
	"fmt"
	"testing"

	"github.com/freshcart-admin/internal/http/response"
	"github.com/freshcart-admin/internal/service"
)

func TestMapServiceError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		code     int
		key      string
		internal bool
	}{
		{name: "wrapped busy", err: fmt.Errorf("submit: %w", service.ErrWizardBusy), code: response.CodeConflict, key: "error.wizard_busy"},
		{name: "validation", err: &service.ValidationError{}, code: response.CodeBadRequest, key: "error.promotion_invalid"},
		{name: "store down", err: service.ErrSessionStoreUnavailable, code: response.CodeServiceUnavailable, key: "error.session_store_unavailable", internal: true},
		{name: "import busy", err: service.ErrImportBusy, code: response.CodeConflict, key: "error.import_busy"},
		{name: "unknown", err: errors.New("boom"), code: response.CodeInternal, key: "error.export_failed", internal: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := mapServiceError(tc.err, "error.export_failed")
			if appErr.Code != tc.code || appErr.Key != tc.key || appErr.Internal() != tc.internal {
				t.Fatalf("got (%d, %s, %v)", appErr.Code, appErr.Key, appErr.Internal())
			}
			if tc.internal && !errors.Is(appErr, tc.err) {
				t.Fatalf("internal error should keep its cause, got %v", appErr)
			}
		})
	}
	if appErr := mapServiceError(errors.New("boom"), ""); appErr.Key != "error.internal" {
		t.Fatalf("empty fallback should use error.internal, got %s", appErr.Key)
	}
}
