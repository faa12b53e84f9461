package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/freshcart-admin/internal/config"
	"github.com/freshcart-admin/internal/logger"
	"github.com/freshcart-admin/internal/models"
	"github.com/freshcart-admin/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Init("debug", logger.Options{})
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	cfg := &config.Config{}
	return SetupRouter(cfg, provider.NewContainer(cfg, db))
}

func TestHealthzReportsDependencies(t *testing.T) {
	r := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int               `json:"status_code"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 0 || resp.Data["database"] != "ok" || resp.Data["session_store"] != "ok" {
		t.Fatalf("unexpected health response %s", w.Body.String())
	}
}

func TestMetricsEndpointExposesCounters(t *testing.T) {
	r := setupTestRouter(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/admin/promotion-lists", nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "promo_admin_http_requests_total") {
		t.Fatalf("expected admin request counter in metrics output")
	}
}

func TestAdminRoutesRegistered(t *testing.T) {
	r := setupTestRouter(t)
	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /api/v1/admin/promotion-lists",
		"GET /api/v1/admin/categories/flat",
		"GET /api/v1/admin/products/search",
		"GET /api/v1/admin/products/:id/units",
		"POST /api/v1/admin/promotion-wizards",
		"PATCH /api/v1/admin/promotion-wizards/:id/fields",
		"PUT /api/v1/admin/promotion-wizards/:id/units",
		"GET /api/v1/admin/promotion-wizards/:id/validate",
		"POST /api/v1/admin/promotion-wizards/:id/submit",
		"DELETE /api/v1/admin/promotions/:id",
		"GET /api/v1/admin/promotions/export",
		"GET /api/v1/admin/promotion-imports/template",
		"POST /api/v1/admin/promotion-imports/preview",
		"POST /api/v1/admin/promotion-imports/:id/confirm",
	} {
		if !registered[want] {
			t.Fatalf("route %s not registered", want)
		}
	}
}
