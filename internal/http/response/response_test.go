package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBuildPaginationRoundsUp(t *testing.T) {
	p := BuildPagination(2, 20, 41)
	if p.TotalPage != 3 || p.Page != 2 || p.Total != 41 {
		t.Fatalf("unexpected pagination %+v", p)
	}
	if empty := BuildPagination(1, 0, 10); empty.TotalPage != 0 {
		t.Fatalf("expected zero pages for zero page size, got %+v", empty)
	}
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(RequestIDKey, "req-7")

	ErrorWithData(c, CodeConflict, "busy", gin.H{"wizard_id": "w1"})

	var body struct {
		StatusCode int                    `json:"status_code"`
		Msg        string                 `json:"msg"`
		Data       map[string]interface{} `json:"data"`
		RequestID  string                 `json:"request_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.StatusCode != CodeConflict || body.RequestID != "req-7" || body.Data["wizard_id"] != "w1" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestUnavailableUsesHTTP503(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Unavailable(c, "unhealthy", gin.H{"database": "unavailable"})

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.StatusCode != CodeServiceUnavailable || body.RequestID != "" {
		t.Fatalf("unexpected body %+v", body)
	}
}
