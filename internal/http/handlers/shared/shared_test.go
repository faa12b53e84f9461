package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizePagination(t *testing.T) {
	page, size := NormalizePagination(0, 500)
	if page != 1 || size != 100 {
		t.Fatalf("unexpected normalized values %d/%d", page, size)
	}
	page, size = NormalizePagination(3, 0)
	if page != 3 || size != 20 {
		t.Fatalf("unexpected defaults %d/%d", page, size)
	}
	page, size = PageBounds{Default: 150}.Normalize(1, 0)
	if page != 1 || size != 150 {
		t.Fatalf("max should grow to the default, got %d/%d", page, size)
	}
}

func TestQueryPaginationIgnoresGarbage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/promotions?page=x&page_size=40", nil)

	page, size := QueryPagination(c, DefaultPageBounds)
	if page != 1 || size != 40 {
		t.Fatalf("unexpected pagination %d/%d", page, size)
	}
}

func TestParseUintParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/promotions/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	if _, ok := ParseUintParam(c, "id"); ok {
		t.Fatalf("expected invalid id rejected")
	}

	c.Params = gin.Params{{Key: "id", Value: "12"}}
	if id, ok := ParseUintParam(c, "id"); !ok || id != 12 {
		t.Fatalf("expected id 12, got %d ok=%v", id, ok)
	}

	if id, err := ParseOptionalUint(" "); err != nil || id != 0 {
		t.Fatalf("expected blank to parse as zero, got %d err=%v", id, err)
	}
	if _, err := ParseOptionalUint("-1"); err == nil {
		t.Fatalf("expected negative rejected")
	}
}
