package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestParsePagination_Defaults(t *testing.T) {
	c, _ := newContext("/?")

	p := ParsePagination(c)
	if p.Limit != 10 {
		t.Fatalf("expected default limit 10, got %d", p.Limit)
	}
	if p.Page != 1 {
		t.Fatalf("expected default page 1, got %d", p.Page)
	}
}

func TestParsePagination_InvalidParams(t *testing.T) {
	c, w := newContext("/?limit=abc&page=-1")

	p := ParsePagination(c)
	if !c.IsAborted() {
		t.Fatalf("expected context to be aborted for invalid params, pagination=%+v", p)
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestParsePagination_CapsAtMaxLimit(t *testing.T) {
	SetMaxLimit(50)
	defer SetMaxLimit(1000)

	c, _ := newContext("/?limit=500&page=3")
	p := ParsePagination(c)
	if p.Limit != 50 || p.Offset != 100 {
		t.Fatalf("expected limit 50 offset 100, got %+v", p)
	}
}

func TestParseOptionalLimit(t *testing.T) {
	c, _ := newContext("/")
	if n, ok := ParseOptionalLimit(c); !ok || n != 0 {
		t.Fatalf("expected no limit, got %d %v", n, ok)
	}

	c, _ = newContext("/?limit=5")
	if n, ok := ParseOptionalLimit(c); !ok || n != 5 {
		t.Fatalf("expected limit 5, got %d %v", n, ok)
	}

	c, w := newContext("/?limit=0")
	if _, ok := ParseOptionalLimit(c); ok || w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero limit, got %d", w.Code)
	}
}
